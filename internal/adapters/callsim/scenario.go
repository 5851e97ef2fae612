package callsim

import (
	"context"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/callscreen/internal/adapters/audio"
	"github.com/dkeye/callscreen/internal/app"
	"github.com/dkeye/callscreen/internal/core"
	"github.com/dkeye/callscreen/internal/domain"
)

// NewTrack fabricates a video track handle. The engine treats handles
// as opaque, so a static local track serves for both ends of the
// simulated call.
func NewTrack(id string) (core.VideoTrack, error) {
	return webrtc.NewTrackLocalStaticRTP(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: 90000},
		id, "callscreen",
	)
}

// DirectionFor maps a scenario name to the call direction it needs.
func DirectionFor(scenario string) domain.Direction {
	if scenario == "incoming" {
		return domain.DirectionIncoming
	}
	return domain.DirectionOutgoing
}

// Run plays a scripted call against the engine. It blocks until the
// script ends or ctx is cancelled.
func Run(
	ctx context.Context,
	scenario string,
	feed *Feed,
	screen *app.CallScreenController,
	loop *core.RunLoop,
	svc *audio.SimService,
	callLength time.Duration,
) {
	log.Info().Str("module", "callsim").Str("scenario", scenario).Msg("scenario start")

	switch scenario {
	case "incoming":
		feed.SetState(domain.CallStateLocalRinging)
		if !pause(ctx, 3*time.Second) {
			return
		}
		feed.SetState(domain.CallStateAnswering)
		if !pause(ctx, 500*time.Millisecond) {
			return
		}
		feed.SetState(domain.CallStateConnected)
		if !pause(ctx, callLength) {
			return
		}
		feed.SetState(domain.CallStateLocalHangup)

	case "busy":
		feed.SetState(domain.CallStateDialing)
		if !pause(ctx, time.Second) {
			return
		}
		feed.SetState(domain.CallStateRemoteRinging)
		if !pause(ctx, 2*time.Second) {
			return
		}
		feed.SetState(domain.CallStateRemoteBusy)

	case "no-answer":
		feed.SetState(domain.CallStateDialing)
		if !pause(ctx, time.Second) {
			return
		}
		feed.SetState(domain.CallStateRemoteRinging)
		if !pause(ctx, 5*time.Second) {
			return
		}
		feed.Fail(domain.ErrorKindTimeout, "request timed out")

	case "video":
		feed.SetState(domain.CallStateDialing)
		if !pause(ctx, time.Second) {
			return
		}
		feed.SetState(domain.CallStateRemoteRinging)
		if !pause(ctx, 2*time.Second) {
			return
		}
		feed.SetState(domain.CallStateConnected)
		if !pause(ctx, 2*time.Second) {
			return
		}

		feed.SetLocalVideo(true)
		local, err := NewTrack("local-camera")
		if err != nil {
			log.Error().Err(err).Str("module", "callsim").Msg("fabricate local track")
			return
		}
		remote, err := NewTrack("remote-camera")
		if err != nil {
			log.Error().Err(err).Str("module", "callsim").Msg("fabricate remote track")
			return
		}
		loop.Post(func() { screen.BindLocalVideo(local) })
		loop.Post(func() { screen.BindRemoteVideo(remote) })

		if !pause(ctx, callLength) {
			return
		}
		feed.SetState(domain.CallStateRemoteHangup)

	default: // "outgoing"
		feed.SetState(domain.CallStateDialing)
		if !pause(ctx, time.Second) {
			return
		}
		feed.SetState(domain.CallStateRemoteRinging)
		if !pause(ctx, 2*time.Second) {
			return
		}
		feed.SetState(domain.CallStateConnected)
		if !pause(ctx, 3*time.Second) {
			return
		}
		headset := svc.PlugDevice("AirPods")
		if !pause(ctx, callLength) {
			return
		}
		svc.UnplugDevice(headset)
		feed.SetState(domain.CallStateRemoteHangup)
	}

	log.Info().Str("module", "callsim").Str("scenario", scenario).Msg("scenario done")
}

func pause(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
