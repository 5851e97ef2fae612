package app

import (
	"fmt"
	"time"

	"github.com/dkeye/callscreen/internal/core"
	"github.com/dkeye/callscreen/internal/domain"
)

// ProjectorInput is the complete tuple the UI state derives from.
// Now is passed in rather than read from the wall clock so the
// projection stays a pure function.
type ProjectorInput struct {
	Call domain.CallSnapshot

	ShowingNag bool

	LocalVideoVisible  bool
	RemoteVideoVisible bool

	HasAlternateSources bool
	SpeakerphoneOn      bool
	CurrentSource       domain.AudioSource
	HasCurrentSource    bool

	HideControlsToggled bool

	Now time.Time
}

// Project derives the full control state for the call screen.
// It is side-effect free and idempotent: identical input always yields
// identical output, so it is safe to call after every field change.
func Project(in ProjectorInput) core.UIStateSnapshot {
	incoming := in.Call.State == domain.CallStateLocalRinging

	snap := core.UIStateSnapshot{
		StatusText: statusText(in.Call, in.Now),

		ShowIncomingControls: incoming && !in.ShowingNag,
		ShowOngoingControls:  !incoming && !in.ShowingNag,

		MuteSelected:      in.Call.IsMuted,
		VideoModeSelected: in.Call.HasLocalVideo,

		AudioControlsHidden: in.LocalVideoVisible,
		VideoControlsHidden: !in.LocalVideoVisible,

		RemoteControlsHidden: in.RemoteVideoVisible && in.HideControlsToggled,

		LocalVideoVisible:  in.LocalVideoVisible,
		RemoteVideoVisible: in.RemoteVideoVisible,

		AudioSourceVisible:  in.HasAlternateSources,
		AudioSourceSelected: in.SpeakerphoneOn,
		AudioSourceIcon:     audioSourceIcon(in),

		NagVisible:   in.ShowingNag,
		AvatarHidden: in.ShowingNag,
	}
	return snap
}

func audioSourceIcon(in ProjectorInput) core.AudioSourceIcon {
	if in.HasCurrentSource && in.CurrentSource.Kind == domain.AudioSourceExternalDevice {
		return core.AudioIconHeadset
	}
	return core.AudioIconSpeaker
}

// statusText is a total mapping from call state to user-facing text;
// every state has a rendering so no case can fall through blank.
func statusText(call domain.CallSnapshot, now time.Time) string {
	switch call.State {
	case domain.CallStateIdle:
		return ""
	case domain.CallStateDialing:
		return "Calling..."
	case domain.CallStateLocalRinging:
		return "Incoming Call"
	case domain.CallStateRemoteRinging:
		return "Ringing..."
	case domain.CallStateAnswering:
		return "Answering..."
	case domain.CallStateConnected:
		elapsed := time.Duration(0)
		if !call.ConnectedAt.IsZero() && now.After(call.ConnectedAt) {
			elapsed = now.Sub(call.ConnectedAt)
		}
		return FormatCallDuration(elapsed)
	case domain.CallStateRemoteBusy:
		return "Busy"
	case domain.CallStateLocalFailure:
		if call.LastError.Kind == domain.ErrorKindTimeout && call.Direction == domain.DirectionOutgoing {
			return "No Answer"
		}
		return "Call Failed"
	case domain.CallStateRemoteHangup, domain.CallStateLocalHangup:
		return "Call Ended"
	default:
		return ""
	}
}

// FormatCallDuration renders elapsed connection time as h:mm:ss, with
// the hour segment dropped entirely under one hour (45s -> "0:45",
// 3725s -> "1:02:05").
func FormatCallDuration(d time.Duration) string {
	total := int(d.Seconds())
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
