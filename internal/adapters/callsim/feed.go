// Package callsim is a scripted stand-in for the external call model.
// The demo binary uses it to drive the engine through realistic call
// lifecycles without any signaling stack behind it.
package callsim

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/callscreen/internal/core"
	"github.com/dkeye/callscreen/internal/domain"
)

// Feed implements core.CallFeed. All observer notifications are
// posted onto the UI loop, one at a time, in order.
type Feed struct {
	loop *core.RunLoop

	mu   sync.Mutex
	obs  map[core.CallObserver]struct{}
	snap domain.CallSnapshot
}

func NewFeed(loop *core.RunLoop, direction domain.Direction) *Feed {
	return &Feed{
		loop: loop,
		obs:  make(map[core.CallObserver]struct{}),
		snap: domain.CallSnapshot{State: domain.CallStateIdle, Direction: direction},
	}
}

func (f *Feed) Subscribe(obs core.CallObserver) {
	f.mu.Lock()
	f.obs[obs] = struct{}{}
	f.mu.Unlock()
}

func (f *Feed) Unsubscribe(obs core.CallObserver) {
	f.mu.Lock()
	delete(f.obs, obs)
	f.mu.Unlock()
}

// Snapshot returns the current simulated call snapshot.
func (f *Feed) Snapshot() domain.CallSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *Feed) notify(fire func(obs core.CallObserver, snap domain.CallSnapshot)) {
	f.mu.Lock()
	snap := f.snap
	observers := make([]core.CallObserver, 0, len(f.obs))
	for o := range f.obs {
		observers = append(observers, o)
	}
	f.mu.Unlock()

	for _, o := range observers {
		o := o
		f.loop.Post(func() { fire(o, snap) })
	}
}

// SetState moves the simulated call to a new state. Entering
// Connected stamps ConnectedAt.
func (f *Feed) SetState(state domain.CallState) {
	f.mu.Lock()
	f.snap.State = state
	if state == domain.CallStateConnected && f.snap.ConnectedAt.IsZero() {
		f.snap.ConnectedAt = time.Now()
	}
	f.mu.Unlock()

	log.Info().Str("module", "callsim").Str("state", state.String()).Msg("simulated state change")
	f.notify(func(o core.CallObserver, s domain.CallSnapshot) { o.StateDidChange(s) })
}

// Fail moves the call to LocalFailure carrying a classified error.
func (f *Feed) Fail(kind domain.ErrorKind, msg string) {
	f.mu.Lock()
	f.snap.State = domain.CallStateLocalFailure
	f.snap.LastError = domain.CallError{Kind: kind, Message: msg}
	f.mu.Unlock()

	log.Info().Str("module", "callsim").Str("error", msg).Msg("simulated failure")
	f.notify(func(o core.CallObserver, s domain.CallSnapshot) { o.StateDidChange(s) })
}

func (f *Feed) SetMuted(muted bool) {
	f.mu.Lock()
	f.snap.IsMuted = muted
	f.mu.Unlock()
	f.notify(func(o core.CallObserver, s domain.CallSnapshot) { o.MuteDidChange(s) })
}

func (f *Feed) SetLocalVideo(enabled bool) {
	f.mu.Lock()
	f.snap.HasLocalVideo = enabled
	f.mu.Unlock()
	f.notify(func(o core.CallObserver, s domain.CallSnapshot) { o.HasLocalVideoDidChange(s) })
}
