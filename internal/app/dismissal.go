package app

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/callscreen/internal/core"
	"github.com/dkeye/callscreen/internal/domain"
)

const (
	// DismissDelay holds a terminal screen up briefly so the final
	// status text is readable before teardown.
	DismissDelay = 1500 * time.Millisecond
	// NagAutoResolveDelay is how long the fleeting settings nag stays
	// up before dismissal re-fires on its own.
	NagAutoResolveDelay = 5 * time.Second
)

// DismissalPhase is the lifecycle of the teardown state machine.
type DismissalPhase int

const (
	DismissalActive DismissalPhase = iota
	DismissalNagPending
	DismissalDone
)

// DismissalPolicy sequences end-of-call screen teardown: the one-time
// settings nag interstitial, the delayed exit, and the latch that makes
// every dismissal request after the first a no-op.
type DismissalPolicy struct {
	sched    core.Scheduler
	wm       core.WindowManager
	prefs    core.Preferences
	platform core.Platform

	// direction reads the current call direction at request time.
	direction func() domain.Direction

	phase        DismissalPhase
	hasDismissed bool

	// generation invalidates scheduled callbacks; a callback captured
	// under an older generation must not act.
	generation int

	completion  func()
	onNagChange func(showing bool)
}

func NewDismissalPolicy(
	sched core.Scheduler,
	wm core.WindowManager,
	prefs core.Preferences,
	platform core.Platform,
	direction func() domain.Direction,
) *DismissalPolicy {
	if sched == nil || wm == nil || prefs == nil || platform == nil || direction == nil {
		panic("dismissal: nil collaborator")
	}
	return &DismissalPolicy{
		sched:     sched,
		wm:        wm,
		prefs:     prefs,
		platform:  platform,
		direction: direction,
	}
}

// SetCompletion registers a callback invoked once, right after the
// window manager tears the screen down.
func (p *DismissalPolicy) SetCompletion(fn func()) { p.completion = fn }

// SetNagObserver registers a callback fired whenever the nag panel
// shows or resolves, so callers can reproject.
func (p *DismissalPolicy) SetNagObserver(fn func(showing bool)) { p.onNagChange = fn }

// HasDismissed reports whether the one-way dismissal latch is set.
func (p *DismissalPolicy) HasDismissed() bool { return p.hasDismissed }

// IsShowingNag reports whether the settings nag interstitial is up.
func (p *DismissalPolicy) IsShowingNag() bool { return p.phase == DismissalNagPending }

// Phase returns the current machine phase.
func (p *DismissalPolicy) Phase() DismissalPhase { return p.phase }

// Invalidate abandons any scheduled callbacks. Called when the screen
// is torn down externally so a stale timer cannot revive it.
func (p *DismissalPolicy) Invalidate() { p.generation++ }

// RequestDismiss runs the dismissal protocol. Must be called on the
// UI loop. Once the latch is set every further call is a no-op, no
// matter the arguments.
func (p *DismissalPolicy) RequestDismiss(delayed, ignoreNag bool) {
	if p.hasDismissed {
		return
	}

	if !ignoreNag && p.shouldShowNag() {
		p.enterNag(delayed)
		return
	}

	if p.phase == DismissalNagPending {
		p.resolveNag()
	}

	// Latch before any deferred work so re-entrant requests no-op.
	p.hasDismissed = true
	p.phase = DismissalDone
	log.Info().Str("module", "app.dismissal").Bool("delayed", delayed).Msg("dismissal latched")

	if delayed {
		gen := p.generation
		p.sched.After(DismissDelay, func() {
			if gen != p.generation {
				return
			}
			p.teardown()
		})
		return
	}
	p.teardown()
}

// shouldShowNag: incoming call, the platform has the privacy-sensitive
// call-answering integration, and the preference combination asks for
// a reminder.
func (p *DismissalPolicy) shouldShowNag() bool {
	if p.direction() != domain.DirectionIncoming {
		return false
	}
	if !p.platform.SupportsCallIntegration() {
		return false
	}
	return !p.prefs.IntegrationEnabled() || p.prefs.IntegrationPrivacyMode()
}

func (p *DismissalPolicy) enterNag(delayed bool) {
	if p.phase == DismissalNagPending {
		return
	}
	p.phase = DismissalNagPending
	log.Info().Str("module", "app.dismissal").Msg("showing settings nag")
	if p.onNagChange != nil {
		p.onNagChange(true)
	}

	// A user who already made an explicit choice gets a fleeting
	// reminder, not a blocking one.
	if p.prefs.IntegrationEnabledIsSet() || p.prefs.IntegrationPrivacyModeIsSet() {
		gen := p.generation
		p.sched.After(NagAutoResolveDelay, func() {
			if gen != p.generation || p.hasDismissed {
				return
			}
			p.RequestDismiss(delayed, true)
		})
	}
}

func (p *DismissalPolicy) resolveNag() {
	p.phase = DismissalActive
	if p.onNagChange != nil {
		p.onNagChange(false)
	}
}

func (p *DismissalPolicy) teardown() {
	log.Info().Str("module", "app.dismissal").Msg("tearing down call screen")
	p.wm.EndCall()
	p.wm.LeaveCallView()
	if p.completion != nil {
		p.completion()
	}
}
