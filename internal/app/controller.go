package app

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/callscreen/internal/core"
	"github.com/dkeye/callscreen/internal/domain"
)

// StatusTickInterval refreshes the connected-duration text. Nothing
// else on the screen depends on the tick.
const StatusTickInterval = 50 * time.Millisecond

// Deps are the collaborators a call screen needs. Every field is
// required; the controller is fully initialized at construction so no
// projection can ever observe a missing reference.
type Deps struct {
	Feed      core.CallFeed
	Audio     core.AudioService
	WM        core.WindowManager
	Prefs     core.Preferences
	Platform  core.Platform
	Sched     core.Scheduler
	Publisher core.StatePublisher

	LocalSurface  core.RenderSurface
	RemoteSurface core.RenderSurface

	// Now defaults to time.Now; tests inject a fixed clock.
	Now func() time.Time
}

// CallScreenController receives external call/audio/video events,
// updates the entities it owns, reprojects the UI state, and routes
// terminal call states through the dismissal policy. Every method must
// run on the UI loop.
type CallScreenController struct {
	deps Deps

	snap      domain.CallSnapshot
	routes    *AudioRouteCoordinator
	binder    *VideoTrackBinder
	dismissal *DismissalPolicy

	hideControls   bool
	speakerphoneOn bool

	tickCancel core.CancelFunc
}

func NewCallScreenController(deps Deps) *CallScreenController {
	if deps.Feed == nil || deps.Audio == nil || deps.WM == nil ||
		deps.Prefs == nil || deps.Platform == nil || deps.Sched == nil ||
		deps.Publisher == nil || deps.LocalSurface == nil || deps.RemoteSurface == nil {
		panic("controller: nil collaborator")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	c := &CallScreenController{
		deps:   deps,
		routes: NewAudioRouteCoordinator(deps.Audio),
		binder: NewVideoTrackBinder(deps.LocalSurface, deps.RemoteSurface),
	}
	c.dismissal = NewDismissalPolicy(deps.Sched, deps.WM, deps.Prefs, deps.Platform,
		func() domain.Direction { return c.snap.Direction })
	c.dismissal.SetNagObserver(func(bool) { c.project() })
	c.dismissal.SetCompletion(c.didTearDown)
	return c
}

// Start subscribes to the call model and the audio session and
// publishes the first snapshot.
func (c *CallScreenController) Start() {
	c.deps.Feed.Subscribe(c)
	c.deps.Audio.SetDelegate(c)
	c.routes.Observe(c.deps.Audio.AvailableInputs())
	c.project()
}

// Routes exposes the audio route coordinator for pickers.
func (c *CallScreenController) Routes() *AudioRouteCoordinator { return c.routes }

// Dismissal exposes the dismissal state machine.
func (c *CallScreenController) Dismissal() *DismissalPolicy { return c.dismissal }

// ---- core.CallObserver ----

func (c *CallScreenController) StateDidChange(snap domain.CallSnapshot) {
	prev := c.snap.State
	c.snap = snap
	log.Info().Str("module", "app.controller").
		Str("from", prev.String()).
		Str("to", snap.State.String()).
		Msg("call state changed")

	if snap.State == domain.CallStateConnected && prev != domain.CallStateConnected {
		c.startTick()
	}
	if snap.State != domain.CallStateConnected {
		c.stopTick()
	}

	switch snap.State {
	case domain.CallStateRemoteHangup, domain.CallStateRemoteBusy, domain.CallStateLocalFailure:
		c.dismissal.RequestDismiss(true, false)
	case domain.CallStateLocalHangup:
		c.dismissal.RequestDismiss(false, false)
	}

	c.project()
}

func (c *CallScreenController) MuteDidChange(snap domain.CallSnapshot) {
	c.snap = snap
	c.project()
}

func (c *CallScreenController) HasLocalVideoDidChange(snap domain.CallSnapshot) {
	c.snap = snap
	// The earpiece route is useless on a video call; move audio to the
	// speaker unless an external device is already routed.
	if snap.HasLocalVideo {
		if cur, ok := c.deps.Audio.CurrentSource(); !ok || cur.Kind == domain.AudioSourceBuiltInMic {
			c.deps.Audio.RequestSpeakerphone(true)
		}
	}
	c.project()
}

func (c *CallScreenController) AudioSourceDidChange(snap domain.CallSnapshot) {
	c.snap = snap
	c.project()
}

// ---- core.AudioSessionDelegate ----

func (c *CallScreenController) AudioSessionDidChange(available []domain.AudioSource) {
	c.routes.Observe(available)
	c.project()
}

func (c *CallScreenController) SpeakerphoneDidChange(enabled bool) {
	c.speakerphoneOn = enabled
	c.project()
}

// ---- video ----

// BindLocalVideo attaches (or with nil detaches) the local track.
func (c *CallScreenController) BindLocalVideo(track core.VideoTrack) {
	if c.binder.BindLocal(track) {
		c.project()
	}
}

// BindRemoteVideo attaches (or with nil detaches) the remote track.
// A fresh remote stream never inherits a stale hidden-controls state.
func (c *CallScreenController) BindRemoteVideo(track core.VideoTrack) {
	if c.binder.BindRemote(track) {
		c.hideControls = false
		c.project()
	}
}

// ---- user input ----

// ScreenTapped toggles the hide-controls flag while remote video is
// up; on a voice-only screen the tap is ignored.
func (c *CallScreenController) ScreenTapped() {
	if !c.binder.RemoteVisible() {
		return
	}
	c.hideControls = !c.hideControls
	c.project()
}

// AppForegrounded resets the hide-controls flag so a returning user
// always sees the controls.
func (c *CallScreenController) AppForegrounded() {
	c.hideControls = false
	c.project()
}

// SelectAudioSource routes a picker selection to the audio service.
func (c *CallScreenController) SelectAudioSource(src domain.AudioSource) {
	c.routes.Select(src)
}

// ToggleSpeakerphone flips the speakerphone request. The confirmed
// state arrives back through SpeakerphoneDidChange.
func (c *CallScreenController) ToggleSpeakerphone() {
	c.deps.Audio.RequestSpeakerphone(!c.speakerphoneOn)
}

// DismissNag acknowledges the settings nag after the user made an
// explicit preference choice and resumes dismissal.
func (c *CallScreenController) DismissNag() {
	c.dismissal.RequestDismiss(false, true)
}

// ---- internals ----

func (c *CallScreenController) startTick() {
	if c.tickCancel != nil {
		return
	}
	c.tickCancel = c.deps.Sched.Every(StatusTickInterval, func() {
		if c.dismissal.HasDismissed() {
			return
		}
		c.project()
	})
}

func (c *CallScreenController) stopTick() {
	if c.tickCancel != nil {
		c.tickCancel()
		c.tickCancel = nil
	}
}

func (c *CallScreenController) didTearDown() {
	c.stopTick()
	c.dismissal.Invalidate()
	c.deps.Feed.Unsubscribe(c)
}

func (c *CallScreenController) project() {
	cur, hasCur := c.deps.Audio.CurrentSource()
	snap := Project(ProjectorInput{
		Call:                c.snap,
		ShowingNag:          c.dismissal.IsShowingNag(),
		LocalVideoVisible:   c.binder.LocalVisible(),
		RemoteVideoVisible:  c.binder.RemoteVisible(),
		HasAlternateSources: c.routes.HasAlternateSources(),
		SpeakerphoneOn:      c.speakerphoneOn,
		CurrentSource:       cur,
		HasCurrentSource:    hasCur,
		HideControlsToggled: c.hideControls,
		Now:                 c.deps.Now(),
	})
	c.deps.Publisher.Publish(snap)
}
