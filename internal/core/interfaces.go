package core

import "github.com/dkeye/callscreen/internal/domain"

// CallObserver receives call model notifications. All methods are
// invoked on the UI loop, at most one in flight, order preserved.
type CallObserver interface {
	StateDidChange(snap domain.CallSnapshot)
	MuteDidChange(snap domain.CallSnapshot)
	HasLocalVideoDidChange(snap domain.CallSnapshot)
	AudioSourceDidChange(snap domain.CallSnapshot)
}

// CallFeed is the read-only observation relationship to the
// externally-owned call model.
type CallFeed interface {
	Subscribe(obs CallObserver)
	Unsubscribe(obs CallObserver)
}

// AudioSessionDelegate is the single-slot callback an AudioService
// drives on session reconfiguration.
type AudioSessionDelegate interface {
	AudioSessionDidChange(available []domain.AudioSource)
	SpeakerphoneDidChange(enabled bool)
}

// AudioService abstracts the platform audio session. The service
// owns the active route; the engine only proposes candidates.
type AudioService interface {
	AvailableInputs() []domain.AudioSource
	CurrentSource() (domain.AudioSource, bool)
	RequestSpeakerphone(enabled bool)
	SetSource(src domain.AudioSource)
	SetDelegate(d AudioSessionDelegate)
}

// WindowManager tears down the call screen. Both calls are
// fire-and-forget and synchronous from the engine's perspective.
type WindowManager interface {
	EndCall()
	LeaveCallView()
}

// Preferences exposes the two call-integration settings plus
// "has this ever been explicitly set" queries.
type Preferences interface {
	IntegrationEnabled() bool
	SetIntegrationEnabled(v bool)
	IntegrationEnabledIsSet() bool
	IntegrationPrivacyMode() bool
	SetIntegrationPrivacyMode(v bool)
	IntegrationPrivacyModeIsSet() bool
}

// Platform answers capability questions about the host system.
type Platform interface {
	SupportsCallIntegration() bool
}

// VideoTrack is an opaque media track handle. Pion's TrackLocal and
// TrackRemote both satisfy it; binding compares handles by identity.
type VideoTrack interface {
	ID() string
}

// RenderSurface is a display target a video track attaches to.
type RenderSurface interface {
	Attach(track VideoTrack)
	Clear()
}

// StatePublisher receives every recomputed UI snapshot. Rendering
// glue implements it; the engine never diffs, it always republishes.
type StatePublisher interface {
	Publish(snap UIStateSnapshot)
}
