package core

// AudioSourceIcon selects the glyph for the audio-route button.
type AudioSourceIcon string

const (
	AudioIconSpeaker AudioSourceIcon = "speaker"
	AudioIconHeadset AudioSourceIcon = "headset"
)

// UIStateSnapshot is the derived control state for the whole call
// screen. It is recomputed from scratch on every relevant mutation
// and handed to rendering as-is.
type UIStateSnapshot struct {
	StatusText string `json:"status_text"`

	ShowIncomingControls bool `json:"show_incoming_controls"`
	ShowOngoingControls  bool `json:"show_ongoing_controls"`

	MuteSelected      bool `json:"mute_selected"`
	VideoModeSelected bool `json:"video_mode_selected"`

	// The two control groups are mutually exclusive: audio-mode
	// controls hide while local video renders, and vice versa.
	AudioControlsHidden bool `json:"audio_controls_hidden"`
	VideoControlsHidden bool `json:"video_controls_hidden"`

	RemoteControlsHidden bool `json:"remote_controls_hidden"`

	LocalVideoVisible  bool `json:"local_video_visible"`
	RemoteVideoVisible bool `json:"remote_video_visible"`

	AudioSourceVisible  bool            `json:"audio_source_visible"`
	AudioSourceSelected bool            `json:"audio_source_selected"`
	AudioSourceIcon     AudioSourceIcon `json:"audio_source_icon"`

	NagVisible   bool `json:"nag_visible"`
	AvatarHidden bool `json:"avatar_hidden"`
}
