package domain

// AudioSourceKind classifies an audio output/input route.
type AudioSourceKind int

const (
	AudioSourceBuiltInMic AudioSourceKind = iota
	AudioSourceBuiltInSpeaker
	AudioSourceExternalDevice
)

func (k AudioSourceKind) String() string {
	switch k {
	case AudioSourceBuiltInMic:
		return "builtInMic"
	case AudioSourceBuiltInSpeaker:
		return "builtInSpeaker"
	case AudioSourceExternalDevice:
		return "externalDevice"
	default:
		return "unknown"
	}
}

// AudioSource is one selectable audio route. Identity is the
// Descriptor; DisplayName is presentation only.
type AudioSource struct {
	Kind        AudioSourceKind
	Descriptor  string
	DisplayName string
}
