// Package audio is a simulated platform audio session: a scriptable
// device inventory plus the delegate callbacks a real session fires.
package audio

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/callscreen/internal/core"
	"github.com/dkeye/callscreen/internal/domain"
)

// SimService implements core.AudioService. Delegate callbacks are
// posted onto the UI loop, matching the engine's threading contract.
type SimService struct {
	loop *core.RunLoop

	mu         sync.Mutex
	delegate   core.AudioSessionDelegate
	available  []domain.AudioSource
	current    domain.AudioSource
	hasCurrent bool
	speaker    bool

	builtInMic     domain.AudioSource
	builtInSpeaker domain.AudioSource
}

func NewSimService(loop *core.RunLoop) *SimService {
	mic := domain.AudioSource{
		Kind:        domain.AudioSourceBuiltInMic,
		Descriptor:  uuid.NewString(),
		DisplayName: "iPhone Microphone",
	}
	speaker := domain.AudioSource{
		Kind:        domain.AudioSourceBuiltInSpeaker,
		Descriptor:  uuid.NewString(),
		DisplayName: "Speaker",
	}
	return &SimService{
		loop:           loop,
		available:      []domain.AudioSource{mic, speaker},
		current:        mic,
		hasCurrent:     true,
		builtInMic:     mic,
		builtInSpeaker: speaker,
	}
}

func (s *SimService) AvailableInputs() []domain.AudioSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AudioSource, len(s.available))
	copy(out, s.available)
	return out
}

func (s *SimService) CurrentSource() (domain.AudioSource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.hasCurrent
}

func (s *SimService) RequestSpeakerphone(enabled bool) {
	s.mu.Lock()
	s.speaker = enabled
	if enabled {
		s.current = s.builtInSpeaker
	} else {
		s.current = s.builtInMic
	}
	s.hasCurrent = true
	d := s.delegate
	s.mu.Unlock()

	log.Info().Str("module", "adapters.audio").Bool("enabled", enabled).Msg("speakerphone requested")
	if d != nil {
		s.loop.Post(func() { d.SpeakerphoneDidChange(enabled) })
	}
}

func (s *SimService) SetSource(src domain.AudioSource) {
	s.mu.Lock()
	s.current = src
	s.hasCurrent = true
	s.speaker = src.Kind == domain.AudioSourceBuiltInSpeaker
	d := s.delegate
	enabled := s.speaker
	s.mu.Unlock()

	log.Info().Str("module", "adapters.audio").Str("source", src.DisplayName).Msg("source set")
	if d != nil {
		s.loop.Post(func() { d.SpeakerphoneDidChange(enabled) })
	}
}

func (s *SimService) SetDelegate(d core.AudioSessionDelegate) {
	s.mu.Lock()
	s.delegate = d
	s.mu.Unlock()
}

// PlugDevice simulates an external device (headset) appearing and
// fires the session-change delegate.
func (s *SimService) PlugDevice(name string) domain.AudioSource {
	src := domain.AudioSource{
		Kind:        domain.AudioSourceExternalDevice,
		Descriptor:  uuid.NewString(),
		DisplayName: name,
	}
	s.mu.Lock()
	s.available = append(s.available, src)
	d := s.delegate
	snapshot := make([]domain.AudioSource, len(s.available))
	copy(snapshot, s.available)
	s.mu.Unlock()

	log.Info().Str("module", "adapters.audio").Str("device", name).Msg("device plugged")
	if d != nil {
		s.loop.Post(func() { d.AudioSessionDidChange(snapshot) })
	}
	return src
}

// UnplugDevice simulates a device disappearing. The engine keeps the
// source in its pool regardless; only the session inventory shrinks.
func (s *SimService) UnplugDevice(src domain.AudioSource) {
	s.mu.Lock()
	kept := s.available[:0]
	for _, a := range s.available {
		if a.Descriptor != src.Descriptor {
			kept = append(kept, a)
		}
	}
	s.available = kept
	d := s.delegate
	snapshot := make([]domain.AudioSource, len(s.available))
	copy(snapshot, s.available)
	s.mu.Unlock()

	log.Info().Str("module", "adapters.audio").Str("device", src.DisplayName).Msg("device unplugged")
	if d != nil {
		s.loop.Post(func() { d.AudioSessionDidChange(snapshot) })
	}
}
