package render

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/callscreen/internal/core"
)

// LogSurface is a render surface for headless runs: it records what a
// real surface would display.
type LogSurface struct {
	Name string

	mu      sync.Mutex
	trackID string
	bound   bool
}

func NewLogSurface(name string) *LogSurface {
	return &LogSurface{Name: name}
}

func (s *LogSurface) Attach(track core.VideoTrack) {
	s.mu.Lock()
	s.trackID = track.ID()
	s.bound = true
	s.mu.Unlock()
	log.Info().Str("module", "render").Str("surface", s.Name).Str("track", track.ID()).Msg("track attached")
}

func (s *LogSurface) Clear() {
	s.mu.Lock()
	s.trackID = ""
	s.bound = false
	s.mu.Unlock()
	log.Debug().Str("module", "render").Str("surface", s.Name).Msg("surface cleared")
}

// Bound reports whether a track is currently attached.
func (s *LogSurface) Bound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound
}
