package app

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/callscreen/internal/core"
	"github.com/dkeye/callscreen/internal/domain"
)

// AudioRouteCoordinator accumulates every audio source observed over
// the life of one call screen and computes the subset valid for the
// current video mode. The pool is append-only: session reconfigurations
// can transiently report fewer devices, and dropping entries on those
// blips would flicker the route picker.
type AudioRouteCoordinator struct {
	service core.AudioService
	pool    map[string]domain.AudioSource
}

func NewAudioRouteCoordinator(service core.AudioService) *AudioRouteCoordinator {
	if service == nil {
		panic("audioroute: nil AudioService")
	}
	return &AudioRouteCoordinator{
		service: service,
		pool:    make(map[string]domain.AudioSource),
	}
}

// Observe unions the reported sources into the pool. Entries are never
// removed, even if the device later disappears.
func (a *AudioRouteCoordinator) Observe(available []domain.AudioSource) {
	for _, src := range available {
		if _, ok := a.pool[src.Descriptor]; ok {
			continue
		}
		a.pool[src.Descriptor] = src
		log.Debug().Str("module", "app.audioroute").
			Str("kind", src.Kind.String()).
			Str("descriptor", src.Descriptor).
			Msg("audio source observed")
	}
}

// AppropriateSources returns the pool filtered for the video mode.
// The built-in mic/earpiece route is unusable on a video call, so it
// is excluded while local video is on.
func (a *AudioRouteCoordinator) AppropriateSources(hasLocalVideo bool) []domain.AudioSource {
	out := make([]domain.AudioSource, 0, len(a.pool))
	for _, src := range a.pool {
		if hasLocalVideo && src.Kind == domain.AudioSourceBuiltInMic {
			continue
		}
		out = append(out, src)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Descriptor < out[j].Descriptor })
	return out
}

// HasAlternateSources reports whether anything beyond the two built-in
// routes was ever seen; a third source implies an external device.
func (a *AudioRouteCoordinator) HasAlternateSources() bool {
	return len(a.pool) > 2
}

// PoolSize returns the number of distinct sources ever observed.
func (a *AudioRouteCoordinator) PoolSize() int {
	return len(a.pool)
}

// Select delegates the route switch to the audio service. The
// coordinator never owns the active route, only the candidate set.
func (a *AudioRouteCoordinator) Select(src domain.AudioSource) {
	log.Info().Str("module", "app.audioroute").
		Str("kind", src.Kind.String()).
		Str("descriptor", src.Descriptor).
		Msg("audio source selected")
	a.service.SetSource(src)
}
