package app

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/callscreen/internal/core"
)

// VideoTrackBinder attaches local and remote media tracks to their
// render surfaces, suppressing redundant rebinds. Handles are compared
// by identity; rebinding the same track is a no-op so surfaces never
// churn through detach/attach cycles for nothing.
type VideoTrackBinder struct {
	localSurface  core.RenderSurface
	remoteSurface core.RenderSurface

	local  core.VideoTrack
	remote core.VideoTrack
}

func NewVideoTrackBinder(local, remote core.RenderSurface) *VideoTrackBinder {
	if local == nil || remote == nil {
		panic("videobind: nil RenderSurface")
	}
	return &VideoTrackBinder{localSurface: local, remoteSurface: remote}
}

// BindLocal binds the local track, nil meaning unbind. Returns true
// if the binding actually changed.
func (b *VideoTrackBinder) BindLocal(track core.VideoTrack) bool {
	if track == b.local {
		return false
	}
	b.local = track
	rebind(b.localSurface, track)
	log.Debug().Str("module", "app.videobind").Bool("bound", track != nil).Msg("local track rebound")
	return true
}

// BindRemote binds the remote track, nil meaning unbind. Returns true
// if the binding actually changed; the caller resets any stale
// hide-controls toggle on a fresh remote track.
func (b *VideoTrackBinder) BindRemote(track core.VideoTrack) bool {
	if track == b.remote {
		return false
	}
	b.remote = track
	rebind(b.remoteSurface, track)
	log.Debug().Str("module", "app.videobind").Bool("bound", track != nil).Msg("remote track rebound")
	return true
}

func rebind(surface core.RenderSurface, track core.VideoTrack) {
	surface.Clear()
	if track != nil {
		surface.Attach(track)
	}
}

// LocalVisible reports whether a local track is currently bound.
func (b *VideoTrackBinder) LocalVisible() bool { return b.local != nil }

// RemoteVisible reports whether a remote track is currently bound.
func (b *VideoTrackBinder) RemoteVisible() bool { return b.remote != nil }
