// Package wm is the window-manager collaborator for the demo binary:
// teardown calls are logged and surfaced on a done channel.
package wm

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type Manager struct {
	once sync.Once
	done chan struct{}
}

func NewManager() *Manager {
	return &Manager{done: make(chan struct{})}
}

func (m *Manager) EndCall() {
	log.Info().Str("module", "adapters.wm").Msg("end call")
}

func (m *Manager) LeaveCallView() {
	log.Info().Str("module", "adapters.wm").Msg("leave call view")
	m.once.Do(func() { close(m.done) })
}

// Done closes once the call view has been left.
func (m *Manager) Done() <-chan struct{} { return m.done }
