// Package prefs persists the call-integration settings. "Explicitly
// set" is modeled directly on viper's IsSet: a key absent from the
// backing file and never written stays unset.
package prefs

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	keyIntegrationEnabled = "call_integration.enabled"
	keyPrivacyMode        = "call_integration.privacy_mode"
)

type Store struct {
	v    *viper.Viper
	path string
}

func NewStore(path string) *Store {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		log.Debug().Str("module", "adapters.prefs").Str("path", path).Msg("no existing prefs file")
	}
	return &Store{v: v, path: path}
}

func (s *Store) IntegrationEnabled() bool      { return s.v.GetBool(keyIntegrationEnabled) }
func (s *Store) IntegrationEnabledIsSet() bool { return s.v.IsSet(keyIntegrationEnabled) }

func (s *Store) SetIntegrationEnabled(enabled bool) {
	s.v.Set(keyIntegrationEnabled, enabled)
	s.persist()
}

func (s *Store) IntegrationPrivacyMode() bool      { return s.v.GetBool(keyPrivacyMode) }
func (s *Store) IntegrationPrivacyModeIsSet() bool { return s.v.IsSet(keyPrivacyMode) }

func (s *Store) SetIntegrationPrivacyMode(enabled bool) {
	s.v.Set(keyPrivacyMode, enabled)
	s.persist()
}

func (s *Store) persist() {
	if err := s.v.WriteConfigAs(s.path); err != nil {
		log.Error().Err(err).Str("module", "adapters.prefs").Str("path", s.path).Msg("persist prefs")
	}
}
