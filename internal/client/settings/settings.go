// Package settings wraps the server-side user preferences and applies the
// ones the client acts on locally.
package settings

import (
	"context"
	"sync"
	"time"

	"github.com/mkorobov/passdash/internal/client/gateway"
	"github.com/mkorobov/passdash/internal/client/secret"
	"github.com/mkorobov/passdash/internal/logging"
)

// Service loads and saves user preferences through the vault and pushes
// the clipboard timeout into the retraction guard. Preferences are stored
// server-side; the client keeps only a cached copy.
type Service struct {
	vault gateway.Vault
	guard *secret.Guard
	log   logging.Logger

	mu      sync.Mutex
	current gateway.Settings
	loaded  bool
}

func NewService(vault gateway.Vault, guard *secret.Guard, log logging.Logger) *Service {
	return &Service{vault: vault, guard: guard, log: log}
}

// Load fetches the preferences. On failure the previous cached copy stays
// in place.
func (s *Service) Load(ctx context.Context) (gateway.Settings, error) {
	got, err := s.vault.GetSettings(ctx)
	if err != nil {
		s.log.Warn(ctx, "settings load failed", "error", err)
		s.mu.Lock()
		prev := s.current
		s.mu.Unlock()
		return prev, err
	}

	s.mu.Lock()
	s.current = got
	s.loaded = true
	s.mu.Unlock()
	s.apply(got)
	return got, nil
}

// Current returns the cached preferences and whether a load has succeeded.
func (s *Service) Current() (gateway.Settings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.loaded
}

// Save persists the preferences and, on success, makes them current and
// applies them.
func (s *Service) Save(ctx context.Context, prefs gateway.Settings) error {
	if err := s.vault.SaveSettings(ctx, prefs); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = prefs
	s.loaded = true
	s.mu.Unlock()
	s.apply(prefs)
	return nil
}

// apply pushes the preferences the client enforces itself. Only a positive
// clipboard timeout changes the guard; the guard keeps its delay otherwise.
func (s *Service) apply(prefs gateway.Settings) {
	if prefs.ClipboardTimeout > 0 {
		s.guard.SetDelay(time.Duration(prefs.ClipboardTimeout) * time.Second)
	}
}
