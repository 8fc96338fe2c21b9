package flows

import (
	"context"
	"sync"

	"github.com/mkorobov/passdash/internal/client/gateway"
	"github.com/mkorobov/passdash/internal/client/models"
)

// Generator drives the standalone password-generator page. The client
// submits whatever toggles the user picked; the "at least one character
// class" policy is the service's to enforce, so a rejection surfaces like
// any other server failure.
type Generator struct {
	f *Flows

	mu       sync.Mutex
	opts     models.GeneratorOptions
	password string
	strength int
	pending  bool
	instance string
}

// Options returns the current generation options.
func (g *Generator) Options() models.GeneratorOptions {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.opts
}

// SetOptions replaces the generation options. A generation already in
// flight keeps the options it was submitted with; its result is still
// applied.
func (g *Generator) SetOptions(opts models.GeneratorOptions) {
	g.mu.Lock()
	g.opts = opts
	g.mu.Unlock()
}

// Generate requests a new password. A concurrent second request is a
// no-op while the first is pending.
func (g *Generator) Generate(ctx context.Context) error {
	g.mu.Lock()
	if g.pending {
		g.mu.Unlock()
		return nil
	}
	g.pending = true
	opts := g.opts
	instance := g.instance
	g.mu.Unlock()
	g.f.stateChanged()

	got, err := g.f.deps.Vault.Generate(ctx, opts)

	g.mu.Lock()
	if g.instance != instance {
		g.mu.Unlock()
		return nil
	}
	g.pending = false
	if err != nil {
		g.mu.Unlock()
		g.f.deps.Notify.Error(gateway.UserMessage(err, "Failed to generate password."))
		g.f.stateChanged()
		return err
	}
	g.password = got.Password
	g.strength = got.Strength
	g.mu.Unlock()
	g.f.stateChanged()
	return nil
}

// Pending reports whether a generation is in flight.
func (g *Generator) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// Result returns the latest generated password, its 0–100 strength score
// and the display label classified from it.
func (g *Generator) Result() (password string, strength int, label string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.password, g.strength, models.ClassifyStrength(g.strength)
}

// Copy puts the generated password on the clipboard with timed retraction.
func (g *Generator) Copy() error {
	g.mu.Lock()
	value := g.password
	g.mu.Unlock()
	if value == "" {
		return nil
	}
	if err := g.f.deps.Guard.Copy(value); err != nil {
		g.f.deps.Notify.Error("Failed to copy password.")
		return err
	}
	g.f.deps.Notify.Success("Password copied to clipboard!")
	return nil
}

// Reset discards the current result and supersedes any generation still in
// flight; its late result will be dropped.
func (g *Generator) Reset() {
	g.mu.Lock()
	g.password = ""
	g.strength = 0
	g.pending = false
	g.instance = newInstance()
	g.mu.Unlock()
	g.f.stateChanged()
}
