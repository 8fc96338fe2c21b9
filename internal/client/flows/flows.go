// Package flows implements the modal workflow state machines of the
// dashboard: credential add/edit, view, share creation, shared-link access,
// destructive-action confirmation and the password generator.
//
// Each flow is a small finite-state machine. At most one primary modal is
// open at a time; opening one closes the others and ends their reveal
// sessions. Every transition that performs a network call passes through a
// pending sub-state that makes a concurrent duplicate submission a no-op,
// and each flow instance carries a token so a response arriving after the
// instance was superseded is discarded.
package flows

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mkorobov/passdash/internal/client/gateway"
	"github.com/mkorobov/passdash/internal/client/models"
	"github.com/mkorobov/passdash/internal/client/notify"
	"github.com/mkorobov/passdash/internal/client/secret"
	"github.com/mkorobov/passdash/internal/client/store"
	"github.com/mkorobov/passdash/internal/logging"
)

// Deps bundles what every flow needs.
type Deps struct {
	Vault   gateway.Vault
	Store   *store.Store
	Notify  *notify.Queue
	Secrets *secret.Controller
	Guard   *secret.Guard
	Log     logging.Logger
}

// Flows owns the flow instances and coordinates modal exclusivity.
type Flows struct {
	deps Deps

	Editor    *Editor
	Viewer    *Viewer
	Share     *ShareFlow
	Access    *AccessFlow
	Generator *Generator
	Confirm   *Confirm

	// OnState, when set, is called after every flow transition. The host
	// uses it as its render hook.
	OnState func()
}

func New(deps Deps) *Flows {
	f := &Flows{deps: deps}
	f.Editor = &Editor{f: f, entryID: noEntry}
	f.Viewer = &Viewer{f: f}
	f.Share = &ShareFlow{f: f, step: ShareStepConfigure}
	f.Access = &AccessFlow{f: f}
	f.Generator = &Generator{f: f, opts: models.DefaultGeneratorOptions()}
	f.Confirm = &Confirm{f: f}
	return f
}

// RevokeShare starts the confirmed revocation of one share. On success only
// the share list is reloaded; the credential collection is untouched.
func (f *Flows) RevokeShare(shareID string) {
	f.Confirm.Open(
		"Revoke Access",
		"Are you sure you want to revoke this share? Anyone holding the link will lose access.",
		func(ctx context.Context) error {
			if err := f.deps.Vault.ShareRevoke(ctx, shareID); err != nil {
				f.deps.Notify.Error(gateway.UserMessage(err, "Failed to revoke access."))
				return err
			}
			f.deps.Notify.Success("Access revoked successfully!")
			_ = f.deps.Store.ReloadShares(ctx)
			return nil
		},
	)
}

// closeModals closes every primary modal. The confirm overlay is not a
// primary modal and survives; it closes through its own Confirm/Cancel.
func (f *Flows) closeModals() {
	f.Editor.close()
	f.Viewer.close()
	f.Share.close()
	f.Access.close()
}

func (f *Flows) stateChanged() {
	if f.OnState != nil {
		f.OnState()
	}
}

func newInstance() string { return uuid.NewString() }

// Confirm is the generic confirmation sub-flow for destructive actions.
// The configured action runs on confirmation; the overlay closes only when
// the action succeeds, so a failure leaves the user free to retry or
// cancel.
type Confirm struct {
	f *Flows

	mu       sync.Mutex
	open     bool
	title    string
	message  string
	action   func(ctx context.Context) error
	pending  bool
	instance string
}

func (c *Confirm) Open(title, message string, action func(ctx context.Context) error) {
	c.mu.Lock()
	c.open = true
	c.title = title
	c.message = message
	c.action = action
	c.pending = false
	c.instance = newInstance()
	c.mu.Unlock()
	c.f.stateChanged()
}

// Prompt returns the overlay's title and message while open.
func (c *Confirm) Prompt() (title, message string, open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title, c.message, c.open
}

// Do runs the configured action. A second concurrent confirmation is a
// no-op while the first is pending.
func (c *Confirm) Do(ctx context.Context) error {
	c.mu.Lock()
	if !c.open || c.pending {
		c.mu.Unlock()
		return nil
	}
	c.pending = true
	action := c.action
	instance := c.instance
	c.mu.Unlock()

	err := action(ctx)

	c.mu.Lock()
	if c.instance != instance {
		// The overlay was reopened for something else; this outcome no
		// longer belongs to it.
		c.mu.Unlock()
		return nil
	}
	c.pending = false
	if err == nil {
		c.open = false
		c.action = nil
	}
	c.mu.Unlock()
	c.f.stateChanged()
	return err
}

func (c *Confirm) Cancel() {
	c.mu.Lock()
	c.open = false
	c.action = nil
	c.pending = false
	c.mu.Unlock()
	c.f.stateChanged()
}
