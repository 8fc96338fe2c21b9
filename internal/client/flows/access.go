package flows

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/mkorobov/passdash/internal/client/gateway"
	"github.com/mkorobov/passdash/internal/client/models"
	"github.com/mkorobov/passdash/internal/client/secret"
)

// accessDeniedMessage is deliberately the same for an invalid key and an
// expired or exhausted share, so the caller learns nothing about which it
// was.
const accessDeniedMessage = "Invalid access key or expired share."

var shareLinkRe = regexp.MustCompile(`/shared/([a-f0-9]+)`)

// ParseShareLink extracts the hex share id from a pasted share URL.
// Anything not containing a /shared/<hex> segment is rejected.
func ParseShareLink(link string) (string, error) {
	m := shareLinkRe.FindStringSubmatch(link)
	if m == nil {
		return "", fmt.Errorf("invalid sharing link: %w", gateway.ErrValidation)
	}
	return m[1], nil
}

// AccessFlow consumes a shared link: one stateless action that, on
// success, opens a read-only view of the shared credential with its own
// reveal, copy and save-to-my-passwords actions.
type AccessFlow struct {
	f *Flows

	mu       sync.Mutex
	open     bool
	entry    models.SharedEntry
	session  *secret.Session
	pending  bool
	saving   bool
	instance string
}

// Access validates and consumes the pasted link and key. Blank inputs and
// malformed links are rejected before any network call. Both access-denied
// and expired come back as one generic message.
func (a *AccessFlow) Access(ctx context.Context, link, key string) error {
	link = strings.TrimSpace(link)
	key = strings.TrimSpace(key)
	if link == "" || key == "" {
		a.f.deps.Notify.Error("Please enter both the sharing link and access key.")
		return fmt.Errorf("missing input: %w", gateway.ErrValidation)
	}

	shareID, err := ParseShareLink(link)
	if err != nil {
		a.f.deps.Notify.Error("Invalid sharing link format.")
		return err
	}

	a.mu.Lock()
	if a.pending {
		a.mu.Unlock()
		return nil
	}
	a.pending = true
	a.mu.Unlock()

	entry, err := a.f.deps.Vault.ShareConsume(ctx, shareID, key)

	a.mu.Lock()
	a.pending = false
	a.mu.Unlock()

	if err != nil {
		switch {
		case errors.Is(err, gateway.ErrAccessDenied), errors.Is(err, gateway.ErrExpired):
			a.f.deps.Notify.Error(accessDeniedMessage)
		default:
			var srvErr *gateway.ServerError
			if errors.As(err, &srvErr) {
				a.f.deps.Notify.Error(accessDeniedMessage)
			} else {
				a.f.deps.Notify.Error("An error occurred. Please try again.")
			}
		}
		return err
	}

	a.f.closeModals()
	a.mu.Lock()
	a.open = true
	a.entry = entry
	a.session = a.f.deps.Secrets.NewSeededSession(entry.Secret)
	a.instance = newInstance()
	a.mu.Unlock()
	a.f.stateChanged()
	return nil
}

// Entry returns the shared credential on display.
func (a *AccessFlow) Entry() (models.SharedEntry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.entry, a.open
}

// IsOpen reports whether the shared-credential view is showing.
func (a *AccessFlow) IsOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.open
}

// ToggleVisibility flips the secret's masked/plain display locally.
func (a *AccessFlow) ToggleVisibility() bool {
	a.mu.Lock()
	session := a.session
	a.mu.Unlock()
	if session == nil {
		return false
	}
	visible := session.Toggle()
	a.f.stateChanged()
	return visible
}

// CopySecret puts the shared secret on the clipboard with timed
// retraction.
func (a *AccessFlow) CopySecret() error {
	a.mu.Lock()
	open := a.open
	value := a.entry.Secret
	a.mu.Unlock()
	if !open || value == "" {
		return nil
	}
	if err := a.f.deps.Guard.Copy(value); err != nil {
		a.f.deps.Notify.Error("Failed to copy password.")
		return err
	}
	a.f.deps.Notify.Success("Password copied to clipboard!")
	return nil
}

// CopyUsername copies the shared entry's username, no retraction.
func (a *AccessFlow) CopyUsername() error {
	a.mu.Lock()
	open := a.open
	username := a.entry.Username
	a.mu.Unlock()
	if !open || username == "" {
		return nil
	}
	if err := a.f.deps.Guard.CopyText(username); err != nil {
		a.f.deps.Notify.Error("Failed to copy username.")
		return err
	}
	a.f.deps.Notify.Success("Username copied to clipboard!")
	return nil
}

// SaveToVault stores the shared credential as a new entry in the user's
// own collection, then closes the view and reloads the collection.
func (a *AccessFlow) SaveToVault(ctx context.Context) error {
	a.mu.Lock()
	if !a.open || a.saving {
		a.mu.Unlock()
		return nil
	}
	a.saving = true
	fields := a.entry.Fields()
	instance := a.instance
	a.mu.Unlock()

	_, err := a.f.deps.Vault.Create(ctx, fields)

	a.mu.Lock()
	if a.instance != instance {
		a.mu.Unlock()
		return nil
	}
	a.saving = false
	a.mu.Unlock()

	if err != nil {
		a.f.deps.Notify.Error(gateway.UserMessage(err, "Failed to save password."))
		return err
	}
	a.f.deps.Notify.Success("Password saved to your account!")
	a.Close()
	_ = a.f.deps.Store.ReloadEntries(ctx)
	return nil
}

// Close dismisses the shared-credential view, discarding its plaintext.
func (a *AccessFlow) Close() {
	a.close()
	a.f.stateChanged()
}

func (a *AccessFlow) close() {
	a.mu.Lock()
	a.open = false
	a.entry = models.SharedEntry{}
	if a.session != nil {
		a.session.Close()
		a.session = nil
	}
	a.saving = false
	a.instance = newInstance()
	a.mu.Unlock()
}
