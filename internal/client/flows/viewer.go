package flows

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mkorobov/passdash/internal/client/gateway"
	"github.com/mkorobov/passdash/internal/client/models"
	"github.com/mkorobov/passdash/internal/client/secret"
)

// Viewer is the read-only credential modal. From here the user can reveal
// or copy the secret, or redirect into the edit, share or delete-confirm
// flows; the redirects close this modal first.
type Viewer struct {
	f *Flows

	mu      sync.Mutex
	open    bool
	entry   models.CredentialEntry
	session *secret.Session
}

// Open shows the entry with the given id. The secret starts masked.
func (v *Viewer) Open(id int) error {
	entry, err := v.f.deps.Store.Entry(id)
	if err != nil {
		v.f.deps.Notify.Error("Password entry no longer exists.")
		return err
	}

	v.f.closeModals()
	v.mu.Lock()
	v.open = true
	v.entry = entry
	v.session = v.f.deps.Secrets.NewSession(entry)
	v.mu.Unlock()
	v.f.stateChanged()
	return nil
}

// Entry returns the entry on display.
func (v *Viewer) Entry() (models.CredentialEntry, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.entry, v.open
}

// Open reports whether the modal is showing.
func (v *Viewer) IsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.open
}

// RevealSecret fetches (if hidden) and shows the plaintext secret.
func (v *Viewer) RevealSecret(ctx context.Context) (string, error) {
	v.mu.Lock()
	session := v.session
	v.mu.Unlock()
	if session == nil {
		return "", errors.New("no entry on display")
	}

	value, err := session.Reveal(ctx)
	if err != nil {
		if !errors.Is(err, secret.ErrSessionClosed) {
			v.f.deps.Notify.Error("Failed to decrypt password.")
		}
		return "", err
	}
	v.f.stateChanged()
	return value, nil
}

// ToggleVisibility flips the secret's masked/plain display locally.
func (v *Viewer) ToggleVisibility() bool {
	v.mu.Lock()
	session := v.session
	v.mu.Unlock()
	if session == nil {
		return false
	}
	visible := session.Toggle()
	v.f.stateChanged()
	return visible
}

// SecretVisible reports whether the secret is currently shown in clear.
func (v *Viewer) SecretVisible() bool {
	v.mu.Lock()
	session := v.session
	v.mu.Unlock()
	return session != nil && session.Visible()
}

// CopySecret puts the plaintext secret on the clipboard with timed
// retraction, fetching it first when hidden.
func (v *Viewer) CopySecret(ctx context.Context) error {
	v.mu.Lock()
	session := v.session
	v.mu.Unlock()
	if session == nil {
		return errors.New("no entry on display")
	}

	value, err := session.Reveal(ctx)
	if err != nil {
		if !errors.Is(err, secret.ErrSessionClosed) {
			v.f.deps.Notify.Error("Failed to decrypt password.")
		}
		return err
	}
	if err := v.f.deps.Guard.Copy(value); err != nil {
		v.f.deps.Notify.Error("Failed to copy password.")
		return err
	}
	v.f.deps.Notify.Success("Password copied to clipboard!")
	return nil
}

// CopyUsername copies the username without timed retraction; usernames are
// not secrets.
func (v *Viewer) CopyUsername() error {
	v.mu.Lock()
	username := v.entry.Username
	open := v.open
	v.mu.Unlock()
	if !open || username == "" {
		return nil
	}
	if err := v.f.deps.Guard.CopyText(username); err != nil {
		v.f.deps.Notify.Error("Failed to copy username.")
		return err
	}
	v.f.deps.Notify.Success("Username copied to clipboard!")
	return nil
}

// EditCurrent closes the viewer and opens the edit flow seeded with the
// same entry.
func (v *Viewer) EditCurrent() error {
	v.mu.Lock()
	if !v.open {
		v.mu.Unlock()
		return nil
	}
	id := v.entry.ID
	v.mu.Unlock()
	return v.f.Editor.OpenEdit(id)
}

// ShareCurrent closes the viewer and opens the share-creation flow for the
// same entry.
func (v *Viewer) ShareCurrent() {
	v.mu.Lock()
	if !v.open {
		v.mu.Unlock()
		return
	}
	id := v.entry.ID
	title := v.entry.Title
	v.mu.Unlock()
	v.f.Share.Open(id, title)
}

// RequestDelete closes the viewer and opens the confirmation overlay whose
// confirmed action deletes the entry and reloads the collection.
func (v *Viewer) RequestDelete() {
	v.mu.Lock()
	if !v.open {
		v.mu.Unlock()
		return
	}
	id := v.entry.ID
	title := v.entry.Title
	v.mu.Unlock()

	v.close()
	v.f.Confirm.Open(
		"Delete Password",
		fmt.Sprintf("Are you sure you want to delete %q? This action cannot be undone.", title),
		func(ctx context.Context) error {
			if err := v.f.deps.Vault.Delete(ctx, id); err != nil {
				v.f.deps.Notify.Error(gateway.UserMessage(err, "Failed to delete password."))
				return err
			}
			v.f.deps.Notify.Success("Password deleted successfully!")
			_ = v.f.deps.Store.ReloadEntries(ctx)
			return nil
		},
	)
}

// Close dismisses the modal, discarding any revealed plaintext.
func (v *Viewer) Close() {
	v.close()
	v.f.stateChanged()
}

func (v *Viewer) close() {
	v.mu.Lock()
	v.open = false
	if v.session != nil {
		v.session.Close()
		v.session = nil
	}
	v.mu.Unlock()
}
