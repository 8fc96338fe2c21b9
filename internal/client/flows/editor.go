package flows

import (
	"context"
	"fmt"
	"sync"

	"github.com/mkorobov/passdash/internal/client/gateway"
	"github.com/mkorobov/passdash/internal/client/models"
	"github.com/mkorobov/passdash/internal/client/secret"
)

// noEntry marks the editor as creating a new credential rather than
// updating an existing one.
const noEntry = -1

// EditorState is the add/edit flow's position:
// closed → editing → submitting → closed, or back to editing on error.
type EditorState int

const (
	EditorClosed EditorState = iota
	EditorEditing
	EditorSubmitting
)

// EditorForm mirrors the credential form fields.
type EditorForm struct {
	Title    string
	Website  string
	Username string
	Secret   string
	Category string
	Notes    string
}

func (f EditorForm) fields() models.EntryFields {
	return models.EntryFields{
		Title:    f.Title,
		Website:  f.Website,
		Username: f.Username,
		Secret:   f.Secret,
		Category: f.Category,
		Notes:    f.Notes,
	}
}

// Editor is the add/edit credential flow.
type Editor struct {
	f *Flows

	mu            sync.Mutex
	state         EditorState
	form          EditorForm
	entryID       int
	instance      string
	session       *secret.Session
	secretLoading bool
}

// OpenAdd starts the flow with a cleared form.
func (e *Editor) OpenAdd() {
	e.f.closeModals()
	e.mu.Lock()
	e.state = EditorEditing
	e.form = EditorForm{}
	e.entryID = noEntry
	e.instance = newInstance()
	e.secretLoading = false
	e.mu.Unlock()
	e.f.stateChanged()
}

// OpenEdit starts the flow seeded from an existing entry. When the entry's
// secret is hidden the secret field enters a loading sub-state until
// LoadSecret resolves it.
func (e *Editor) OpenEdit(id int) error {
	entry, err := e.f.deps.Store.Entry(id)
	if err != nil {
		e.f.deps.Notify.Error("Password entry no longer exists.")
		return err
	}

	e.f.closeModals()
	e.mu.Lock()
	e.state = EditorEditing
	e.form = EditorForm{
		Title:    entry.Title,
		Website:  entry.Website,
		Username: entry.Username,
		Secret:   entry.Secret,
		Category: entry.Category,
		Notes:    entry.Notes,
	}
	e.entryID = entry.ID
	e.instance = newInstance()
	e.session = e.f.deps.Secrets.NewSession(entry)
	e.secretLoading = entry.SecretHidden
	e.mu.Unlock()
	e.f.stateChanged()
	return nil
}

// LoadSecret resolves the hidden secret into the form. A result arriving
// after the flow instance was superseded is dropped. On failure the secret
// field stays empty and the failure is reported; the form remains editable.
func (e *Editor) LoadSecret(ctx context.Context) error {
	e.mu.Lock()
	if !e.secretLoading || e.session == nil {
		e.mu.Unlock()
		return nil
	}
	session := e.session
	instance := e.instance
	e.mu.Unlock()

	value, err := session.Reveal(ctx)

	e.mu.Lock()
	if e.instance != instance {
		e.mu.Unlock()
		return nil
	}
	e.secretLoading = false
	if err == nil {
		e.form.Secret = value
	}
	e.mu.Unlock()

	if err != nil {
		e.f.deps.Notify.Error("Failed to decrypt password.")
		return err
	}
	e.f.stateChanged()
	return nil
}

// State reports the flow position; SecretLoading whether the secret field
// is still resolving.
func (e *Editor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Editor) SecretLoading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.secretLoading
}

// Form returns a copy of the current form.
func (e *Editor) Form() EditorForm {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form
}

// SetForm replaces the form contents (the host pushes field edits here).
func (e *Editor) SetForm(form EditorForm) {
	e.mu.Lock()
	e.form = form
	e.mu.Unlock()
}

// IsEdit reports whether the flow updates an existing entry.
func (e *Editor) IsEdit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.entryID != noEntry
}

// GenerateSecret fills the secret field with a quick-generated password
// using the default options, the same shortcut the form's generate button
// offers.
func (e *Editor) GenerateSecret(ctx context.Context) error {
	e.mu.Lock()
	if e.state != EditorEditing {
		e.mu.Unlock()
		return nil
	}
	instance := e.instance
	e.mu.Unlock()

	got, err := e.f.deps.Vault.Generate(ctx, models.DefaultGeneratorOptions())
	if err != nil {
		e.f.deps.Notify.Error(gateway.UserMessage(err, "Failed to generate password."))
		return err
	}

	e.mu.Lock()
	if e.instance != instance {
		e.mu.Unlock()
		return nil
	}
	e.form.Secret = got.Password
	e.mu.Unlock()

	e.f.deps.Notify.Success("Password generated!")
	e.f.stateChanged()
	return nil
}

// CopySecret puts the form's secret on the clipboard with timed retraction.
func (e *Editor) CopySecret() error {
	e.mu.Lock()
	value := e.form.Secret
	e.mu.Unlock()
	if value == "" {
		return nil
	}
	if err := e.f.deps.Guard.Copy(value); err != nil {
		e.f.deps.Notify.Error("Failed to copy password.")
		return err
	}
	e.f.deps.Notify.Success("Password copied to clipboard!")
	return nil
}

// Submit validates locally, then creates or updates the credential. Local
// validation failures never reach the network. A concurrent second submit
// is a no-op. On success the flow closes and the collection reloads; on a
// server failure the flow returns to editing with the server's message
// surfaced.
func (e *Editor) Submit(ctx context.Context) error {
	e.mu.Lock()
	if e.state != EditorEditing {
		e.mu.Unlock()
		return nil
	}
	if e.form.Title == "" {
		e.mu.Unlock()
		e.f.deps.Notify.Error("Title is required.")
		return fmt.Errorf("title: %w", gateway.ErrValidation)
	}
	if e.form.Secret == "" {
		e.mu.Unlock()
		e.f.deps.Notify.Error("Password is required.")
		return fmt.Errorf("password: %w", gateway.ErrValidation)
	}

	e.state = EditorSubmitting
	form := e.form
	entryID := e.entryID
	instance := e.instance
	e.mu.Unlock()
	e.f.stateChanged()

	var err error
	if entryID == noEntry {
		_, err = e.f.deps.Vault.Create(ctx, form.fields())
	} else {
		err = e.f.deps.Vault.Update(ctx, entryID, form.fields())
	}

	e.mu.Lock()
	if e.instance != instance {
		// The modal was closed and reopened while this submit was in
		// flight; its outcome belongs to a dead instance.
		e.mu.Unlock()
		return nil
	}
	if err != nil {
		e.state = EditorEditing
		e.mu.Unlock()
		if entryID == noEntry {
			e.f.deps.Notify.Error(gateway.UserMessage(err, "Failed to add password."))
		} else {
			e.f.deps.Notify.Error(gateway.UserMessage(err, "Failed to update password."))
		}
		e.f.stateChanged()
		return err
	}

	e.state = EditorClosed
	e.form = EditorForm{}
	if e.session != nil {
		e.session.Close()
		e.session = nil
	}
	e.mu.Unlock()

	if entryID == noEntry {
		e.f.deps.Notify.Success("Password added successfully!")
	} else {
		e.f.deps.Notify.Success("Password updated successfully!")
	}
	_ = e.f.deps.Store.ReloadEntries(ctx)
	e.f.stateChanged()
	return nil
}

// Cancel abandons the flow, discarding the form and any revealed secret.
func (e *Editor) Cancel() {
	e.close()
	e.f.stateChanged()
}

func (e *Editor) close() {
	e.mu.Lock()
	e.state = EditorClosed
	e.form = EditorForm{}
	e.entryID = noEntry
	e.instance = newInstance()
	e.secretLoading = false
	if e.session != nil {
		e.session.Close()
		e.session = nil
	}
	e.mu.Unlock()
}
