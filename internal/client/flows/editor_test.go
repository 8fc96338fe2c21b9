package flows

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkorobov/passdash/internal/client/gateway"
	"github.com/mkorobov/passdash/internal/client/models"
	"github.com/mkorobov/passdash/internal/client/store"
)

func TestEditorValidationBeforeNetwork(t *testing.T) {
	tests := []struct {
		name    string
		form    EditorForm
		message string
	}{
		{"missing title", EditorForm{Secret: "x"}, "Title is required."},
		{"missing password", EditorForm{Title: "Bank"}, "Password is required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vault := &fakeVault{}
			h := newHarness(t, vault)

			h.flows.Editor.OpenAdd()
			h.flows.Editor.SetForm(tt.form)

			err := h.flows.Editor.Submit(context.Background())
			require.ErrorIs(t, err, gateway.ErrValidation)
			assert.Zero(t, vault.createCalls, "validation failure must not reach the vault")
			assert.Equal(t, EditorEditing, h.flows.Editor.State())
			assert.Contains(t, h.messages(), tt.message)
		})
	}
}

func TestEditorAddSuccessClosesAndReloads(t *testing.T) {
	vault := &fakeVault{}
	h := newHarness(t, vault)
	ctx := context.Background()
	require.NoError(t, h.store.Reload(ctx))

	h.flows.Editor.OpenAdd()
	assert.False(t, h.flows.Editor.IsEdit())
	h.flows.Editor.SetForm(EditorForm{Title: "Bank", Secret: "hunter2", Category: "Finance"})

	require.NoError(t, h.flows.Editor.Submit(ctx))
	assert.Equal(t, EditorClosed, h.flows.Editor.State())
	assert.Empty(t, h.flows.Editor.Form(), "form is wiped after a successful submit")
	assert.Contains(t, h.messages(), "Password added successfully!")

	entries := h.store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Bank", entries[0].Title)
}

func TestEditorServerFailureReturnsToEditing(t *testing.T) {
	vault := &fakeVault{createErr: &gateway.ServerError{Status: 400, Message: "Title already exists."}}
	h := newHarness(t, vault)

	h.flows.Editor.OpenAdd()
	h.flows.Editor.SetForm(EditorForm{Title: "Bank", Secret: "hunter2"})

	require.Error(t, h.flows.Editor.Submit(context.Background()))
	assert.Equal(t, EditorEditing, h.flows.Editor.State())
	assert.Equal(t, "Bank", h.flows.Editor.Form().Title, "form survives a failed submit")
	assert.Contains(t, h.messages(), "Title already exists.")
}

func TestEditorOpenEditSeedsFormAndLoadsSecret(t *testing.T) {
	vault := &fakeVault{
		entries: []models.CredentialEntry{{
			ID: 7, Title: "Mail", Username: "bob", Category: "Personal", SecretHidden: true,
		}},
		decryptValue: "s3cret",
	}
	h := newHarness(t, vault)
	ctx := context.Background()
	require.NoError(t, h.store.Reload(ctx))

	require.NoError(t, h.flows.Editor.OpenEdit(7))
	assert.True(t, h.flows.Editor.IsEdit())
	assert.True(t, h.flows.Editor.SecretLoading())
	assert.Equal(t, "Mail", h.flows.Editor.Form().Title)
	assert.Empty(t, h.flows.Editor.Form().Secret)

	require.NoError(t, h.flows.Editor.LoadSecret(ctx))
	assert.False(t, h.flows.Editor.SecretLoading())
	assert.Equal(t, "s3cret", h.flows.Editor.Form().Secret)
}

func TestEditorOpenEditUnknownEntry(t *testing.T) {
	h := newHarness(t, &fakeVault{})
	require.NoError(t, h.store.Reload(context.Background()))

	err := h.flows.Editor.OpenEdit(99)
	require.ErrorIs(t, err, store.ErrEntryNotFound)
	assert.Equal(t, EditorClosed, h.flows.Editor.State())
	assert.Contains(t, h.messages(), "Password entry no longer exists.")
}

func TestEditorLoadSecretFailureKeepsFormEditable(t *testing.T) {
	vault := &fakeVault{
		entries:    []models.CredentialEntry{{ID: 1, Title: "Mail", SecretHidden: true}},
		decryptErr: gateway.ErrDecrypt,
	}
	h := newHarness(t, vault)
	ctx := context.Background()
	require.NoError(t, h.store.Reload(ctx))

	require.NoError(t, h.flows.Editor.OpenEdit(1))
	require.Error(t, h.flows.Editor.LoadSecret(ctx))
	assert.False(t, h.flows.Editor.SecretLoading())
	assert.Empty(t, h.flows.Editor.Form().Secret)
	assert.Equal(t, EditorEditing, h.flows.Editor.State())
	assert.Contains(t, h.messages(), "Failed to decrypt password.")
}

func TestEditorLoadSecretDroppedAfterCancel(t *testing.T) {
	vault := &fakeVault{
		entries:      []models.CredentialEntry{{ID: 1, Title: "Mail", SecretHidden: true}},
		decryptValue: "s3cret",
	}
	h := newHarness(t, vault)
	ctx := context.Background()
	require.NoError(t, h.store.Reload(ctx))

	require.NoError(t, h.flows.Editor.OpenEdit(1))
	h.flows.Editor.Cancel()

	require.NoError(t, h.flows.Editor.LoadSecret(ctx))
	assert.Empty(t, h.flows.Editor.Form().Secret)
}

func TestEditorGenerateSecretFillsForm(t *testing.T) {
	vault := &fakeVault{generated: gateway.Generated{Password: "aB3$xY7!kQ2@Mn9p", Strength: 90}}
	h := newHarness(t, vault)

	h.flows.Editor.OpenAdd()
	require.NoError(t, h.flows.Editor.GenerateSecret(context.Background()))
	assert.Equal(t, "aB3$xY7!kQ2@Mn9p", h.flows.Editor.Form().Secret)
	assert.Contains(t, h.messages(), "Password generated!")
}

func TestEditorCopySecret(t *testing.T) {
	h := newHarness(t, &fakeVault{})

	h.flows.Editor.OpenAdd()
	h.flows.Editor.SetForm(EditorForm{Title: "Bank", Secret: "hunter2"})
	require.NoError(t, h.flows.Editor.CopySecret())
	assert.Equal(t, []string{"hunter2"}, h.clip.written())
	assert.Contains(t, h.messages(), "Password copied to clipboard!")
}

func TestEditorCancelWipesForm(t *testing.T) {
	h := newHarness(t, &fakeVault{})

	h.flows.Editor.OpenAdd()
	h.flows.Editor.SetForm(EditorForm{Title: "Bank", Secret: "hunter2"})
	h.flows.Editor.Cancel()
	assert.Equal(t, EditorClosed, h.flows.Editor.State())
	assert.Empty(t, h.flows.Editor.Form())
}

// TestCredentialLifecycle walks the create → edit → delete path against a
// stateful vault, checking the projection after each step.
func TestCredentialLifecycle(t *testing.T) {
	vault := &fakeVault{}
	h := newHarness(t, vault)
	ctx := context.Background()
	require.NoError(t, h.store.Reload(ctx))
	assert.Equal(t, store.EmptyVault, h.store.EmptyState())

	// Create.
	h.flows.Editor.OpenAdd()
	h.flows.Editor.SetForm(EditorForm{Title: "Bank", Secret: "hunter2"})
	require.NoError(t, h.flows.Editor.Submit(ctx))

	visible := h.store.Project()
	require.Len(t, visible, 1)
	assert.Equal(t, "Bank", visible[0].Title)
	assert.Equal(t, store.EmptyNone, h.store.EmptyState())

	// Edit: assign a category and check it joins the category set.
	id := visible[0].ID
	require.NoError(t, h.flows.Editor.OpenEdit(id))
	require.NoError(t, h.flows.Editor.LoadSecret(ctx))
	form := h.flows.Editor.Form()
	form.Category = "Finance"
	if form.Secret == "" {
		form.Secret = "hunter2"
	}
	h.flows.Editor.SetForm(form)
	require.NoError(t, h.flows.Editor.Submit(ctx))
	assert.Contains(t, h.messages(), "Password updated successfully!")
	assert.Contains(t, h.store.Categories(), "Finance")

	h.store.SetCategory("Finance")
	require.Len(t, h.store.Project(), 1)
	h.store.SetCategory(store.CategoryAll)

	// Delete via the viewer's confirm path.
	require.NoError(t, h.flows.Viewer.Open(id))
	h.flows.Viewer.RequestDelete()
	assert.False(t, h.flows.Viewer.IsOpen())
	require.NoError(t, h.flows.Confirm.Do(ctx))

	assert.Contains(t, h.messages(), "Password deleted successfully!")
	assert.Empty(t, h.store.Entries())
	assert.Equal(t, store.EmptyVault, h.store.EmptyState())
}
