package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkorobov/passdash/internal/client/gateway"
	"github.com/mkorobov/passdash/internal/client/models"
	"github.com/mkorobov/passdash/internal/logging"
)

type fakeVault struct {
	gateway.Vault

	entries   []models.CredentialEntry
	listErr   error
	shares    []models.ShareRecord
	sharesErr error

	listCalls  int
	shareCalls int
}

func (f *fakeVault) List(ctx context.Context) ([]models.CredentialEntry, error) {
	f.listCalls++
	return f.entries, f.listErr
}

func (f *fakeVault) ShareList(ctx context.Context) ([]models.ShareRecord, error) {
	f.shareCalls++
	return f.shares, f.sharesErr
}

func nopLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testEntries() []models.CredentialEntry {
	return []models.CredentialEntry{
		{ID: 0, Title: "Bank", Username: "alice", Category: "Finance"},
		{ID: 1, Title: "Mail", Username: "bob", Website: "https://mail.example"},
		{ID: 2, Title: "Forum", Username: "alice", Category: "Social", Notes: "old account"},
	}
}

func TestStore_Reload_ReplacesCollections(t *testing.T) {
	vault := &fakeVault{
		entries: testEntries(),
		shares:  []models.ShareRecord{{ID: "ab12cd34", EntryID: 0}},
	}
	s := New(vault, nopLogger())

	calls := 0
	s.OnProjection = func() { calls++ }

	require.NoError(t, s.Reload(context.Background()))
	assert.Len(t, s.Entries(), 3)
	assert.Len(t, s.Shares(), 1)
	assert.True(t, s.Loaded())
	assert.Equal(t, 1, calls)

	// A second reload fully replaces, never merges.
	vault.entries = testEntries()[:1]
	require.NoError(t, s.Reload(context.Background()))
	assert.Len(t, s.Entries(), 1)
}

func TestStore_Reload_FailureKeepsPreviousCache(t *testing.T) {
	vault := &fakeVault{entries: testEntries()}
	s := New(vault, nopLogger())
	require.NoError(t, s.Reload(context.Background()))

	vault.listErr = errors.New("boom")
	err := s.Reload(context.Background())
	require.Error(t, err)
	assert.Len(t, s.Entries(), 3, "previous cache must stay visible")
}

func TestStore_Reload_ShareFailureIndependent(t *testing.T) {
	vault := &fakeVault{
		entries:   testEntries(),
		sharesErr: errors.New("boom"),
	}
	s := New(vault, nopLogger())

	err := s.Reload(context.Background())
	require.Error(t, err)
	assert.Len(t, s.Entries(), 3, "entries still replaced when share fetch fails")
}

func TestStore_SelectionSurvivesReload(t *testing.T) {
	vault := &fakeVault{entries: testEntries()}
	s := New(vault, nopLogger())

	s.SetCategory("Finance")
	s.SetSearch("bank")
	require.NoError(t, s.Reload(context.Background()))

	sel := s.Selection()
	assert.Equal(t, "Finance", sel.Category)
	assert.Equal(t, "bank", sel.Search)
}

func TestProject_CategoryFilter(t *testing.T) {
	entries := testEntries()

	assert.Len(t, Project(entries, CategoryAll, ""), 3)
	got := Project(entries, "Finance", "")
	require.Len(t, got, 1)
	assert.Equal(t, "Bank", got[0].Title)
	assert.Empty(t, Project(entries, "Missing", ""))
}

func TestProject_SearchMatchesAllFields(t *testing.T) {
	entries := testEntries()

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"title", "bank", []string{"Bank"}},
		{"username", "ALICE", []string{"Bank", "Forum"}},
		{"website", "mail.example", []string{"Mail"}},
		{"category", "social", []string{"Forum"}},
		{"notes", "old acc", []string{"Forum"}},
		{"no match", "zzz", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Project(entries, CategoryAll, tc.search)
			titles := make([]string, 0, len(got))
			for _, e := range got {
				titles = append(titles, e.Title)
			}
			if tc.want == nil {
				assert.Empty(t, titles)
			} else {
				assert.Equal(t, tc.want, titles)
			}
		})
	}
}

func TestProject_CategoryAndSearchCombine(t *testing.T) {
	entries := testEntries()
	got := Project(entries, "Social", "alice")
	require.Len(t, got, 1)
	assert.Equal(t, "Forum", got[0].Title)

	assert.Empty(t, Project(entries, "Finance", "bob"))
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"All", "Finance", "Social"}, Categories(testEntries()))
	assert.Equal(t, []string{"All"}, Categories(nil))

	// Duplicates collapse.
	entries := []models.CredentialEntry{
		{Category: "Work"}, {Category: "Work"}, {Category: ""},
	}
	assert.Equal(t, []string{"All", "Work"}, Categories(entries))
}

func TestStore_EmptyState(t *testing.T) {
	vault := &fakeVault{}
	s := New(vault, nopLogger())

	require.NoError(t, s.Reload(context.Background()))
	assert.Equal(t, EmptyVault, s.EmptyState(), "empty vault with no filter")

	vault.entries = testEntries()
	require.NoError(t, s.Reload(context.Background()))
	assert.Equal(t, EmptyNone, s.EmptyState())

	s.SetSearch("zzz-no-match")
	assert.Equal(t, EmptyFiltered, s.EmptyState())

	// With entries gone again, the vault-empty message wins even though a
	// filter is also active once the filter is cleared.
	s.SetSearch("")
	vault.entries = nil
	require.NoError(t, s.Reload(context.Background()))
	assert.Equal(t, EmptyVault, s.EmptyState())
}

func TestStore_Entry(t *testing.T) {
	vault := &fakeVault{entries: testEntries()}
	s := New(vault, nopLogger())
	require.NoError(t, s.Reload(context.Background()))

	e, err := s.Entry(1)
	require.NoError(t, err)
	assert.Equal(t, "Mail", e.Title)

	_, err = s.Entry(42)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}
