// Package store holds the client's cached view of the credential collection
// and sharing records, and derives the filtered projection shown to the
// user.
//
// The cache is only ever replaced wholesale: a reload fetches the full
// collection and swaps it in, so concurrent edits from another session
// become visible on the next reload and never need merging.
package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/mkorobov/passdash/internal/client/gateway"
	"github.com/mkorobov/passdash/internal/client/models"
	"github.com/mkorobov/passdash/internal/logging"
)

// CategoryAll is the sentinel category that matches every entry.
const CategoryAll = "All"

// ErrEntryNotFound is returned when an entry id is no longer in the cache.
var ErrEntryNotFound = errors.New("entry not in collection")

// EmptyState classifies an empty projection so the host can render the
// right message.
type EmptyState int

const (
	// EmptyNone: the projection has entries.
	EmptyNone EmptyState = iota
	// EmptyVault: the vault itself holds no entries.
	EmptyVault
	// EmptyFiltered: entries exist but none match the active filter.
	EmptyFiltered
)

// Selection is the ephemeral filter state. It deliberately survives
// collection reloads; only an explicit user action changes it.
type Selection struct {
	Category string
	Search   string
}

// Store caches the entry and share collections and derives projections.
// All methods are safe for concurrent use.
type Store struct {
	vault gateway.Vault
	log   logging.Logger

	mu      sync.Mutex
	entries []models.CredentialEntry
	shares  []models.ShareRecord
	loaded  bool
	sel     Selection

	// OnProjection, when set, is called after any change that may alter
	// the visible projection. The host uses it as its render hook.
	OnProjection func()
}

func New(vault gateway.Vault, log logging.Logger) *Store {
	return &Store{
		vault: vault,
		log:   log,
		sel:   Selection{Category: CategoryAll},
	}
}

// Reload fetches the entry and share collections. The two fetches are
// independent: a failure in one leaves that collection's previous cache in
// place while the other is still replaced. Any error is returned after both
// attempts.
func (s *Store) Reload(ctx context.Context) error {
	entriesErr := s.ReloadEntries(ctx)
	sharesErr := s.ReloadShares(ctx)
	return errors.Join(entriesErr, sharesErr)
}

// ReloadEntries replaces the cached entry collection. On failure the
// previous cache stays visible.
func (s *Store) ReloadEntries(ctx context.Context) error {
	entries, err := s.vault.List(ctx)
	if err != nil {
		s.log.Error(ctx, "reloading entries failed", "error", err)
		return err
	}

	s.mu.Lock()
	s.entries = entries
	s.loaded = true
	s.mu.Unlock()

	s.log.Debug(ctx, "entry collection replaced", "entries", len(entries))
	s.notifyProjection()
	return nil
}

// ReloadShares replaces the cached share list. On failure the previous
// cache stays visible.
func (s *Store) ReloadShares(ctx context.Context) error {
	shares, err := s.vault.ShareList(ctx)
	if err != nil {
		s.log.Error(ctx, "reloading shares failed", "error", err)
		return err
	}

	s.mu.Lock()
	s.shares = shares
	s.mu.Unlock()
	return nil
}

// Entry returns the cached entry with the given id.
func (s *Store) Entry(id int) (models.CredentialEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return models.CredentialEntry{}, ErrEntryNotFound
}

// Entries returns a copy of the full cached collection.
func (s *Store) Entries() []models.CredentialEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CredentialEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Shares returns a copy of the cached share list.
func (s *Store) Shares() []models.ShareRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ShareRecord, len(s.shares))
	copy(out, s.shares)
	return out
}

// Selection returns the current filter state.
func (s *Store) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// SetCategory updates the category filter.
func (s *Store) SetCategory(category string) {
	s.mu.Lock()
	s.sel.Category = category
	s.mu.Unlock()
	s.notifyProjection()
}

// SetSearch updates the free-text filter.
func (s *Store) SetSearch(text string) {
	s.mu.Lock()
	s.sel.Search = text
	s.mu.Unlock()
	s.notifyProjection()
}

// Project returns the entries visible under the current selection.
func (s *Store) Project() []models.CredentialEntry {
	s.mu.Lock()
	entries := s.entries
	sel := s.sel
	s.mu.Unlock()
	return Project(entries, sel.Category, sel.Search)
}

// Categories returns the category set derived from the current collection.
func (s *Store) Categories() []string {
	s.mu.Lock()
	entries := s.entries
	s.mu.Unlock()
	return Categories(entries)
}

// EmptyState classifies the current projection for empty-state rendering.
func (s *Store) EmptyState() EmptyState {
	s.mu.Lock()
	entries := s.entries
	sel := s.sel
	s.mu.Unlock()

	if len(entries) == 0 {
		return EmptyVault
	}
	if len(Project(entries, sel.Category, sel.Search)) == 0 {
		return EmptyFiltered
	}
	return EmptyNone
}

// Loaded reports whether at least one entry reload has succeeded.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *Store) notifyProjection() {
	if s.OnProjection != nil {
		s.OnProjection()
	}
}

// Project filters entries by exact category match (CategoryAll passes
// everything) and, when search is non-empty, by case-insensitive substring
// over title, username, website, category and notes. It never mutates its
// input.
func Project(entries []models.CredentialEntry, category, search string) []models.CredentialEntry {
	out := make([]models.CredentialEntry, 0, len(entries))
	needle := strings.ToLower(search)
	for _, e := range entries {
		if category != CategoryAll && e.Category != category {
			continue
		}
		if needle != "" && !matchesSearch(e, needle) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesSearch(e models.CredentialEntry, needle string) bool {
	for _, field := range []string{e.Title, e.Username, e.Website, e.Category, e.Notes} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Categories derives the sorted set of distinct non-empty categories plus
// the CategoryAll sentinel. It is recomputed from scratch on every call so
// the list can never go stale relative to the collection.
func Categories(entries []models.CredentialEntry) []string {
	set := map[string]struct{}{CategoryAll: {}}
	for _, e := range entries {
		if e.Category != "" {
			set[e.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
