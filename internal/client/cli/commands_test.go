package cli

import (
	"testing"

	"github.com/mkorobov/passdash/internal/client/models"
)

func TestShareLine_NoEntryReference(t *testing.T) {
	// Share payloads from the service carry no entry reference; the line
	// must stand on its own instead of resolving against entry 0.
	s := models.ShareRecord{ID: "abcdef1234567890", AccessCount: 2, AccessLimit: 5}

	line := shareLine(s, func(id int) (string, bool) {
		t.Fatalf("unexpected title lookup for id %d", id)
		return "", false
	})

	if line != "abcdef12...  expires never  Accessed 2/5 times" {
		t.Fatalf("line: %q", line)
	}
}

func TestShareLine_ResolvesTitle(t *testing.T) {
	s := models.ShareRecord{ID: "abcdef1234567890", EntryID: 3}

	line := shareLine(s, func(id int) (string, bool) {
		if id != 3 {
			t.Fatalf("lookup id: %d", id)
		}
		return "Bank account", true
	})

	if line != "abcdef12...  Bank account              expires never  Accessed 0 times" {
		t.Fatalf("line: %q", line)
	}
}

func TestShareLine_UnresolvedReference(t *testing.T) {
	s := models.ShareRecord{ID: "abcdef1234567890", EntryID: 9}

	line := shareLine(s, func(id int) (string, bool) { return "", false })

	if line != "abcdef12...  expires never  Accessed 0 times" {
		t.Fatalf("line: %q", line)
	}
}

func TestWebsiteDisplay(t *testing.T) {
	linked := models.CredentialEntry{Website: "https://bank.example.com"}
	if got := websiteDisplay(linked); got != "https://bank.example.com  (link)" {
		t.Fatalf("linked: %q", got)
	}

	plain := models.CredentialEntry{Website: "corporate intranet"}
	if got := websiteDisplay(plain); got != "corporate intranet" {
		t.Fatalf("plain: %q", got)
	}
}
