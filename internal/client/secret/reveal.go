// Package secret governs when a plaintext secret may be shown or copied:
// decrypt-on-demand reveal sessions tied to a single modal instance, and
// time-boxed clipboard retention.
package secret

import (
	"context"
	"errors"
	"sync"

	"github.com/mkorobov/passdash/internal/client/models"
)

// ErrSessionClosed is returned when a reveal resolves after its modal
// instance was closed; the plaintext is discarded, never delivered.
var ErrSessionClosed = errors.New("reveal session closed")

// Decrypter is the slice of the vault boundary a reveal session needs.
type Decrypter interface {
	Decrypt(ctx context.Context, id int) (string, error)
}

// Controller creates reveal sessions over the vault's decrypt endpoint.
type Controller struct {
	decrypter Decrypter
}

func NewController(d Decrypter) *Controller {
	return &Controller{decrypter: d}
}

// NewSession opens a reveal session for one modal instance showing the
// given entry. For an entry whose secret came in clear the session is
// seeded with it and Reveal never touches the network; a hidden secret is
// fetched fresh per reveal.
func (c *Controller) NewSession(entry models.CredentialEntry) *Session {
	s := &Session{
		decrypter: c.decrypter,
		entryID:   entry.ID,
		hidden:    entry.SecretHidden,
	}
	if !entry.SecretHidden {
		s.plaintext = entry.Secret
	}
	return s
}

// NewSeededSession opens a session over an already-known plaintext (e.g. a
// consumed shared entry or a freshly generated password).
func (c *Controller) NewSeededSession(plaintext string) *Session {
	return &Session{plaintext: plaintext}
}

type inflight struct {
	done  chan struct{}
	value string
	err   error
}

// Session is the reveal state of one open modal instance. The secret field
// starts masked; Reveal produces the plaintext, Mask retracts it. Closing
// the session discards any plaintext, including one still in flight.
type Session struct {
	decrypter Decrypter
	entryID   int
	hidden    bool

	mu        sync.Mutex
	plaintext string
	visible   bool
	closed    bool
	pending   *inflight
}

// Reveal returns the plaintext secret, fetching it when hidden. A second
// concurrent Reveal joins the in-flight decrypt instead of issuing another
// request; a Reveal after Mask fetches fresh (no caching across separate
// reveals of a hidden secret). If the session closes while the decrypt is
// in flight the result is dropped and ErrSessionClosed returned.
func (s *Session) Reveal(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrSessionClosed
	}
	if !s.hidden {
		s.visible = true
		v := s.plaintext
		s.mu.Unlock()
		return v, nil
	}
	if s.visible && s.plaintext != "" {
		// Already revealed in this instance; a second click is a no-op.
		v := s.plaintext
		s.mu.Unlock()
		return v, nil
	}
	if fl := s.pending; fl != nil {
		s.mu.Unlock()
		<-fl.done
		return fl.value, fl.err
	}

	fl := &inflight{done: make(chan struct{})}
	s.pending = fl
	s.mu.Unlock()

	value, err := s.decrypter.Decrypt(ctx, s.entryID)

	s.mu.Lock()
	s.pending = nil
	if s.closed {
		s.mu.Unlock()
		fl.value, fl.err = "", ErrSessionClosed
		close(fl.done)
		return "", ErrSessionClosed
	}
	if err == nil {
		s.plaintext = value
		s.visible = true
	}
	fl.value, fl.err = value, err
	s.mu.Unlock()
	close(fl.done)
	return value, err
}

// Mask hides the secret again. For a hidden-secret session the plaintext is
// discarded, so the next Reveal fetches fresh.
func (s *Session) Mask() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = false
	if s.hidden {
		s.plaintext = ""
	}
}

// Toggle flips visibility as a pure local operation. It never triggers a
// network call: flipping a hidden secret to visible only succeeds when its
// plaintext is already held; otherwise the caller must Reveal. Returns the
// resulting visibility.
func (s *Session) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if s.visible {
		s.visible = false
		if s.hidden {
			s.plaintext = ""
		}
		return false
	}
	if s.plaintext != "" {
		s.visible = true
		return true
	}
	return false
}

// Visible reports whether the secret is currently shown in clear.
func (s *Session) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Close ends the session and discards its plaintext. Any decrypt still in
// flight resolves to ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.visible = false
	s.plaintext = ""
}
