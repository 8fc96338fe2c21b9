package flows

import (
	"context"
	"sync"

	"github.com/mkorobov/passdash/internal/client/gateway"
	"github.com/mkorobov/passdash/internal/client/models"
)

// ShareStep is the share-creation flow's position. The step is flow-local:
// closing the modal resets it to the configure step for the next
// invocation.
type ShareStep int

const (
	ShareStepConfigure ShareStep = 1
	ShareStepReveal    ShareStep = 2
)

// ShareFlow is the two-step share-creation flow: configure the expiry and
// usage policy, then reveal the generated link and access key.
type ShareFlow struct {
	f *Flows

	mu         sync.Mutex
	open       bool
	step       ShareStep
	entryID    int
	entryTitle string
	expHours   int
	accessLim  int
	grant      gateway.ShareGrant
	pending    bool
	instance   string
}

// Open starts the flow at the configure step for the given entry.
func (s *ShareFlow) Open(entryID int, entryTitle string) {
	s.f.closeModals()
	s.mu.Lock()
	s.open = true
	s.step = ShareStepConfigure
	s.entryID = entryID
	s.entryTitle = entryTitle
	s.grant = gateway.ShareGrant{}
	s.pending = false
	s.instance = newInstance()
	s.mu.Unlock()
	s.f.stateChanged()
}

// Step returns the flow position.
func (s *ShareFlow) Step() ShareStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// IsOpen reports whether the modal is showing.
func (s *ShareFlow) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// EntryTitle names the credential being shared.
func (s *ShareFlow) EntryTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entryTitle
}

// Generate posts the share-creation request with the given policy
// (accessLimit zero means unlimited). On success the flow advances to the
// reveal step; on failure it stays at configure with the server's message
// surfaced. A concurrent second Generate is a no-op.
func (s *ShareFlow) Generate(ctx context.Context, expirationHours, accessLimit int) error {
	s.mu.Lock()
	if !s.open || s.step != ShareStepConfigure || s.pending {
		s.mu.Unlock()
		return nil
	}
	s.pending = true
	s.expHours = expirationHours
	s.accessLim = accessLimit
	entryID := s.entryID
	instance := s.instance
	s.mu.Unlock()
	s.f.stateChanged()

	grant, err := s.f.deps.Vault.ShareCreate(ctx, entryID, expirationHours, accessLimit)

	s.mu.Lock()
	if s.instance != instance {
		s.mu.Unlock()
		return nil
	}
	s.pending = false
	if err != nil {
		s.mu.Unlock()
		s.f.deps.Notify.Error(gateway.UserMessage(err, "Failed to create share."))
		s.f.stateChanged()
		return err
	}
	s.grant = grant
	s.step = ShareStepReveal
	s.mu.Unlock()
	s.f.stateChanged()
	return nil
}

// Grant returns the created share's link and access key, valid at the
// reveal step.
func (s *ShareFlow) Grant() gateway.ShareGrant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grant
}

// ExpirySummary and AccessSummary render the human-readable policy shown
// alongside the link.
func (s *ShareFlow) ExpirySummary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.DescribeExpiry(s.expHours)
}

func (s *ShareFlow) AccessSummary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.DescribeAccessLimit(s.accessLim)
}

// CopyLink and CopyKey copy the share URL and access key. Neither gets a
// retraction timer: the link is meant to be pasted somewhere, and the key
// must survive until the recipient uses it.
func (s *ShareFlow) CopyLink() error {
	s.mu.Lock()
	url := s.grant.URL
	s.mu.Unlock()
	if url == "" {
		return nil
	}
	if err := s.f.deps.Guard.CopyText(url); err != nil {
		s.f.deps.Notify.Error("Failed to copy link.")
		return err
	}
	s.f.deps.Notify.Success("Link copied to clipboard!")
	return nil
}

func (s *ShareFlow) CopyKey() error {
	s.mu.Lock()
	key := s.grant.AccessKey
	s.mu.Unlock()
	if key == "" {
		return nil
	}
	if err := s.f.deps.Guard.CopyText(key); err != nil {
		s.f.deps.Notify.Error("Failed to copy access key.")
		return err
	}
	s.f.deps.Notify.Success("Access key copied to clipboard!")
	return nil
}

// Close dismisses the modal and resets to the configure step for the next
// invocation.
func (s *ShareFlow) Close() {
	s.close()
	s.f.stateChanged()
}

func (s *ShareFlow) close() {
	s.mu.Lock()
	s.open = false
	s.step = ShareStepConfigure
	s.grant = gateway.ShareGrant{}
	s.pending = false
	s.instance = newInstance()
	s.mu.Unlock()
}
