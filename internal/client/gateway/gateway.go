// Package gateway defines the typed contract between the dashboard core and
// the remote vault service, plus the HTTP implementation of that contract.
// All persistence and cryptography live behind this boundary; the client
// only consumes opaque decrypt and generate results.
package gateway

import (
	"context"

	"github.com/mkorobov/passdash/internal/client/models"
)

// ShareGrant is the result of creating a share: the opaque id, the link to
// hand out and the one-time-displayed access key.
type ShareGrant struct {
	ShareID   string `json:"share_id"`
	URL       string `json:"share_url"`
	AccessKey string `json:"access_key"`
}

// Generated is a password produced by the service together with its 0–100
// strength score.
type Generated struct {
	Password string `json:"password"`
	Strength int    `json:"strength"`
}

// Settings are the user preferences persisted server-side. ClipboardTimeout
// is in seconds; AutoLogout in minutes.
type Settings struct {
	ThemeMode        string `json:"theme_mode"`
	ClipboardTimeout int    `json:"clipboard_timeout"`
	AutoLogout       int    `json:"auto_logout"`
}

// Vault is the remote service boundary the dashboard core depends on.
// Implementations must not retain plaintext secrets beyond the call that
// produced them.
type Vault interface {
	List(ctx context.Context) ([]models.CredentialEntry, error)
	Create(ctx context.Context, fields models.EntryFields) (int, error)
	Update(ctx context.Context, id int, fields models.EntryFields) error
	Delete(ctx context.Context, id int) error
	Decrypt(ctx context.Context, id int) (string, error)
	Generate(ctx context.Context, opts models.GeneratorOptions) (Generated, error)
	ShareCreate(ctx context.Context, entryID, expirationHours, accessLimit int) (ShareGrant, error)
	ShareList(ctx context.Context) ([]models.ShareRecord, error)
	ShareRevoke(ctx context.Context, shareID string) error
	ShareConsume(ctx context.Context, shareID, accessKey string) (models.SharedEntry, error)
	GetSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
}
