package settings

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkorobov/passdash/internal/client/gateway"
	"github.com/mkorobov/passdash/internal/client/secret"
	"github.com/mkorobov/passdash/internal/logging"
)

type fakeSettingsVault struct {
	gateway.Vault

	mu       sync.Mutex
	stored   gateway.Settings
	getErr   error
	saveErr  error
	saved    []gateway.Settings
	getCalls int
}

func (v *fakeSettingsVault) GetSettings(ctx context.Context) (gateway.Settings, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.getCalls++
	if v.getErr != nil {
		return gateway.Settings{}, v.getErr
	}
	return v.stored, nil
}

func (v *fakeSettingsVault) SaveSettings(ctx context.Context, s gateway.Settings) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.saveErr != nil {
		return v.saveErr
	}
	v.stored = s
	v.saved = append(v.saved, s)
	return nil
}

type nopClipboard struct{ content string }

func (c *nopClipboard) Write(value string) error { c.content = value; return nil }
func (c *nopClipboard) Read() (string, error)    { return c.content, nil }

func newService(vault *fakeSettingsVault) (*Service, *secret.Guard) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	guard := secret.NewGuard(&nopClipboard{}, 0)
	return NewService(vault, guard, log), guard
}

func TestLoadCachesAndApplies(t *testing.T) {
	vault := &fakeSettingsVault{stored: gateway.Settings{
		ThemeMode:        "dark",
		ClipboardTimeout: 45,
		AutoLogout:       15,
	}}
	svc, _ := newService(vault)

	got, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dark", got.ThemeMode)

	cur, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, got, cur)
}

func TestLoadFailureKeepsCache(t *testing.T) {
	vault := &fakeSettingsVault{stored: gateway.Settings{ThemeMode: "light", ClipboardTimeout: 30}}
	svc, _ := newService(vault)
	ctx := context.Background()

	_, err := svc.Load(ctx)
	require.NoError(t, err)

	vault.mu.Lock()
	vault.getErr = errors.New("unavailable")
	vault.mu.Unlock()

	got, err := svc.Load(ctx)
	require.Error(t, err)
	assert.Equal(t, "light", got.ThemeMode, "failed load returns the previous copy")
	cur, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, "light", cur.ThemeMode)
}

func TestSavePersistsAndBecomesCurrent(t *testing.T) {
	vault := &fakeSettingsVault{}
	svc, _ := newService(vault)

	prefs := gateway.Settings{ThemeMode: "dark", ClipboardTimeout: 60, AutoLogout: 5}
	require.NoError(t, svc.Save(context.Background(), prefs))

	assert.Equal(t, []gateway.Settings{prefs}, vault.saved)
	cur, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, prefs, cur)
}

func TestSaveFailureLeavesCurrentUntouched(t *testing.T) {
	vault := &fakeSettingsVault{saveErr: errors.New("unavailable")}
	svc, _ := newService(vault)

	err := svc.Save(context.Background(), gateway.Settings{ThemeMode: "dark"})
	require.Error(t, err)
	_, ok := svc.Current()
	assert.False(t, ok)
}

func TestClipboardTimeoutFeedsGuard(t *testing.T) {
	vault := &fakeSettingsVault{}
	svc, guard := newService(vault)

	require.NoError(t, svc.Save(context.Background(), gateway.Settings{ClipboardTimeout: 45}))
	assert.Equal(t, 45*time.Second, guard.Delay())
}

func TestZeroTimeoutLeavesGuardDelay(t *testing.T) {
	vault := &fakeSettingsVault{}
	svc, guard := newService(vault)

	require.NoError(t, svc.Save(context.Background(), gateway.Settings{ClipboardTimeout: 0}))
	assert.Equal(t, secret.DefaultClearDelay, guard.Delay())
}
