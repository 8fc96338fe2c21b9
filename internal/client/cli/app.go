package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/mkorobov/passdash/internal/client/config"
	"github.com/mkorobov/passdash/internal/client/flows"
	"github.com/mkorobov/passdash/internal/client/gateway"
	"github.com/mkorobov/passdash/internal/client/notify"
	"github.com/mkorobov/passdash/internal/client/secret"
	"github.com/mkorobov/passdash/internal/client/settings"
	"github.com/mkorobov/passdash/internal/client/store"
	"github.com/mkorobov/passdash/internal/logging"
)

// App is the terminal host over the dashboard core. It owns the wiring and
// the interactive prompts; every decision lives in the core packages.
type App struct {
	config   *config.Config
	vault    *gateway.HTTPVault
	store    *store.Store
	notify   *notify.Queue
	guard    *secret.Guard
	flows    *flows.Flows
	settings *settings.Service
	log      logging.Logger
	reader   *bufio.Reader

	// Set by the session watcher goroutine, read by the REPL prompt.
	sessionExpired atomic.Bool
}

func NewApp(c *config.Config, log logging.Logger) *App {
	vault := gateway.NewHTTPVault(c.BaseURL)
	if c.SessionToken != "" {
		vault.SetToken(c.SessionToken)
	}

	st := store.New(vault, log)
	queue := notify.NewQueue(notify.DefaultTTL)
	guard := secret.NewGuard(&secret.OSC52Clipboard{}, c.ClipboardClearDelay)
	secrets := secret.NewController(vault)

	a := &App{
		config:   c,
		vault:    vault,
		store:    st,
		notify:   queue,
		guard:    guard,
		settings: settings.NewService(vault, guard, log),
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
	}
	a.flows = flows.New(flows.Deps{
		Vault:   vault,
		Store:   st,
		Notify:  queue,
		Secrets: secrets,
		Guard:   guard,
		Log:     log,
	})

	// Notices print as they are posted; the REPL has no persistent screen
	// area to age them out of.
	queue.OnPost = func(n notify.Notice) {
		printlnFn(fmt.Sprintf("[%s] %s", n.Level, n.Message))
	}

	return a
}

func (a *App) Run(ctx context.Context) {
	printlnFn("Password dashboard (type 'help' for commands)")

	if err := a.store.Reload(ctx); err != nil {
		a.log.Warn(ctx, "initial reload failed", "error", err)
	}
	if _, err := a.settings.Load(ctx); err != nil {
		a.log.Warn(ctx, "settings load failed", "error", err)
	}

	go a.StartSessionWatcher(ctx, a.config.SessionCheckInterval)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) status() string {
	if a.sessionExpired.Load() {
		return "(session expired)"
	}
	exp, err := a.vault.SessionExpiry()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("(session ends %s)", exp.Format("15:04"))
}

// StartSessionWatcher periodically checks the session token's expiry and
// posts a warning once it has passed. The service stays the authority:
// requests after expiry fail with 401 regardless of what the watcher says.
func (a *App) StartSessionWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			exp, err := a.vault.SessionExpiry()
			if err != nil {
				continue
			}
			if !a.sessionExpired.Load() && time.Now().After(exp) {
				a.sessionExpired.Store(true)
				a.notify.Warning("Your session has expired. Please log in again.")
			}

		case <-ctx.Done():
			return
		}
	}
}
