package secret

import (
	"sync"
	"time"
)

// DefaultClearDelay is how long a copied secret may stay on the clipboard.
const DefaultClearDelay = 30 * time.Second

// afterFuncFn is a test seam for timer scheduling.
var afterFuncFn = func(d time.Duration, f func()) { time.AfterFunc(d, f) }

// Guard copies secret values to the clipboard and retracts them after a
// delay. The retraction is best-effort and race-prone: it only clears the
// clipboard if it still holds exactly the copied value, and it tolerates a
// read failure silently (another process may own the clipboard by then).
type Guard struct {
	clip Clipboard

	mu    sync.Mutex
	delay time.Duration
	gen   uint64

	// OnClearDone, when set, is called after each scheduled clear attempt
	// with whether the clipboard was actually cleared. Used by tests and
	// diagnostics; never by control flow.
	OnClearDone func(cleared bool)
}

// NewGuard creates a guard over the given clipboard; a non-positive delay
// means DefaultClearDelay.
func NewGuard(clip Clipboard, delay time.Duration) *Guard {
	if delay <= 0 {
		delay = DefaultClearDelay
	}
	return &Guard{clip: clip, delay: delay}
}

// SetDelay adjusts the retraction delay (the user's clipboard-timeout
// setting). It affects copies made after the call.
func (g *Guard) SetDelay(d time.Duration) {
	if d <= 0 {
		return
	}
	g.mu.Lock()
	g.delay = d
	g.mu.Unlock()
}

// Delay returns the current retraction delay.
func (g *Guard) Delay() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.delay
}

// Copy writes a secret value to the clipboard and schedules its timed
// retraction. A newer Copy supersedes older pending retractions.
func (g *Guard) Copy(value string) error {
	if err := g.clip.Write(value); err != nil {
		return err
	}

	g.mu.Lock()
	g.gen++
	token := g.gen
	delay := g.delay
	g.mu.Unlock()

	afterFuncFn(delay, func() { g.clear(token, value) })
	return nil
}

// CopyText writes a non-secret value (username, share link) without
// scheduling retraction.
func (g *Guard) CopyText(value string) error {
	return g.clip.Write(value)
}

func (g *Guard) clear(token uint64, value string) {
	g.mu.Lock()
	superseded := token != g.gen
	g.mu.Unlock()
	if superseded {
		g.clearDone(false)
		return
	}

	current, err := g.clip.Read()
	if err != nil {
		// Cannot verify ownership; leave the clipboard alone.
		g.clearDone(false)
		return
	}
	if current != value {
		// Someone else wrote the clipboard since; not ours to clear.
		g.clearDone(false)
		return
	}

	_ = g.clip.Write("")
	g.clearDone(true)
}

func (g *Guard) clearDone(cleared bool) {
	if g.OnClearDone != nil {
		g.OnClearDone(cleared)
	}
}
