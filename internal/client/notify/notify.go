// Package notify implements the non-blocking feedback channel: a FIFO queue
// of transient notices that stack, can be dismissed individually, and
// auto-expire after a fixed duration.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level tags a notice for rendering.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// DefaultTTL is how long a notice stays visible unless dismissed.
const DefaultTTL = 5 * time.Second

// Notice is one transient feedback message.
type Notice struct {
	ID       string
	Level    Level
	Message  string
	PostedAt time.Time
}

// Test seams for time-dependent behavior.
var (
	nowFn       = time.Now
	afterFuncFn = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
)

// Queue is a FIFO of active notices. Posting never blocks and never
// replaces an existing notice; concurrent notices stack.
type Queue struct {
	mu      sync.Mutex
	notices []Notice
	ttl     time.Duration

	// OnPost, when set, is called with every posted notice. The host uses
	// it as its render hook.
	OnPost func(Notice)
}

// NewQueue creates a queue with the given time-to-live; zero means
// DefaultTTL.
func NewQueue(ttl time.Duration) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{ttl: ttl}
}

// Post appends a notice and schedules its expiry.
func (q *Queue) Post(level Level, message string) Notice {
	n := Notice{
		ID:       uuid.NewString(),
		Level:    level,
		Message:  message,
		PostedAt: nowFn(),
	}

	q.mu.Lock()
	q.notices = append(q.notices, n)
	q.mu.Unlock()

	afterFuncFn(q.ttl, func() { q.Dismiss(n.ID) })

	if q.OnPost != nil {
		q.OnPost(n)
	}
	return n
}

func (q *Queue) Info(message string) Notice    { return q.Post(LevelInfo, message) }
func (q *Queue) Success(message string) Notice { return q.Post(LevelSuccess, message) }
func (q *Queue) Warning(message string) Notice { return q.Post(LevelWarning, message) }
func (q *Queue) Error(message string) Notice   { return q.Post(LevelError, message) }

// Dismiss removes a notice by id. Dismissing an unknown or already-expired
// id is a no-op.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, n := range q.notices {
		if n.ID == id {
			q.notices = append(q.notices[:i], q.notices[i+1:]...)
			return
		}
	}
}

// Active returns the notices currently visible, oldest first.
func (q *Queue) Active() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Notice, len(q.notices))
	copy(out, q.notices)
	return out
}
