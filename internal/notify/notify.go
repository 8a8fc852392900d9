// Package notify holds transient, user-visible notices such as request
// failures and share confirmations.
package notify

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is one message shown to the user.
type Notice struct {
	ID      uint64
	Level   Level
	Message string
	At      time.Time
}

const (
	DefaultTTL = 4 * time.Second
	maxNotices = 20
)

// Center stores recent notices. It is safe for concurrent use.
type Center struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	notices []Notice
	nextID  uint64
	subs    map[uint64]func(Notice)
	nextSub uint64
}

// NewCenter returns a Center whose notices expire after ttl. A non-positive
// ttl uses DefaultTTL.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl, now: time.Now}
}

// Push records a notice and forwards it to subscribers. Blank messages are
// dropped.
func (c *Center) Push(level Level, message string) (Notice, bool) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Notice{}, false
	}

	c.mu.Lock()
	c.nextID++
	n := Notice{ID: c.nextID, Level: level, Message: message, At: c.now()}
	c.notices = append(c.notices, n)
	if over := len(c.notices) - maxNotices; over > 0 {
		c.notices = slices.Delete(c.notices, 0, over)
	}
	subs := make([]func(Notice), 0, len(c.subs))
	for _, id := range sortedKeys(c.subs) {
		subs = append(subs, c.subs[id])
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
	return n, true
}

// Error pushes an error notice.
func (c *Center) Error(message string) { c.Push(LevelError, message) }

// Success pushes a success notice.
func (c *Center) Success(message string) { c.Push(LevelSuccess, message) }

// Active returns the notices younger than the TTL at now, oldest first, and
// forgets expired ones.
func (c *Center) Active(now time.Time) []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = slices.DeleteFunc(c.notices, func(n Notice) bool {
		return now.Sub(n.At) >= c.ttl
	})
	return slices.Clone(c.notices)
}

// Dismiss removes the notice with id.
func (c *Center) Dismiss(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = slices.DeleteFunc(c.notices, func(n Notice) bool { return n.ID == id })
}

// Subscribe calls fn for every pushed notice and returns a function that
// stops delivery.
func (c *Center) Subscribe(fn func(Notice)) func() {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subs == nil {
		c.subs = make(map[uint64]func(Notice))
	}
	c.nextSub++
	id := c.nextSub
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func sortedKeys(m map[uint64]func(Notice)) []uint64 {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
