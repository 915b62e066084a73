// Package notify holds the short-lived text messages shown on the capture
// overlay after an action ("Captured: 10, 20", "Ruler Cancelled", ...).
package notify

import "time"

// DefaultTTL is how long a message stays visible.
const DefaultTTL = 2 * time.Second

// Entry is a queued message and the instant it stops being shown.
type Entry struct {
	Text   string
	Expiry time.Time
}

// Queue is an insertion-ordered list of messages. It is not safe for
// concurrent use; the overlay touches it only from its event loop.
//
// Expired entries are dropped only when Live is called, which the overlay
// does once per rendered frame. A burst of pushes between frames may grow
// the queue until the next frame prunes it.
type Queue struct {
	entries []Entry
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Queue.
type Option func(*Queue)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(q *Queue) {
		if ttl > 0 {
			q.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		q.now = now
	}
}

// NewQueue returns an empty queue.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Push appends text, visible until now+TTL.
func (q *Queue) Push(text string) {
	q.entries = append(q.entries, Entry{Text: text, Expiry: q.now().Add(q.ttl)})
}

// Live returns the entries still visible at now, in insertion order, and
// permanently discards the rest.
func (q *Queue) Live(now time.Time) []Entry {
	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.Expiry.After(now) {
			kept = append(kept, e)
		}
	}
	// Clear the tail so dropped strings can be collected.
	clear(q.entries[len(kept):])
	q.entries = kept

	out := make([]Entry, len(kept))
	copy(out, kept)
	return out
}

// Len returns the number of queued entries, expired or not.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Now returns the queue's notion of the current time.
func (q *Queue) Now() time.Time {
	return q.now()
}
