package notify

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestQueue() (*Queue, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewQueue(WithClock(clock.Now)), clock
}

func texts(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Text
	}
	return out
}

func TestPush_VisibleUntilExpiry(t *testing.T) {
	q, clock := newTestQueue()
	q.Push("Captured: 10, 20")

	live := q.Live(clock.Now())
	if len(live) != 1 || live[0].Text != "Captured: 10, 20" {
		t.Fatalf("Live() = %v, want the pushed entry", texts(live))
	}

	clock.Advance(1999 * time.Millisecond)
	if live := q.Live(clock.Now()); len(live) != 1 {
		t.Errorf("entry should still be live just before expiry, got %v", texts(live))
	}

	clock.Advance(2 * time.Millisecond)
	if live := q.Live(clock.Now()); len(live) != 0 {
		t.Errorf("entry should expire after 2s, got %v", texts(live))
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after pruning", q.Len())
	}
}

func TestLive_ExpiresExactlyAtDeadline(t *testing.T) {
	q, clock := newTestQueue()
	q.Push("a")
	clock.Advance(DefaultTTL)
	if live := q.Live(clock.Now()); len(live) != 0 {
		t.Errorf("entry with expiry == now should not be live, got %v", texts(live))
	}
}

func TestLive_PruneIdempotent(t *testing.T) {
	q, clock := newTestQueue()
	q.Push("a")
	q.Push("b")
	clock.Advance(3 * time.Second)

	for i := 0; i < 3; i++ {
		if live := q.Live(clock.Now()); len(live) != 0 {
			t.Fatalf("call %d: Live() = %v, want empty", i, texts(live))
		}
	}
}

func TestLive_InsertionOrderAndPartialExpiry(t *testing.T) {
	q, clock := newTestQueue()
	q.Push("first")
	clock.Advance(time.Second)
	q.Push("second")
	q.Push("third")
	clock.Advance(1500 * time.Millisecond)

	got := texts(q.Live(clock.Now()))
	want := []string{"second", "third"}
	if len(got) != len(want) {
		t.Fatalf("Live() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Live()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPush_BurstGrowsUntilNextFrame(t *testing.T) {
	q, clock := newTestQueue()
	for i := 0; i < 50; i++ {
		q.Push("x")
	}
	if q.Len() != 50 {
		t.Errorf("Len() = %d, want 50", q.Len())
	}
	clock.Advance(5 * time.Second)
	q.Live(clock.Now())
	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after frame", q.Len())
	}
}

func TestWithTTL(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	q := NewQueue(WithClock(clock.Now), WithTTL(500*time.Millisecond))
	q.Push("short")
	clock.Advance(600 * time.Millisecond)
	if live := q.Live(clock.Now()); len(live) != 0 {
		t.Errorf("Live() = %v, want empty with 500ms TTL", texts(live))
	}
}

func TestLive_ReturnsCopy(t *testing.T) {
	q, clock := newTestQueue()
	q.Push("a")
	live := q.Live(clock.Now())
	live[0].Text = "mutated"
	if again := q.Live(clock.Now()); again[0].Text != "a" {
		t.Errorf("Live() result should not alias queue storage, got %q", again[0].Text)
	}
}
