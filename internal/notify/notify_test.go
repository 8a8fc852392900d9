package notify

import (
	"testing"
	"time"
)

func fixedCenter(ttl time.Duration, at time.Time) *Center {
	c := NewCenter(ttl)
	c.now = func() time.Time { return at }
	return c
}

func TestCenterExpiresAfterTTL(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := fixedCenter(0, start)

	c.Error("Failed to like comment")
	c.Success("Post shared successfully")

	active := c.Active(start.Add(time.Second))
	if len(active) != 2 {
		t.Fatalf("Active = %d notices, want 2", len(active))
	}
	if active[0].Level != LevelError || active[1].Level != LevelSuccess {
		t.Fatalf("levels = %v,%v", active[0].Level, active[1].Level)
	}
	if got := c.Active(start.Add(DefaultTTL)); len(got) != 0 {
		t.Fatalf("Active after TTL = %#v, want none", got)
	}
}

func TestCenterDropsBlankAndDismisses(t *testing.T) {
	start := time.Now()
	c := fixedCenter(time.Minute, start)

	if _, ok := c.Push(LevelInfo, "   "); ok {
		t.Fatalf("blank message should be dropped")
	}
	n, ok := c.Push(LevelInfo, "hello")
	if !ok {
		t.Fatalf("Push returned !ok")
	}
	c.Push(LevelInfo, "world")
	c.Dismiss(n.ID)

	active := c.Active(start)
	if len(active) != 1 || active[0].Message != "world" {
		t.Fatalf("Active = %#v, want only world", active)
	}
}

func TestCenterBoundsHistory(t *testing.T) {
	start := time.Now()
	c := fixedCenter(time.Hour, start)
	for i := 0; i < maxNotices+5; i++ {
		c.Push(LevelInfo, "n")
	}
	active := c.Active(start)
	if len(active) != maxNotices {
		t.Fatalf("len = %d, want %d", len(active), maxNotices)
	}
	if active[0].ID != 6 {
		t.Fatalf("oldest kept ID = %d, want 6", active[0].ID)
	}
}

func TestCenterSubscribe(t *testing.T) {
	c := NewCenter(time.Second)
	var got []string
	stop := c.Subscribe(func(n Notice) { got = append(got, n.Message) })

	c.Error("one")
	stop()
	c.Error("two")

	if len(got) != 1 || got[0] != "one" {
		t.Fatalf("delivered = %v, want [one]", got)
	}
}
