package ui

import (
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	if got := truncate("  hello  ", 10); got != "hello" {
		t.Fatalf("truncate trims = %q, want hello", got)
	}
	if got := truncate("hello world", 8); got != "hello..." {
		t.Fatalf("truncate = %q, want hello...", got)
	}
	if got := truncate("héllo", 2); got != "hé" {
		t.Fatalf("truncate limit<=3 = %q, want hé", got)
	}
	if got := truncate("abc", 0); got != "abc" {
		t.Fatalf("truncate no limit = %q", got)
	}
}

func TestOneLine(t *testing.T) {
	if got := oneLine("first\n\nsecond \t third"); got != "first second third" {
		t.Fatalf("oneLine = %q", got)
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		in   time.Time
		want string
	}{
		{"zero", time.Time{}, ""},
		{"future", now.Add(time.Minute), "just now"},
		{"seconds", now.Add(-30 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-49 * time.Hour), "2d ago"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := timeAgo(tc.in, now); got != tc.want {
				t.Fatalf("timeAgo = %q, want %q", got, tc.want)
			}
		})
	}

	old := now.Add(-90 * 24 * time.Hour)
	if got := timeAgo(old, now); got != old.In(time.Local).Format("Jan 02 2006") {
		t.Fatalf("timeAgo old = %q", got)
	}
}

func TestWindow(t *testing.T) {
	cases := []struct {
		name                     string
		selected, total, visible int
		start, end               int
	}{
		{"empty", 0, 0, 5, 0, 0},
		{"fits", 2, 3, 5, 0, 3},
		{"top", 0, 10, 4, 0, 4},
		{"middle", 5, 10, 4, 3, 7},
		{"bottom", 9, 10, 4, 6, 10},
		{"selection_out_of_range", 42, 10, 4, 6, 10},
		{"no_room", 3, 10, 0, 0, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := window(tc.selected, tc.total, tc.visible)
			if start != tc.start || end != tc.end {
				t.Fatalf("window(%d,%d,%d) = [%d,%d), want [%d,%d)",
					tc.selected, tc.total, tc.visible, start, end, tc.start, tc.end)
			}
		})
	}
}

func TestClampAndPlural(t *testing.T) {
	if got := clamp(5, 0, -1); got != 0 {
		t.Fatalf("clamp on empty range = %d, want 0", got)
	}
	if got := clamp(-3, 0, 4); got != 0 {
		t.Fatalf("clamp low = %d", got)
	}
	if got := clamp(9, 0, 4); got != 4 {
		t.Fatalf("clamp high = %d", got)
	}
	if got := plural(1, "comment"); got != "1 comment" {
		t.Fatalf("plural(1) = %q", got)
	}
	if got := plural(0, "share"); got != "0 shares" {
		t.Fatalf("plural(0) = %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Fatalf("padRight long = %q", got)
	}
}
