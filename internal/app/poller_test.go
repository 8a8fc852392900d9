package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 30 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 30 * time.Second},
		{"negative failures", -1, 30 * time.Second},
		{"one failure", 1, time.Minute},
		{"two failures", 2, 2 * time.Minute},
		{"three failures", 3, 4 * time.Minute},
		{"four failures capped", 4, 5 * time.Minute}, // Would be 8m, capped to 5m
		{"many failures capped", 60, 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 100; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type countingRefresher struct {
	bookmarks   atomic.Int32
	connections atomic.Int32
	err         error
}

func (c *countingRefresher) FetchBookmarks(context.Context) error {
	c.bookmarks.Add(1)
	return c.err
}

func (c *countingRefresher) FetchUserConnections(context.Context) error {
	c.connections.Add(1)
	return nil
}

func TestStartPoller_RefreshesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &countingRefresher{}
	StartPoller(ctx, r, 5*time.Millisecond, nil)

	deadline := time.Now().Add(2 * time.Second)
	for r.bookmarks.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("poller did not refresh twice in time")
		}
		time.Sleep(2 * time.Millisecond)
	}
	cancel()
	time.Sleep(20 * time.Millisecond)

	stopped := r.bookmarks.Load()
	time.Sleep(30 * time.Millisecond)
	if got := r.bookmarks.Load(); got != stopped {
		t.Fatalf("poller kept running after cancel: %d -> %d", stopped, got)
	}
	if r.connections.Load() < 2 {
		t.Fatalf("connections refreshed %d times, want >= 2", r.connections.Load())
	}
}

func TestRefresh_JoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	r := &countingRefresher{err: boom}
	err := refresh(context.Background(), r)
	if !errors.Is(err, boom) {
		t.Fatalf("refresh error = %v, want boom", err)
	}
	if r.connections.Load() != 1 {
		t.Fatalf("connections should still refresh after a bookmark failure")
	}
}
