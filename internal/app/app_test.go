package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
)

type recordingLoader struct {
	mu    sync.Mutex
	calls []string
	fail  string
}

func (r *recordingLoader) record(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
	if name == r.fail {
		return errors.New(name + " failed")
	}
	return nil
}

func (r *recordingLoader) FetchFeed(_ context.Context, page int) error {
	if page != 1 {
		return errors.New("unexpected page")
	}
	return r.record("feed")
}
func (r *recordingLoader) FetchBookmarks(context.Context) error { return r.record("bookmarks") }
func (r *recordingLoader) FetchPostConnections(context.Context) error {
	return r.record("connections")
}
func (r *recordingLoader) FetchUserConnections(context.Context) error { return r.record("network") }

func TestInitialLoad_RunsEveryFetchDespiteFailure(t *testing.T) {
	l := &recordingLoader{fail: "bookmarks"}
	initialLoad(context.Background(), l, zap.NewNop())

	if len(l.calls) != 4 {
		t.Fatalf("calls = %v, want all four fetches", l.calls)
	}
	seen := map[string]bool{}
	for _, c := range l.calls {
		seen[c] = true
	}
	for _, want := range []string{"feed", "bookmarks", "connections", "network"} {
		if !seen[want] {
			t.Fatalf("missing %s in %v", want, l.calls)
		}
	}
}
