package state

import (
	"sync"
	"testing"
	"time"

	"github.com/five82/flock/internal/api"
)

func TestStore_DispatchAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	s.Dispatch(CommentsFetchFulfilled{PostID: "p1", Comments: []api.Comment{
		{ID: "c1", Likes: api.LikeSet{"u1"}},
	}})

	snap := s.Snapshot()
	if snap.Version != 1 {
		t.Fatalf("Version = %d, want 1", snap.Version)
	}
	if snap.UpdatedAt.Before(before) {
		t.Fatalf("UpdatedAt = %v, want >= %v", snap.UpdatedAt, before)
	}
	thread := snap.Comments.Thread("p1")
	if len(thread) != 1 || thread[0].ID != "c1" {
		t.Fatalf("thread = %#v, want c1", thread)
	}

	// Returned snapshot should be independent of the stored one.
	thread[0].ID = "mutated"
	thread[0].Likes[0] = "mutated"
	again := s.Comments().Thread("p1")
	if again[0].ID != "c1" || again[0].Likes[0] != "u1" {
		t.Fatalf("Snapshot should clone comments; got %#v", again[0])
	}
}

func TestStore_NilActionIsIgnored(t *testing.T) {
	var s Store
	s.Dispatch(nil)
	if v := s.Snapshot().Version; v != 0 {
		t.Fatalf("Version = %d, want 0 after nil dispatch", v)
	}
}

func TestStore_SubscribeNotifiesInOrderAndUnsubscribes(t *testing.T) {
	var s Store

	var mu sync.Mutex
	var got []string
	unsubA := s.Subscribe(func(snap Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, "a")
	})
	s.Subscribe(func(snap Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, "b")
		if snap.Version == 0 {
			t.Errorf("listener saw version 0")
		}
	})

	s.Dispatch(BookmarksFetchPending{})
	unsubA()
	unsubA() // idempotent
	s.Dispatch(BookmarksFetchRejected{Message: "boom"})

	mu.Lock()
	defer mu.Unlock()
	want := []string{"a", "b", "b"}
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notifications = %v, want %v", got, want)
		}
	}
}

func TestStore_ListenerReceivesPrivateCopy(t *testing.T) {
	var s Store
	s.Subscribe(func(snap Snapshot) {
		for id := range snap.Bookmarks.Status {
			snap.Bookmarks.Status[id] = false
		}
	})
	s.Dispatch(BookmarkStatusFulfilled{Status: map[string]bool{"p1": true}})

	if v, known := s.Bookmarks().IsBookmarked("p1"); !known || !v {
		t.Fatalf("IsBookmarked(p1) = %v,%v; listener mutation leaked into store", v, known)
	}
}

func TestStore_ConcurrentDispatchIsSerialized(t *testing.T) {
	var s Store
	var last uint64
	var mu sync.Mutex
	s.Subscribe(func(snap Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		if snap.Version <= last {
			t.Errorf("version went backwards: %d after %d", snap.Version, last)
		}
		last = snap.Version
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(BookmarkStatusSet{PostID: "p1", Known: true, Value: true})
		}()
	}
	wg.Wait()

	if v := s.Snapshot().Version; v != 50 {
		t.Fatalf("Version = %d, want 50", v)
	}
}
