package state

import (
	"slices"
	"testing"

	"github.com/five82/flock/internal/api"
)

func TestBookmarks_FetchMarksListedPostsBookmarked(t *testing.T) {
	s := reduceBookmarks(BookmarksState{}, BookmarksFetchPending{})
	if !s.Loading {
		t.Fatalf("Loading = false during pending")
	}
	s = reduceBookmarks(s, BookmarksFetchFulfilled{
		Posts: []api.Post{{ID: "p1"}, {ID: "p2"}, {ID: "p1"}},
		Count: 0,
	})

	if !slices.Equal(s.PostIDs, []string{"p1", "p2"}) {
		t.Fatalf("PostIDs = %v, want [p1 p2]", s.PostIDs)
	}
	if s.Count != 2 {
		t.Fatalf("Count = %d, want 2", s.Count)
	}
	for _, id := range s.PostIDs {
		if v, known := s.IsBookmarked(id); !known || !v {
			t.Fatalf("IsBookmarked(%s) = %v,%v", id, v, known)
		}
	}
}

func TestBookmarks_RefetchUnmarksDroppedPosts(t *testing.T) {
	s := reduceBookmarks(BookmarksState{}, BookmarksFetchFulfilled{
		Posts: []api.Post{{ID: "p1"}, {ID: "p2"}},
		Count: 2,
	})
	s = reduceBookmarks(s, BookmarksFetchFulfilled{
		Posts: []api.Post{{ID: "p1"}},
		Count: 1,
	})

	if !slices.Equal(s.PostIDs, []string{"p1"}) {
		t.Fatalf("PostIDs = %v, want [p1]", s.PostIDs)
	}
	if v, known := s.IsBookmarked("p2"); !known || v {
		t.Fatalf("IsBookmarked(p2) = %v,%v, want false,true", v, known)
	}
	if v, known := s.IsBookmarked("p1"); !known || !v {
		t.Fatalf("IsBookmarked(p1) = %v,%v, want true,true", v, known)
	}
}

func TestBookmarks_ToggleOffRemovesFromList(t *testing.T) {
	s := reduceBookmarks(BookmarksState{}, BookmarksFetchFulfilled{
		Posts: []api.Post{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}},
		Count: 3,
	})

	s = reduceBookmarks(s, BookmarkTogglePending{PostID: "p2"})
	s = reduceBookmarks(s, BookmarkStatusSet{PostID: "p2", Known: true, Value: false})
	if !s.Toggling["p2"] {
		t.Fatalf("Toggling[p2] = false during pending")
	}
	s = reduceBookmarks(s, BookmarkToggleFulfilled{PostID: "p2", IsBookmarked: false})

	if !slices.Equal(s.PostIDs, []string{"p1", "p3"}) {
		t.Fatalf("PostIDs = %v, want [p1 p3]", s.PostIDs)
	}
	if s.Count != len(s.PostIDs) {
		t.Fatalf("Count = %d, want %d", s.Count, len(s.PostIDs))
	}
	if v, known := s.IsBookmarked("p2"); !known || v {
		t.Fatalf("IsBookmarked(p2) = %v,%v, want false,true", v, known)
	}
	if s.Toggling["p2"] {
		t.Fatalf("Toggling[p2] still set")
	}
}

func TestBookmarks_ToggleOnKeepsList(t *testing.T) {
	s := reduceBookmarks(BookmarksState{}, BookmarksFetchFulfilled{Posts: []api.Post{{ID: "p1"}}, Count: 1})
	s = reduceBookmarks(s, BookmarkToggleFulfilled{PostID: "p9", IsBookmarked: true})

	if !slices.Equal(s.PostIDs, []string{"p1"}) || s.Count != 1 {
		t.Fatalf("list changed on bookmark-on: %v count=%d", s.PostIDs, s.Count)
	}
	if v, _ := s.IsBookmarked("p9"); !v {
		t.Fatalf("IsBookmarked(p9) = false")
	}
}

func TestBookmarks_StatusSetUnknownRemovesEntry(t *testing.T) {
	s := reduceBookmarks(BookmarksState{}, BookmarkStatusSet{PostID: "p1", Known: true, Value: true})
	s = reduceBookmarks(s, BookmarkStatusSet{PostID: "p1"})
	if _, known := s.IsBookmarked("p1"); known {
		t.Fatalf("p1 should read as unknown")
	}
}

func TestBookmarks_StatusFulfilledMerges(t *testing.T) {
	s := reduceBookmarks(BookmarksState{}, BookmarkStatusSet{PostID: "p1", Known: true, Value: true})
	s = reduceBookmarks(s, BookmarkStatusPending{PostIDs: []string{"p2", "p3"}})
	if !s.Checking {
		t.Fatalf("Checking = false during pending")
	}
	s = reduceBookmarks(s, BookmarkStatusFulfilled{Status: map[string]bool{"p2": true, "p3": false}})

	if s.Checking {
		t.Fatalf("Checking still set")
	}
	for id, want := range map[string]bool{"p1": true, "p2": true, "p3": false} {
		if v, known := s.IsBookmarked(id); !known || v != want {
			t.Fatalf("IsBookmarked(%s) = %v,%v, want %v", id, v, known, want)
		}
	}
}

func TestBookmarks_RejectedRecordsError(t *testing.T) {
	s := reduceBookmarks(BookmarksState{}, BookmarkTogglePending{PostID: "p1"})
	s = reduceBookmarks(s, BookmarkToggleRejected{PostID: "p1", Message: "Failed to toggle bookmark"})
	if s.Error != "Failed to toggle bookmark" || s.Toggling["p1"] {
		t.Fatalf("state = %#v", s)
	}

	s = reduceBookmarks(s, BookmarksCleared{})
	if s.Error != "" || s.Status != nil || s.PostIDs != nil {
		t.Fatalf("BookmarksCleared left %#v", s)
	}
}
