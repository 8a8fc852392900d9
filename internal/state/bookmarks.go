package state

import (
	"maps"
	"slices"

	"github.com/five82/flock/internal/api"
)

// BookmarksState owns the viewer's bookmark listing and per-post bookmark
// flags. The Post entities themselves live in PostsState.
type BookmarksState struct {
	PostIDs  []string
	Count    int
	Status   map[string]bool // absent = unknown
	Toggling map[string]bool
	Loading  bool
	Checking bool
	Error    string
}

// IsBookmarked returns the flag for postID and whether it is known.
func (s BookmarksState) IsBookmarked(postID string) (bookmarked, known bool) {
	bookmarked, known = s.Status[postID]
	return bookmarked, known
}

func (s BookmarksState) clone() BookmarksState {
	out := s
	out.PostIDs = slices.Clone(s.PostIDs)
	out.Status = maps.Clone(s.Status)
	out.Toggling = maps.Clone(s.Toggling)
	return out
}

func reduceBookmarks(s BookmarksState, a Action) BookmarksState {
	switch a := a.(type) {
	case BookmarkTogglePending:
		s.Toggling = cloneOrNew(s.Toggling)
		s.Toggling[a.PostID] = true
		s.Error = ""

	case BookmarkStatusSet:
		s.Status = cloneOrNew(s.Status)
		if a.Known {
			s.Status[a.PostID] = a.Value
		} else {
			delete(s.Status, a.PostID)
		}

	case BookmarkToggleFulfilled:
		s.Toggling = cloneOrNew(s.Toggling)
		delete(s.Toggling, a.PostID)
		s.Status = cloneOrNew(s.Status)
		s.Status[a.PostID] = a.IsBookmarked
		if !a.IsBookmarked {
			s.PostIDs = slices.DeleteFunc(slices.Clone(s.PostIDs), func(id string) bool { return id == a.PostID })
			s.Count = len(s.PostIDs)
		}

	case BookmarkToggleRejected:
		s.Toggling = cloneOrNew(s.Toggling)
		delete(s.Toggling, a.PostID)
		s.Error = a.Message

	case BookmarksFetchPending:
		s.Loading = true
		s.Error = ""

	case BookmarksFetchFulfilled:
		s.Loading = false
		previous := s.PostIDs
		s.PostIDs = postIDs(a.Posts)
		s.Count = a.Count
		if s.Count < len(s.PostIDs) {
			s.Count = len(s.PostIDs)
		}
		s.Status = cloneOrNew(s.Status)
		// Posts that left the listing were unbookmarked elsewhere.
		for _, id := range previous {
			if !slices.Contains(s.PostIDs, id) {
				s.Status[id] = false
			}
		}
		for _, id := range s.PostIDs {
			s.Status[id] = true
		}

	case BookmarksFetchRejected:
		s.Loading = false
		s.Error = a.Message

	case BookmarkStatusPending:
		s.Checking = true

	case BookmarkStatusFulfilled:
		s.Checking = false
		s.Status = cloneOrNew(s.Status)
		maps.Copy(s.Status, a.Status)

	case BookmarkStatusRejected:
		s.Checking = false
		s.Error = a.Message

	case BookmarksCleared:
		return BookmarksState{}
	}
	return s
}

func postIDs(posts []api.Post) []string {
	ids := make([]string, 0, len(posts))
	seen := make(map[string]bool, len(posts))
	for _, p := range posts {
		if p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		ids = append(ids, p.ID)
	}
	return ids
}
