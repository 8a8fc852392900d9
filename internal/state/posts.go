package state

import (
	"maps"
	"slices"

	"github.com/five82/flock/internal/api"
)

// PostsState owns Post entities, the feed ordering and the share workflow.
type PostsState struct {
	ByID         map[string]api.Post
	Feed         []string
	FeedPage     int
	FeedLoading  bool
	FeedError    string
	Liking       map[string]bool
	LikeError    string
	Sharing      bool
	ShareError   string
	ShareMessage string
}

// Post returns the entity for id.
func (s PostsState) Post(id string) (api.Post, bool) {
	p, ok := s.ByID[id]
	return p, ok
}

// FeedPosts resolves the feed ordering to entities, skipping evicted ids.
func (s PostsState) FeedPosts() []api.Post {
	return s.Resolve(s.Feed)
}

// Resolve maps ids to held posts in order.
func (s PostsState) Resolve(ids []string) []api.Post {
	out := make([]api.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.ByID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s PostsState) clone() PostsState {
	out := s
	if s.ByID != nil {
		out.ByID = make(map[string]api.Post, len(s.ByID))
		for id, p := range s.ByID {
			out.ByID[id] = p.Clone()
		}
	}
	out.Feed = slices.Clone(s.Feed)
	out.Liking = maps.Clone(s.Liking)
	return out
}

func reducePosts(s PostsState, a Action) PostsState {
	switch a := a.(type) {
	case FeedFetchPending:
		s.FeedLoading = true
		s.FeedError = ""

	case FeedFetchFulfilled:
		s.FeedLoading = false
		s.FeedPage = a.Page
		s.ByID = upsertPosts(s.ByID, a.Posts)
		s.Feed = postIDs(a.Posts)

	case FeedFetchRejected:
		s.FeedLoading = false
		s.FeedError = a.Message

	case BookmarksFetchFulfilled:
		s.ByID = upsertPosts(s.ByID, a.Posts)

	case PostLikePending:
		s.Liking = cloneOrNew(s.Liking)
		s.Liking[a.PostID] = true
		s.LikeError = ""

	case PostLikeSet:
		p, ok := s.ByID[a.PostID]
		if !ok {
			return s
		}
		p.Likes = p.Likes.Set(a.UserID, a.Liked)
		s.ByID = cloneOrNew(s.ByID)
		s.ByID[a.PostID] = p

	case PostLikeFulfilled:
		s.Liking = cloneOrNew(s.Liking)
		delete(s.Liking, a.PostID)
		if a.Likes == nil {
			return s
		}
		if p, ok := s.ByID[a.PostID]; ok {
			p.Likes = a.Likes.Clone()
			s.ByID = cloneOrNew(s.ByID)
			s.ByID[a.PostID] = p
		}

	case PostLikeRejected:
		s.Liking = cloneOrNew(s.Liking)
		delete(s.Liking, a.PostID)
		s.LikeError = a.Message

	case SharePending:
		s.Sharing = true
		s.ShareError = ""
		s.ShareMessage = ""

	case ShareFulfilled:
		s.Sharing = false
		s.ShareMessage = a.Message

	case ShareRejected:
		s.Sharing = false
		s.ShareError = a.Message
	}
	return s
}

func upsertPosts(byID map[string]api.Post, posts []api.Post) map[string]api.Post {
	out := cloneOrNew(byID)
	for _, p := range posts {
		if p.ID == "" {
			continue
		}
		out[p.ID] = p
	}
	return out
}
