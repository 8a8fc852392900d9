package state

import (
	"slices"
	"testing"

	"github.com/five82/flock/internal/api"
)

func TestPosts_FeedReplacesOrderingAndUpserts(t *testing.T) {
	s := reducePosts(PostsState{}, FeedFetchPending{Page: 1})
	if !s.FeedLoading {
		t.Fatalf("FeedLoading = false during pending")
	}
	s = reducePosts(s, FeedFetchFulfilled{Page: 1, Posts: []api.Post{{ID: "p1"}, {ID: "p2"}}})
	s = reducePosts(s, FeedFetchFulfilled{Page: 2, Posts: []api.Post{{ID: "p3"}}})

	if !slices.Equal(s.Feed, []string{"p3"}) || s.FeedPage != 2 {
		t.Fatalf("Feed = %v page=%d, want [p3] page=2", s.Feed, s.FeedPage)
	}
	if _, ok := s.Post("p1"); !ok {
		t.Fatalf("p1 should stay cached after page change")
	}
	if got := s.FeedPosts(); len(got) != 1 || got[0].ID != "p3" {
		t.Fatalf("FeedPosts = %#v", got)
	}
}

func TestPosts_BookmarksFetchUpsertsEntities(t *testing.T) {
	var st Store
	st.Dispatch(BookmarksFetchFulfilled{Posts: []api.Post{{ID: "p7", Content: "saved"}}, Count: 1})

	snap := st.Snapshot()
	posts := snap.Posts.Resolve(snap.Bookmarks.PostIDs)
	if len(posts) != 1 || posts[0].Content != "saved" {
		t.Fatalf("resolved bookmarks = %#v", posts)
	}
}

func TestPosts_LikeThenRejectRestores(t *testing.T) {
	s := reducePosts(PostsState{}, FeedFetchFulfilled{Posts: []api.Post{{ID: "p1", Likes: api.LikeSet{"u2"}}}})

	s = reducePosts(s, PostLikePending{PostID: "p1"})
	s = reducePosts(s, PostLikeSet{PostID: "p1", UserID: "u1", Liked: true})
	if p, _ := s.Post("p1"); !p.Likes.Has("u1") {
		t.Fatalf("optimistic like not applied: %v", p.Likes)
	}

	s = reducePosts(s, PostLikeSet{PostID: "p1", UserID: "u1", Liked: false})
	s = reducePosts(s, PostLikeRejected{PostID: "p1", Message: "Failed to like post"})
	p, _ := s.Post("p1")
	if !slices.Equal(p.Likes, api.LikeSet{"u2"}) {
		t.Fatalf("Likes = %v, want [u2]", p.Likes)
	}
	if s.LikeError != "Failed to like post" || s.Liking["p1"] {
		t.Fatalf("LikeError=%q Liking=%v", s.LikeError, s.Liking)
	}
}

func TestPosts_LikeFulfilledAdoptsServerSet(t *testing.T) {
	s := reducePosts(PostsState{}, FeedFetchFulfilled{Posts: []api.Post{{ID: "p1"}}})
	s = reducePosts(s, PostLikeSet{PostID: "p1", UserID: "u1", Liked: true})

	s = reducePosts(s, PostLikeFulfilled{PostID: "p1"})
	if p, _ := s.Post("p1"); !slices.Equal(p.Likes, api.LikeSet{"u1"}) {
		t.Fatalf("nil server likes should keep optimistic value, got %v", p.Likes)
	}

	s = reducePosts(s, PostLikeFulfilled{PostID: "p1", Likes: api.LikeSet{"u1", "u3"}})
	if p, _ := s.Post("p1"); !slices.Equal(p.Likes, api.LikeSet{"u1", "u3"}) {
		t.Fatalf("Likes = %v, want server set", p.Likes)
	}
}

func TestPosts_LikeOnUnknownPostIsNoop(t *testing.T) {
	s := reducePosts(PostsState{}, PostLikeSet{PostID: "nope", UserID: "u1", Liked: true})
	if len(s.ByID) != 0 {
		t.Fatalf("ByID = %v, want empty", s.ByID)
	}
}

func TestPosts_ShareLifecycle(t *testing.T) {
	s := reducePosts(PostsState{ShareError: "old"}, SharePending{PostID: "p1"})
	if !s.Sharing || s.ShareError != "" {
		t.Fatalf("pending state = %#v", s)
	}
	s = reducePosts(s, ShareFulfilled{PostID: "p1", Recipients: 2, Message: "Post shared successfully"})
	if s.Sharing || s.ShareMessage != "Post shared successfully" {
		t.Fatalf("fulfilled state = %#v", s)
	}
	s = reducePosts(s, SharePending{PostID: "p1"})
	s = reducePosts(s, ShareRejected{PostID: "p1", Message: "Failed to share post"})
	if s.Sharing || s.ShareError != "Failed to share post" || s.ShareMessage != "" {
		t.Fatalf("rejected state = %#v", s)
	}
}

func TestConnections_LikedByConnection(t *testing.T) {
	s := reduceConnections(ConnectionsState{}, ConnectionsFetchPending{})
	s = reduceConnections(s, ConnectionsFetchFulfilled{Connections: []api.User{
		{ID: "u1", Name: "Ana"}, {ID: "u2", Name: "Bo"}, {ID: "u3", Name: "Cy"},
	}})
	if s.Loading {
		t.Fatalf("Loading still set")
	}

	post := api.Post{ID: "p1", Likes: api.LikeSet{"u3", "u9", "u1"}}
	got := s.LikedByConnection(post)
	if len(got) != 2 || got[0].ID != "u1" || got[1].ID != "u3" {
		t.Fatalf("LikedByConnection = %#v, want [u1 u3]", got)
	}
}

func TestConnections_NetworkKeepsFetchedRecipients(t *testing.T) {
	s := reduceConnections(ConnectionsState{}, ConnectionsFetchFulfilled{Connections: []api.User{{ID: "u1"}}})
	s = reduceConnections(s, NetworkFetchFulfilled{Network: api.Connections{
		Connections: []api.User{{ID: "u5"}},
		Followers:   []api.User{{ID: "u2"}},
		Following:   []api.User{{ID: "u3"}},
		Pending:     []api.User{{ID: "u4"}},
	}})

	if len(s.Connections) != 1 || s.Connections[0].ID != "u1" {
		t.Fatalf("Connections = %#v, want fetched recipients kept", s.Connections)
	}
	for _, id := range []string{"u2", "u3", "u4"} {
		if _, ok := s.User(id); !ok {
			t.Fatalf("User(%s) not found", id)
		}
	}

	empty := reduceConnections(ConnectionsState{}, NetworkFetchFulfilled{Network: api.Connections{Connections: []api.User{{ID: "u5"}}}})
	if len(empty.Connections) != 1 || empty.Connections[0].ID != "u5" {
		t.Fatalf("network should seed empty recipients, got %#v", empty.Connections)
	}
}
