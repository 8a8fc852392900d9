package state

import "github.com/five82/flock/internal/api"

// Action is a mutation request. Every slice reducer sees every action and
// ignores the ones it does not own.
type Action interface {
	action()
}

// Comments.

type CommentsFetchPending struct{ PostID string }

type CommentsFetchFulfilled struct {
	PostID   string
	Page     int
	Comments []api.Comment
}

type CommentsFetchRejected struct{ PostID, Message string }

type CommentAddPending struct{ PostID string }

// CommentAddFulfilled carries the server's comment. ParentID is the reply
// target requested by the caller; an empty value means top-level.
type CommentAddFulfilled struct {
	PostID   string
	ParentID string
	Comment  api.Comment
}

type CommentAddRejected struct{ PostID, Message string }

// CommentLikeSet sets membership of UserID in a comment's like set. It is
// used both for the optimistic write and for restoring a captured value.
type CommentLikeSet struct {
	CommentID string
	UserID    string
	Liked     bool
}

type CommentLikeRejected struct{ CommentID, Message string }

type CommentDeletePending struct{ CommentID string }

type CommentDeleteFulfilled struct{ CommentID string }

type CommentDeleteRejected struct{ CommentID, Message string }

type RepliesFetchPending struct{ CommentID string }

type RepliesFetchFulfilled struct {
	CommentID string
	Page      int
	Replies   []api.Comment
}

type RepliesFetchRejected struct{ CommentID, Message string }

// CommentsCleared evicts a post's thread when its view goes away.
type CommentsCleared struct{ PostID string }

// Bookmarks.

type BookmarkTogglePending struct{ PostID string }

// BookmarkStatusSet writes a post's bookmark flag. Known=false removes the
// entry so the status reads as unknown again.
type BookmarkStatusSet struct {
	PostID string
	Known  bool
	Value  bool
}

type BookmarkToggleFulfilled struct {
	PostID       string
	IsBookmarked bool
}

type BookmarkToggleRejected struct{ PostID, Message string }

type BookmarksFetchPending struct{}

// BookmarksFetchFulfilled is also handled by the posts slice, which takes
// ownership of the listed Post entities.
type BookmarksFetchFulfilled struct {
	Posts []api.Post
	Count int
}

type BookmarksFetchRejected struct{ Message string }

type BookmarkStatusPending struct{ PostIDs []string }

type BookmarkStatusFulfilled struct{ Status map[string]bool }

type BookmarkStatusRejected struct{ Message string }

type BookmarksCleared struct{}

// Posts and sharing.

type FeedFetchPending struct{ Page int }

type FeedFetchFulfilled struct {
	Page  int
	Posts []api.Post
}

type FeedFetchRejected struct{ Message string }

type PostLikePending struct{ PostID string }

// PostLikeSet is the post counterpart of CommentLikeSet.
type PostLikeSet struct {
	PostID string
	UserID string
	Liked  bool
}

// PostLikeFulfilled replaces the like set with Likes when the server sent
// one; a nil Likes keeps the optimistic value.
type PostLikeFulfilled struct {
	PostID string
	Likes  api.LikeSet
}

type PostLikeRejected struct{ PostID, Message string }

type SharePending struct{ PostID string }

type ShareFulfilled struct {
	PostID     string
	Recipients int
	Message    string
}

type ShareRejected struct{ PostID, Message string }

// Connections.

type ConnectionsFetchPending struct{}

type ConnectionsFetchFulfilled struct{ Connections []api.User }

type ConnectionsFetchRejected struct{ Message string }

type NetworkFetchPending struct{}

type NetworkFetchFulfilled struct{ Network api.Connections }

type NetworkFetchRejected struct{ Message string }

func (CommentsFetchPending) action()      {}
func (CommentsFetchFulfilled) action()    {}
func (CommentsFetchRejected) action()     {}
func (CommentAddPending) action()         {}
func (CommentAddFulfilled) action()       {}
func (CommentAddRejected) action()        {}
func (CommentLikeSet) action()            {}
func (CommentLikeRejected) action()       {}
func (CommentDeletePending) action()      {}
func (CommentDeleteFulfilled) action()    {}
func (CommentDeleteRejected) action()     {}
func (RepliesFetchPending) action()       {}
func (RepliesFetchFulfilled) action()     {}
func (RepliesFetchRejected) action()      {}
func (CommentsCleared) action()           {}
func (BookmarkTogglePending) action()     {}
func (BookmarkStatusSet) action()         {}
func (BookmarkToggleFulfilled) action()   {}
func (BookmarkToggleRejected) action()    {}
func (BookmarksFetchPending) action()     {}
func (BookmarksFetchFulfilled) action()   {}
func (BookmarksFetchRejected) action()    {}
func (BookmarkStatusPending) action()     {}
func (BookmarkStatusFulfilled) action()   {}
func (BookmarkStatusRejected) action()    {}
func (BookmarksCleared) action()          {}
func (FeedFetchPending) action()          {}
func (FeedFetchFulfilled) action()        {}
func (FeedFetchRejected) action()         {}
func (PostLikePending) action()           {}
func (PostLikeSet) action()               {}
func (PostLikeFulfilled) action()         {}
func (PostLikeRejected) action()          {}
func (SharePending) action()              {}
func (ShareFulfilled) action()            {}
func (ShareRejected) action()             {}
func (ConnectionsFetchPending) action()   {}
func (ConnectionsFetchFulfilled) action() {}
func (ConnectionsFetchRejected) action()  {}
func (NetworkFetchPending) action()       {}
func (NetworkFetchFulfilled) action()     {}
func (NetworkFetchRejected) action()      {}
