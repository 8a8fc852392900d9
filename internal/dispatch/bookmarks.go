package dispatch

import (
	"context"

	"github.com/five82/flock/internal/notify"
	"github.com/five82/flock/internal/state"
)

// bookmarkFlag is the tri-state bookmark status: unknown, or known with a
// value.
type bookmarkFlag struct {
	known bool
	value bool
}

// ToggleBookmark flips postID's bookmark. The flag is shown immediately and
// the server's isBookmarked settles it.
func (c *Coordinator) ToggleBookmark(ctx context.Context, postID string) (bool, error) {
	c.store.Dispatch(state.BookmarkTogglePending{PostID: postID})
	e, _ := c.bookmarks.begin(postID,
		func() (bookmarkFlag, bool) {
			v, known := c.store.Bookmarks().IsBookmarked(postID)
			return bookmarkFlag{known: known, value: v}, true
		},
		func(prior bookmarkFlag) {
			c.store.Dispatch(state.BookmarkStatusSet{PostID: postID, Known: true, Value: !prior.value})
		},
	)

	resp, err := c.api.ToggleBookmark(ctx, postID)
	if err != nil {
		c.bookmarks.fail(postID, e, func(prior bookmarkFlag) {
			c.store.Dispatch(state.BookmarkStatusSet{PostID: postID, Known: prior.known, Value: prior.value})
		})
		return false, c.reject("toggle bookmark", "Failed to toggle bookmark", err, func(msg string) state.Action {
			return state.BookmarkToggleRejected{PostID: postID, Message: msg}
		})
	}
	c.bookmarks.commit(postID, e, func() {
		c.store.Dispatch(state.BookmarkToggleFulfilled{PostID: postID, IsBookmarked: resp.IsBookmarked})
	})
	if resp.Message != "" {
		c.notifier.Push(notify.LevelSuccess, resp.Message)
	}
	return resp.IsBookmarked, nil
}

// FetchBookmarks loads the viewer's bookmarked posts.
func (c *Coordinator) FetchBookmarks(ctx context.Context) error {
	c.store.Dispatch(state.BookmarksFetchPending{})
	resp, err := c.api.FetchBookmarks(ctx)
	if err != nil {
		return c.reject("fetch bookmarks", "Failed to fetch bookmarks", err, func(msg string) state.Action {
			return state.BookmarksFetchRejected{Message: msg}
		})
	}
	c.store.Dispatch(state.BookmarksFetchFulfilled{Posts: resp.Posts, Count: resp.Count})
	return nil
}

// CheckBookmarkStatus asks the server which of postIDs are bookmarked.
func (c *Coordinator) CheckBookmarkStatus(ctx context.Context, postIDs []string) error {
	if len(postIDs) == 0 {
		return nil
	}
	c.store.Dispatch(state.BookmarkStatusPending{PostIDs: postIDs})
	status, err := c.api.BookmarkStatus(ctx, postIDs)
	if err != nil {
		return c.reject("bookmark status", "Failed to check bookmark status", err, func(msg string) state.Action {
			return state.BookmarkStatusRejected{Message: msg}
		})
	}
	c.store.Dispatch(state.BookmarkStatusFulfilled{Status: status})
	return nil
}
