package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/five82/flock/internal/api"
	"github.com/five82/flock/internal/notify"
	"github.com/five82/flock/internal/state"
)

// FetchFeed loads one page of the feed and then checks which of its posts
// are bookmarked.
func (c *Coordinator) FetchFeed(ctx context.Context, page int) error {
	c.store.Dispatch(state.FeedFetchPending{Page: page})
	posts, err := c.api.FetchFeed(ctx, page)
	if err != nil {
		return c.reject("fetch feed", "Failed to fetch feed", err, func(msg string) state.Action {
			return state.FeedFetchRejected{Message: msg}
		})
	}
	c.store.Dispatch(state.FeedFetchFulfilled{Page: page, Posts: posts})

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	if err := c.CheckBookmarkStatus(ctx, ids); err != nil {
		c.logger.Debug("feed bookmark status", zap.Error(err))
	}
	return nil
}

// LikePost toggles the viewer's like on postID, optimistically.
func (c *Coordinator) LikePost(ctx context.Context, postID string) error {
	if err := c.requireSession("like post"); err != nil {
		return err
	}
	userID := c.session.UserID

	c.store.Dispatch(state.PostLikePending{PostID: postID})
	e, ok := c.postLikes.begin(postID,
		func() (bool, bool) {
			p, ok := c.store.Posts().Post(postID)
			if !ok {
				return false, false
			}
			return p.Likes.Has(userID), true
		},
		func(liked bool) {
			c.store.Dispatch(state.PostLikeSet{PostID: postID, UserID: userID, Liked: !liked})
		},
	)

	resp, err := c.api.LikePost(ctx, postID)
	if err != nil {
		if ok {
			c.postLikes.fail(postID, e, func(prior bool) {
				c.store.Dispatch(state.PostLikeSet{PostID: postID, UserID: userID, Liked: prior})
			})
		}
		return c.reject("like post", "Failed to like post", err, func(msg string) state.Action {
			return state.PostLikeRejected{PostID: postID, Message: msg}
		})
	}
	fulfilled := state.PostLikeFulfilled{PostID: postID, Likes: resp.Likes}
	if ok {
		c.postLikes.commit(postID, e, func() { c.store.Dispatch(fulfilled) })
	} else {
		c.store.Dispatch(fulfilled)
	}
	return nil
}

// SharePost sends postID to the chosen connections.
func (c *Coordinator) SharePost(ctx context.Context, in ShareInput) error {
	if err := c.validate.Struct(in); err != nil {
		return c.invalid("share post", err, shareMessages)
	}

	c.store.Dispatch(state.SharePending{PostID: in.PostID})
	msg, err := c.api.SharePost(ctx, api.ShareRequest{
		PostID:       in.PostID,
		RecipientIDs: in.RecipientIDs,
		Message:      in.Message,
	})
	if err != nil {
		return c.reject("share post", "Failed to share post", err, func(m string) state.Action {
			return state.ShareRejected{PostID: in.PostID, Message: m}
		})
	}
	if msg == "" {
		msg = "Post shared successfully"
	}
	c.store.Dispatch(state.ShareFulfilled{PostID: in.PostID, Recipients: len(in.RecipientIDs), Message: msg})
	c.notifier.Push(notify.LevelSuccess, msg)
	return nil
}
