package dispatch

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/five82/flock/internal/api"
	"github.com/five82/flock/internal/state"
)

// FetchComments loads one page of postID's comments, replacing what is held.
func (c *Coordinator) FetchComments(ctx context.Context, postID string, page int) error {
	c.store.Dispatch(state.CommentsFetchPending{PostID: postID})
	comments, err := c.api.FetchComments(ctx, postID, page)
	if err != nil {
		return c.reject("fetch comments", "Failed to fetch comments", err, func(msg string) state.Action {
			return state.CommentsFetchRejected{PostID: postID, Message: msg}
		})
	}
	c.store.Dispatch(state.CommentsFetchFulfilled{PostID: postID, Page: page, Comments: comments})
	return nil
}

// AddComment posts a comment or reply and inserts the server's copy.
func (c *Coordinator) AddComment(ctx context.Context, in AddCommentInput) (api.Comment, error) {
	if err := c.validate.Struct(in); err != nil {
		return api.Comment{}, c.invalid("add comment", err, commentMessages)
	}
	req := api.AddCommentRequest{
		PostID:          in.PostID,
		Content:         strings.TrimSpace(in.Content),
		ParentCommentID: in.ParentID,
	}

	c.store.Dispatch(state.CommentAddPending{PostID: in.PostID})
	comment, err := c.api.AddComment(ctx, req)
	if err != nil {
		return api.Comment{}, c.reject("add comment", "Failed to add comment", err, func(msg string) state.Action {
			return state.CommentAddRejected{PostID: in.PostID, Message: msg}
		})
	}
	if in.ParentID != "" {
		if _, _, ok := c.store.Comments().Locate(in.ParentID); !ok {
			c.logger.Debug("reply parent not held", zap.String("parent_id", in.ParentID))
		}
	}
	c.store.Dispatch(state.CommentAddFulfilled{PostID: in.PostID, ParentID: in.ParentID, Comment: comment})
	return comment, nil
}

// LikeComment toggles the viewer's like on commentID. The like is shown
// immediately and restored if the request fails.
func (c *Coordinator) LikeComment(ctx context.Context, postID, commentID string) error {
	if err := c.requireSession("like comment"); err != nil {
		return err
	}
	userID := c.session.UserID

	e, ok := c.commentLikes.begin(commentID,
		func() (bool, bool) {
			comment, ok := c.store.Comments().Find(commentID)
			if !ok {
				return false, false
			}
			return comment.Likes.Has(userID), true
		},
		func(liked bool) {
			c.store.Dispatch(state.CommentLikeSet{CommentID: commentID, UserID: userID, Liked: !liked})
		},
	)
	if !ok {
		c.logger.Debug("like on comment not held",
			zap.String("post_id", postID),
			zap.String("comment_id", commentID),
		)
	}

	if _, err := c.api.LikeComment(ctx, commentID); err != nil {
		if ok {
			c.commentLikes.fail(commentID, e, func(prior bool) {
				c.store.Dispatch(state.CommentLikeSet{CommentID: commentID, UserID: userID, Liked: prior})
			})
		}
		return c.reject("like comment", "Failed to like comment", err, func(msg string) state.Action {
			return state.CommentLikeRejected{CommentID: commentID, Message: msg}
		})
	}
	if ok {
		c.commentLikes.commit(commentID, e, nil)
	}
	return nil
}

// DeleteComment removes commentID from every list that holds it once the
// server confirms.
func (c *Coordinator) DeleteComment(ctx context.Context, commentID string) error {
	c.store.Dispatch(state.CommentDeletePending{CommentID: commentID})
	if err := c.api.DeleteComment(ctx, commentID); err != nil {
		return c.reject("delete comment", "Failed to delete comment", err, func(msg string) state.Action {
			return state.CommentDeleteRejected{CommentID: commentID, Message: msg}
		})
	}
	c.store.Dispatch(state.CommentDeleteFulfilled{CommentID: commentID})
	return nil
}

// FetchReplies loads one page of replies under commentID.
func (c *Coordinator) FetchReplies(ctx context.Context, commentID string, page int) error {
	c.store.Dispatch(state.RepliesFetchPending{CommentID: commentID})
	replies, err := c.api.FetchReplies(ctx, commentID, page)
	if err != nil {
		return c.reject("fetch replies", "Failed to fetch replies", err, func(msg string) state.Action {
			return state.RepliesFetchRejected{CommentID: commentID, Message: msg}
		})
	}
	c.store.Dispatch(state.RepliesFetchFulfilled{CommentID: commentID, Page: page, Replies: replies})
	return nil
}

// ClearComments drops postID's thread.
func (c *Coordinator) ClearComments(postID string) {
	c.store.Dispatch(state.CommentsCleared{PostID: postID})
}
