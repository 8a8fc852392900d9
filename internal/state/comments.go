package state

import (
	"maps"

	"github.com/five82/flock/internal/api"
)

// ThreadStatus is the lifecycle of one post's comment thread.
type ThreadStatus int

const (
	ThreadNone ThreadStatus = iota
	ThreadLoading
	ThreadLoaded
	ThreadErrored
)

func (s ThreadStatus) String() string {
	switch s {
	case ThreadLoading:
		return "loading"
	case ThreadLoaded:
		return "loaded"
	case ThreadErrored:
		return "errored"
	default:
		return "none"
	}
}

// commentLoc records where a comment id lives. ParentID is empty for
// top-level comments.
type commentLoc struct {
	PostID   string
	ParentID string
}

// CommentsState owns every comment held by the client, grouped by post.
// Replies are nested one level under their top-level parent.
type CommentsState struct {
	ByPostID       map[string][]api.Comment
	Loading        map[string]bool
	Errors         map[string]string
	RepliesLoading map[string]bool
	Deleting       map[string]bool
	Adding         bool
	Error          string

	index map[string][]commentLoc
}

// ThreadStatus reports the lifecycle state of postID's thread.
func (s CommentsState) ThreadStatus(postID string) ThreadStatus {
	if s.Loading[postID] {
		return ThreadLoading
	}
	if _, ok := s.Errors[postID]; ok {
		return ThreadErrored
	}
	if _, ok := s.ByPostID[postID]; ok {
		return ThreadLoaded
	}
	return ThreadNone
}

// Thread returns the comments held for postID.
func (s CommentsState) Thread(postID string) []api.Comment {
	return s.ByPostID[postID]
}

// Find returns the first occurrence of commentID, top-level lists first.
func (s CommentsState) Find(commentID string) (api.Comment, bool) {
	for _, loc := range s.index[commentID] {
		list := s.ByPostID[loc.PostID]
		if loc.ParentID == "" {
			if i := indexOf(list, commentID); i >= 0 {
				return list[i], true
			}
			continue
		}
		if p := indexOf(list, loc.ParentID); p >= 0 {
			if i := indexOf(list[p].Replies, commentID); i >= 0 {
				return list[p].Replies[i], true
			}
		}
	}
	return api.Comment{}, false
}

// Locate returns the post that holds commentID and its parent comment id.
func (s CommentsState) Locate(commentID string) (postID, parentID string, ok bool) {
	locs := s.index[commentID]
	if len(locs) == 0 {
		return "", "", false
	}
	return locs[0].PostID, locs[0].ParentID, true
}

func (s CommentsState) clone() CommentsState {
	out := s
	if s.ByPostID != nil {
		out.ByPostID = make(map[string][]api.Comment, len(s.ByPostID))
		for postID, list := range s.ByPostID {
			out.ByPostID[postID] = cloneComments(list)
		}
	}
	out.Loading = maps.Clone(s.Loading)
	out.Errors = maps.Clone(s.Errors)
	out.RepliesLoading = maps.Clone(s.RepliesLoading)
	out.Deleting = maps.Clone(s.Deleting)
	out.index = maps.Clone(s.index)
	return out
}

// own makes the top-level maps private to this reducer call. Comment slices
// are never mutated in place, so sharing them with the previous state is safe.
func (s CommentsState) own() CommentsState {
	s.ByPostID = cloneOrNew(s.ByPostID)
	s.Loading = cloneOrNew(s.Loading)
	s.Errors = cloneOrNew(s.Errors)
	s.RepliesLoading = cloneOrNew(s.RepliesLoading)
	s.Deleting = cloneOrNew(s.Deleting)
	s.index = cloneOrNew(s.index)
	return s
}

func reduceComments(s CommentsState, a Action) CommentsState {
	switch a := a.(type) {
	case CommentsFetchPending:
		s = s.own()
		s.Loading[a.PostID] = true
		delete(s.Errors, a.PostID)

	case CommentsFetchFulfilled:
		// Pages replace, they do not accumulate: only the latest page is held.
		s = s.own()
		delete(s.Loading, a.PostID)
		delete(s.Errors, a.PostID)
		s.replaceThread(a.PostID, normalizeThread(a.PostID, a.Comments))

	case CommentsFetchRejected:
		s = s.own()
		delete(s.Loading, a.PostID)
		s.Errors[a.PostID] = a.Message

	case CommentAddPending:
		s.Adding = true
		s.Error = ""

	case CommentAddFulfilled:
		s = s.own()
		s.Adding = false
		s.addComment(a)

	case CommentAddRejected:
		s.Adding = false
		s.Error = a.Message

	case CommentLikeSet:
		s = s.own()
		s.setLike(a.CommentID, a.UserID, a.Liked)

	case CommentLikeRejected:
		s.Error = a.Message

	case CommentDeletePending:
		s = s.own()
		s.Deleting[a.CommentID] = true
		s.Error = ""

	case CommentDeleteFulfilled:
		s = s.own()
		delete(s.Deleting, a.CommentID)
		s.deleteComment(a.CommentID)

	case CommentDeleteRejected:
		s = s.own()
		delete(s.Deleting, a.CommentID)
		s.Error = a.Message

	case RepliesFetchPending:
		s = s.own()
		s.RepliesLoading[a.CommentID] = true

	case RepliesFetchFulfilled:
		s = s.own()
		delete(s.RepliesLoading, a.CommentID)
		s.replaceReplies(a.CommentID, a.Replies)

	case RepliesFetchRejected:
		s = s.own()
		delete(s.RepliesLoading, a.CommentID)
		s.Error = a.Message

	case CommentsCleared:
		s = s.own()
		s.replaceThread(a.PostID, nil)
		delete(s.ByPostID, a.PostID)
		delete(s.Loading, a.PostID)
		delete(s.Errors, a.PostID)
	}
	return s
}

// replaceThread swaps postID's list and keeps the index in step. s must be
// owned.
func (s *CommentsState) replaceThread(postID string, list []api.Comment) {
	unindexThread(s.index, postID, s.ByPostID[postID])
	s.ByPostID[postID] = list
	indexThread(s.index, postID, list)
}

func (s *CommentsState) addComment(a CommentAddFulfilled) {
	c := a.Comment
	if c.PostID == "" {
		c.PostID = a.PostID
	}
	list := s.ByPostID[a.PostID]

	if a.ParentID == "" {
		c.Replies = flattenReplies(a.PostID, c.ID, c.Replies)
		next := make([]api.Comment, 0, len(list)+1)
		next = append(next, c)
		next = append(next, list...)
		s.replaceThread(a.PostID, next)
		return
	}

	p := indexOf(list, a.ParentID)
	if p < 0 {
		// Parent is not held (thread not loaded, or it is itself a reply).
		return
	}
	c.ParentID = a.ParentID
	c.Replies = nil
	next := cloneSlice(list)
	parent := next[p]
	parent.Replies = append(cloneSlice(parent.Replies), c)
	parent.RepliesCount++
	next[p] = parent
	s.replaceThread(a.PostID, next)
}

func (s *CommentsState) setLike(commentID, userID string, liked bool) {
	for _, loc := range s.index[commentID] {
		list := s.ByPostID[loc.PostID]
		next := cloneSlice(list)
		changed := false
		if loc.ParentID == "" {
			if i := indexOf(next, commentID); i >= 0 {
				next[i].Likes = next[i].Likes.Set(userID, liked)
				changed = true
			}
		} else if p := indexOf(next, loc.ParentID); p >= 0 {
			replies := cloneSlice(next[p].Replies)
			if i := indexOf(replies, commentID); i >= 0 {
				replies[i].Likes = replies[i].Likes.Set(userID, liked)
				next[p].Replies = replies
				changed = true
			}
		}
		if changed {
			s.ByPostID[loc.PostID] = next
		}
	}
}

func (s *CommentsState) deleteComment(commentID string) {
	locs := s.index[commentID]
	touched := make(map[string]bool, len(locs))
	for _, loc := range locs {
		touched[loc.PostID] = true
	}
	for postID := range touched {
		list := s.ByPostID[postID]
		next := make([]api.Comment, 0, len(list))
		for _, c := range list {
			if c.ID == commentID {
				continue
			}
			if i := indexOf(c.Replies, commentID); i >= 0 {
				replies := make([]api.Comment, 0, len(c.Replies)-1)
				replies = append(replies, c.Replies[:i]...)
				replies = append(replies, c.Replies[i+1:]...)
				c.Replies = replies
				if c.RepliesCount > 0 {
					c.RepliesCount--
				}
			}
			next = append(next, c)
		}
		s.replaceThread(postID, next)
	}
}

func (s *CommentsState) replaceReplies(commentID string, replies []api.Comment) {
	for _, loc := range s.index[commentID] {
		if loc.ParentID != "" {
			continue
		}
		list := s.ByPostID[loc.PostID]
		p := indexOf(list, commentID)
		if p < 0 {
			continue
		}
		next := cloneSlice(list)
		next[p].Replies = flattenReplies(loc.PostID, commentID, replies)
		if next[p].RepliesCount < len(next[p].Replies) {
			next[p].RepliesCount = len(next[p].Replies)
		}
		s.replaceThread(loc.PostID, next)
	}
}

// normalizeThread stamps post ids and caps nesting at one level.
func normalizeThread(postID string, comments []api.Comment) []api.Comment {
	out := make([]api.Comment, len(comments))
	for i, c := range comments {
		if c.PostID == "" {
			c.PostID = postID
		}
		c.Replies = flattenReplies(postID, c.ID, c.Replies)
		out[i] = c
	}
	return out
}

func flattenReplies(postID, parentID string, replies []api.Comment) []api.Comment {
	if replies == nil {
		return nil
	}
	out := make([]api.Comment, len(replies))
	for i, r := range replies {
		if r.PostID == "" {
			r.PostID = postID
		}
		r.ParentID = parentID
		r.Replies = nil
		out[i] = r
	}
	return out
}

func indexThread(idx map[string][]commentLoc, postID string, list []api.Comment) {
	for _, c := range list {
		idx[c.ID] = append(cloneSlice(idx[c.ID]), commentLoc{PostID: postID})
		for _, r := range c.Replies {
			idx[r.ID] = append(cloneSlice(idx[r.ID]), commentLoc{PostID: postID, ParentID: c.ID})
		}
	}
}

func unindexThread(idx map[string][]commentLoc, postID string, list []api.Comment) {
	drop := func(id string) {
		locs := idx[id]
		if len(locs) == 0 {
			return
		}
		kept := make([]commentLoc, 0, len(locs))
		for _, loc := range locs {
			if loc.PostID != postID {
				kept = append(kept, loc)
			}
		}
		if len(kept) == 0 {
			delete(idx, id)
			return
		}
		idx[id] = kept
	}
	for _, c := range list {
		drop(c.ID)
		for _, r := range c.Replies {
			drop(r.ID)
		}
	}
}

func indexOf(list []api.Comment, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneComments(list []api.Comment) []api.Comment {
	if list == nil {
		return nil
	}
	out := make([]api.Comment, len(list))
	for i, c := range list {
		out[i] = c.Clone()
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneOrNew[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return make(map[K]V)
	}
	return maps.Clone(m)
}
