package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Envelope is embedded in every response body. Success is a pointer so that
// an absent flag on a 2xx response can be told apart from an explicit false.
type Envelope struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e Envelope) envelope() Envelope { return e }

// User is a profile as seen by the viewer. The identity service owns it.
type User struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// DisplayName prefers the full name and falls back to the handle.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return u.ID
}

// LikeSet is the normalized like list: user ids, unique, in server order.
// The backend sends either bare id strings or populated user objects, and
// sometimes both in the same array; decoding collapses them to ids.
type LikeSet []string

// UnmarshalJSON accepts ["u1", {"_id":"u2"}, ...] and null.
func (l *LikeSet) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = nil
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode likes: %w", err)
	}
	out := make(LikeSet, 0, len(raw))
	for _, elem := range raw {
		id, err := likeID(elem)
		if err != nil {
			return err
		}
		if id == "" {
			continue
		}
		out = out.With(id)
	}
	*l = out
	return nil
}

func likeID(elem json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(elem)
	if len(trimmed) == 0 {
		return "", nil
	}
	switch trimmed[0] {
	case '"':
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return "", fmt.Errorf("decode like id: %w", err)
		}
		return id, nil
	case '{':
		var obj struct {
			ID    string `json:"_id"`
			AltID string `json:"id"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return "", fmt.Errorf("decode like user: %w", err)
		}
		if obj.ID != "" {
			return obj.ID, nil
		}
		return obj.AltID, nil
	default:
		return "", fmt.Errorf("decode likes: unexpected element %s", trimmed)
	}
}

// Has reports whether userID is in the set.
func (l LikeSet) Has(userID string) bool {
	for _, id := range l {
		if id == userID {
			return true
		}
	}
	return false
}

// Len returns the number of distinct likers.
func (l LikeSet) Len() int { return len(l) }

// With returns a copy of the set that contains userID.
func (l LikeSet) With(userID string) LikeSet {
	if l.Has(userID) {
		return l.Clone()
	}
	out := make(LikeSet, len(l), len(l)+1)
	copy(out, l)
	return append(out, userID)
}

// Without returns a copy of the set that does not contain userID.
func (l LikeSet) Without(userID string) LikeSet {
	out := make(LikeSet, 0, len(l))
	for _, id := range l {
		if id != userID {
			out = append(out, id)
		}
	}
	return out
}

// Set returns the set with userID present when liked and absent otherwise.
func (l LikeSet) Set(userID string, liked bool) LikeSet {
	if liked {
		return l.With(userID)
	}
	return l.Without(userID)
}

// Clone returns an independent copy.
func (l LikeSet) Clone() LikeSet {
	if l == nil {
		return nil
	}
	out := make(LikeSet, len(l))
	copy(out, l)
	return out
}

// Post mirrors a feed post.
type Post struct {
	ID            string   `json:"_id"`
	Author        User     `json:"author"`
	Content       string   `json:"content"`
	Media         []string `json:"media"`
	Likes         LikeSet  `json:"likes"`
	CommentsCount int      `json:"commentsCount"`
	SharesCount   int      `json:"sharesCount"`
	CreatedAt     string   `json:"createdAt"`
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (p Post) ParsedCreatedAt() time.Time {
	return parseTime(p.CreatedAt)
}

// Clone returns a deep copy of the post.
func (p Post) Clone() Post {
	out := p
	out.Likes = p.Likes.Clone()
	if p.Media != nil {
		out.Media = append([]string(nil), p.Media...)
	}
	return out
}

// Comment is a comment or a reply. Replies are only ever one level deep.
type Comment struct {
	ID           string    `json:"_id"`
	PostID       string    `json:"post"`
	ParentID     string    `json:"parentComment,omitempty"`
	Author       User      `json:"user"`
	Content      string    `json:"content"`
	Likes        LikeSet   `json:"likes"`
	Replies      []Comment `json:"replies"`
	RepliesCount int       `json:"replies_count"`
	CreatedAt    string    `json:"createdAt"`
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (c Comment) ParsedCreatedAt() time.Time {
	return parseTime(c.CreatedAt)
}

// Clone returns a deep copy of the comment and its replies.
func (c Comment) Clone() Comment {
	out := c
	out.Likes = c.Likes.Clone()
	if c.Replies != nil {
		out.Replies = make([]Comment, len(c.Replies))
		for i, r := range c.Replies {
			out.Replies[i] = r.Clone()
		}
	}
	return out
}

// Connections mirrors /api/user/connections.
type Connections struct {
	Connections []User `json:"connections"`
	Pending     []User `json:"pendingConnections"`
	Followers   []User `json:"followers"`
	Following   []User `json:"following"`
}

// CommentsResponse mirrors GET /api/comment/post/:postId.
type CommentsResponse struct {
	Envelope
	Comments []Comment `json:"comments"`
}

// RepliesResponse mirrors GET /api/comment/replies/:commentId.
type RepliesResponse struct {
	Envelope
	Replies []Comment `json:"replies"`
}

// AddCommentRequest is the body of POST /api/comment/add.
type AddCommentRequest struct {
	PostID          string `json:"postId"`
	Content         string `json:"content"`
	ParentCommentID string `json:"parentCommentId,omitempty"`
}

// CommentResponse mirrors POST /api/comment/add.
type CommentResponse struct {
	Envelope
	Comment Comment `json:"comment"`
}

// MessageResponse is returned by endpoints that only acknowledge.
type MessageResponse struct {
	Envelope
}

// BookmarkToggleResponse mirrors POST /api/bookmark/toggle.
type BookmarkToggleResponse struct {
	Envelope
	IsBookmarked bool `json:"isBookmarked"`
}

// BookmarksResponse mirrors GET /api/bookmark.
type BookmarksResponse struct {
	Envelope
	Posts []Post `json:"posts"`
	Count int    `json:"count"`
}

// BookmarkStatusResponse mirrors POST /api/bookmark/status.
type BookmarkStatusResponse struct {
	Envelope
	BookmarkStatus map[string]bool `json:"bookmarkStatus"`
}

// ShareRequest is the body of POST /api/post/share.
type ShareRequest struct {
	PostID       string   `json:"postId"`
	RecipientIDs []string `json:"recipientIds"`
	Message      string   `json:"message"`
}

// ConnectionsResponse mirrors GET /api/post/connections.
type ConnectionsResponse struct {
	Envelope
	Connections []User `json:"connections"`
}

// UserConnectionsResponse mirrors GET /api/user/connections.
type UserConnectionsResponse struct {
	Envelope
	Connections
}

// FeedResponse mirrors GET /api/post/feed.
type FeedResponse struct {
	Envelope
	Posts []Post `json:"posts"`
}

// PostLikeResponse mirrors POST /api/post/like. Likes is the populated,
// authoritative list when the server includes it.
type PostLikeResponse struct {
	Envelope
	Likes   LikeSet `json:"likes"`
	IsLiked *bool   `json:"isLiked,omitempty"`
}

const apiTimestampLayout = "2006-01-02 15:04:05"

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(apiTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
