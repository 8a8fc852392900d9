package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Backend is the request/response surface of the social API consumed by the
// client. It is implemented by *Client and mocked in tests.
type Backend interface {
	FetchComments(ctx context.Context, postID string, page int) ([]Comment, error)
	AddComment(ctx context.Context, req AddCommentRequest) (Comment, error)
	LikeComment(ctx context.Context, commentID string) (string, error)
	DeleteComment(ctx context.Context, commentID string) error
	FetchReplies(ctx context.Context, commentID string, page int) ([]Comment, error)
	ToggleBookmark(ctx context.Context, postID string) (BookmarkToggleResponse, error)
	FetchBookmarks(ctx context.Context) (BookmarksResponse, error)
	BookmarkStatus(ctx context.Context, postIDs []string) (map[string]bool, error)
	SharePost(ctx context.Context, req ShareRequest) (string, error)
	FetchPostConnections(ctx context.Context) ([]User, error)
	FetchUserConnections(ctx context.Context) (Connections, error)
	FetchFeed(ctx context.Context, page int) ([]Post, error)
	LikePost(ctx context.Context, postID string) (PostLikeResponse, error)
}

// Ensure Client implements Backend at compile time.
var _ Backend = (*Client)(nil)

// Client talks to the social HTTP API with a bearer token.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	token     string
	limiter   *rate.Limiter
	logger    *zap.Logger
}

const (
	defaultAPIURL    = "127.0.0.1:5000"
	defaultUserAgent = "flock/0.1"
	requestTimeout   = 10 * time.Second
	maxBodyBytes     = 8 << 20

	// Rapid toggling in the UI should not turn into a request storm.
	requestsPerSecond = 10
	requestBurst      = 20
)

// NewClient builds a Client for apiURL. A nil logger disables request logging.
func NewClient(apiURL, token string, logger *zap.Logger) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		token:     strings.TrimSpace(token),
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
		logger:    logger.Named("api"),
	}, nil
}

// FetchComments retrieves one page of top-level comments for a post.
func (c *Client) FetchComments(ctx context.Context, postID string, page int) ([]Comment, error) {
	rel := pagedURL("/api/comment/post/"+postID, page)
	var payload CommentsResponse
	if err := c.do(ctx, "fetch comments", http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Comments, nil
}

// AddComment posts a comment, or a reply when ParentCommentID is set.
func (c *Client) AddComment(ctx context.Context, req AddCommentRequest) (Comment, error) {
	var payload CommentResponse
	if err := c.do(ctx, "add comment", http.MethodPost, &url.URL{Path: "/api/comment/add"}, req, &payload); err != nil {
		return Comment{}, err
	}
	return payload.Comment, nil
}

// LikeComment toggles the viewer's like on a comment.
func (c *Client) LikeComment(ctx context.Context, commentID string) (string, error) {
	body := map[string]string{"commentId": commentID}
	var payload MessageResponse
	if err := c.do(ctx, "like comment", http.MethodPost, &url.URL{Path: "/api/comment/like"}, body, &payload); err != nil {
		return "", err
	}
	return payload.Message, nil
}

// DeleteComment removes a comment or reply.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	body := map[string]string{"commentId": commentID}
	var payload MessageResponse
	return c.do(ctx, "delete comment", http.MethodDelete, &url.URL{Path: "/api/comment/delete"}, body, &payload)
}

// FetchReplies retrieves one page of replies to a comment.
func (c *Client) FetchReplies(ctx context.Context, commentID string, page int) ([]Comment, error) {
	rel := pagedURL("/api/comment/replies/"+commentID, page)
	var payload RepliesResponse
	if err := c.do(ctx, "fetch replies", http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Replies, nil
}

// ToggleBookmark flips the viewer's bookmark on a post.
func (c *Client) ToggleBookmark(ctx context.Context, postID string) (BookmarkToggleResponse, error) {
	body := map[string]string{"postId": postID}
	var payload BookmarkToggleResponse
	if err := c.do(ctx, "toggle bookmark", http.MethodPost, &url.URL{Path: "/api/bookmark/toggle"}, body, &payload); err != nil {
		return BookmarkToggleResponse{}, err
	}
	return payload, nil
}

// FetchBookmarks retrieves the viewer's bookmarked posts.
func (c *Client) FetchBookmarks(ctx context.Context) (BookmarksResponse, error) {
	var payload BookmarksResponse
	if err := c.do(ctx, "fetch bookmarks", http.MethodGet, &url.URL{Path: "/api/bookmark"}, nil, &payload); err != nil {
		return BookmarksResponse{}, err
	}
	return payload, nil
}

// BookmarkStatus asks which of postIDs the viewer has bookmarked.
func (c *Client) BookmarkStatus(ctx context.Context, postIDs []string) (map[string]bool, error) {
	body := map[string][]string{"postIds": postIDs}
	var payload BookmarkStatusResponse
	if err := c.do(ctx, "check bookmark status", http.MethodPost, &url.URL{Path: "/api/bookmark/status"}, body, &payload); err != nil {
		return nil, err
	}
	return payload.BookmarkStatus, nil
}

// SharePost sends a post to a set of connections.
func (c *Client) SharePost(ctx context.Context, req ShareRequest) (string, error) {
	var payload MessageResponse
	if err := c.do(ctx, "share post", http.MethodPost, &url.URL{Path: "/api/post/share"}, req, &payload); err != nil {
		return "", err
	}
	return payload.Message, nil
}

// FetchPostConnections retrieves the users a post can be shared with.
func (c *Client) FetchPostConnections(ctx context.Context) ([]User, error) {
	var payload ConnectionsResponse
	if err := c.do(ctx, "fetch connections", http.MethodGet, &url.URL{Path: "/api/post/connections"}, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Connections, nil
}

// FetchUserConnections retrieves the viewer's network.
func (c *Client) FetchUserConnections(ctx context.Context) (Connections, error) {
	var payload UserConnectionsResponse
	if err := c.do(ctx, "fetch user connections", http.MethodGet, &url.URL{Path: "/api/user/connections"}, nil, &payload); err != nil {
		return Connections{}, err
	}
	return payload.Connections, nil
}

// FetchFeed retrieves one page of the viewer's feed.
func (c *Client) FetchFeed(ctx context.Context, page int) ([]Post, error) {
	var payload FeedResponse
	if err := c.do(ctx, "fetch feed", http.MethodGet, pagedURL("/api/post/feed", page), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Posts, nil
}

// LikePost toggles the viewer's like on a post.
func (c *Client) LikePost(ctx context.Context, postID string) (PostLikeResponse, error) {
	body := map[string]string{"postId": postID}
	var payload PostLikeResponse
	if err := c.do(ctx, "like post", http.MethodPost, &url.URL{Path: "/api/post/like"}, body, &payload); err != nil {
		return PostLikeResponse{}, err
	}
	return payload, nil
}

type enveloped interface {
	envelope() Envelope
}

func (c *Client) do(ctx context.Context, op, method string, rel *url.URL, body any, dest enveloped) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("rate limit: %w", err)}
		}
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log := c.logger.With(zap.String("op", op), zap.String("request_id", requestID))
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return &TransportError{Op: op, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	log.Debug("response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	// 204 and other bodiless successes carry an implicit empty envelope.
	if resp.StatusCode < 400 && len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if decodeErr := json.Unmarshal(data, dest); decodeErr != nil {
		if resp.StatusCode >= 400 {
			return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)}
		}
		return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", decodeErr)}
	}

	env := dest.envelope()
	if env.Success != nil && !*env.Success {
		return &Error{Op: op, Status: resp.StatusCode, Message: env.Message}
	}
	if resp.StatusCode >= 400 {
		if env.Message != "" {
			return &Error{Op: op, Status: resp.StatusCode, Message: env.Message}
		}
		return &TransportError{Op: op, Status: resp.StatusCode, Err: errors.New("empty error response")}
	}
	return nil
}

func pagedURL(path string, page int) *url.URL {
	rel := &url.URL{Path: path}
	if page > 0 {
		values := url.Values{}
		values.Set("page", strconv.Itoa(page))
		rel.RawQuery = values.Encode()
	}
	return rel
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
