package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/flock/internal/api"
	"github.com/five82/flock/internal/notify"
)

// Coordinator operations started from the UI.
const (
	opFetchFeed        = "fetch_feed"
	opFetchBookmarks   = "fetch_bookmarks"
	opFetchConnections = "fetch_connections"
	opLikePost         = "like_post"
	opToggleBookmark   = "toggle_bookmark"
	opOpenThread       = "open_thread"
	opAddComment       = "add_comment"
	opLikeComment      = "like_comment"
	opDeleteComment    = "delete_comment"
	opFetchReplies     = "fetch_replies"
	opShare            = "share_post"
)

const postRowHeight = 3

func (m Model) feedPosts() []api.Post {
	return m.snapshot.Posts.FeedPosts()
}

func (m Model) bookmarkPosts() []api.Post {
	return m.snapshot.Posts.Resolve(m.snapshot.Bookmarks.PostIDs)
}

// listPosts returns the posts of the active list and a pointer to its cursor.
func (m *Model) listPosts() ([]api.Post, *int) {
	if m.currentView == ViewBookmarks || (m.currentView == ViewThread && m.listView == ViewBookmarks) {
		return m.bookmarkPosts(), &m.bookmarkRow
	}
	return m.feedPosts(), &m.feedRow
}

// selectedPost returns the post under the cursor, or the open thread's post.
func (m Model) selectedPost() (api.Post, bool) {
	if m.currentView == ViewThread {
		return m.snapshot.Posts.Post(m.thread.postID)
	}
	posts, row := m.listPosts()
	if len(posts) == 0 {
		return api.Post{}, false
	}
	return posts[clamp(*row, 0, len(posts)-1)], true
}

// handleListKey processes keys for the feed and bookmarks lists.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	posts, row := m.listPosts()

	switch {
	case key.Matches(msg, m.keys.Up):
		*row = clamp(*row-1, 0, len(posts)-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		*row = clamp(*row+1, 0, len(posts)-1)
		return m, nil
	case key.Matches(msg, m.keys.Top):
		*row = 0
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		*row = max(len(posts)-1, 0)
		return m, nil
	case key.Matches(msg, m.keys.NextPage), key.Matches(msg, m.keys.PrevPage):
		if m.currentView != ViewFeed || m.coord == nil {
			return m, nil
		}
		page := max(m.snapshot.Posts.FeedPage, 1)
		if key.Matches(msg, m.keys.NextPage) {
			page++
		} else if page > 1 {
			page--
		} else {
			return m, nil
		}
		m.feedRow = 0
		coord := m.coord
		return m, m.action(opFetchFeed, func(ctx context.Context) error {
			return coord.FetchFeed(ctx, page)
		})
	}

	post, ok := m.selectedPost()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Open):
		return m.openThread(post.ID)
	case key.Matches(msg, m.keys.Copy):
		return m, copyCmd("post", post.Content)
	}
	return m, m.postAction(msg, post)
}

// postAction runs the like, bookmark and share keys against post.
func (m *Model) postAction(msg tea.KeyMsg, post api.Post) tea.Cmd {
	if m.coord == nil {
		return nil
	}
	coord := m.coord
	switch {
	case key.Matches(msg, m.keys.Like):
		return m.action(opLikePost, func(ctx context.Context) error {
			return coord.LikePost(ctx, post.ID)
		})
	case key.Matches(msg, m.keys.Bookmark):
		return m.action(opToggleBookmark, func(ctx context.Context) error {
			_, err := coord.ToggleBookmark(ctx, post.ID)
			return err
		})
	case key.Matches(msg, m.keys.Share):
		return m.openShare(post.ID)
	}
	return nil
}

// renderList renders a list of posts with the cursor at row.
func (m Model) renderList(posts []api.Post, row int, title, status, empty string) string {
	styles := m.theme.Styles()
	height := m.bodyHeight()

	var lines []string
	titleLine := styles.AccentText.Bold(true).Render(title)
	if status != "" {
		titleLine += "  " + status
	}
	lines = append(lines, titleLine)

	if len(posts) == 0 {
		lines = append(lines, "", styles.MutedText.Render(empty))
		return fitHeight(lines, height)
	}

	start, end := window(row, len(posts), (height-1)/postRowHeight)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderPostRow(posts[i], i == row)...)
	}
	return fitHeight(lines, height)
}

// renderPostRow renders one post as postRowHeight lines.
func (m Model) renderPostRow(p api.Post, selected bool) []string {
	styles := m.theme.Styles()
	now := m.now()
	uid := m.userID()
	width := max(m.width-4, 20)

	bookmark := "  "
	if v, known := m.snapshot.Bookmarks.IsBookmarked(p.ID); known && v {
		bookmark = styles.BookmarkText.Render("★ ")
	}
	meta := bookmark + styles.AccentText.Bold(true).Render(p.Author.DisplayName())
	if ago := timeAgo(p.ParsedCreatedAt(), now); ago != "" {
		meta += styles.FaintText.Render(" · " + ago)
	}

	content := "  " + styles.Text.Render(truncate(oneLine(p.Content), width))

	heart := styles.MutedText.Render("♡")
	if uid != "" && p.Likes.Has(uid) {
		heart = styles.LikeText.Render("♥")
	}
	if m.snapshot.Posts.Liking[p.ID] {
		heart += styles.FaintText.Render("…")
	}
	stats := fmt.Sprintf("  %s %d  %s  %s",
		heart, p.Likes.Len(),
		styles.MutedText.Render(plural(p.CommentsCount, "comment")),
		styles.MutedText.Render(plural(p.SharesCount, "share")))
	if names := m.likedByNames(p); names != "" {
		stats += styles.FaintText.Render("  liked by " + truncate(names, max(width-40, 10)))
	}

	rows := []string{meta, content, stats}
	if selected {
		marker := styles.AccentText.Render("▌")
		for i, r := range rows {
			rows[i] = styles.Selected.Width(m.width).Render(marker + r)
		}
		return rows
	}
	for i, r := range rows {
		rows[i] = " " + r
	}
	return rows
}

// likedByNames lists the viewer's connections who liked p.
func (m Model) likedByNames(p api.Post) string {
	users := m.snapshot.Connections.LikedByConnection(p)
	if len(users) == 0 {
		return ""
	}
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.DisplayName())
	}
	return strings.Join(names, ", ")
}

func (m Model) renderFeed() string {
	posts := m.feedPosts()
	styles := m.theme.Styles()
	status := styles.FaintText.Render(fmt.Sprintf("page %d", max(m.snapshot.Posts.FeedPage, 1)))
	switch {
	case m.snapshot.Posts.FeedLoading:
		status += "  " + styles.WarningText.Render("Loading...")
	case m.snapshot.Posts.FeedError != "":
		status += "  " + styles.DangerText.Render(m.snapshot.Posts.FeedError)
	}
	return m.renderList(posts, m.feedRow, "Feed", status, "No posts yet.")
}

func (m Model) renderBookmarks() string {
	b := m.snapshot.Bookmarks
	styles := m.theme.Styles()
	status := styles.FaintText.Render(plural(b.Count, "bookmark"))
	switch {
	case b.Loading:
		status += "  " + styles.WarningText.Render("Loading...")
	case b.Error != "":
		status += "  " + styles.DangerText.Render(b.Error)
	}
	return m.renderList(m.bookmarkPosts(), m.bookmarkRow, "Bookmarks", status, "Nothing bookmarked yet. Press m on a post to save it.")
}

// fitHeight pads or cuts lines to exactly height lines.
func fitHeight(lines []string, height int) string {
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// notifyInfo shows a transient informational notice.
func (m Model) notifyInfo(msg string) {
	m.notices.Push(notify.LevelInfo, msg)
}
