package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/five82/flock/internal/api"
	"github.com/five82/flock/internal/dispatch"
	"github.com/five82/flock/internal/state"
)

const (
	commentRowHeight = 2
	maxReplyFetches  = 4
	commentLimit     = 2000
)

// threadState tracks the open comment thread.
type threadState struct {
	postID    string
	page      int
	row       int
	replyPage map[string]int
}

// threadRow is one comment or reply in display order.
type threadRow struct {
	comment api.Comment
	reply   bool
}

// composeState is the comment and reply editor.
type composeState struct {
	active   bool
	postID   string
	parentID string
	label    string
	input    textinput.Model
}

func newComposeState() composeState {
	return composeState{input: newTextInput("", commentLimit)}
}

func (c *composeState) open(postID, parentID, label string) tea.Cmd {
	c.active = true
	c.postID = postID
	c.parentID = parentID
	c.label = label
	c.input.Reset()
	c.input.Placeholder = ternary(parentID == "", "Write a comment", "Write a reply")
	return c.input.Focus()
}

func (c *composeState) close() {
	c.active = false
	c.parentID = ""
	c.input.Blur()
	c.input.Reset()
}

// threadRows flattens the open thread: each comment followed by its replies.
func (m Model) threadRows() []threadRow {
	if m.thread.postID == "" {
		return nil
	}
	var rows []threadRow
	for _, c := range m.snapshot.Comments.Thread(m.thread.postID) {
		rows = append(rows, threadRow{comment: c})
		for _, r := range c.Replies {
			rows = append(rows, threadRow{comment: r, reply: true})
		}
	}
	return rows
}

func (m Model) selectedComment() (threadRow, bool) {
	rows := m.threadRows()
	if len(rows) == 0 {
		return threadRow{}, false
	}
	return rows[clamp(m.thread.row, 0, len(rows)-1)], true
}

// topLevelID returns the id replies to row attach to.
func (r threadRow) topLevelID() string {
	if r.reply {
		return r.comment.ParentID
	}
	return r.comment.ID
}

// openThread shows postID's comments and fetches the first page.
func (m Model) openThread(postID string) (tea.Model, tea.Cmd) {
	if postID == "" {
		return m, nil
	}
	m.thread = threadState{postID: postID, page: 1, replyPage: map[string]int{}}
	m.currentView = ViewThread
	return m, m.openThreadCmd(postID, 1)
}

// openThreadCmd fetches a comments page. With expand_replies set, replies
// beyond those embedded in the page are fetched too.
func (m Model) openThreadCmd(postID string, page int) tea.Cmd {
	if m.coord == nil || postID == "" {
		return nil
	}
	coord := m.coord
	expand := m.prefs.ExpandReplies
	return m.action(opOpenThread, func(ctx context.Context) error {
		if err := coord.FetchComments(ctx, postID, page); err != nil {
			return err
		}
		if !expand {
			return nil
		}
		return expandReplies(ctx, coord, coord.Store().Comments().Thread(postID))
	})
}

// expandReplies fetches the first replies page of every comment whose
// replies were not all embedded.
func expandReplies(ctx context.Context, coord *dispatch.Coordinator, thread []api.Comment) error {
	var g errgroup.Group
	g.SetLimit(maxReplyFetches)
	for _, c := range thread {
		if c.RepliesCount <= len(c.Replies) {
			continue
		}
		id := c.ID
		g.Go(func() error { return coord.FetchReplies(ctx, id, 1) })
	}
	return g.Wait()
}

// handleThreadKey processes keys in the comment thread.
func (m Model) handleThreadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.threadRows()
	postID := m.thread.postID

	switch {
	case key.Matches(msg, m.keys.Up):
		m.thread.row = clamp(m.thread.row-1, 0, len(rows)-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.thread.row = clamp(m.thread.row+1, 0, len(rows)-1)
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.thread.row = 0
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.thread.row = max(len(rows)-1, 0)
		return m, nil
	case key.Matches(msg, m.keys.NextPage):
		m.thread.page++
		m.thread.row = 0
		return m, m.openThreadCmd(postID, m.thread.page)
	case key.Matches(msg, m.keys.PrevPage):
		if m.thread.page <= 1 {
			return m, nil
		}
		m.thread.page--
		m.thread.row = 0
		return m, m.openThreadCmd(postID, m.thread.page)
	case key.Matches(msg, m.keys.Comment):
		return m, m.compose.open(postID, "", "Comment")
	}

	row, hasRow := m.selectedComment()
	post, hasPost := m.snapshot.Posts.Post(postID)

	switch {
	case key.Matches(msg, m.keys.Copy):
		if hasRow {
			return m, copyCmd("comment", row.comment.Content)
		}
		if hasPost {
			return m, copyCmd("post", post.Content)
		}
		return m, nil

	case key.Matches(msg, m.keys.Reply):
		if !hasRow {
			return m, nil
		}
		return m, m.compose.open(postID, row.topLevelID(), "Reply to "+row.comment.Author.DisplayName())

	case key.Matches(msg, m.keys.Like):
		if !hasRow {
			if hasPost {
				return m, m.postAction(msg, post)
			}
			return m, nil
		}
		return m, m.likeComment(postID, row.comment.ID)

	case key.Matches(msg, m.keys.Delete):
		if !hasRow {
			return m, nil
		}
		return m, m.deleteComment(row.comment)

	case key.Matches(msg, m.keys.Replies):
		if !hasRow {
			return m, nil
		}
		return m, m.loadReplies(row.topLevelID())
	}

	if hasPost {
		return m, m.postAction(msg, post)
	}
	return m, nil
}

func (m Model) likeComment(postID, commentID string) tea.Cmd {
	if m.coord == nil {
		return nil
	}
	coord := m.coord
	return m.action(opLikeComment, func(ctx context.Context) error {
		return coord.LikeComment(ctx, postID, commentID)
	})
}

func (m Model) deleteComment(c api.Comment) tea.Cmd {
	if m.coord == nil {
		return nil
	}
	if uid := m.userID(); uid == "" || c.Author.ID != uid {
		m.notifyInfo("You can only delete your own comments")
		return nil
	}
	coord := m.coord
	return m.action(opDeleteComment, func(ctx context.Context) error {
		return coord.DeleteComment(ctx, c.ID)
	})
}

// loadReplies fetches the next replies page of a top-level comment,
// wrapping to the first page once every reply has been shown.
func (m *Model) loadReplies(commentID string) tea.Cmd {
	if m.coord == nil || commentID == "" {
		return nil
	}
	if m.thread.replyPage == nil {
		m.thread.replyPage = map[string]int{}
	}
	current := m.thread.replyPage[commentID]
	page := current + 1
	if c, ok := m.snapshot.Comments.Find(commentID); ok && current > 0 &&
		(len(c.Replies) == 0 || len(c.Replies) >= c.RepliesCount) {
		page = 1
	}
	m.thread.replyPage[commentID] = page
	coord := m.coord
	return m.action(opFetchReplies, func(ctx context.Context) error {
		return coord.FetchReplies(ctx, commentID, page)
	})
}

// handleComposeKey routes keys to the comment editor.
func (m Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.compose.close()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if m.snapshot.Comments.Adding || m.coord == nil {
			return m, nil
		}
		in := dispatch.AddCommentInput{
			PostID:   m.compose.postID,
			Content:  m.compose.input.Value(),
			ParentID: m.compose.parentID,
		}
		coord := m.coord
		return m, m.action(opAddComment, func(ctx context.Context) error {
			_, err := coord.AddComment(ctx, in)
			return err
		})
	}

	var cmd tea.Cmd
	m.compose.input, cmd = m.compose.input.Update(msg)
	return m, cmd
}

// renderThread renders the open post and its comments.
func (m Model) renderThread() string {
	styles := m.theme.Styles()
	height := m.bodyHeight()
	comments := m.snapshot.Comments
	postID := m.thread.postID

	var lines []string
	if post, ok := m.snapshot.Posts.Post(postID); ok {
		lines = append(lines, m.renderPostRow(post, false)...)
	} else {
		lines = append(lines, styles.MutedText.Render("Post not loaded"))
	}

	status := styles.AccentText.Bold(true).Render("Comments") +
		styles.FaintText.Render(fmt.Sprintf("  page %d", max(m.thread.page, 1)))
	switch comments.ThreadStatus(postID) {
	case state.ThreadLoading:
		status += "  " + styles.WarningText.Render("Loading...")
	case state.ThreadErrored:
		status += "  " + styles.DangerText.Render(comments.Errors[postID])
	}
	if comments.Error != "" {
		status += "  " + styles.DangerText.Render(comments.Error)
	}
	lines = append(lines, "", status)

	var footer []string
	if m.compose.active {
		footer = m.renderCompose()
	}

	rows := m.threadRows()
	if len(rows) == 0 {
		if comments.ThreadStatus(postID) == state.ThreadLoaded {
			lines = append(lines, styles.MutedText.Render("No comments yet. Press c to start the conversation."))
		}
		return withFooter(lines, footer, height)
	}

	avail := height - len(lines) - len(footer)
	start, end := window(m.thread.row, len(rows), avail/commentRowHeight)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderCommentRow(rows[i], i == m.thread.row)...)
	}
	return withFooter(lines, footer, height)
}

// renderCommentRow renders one comment as commentRowHeight lines.
func (m Model) renderCommentRow(r threadRow, selected bool) []string {
	styles := m.theme.Styles()
	c := r.comment
	comments := m.snapshot.Comments
	uid := m.userID()

	indent := " "
	if r.reply {
		indent = "    ↳ "
	}
	heart := styles.MutedText.Render("♡")
	if uid != "" && c.Likes.Has(uid) {
		heart = styles.LikeText.Render("♥")
	}
	meta := indent + styles.AccentText.Render(c.Author.DisplayName()) +
		styles.FaintText.Render(" · "+timeAgo(c.ParsedCreatedAt(), m.now())) +
		fmt.Sprintf("  %s %d", heart, c.Likes.Len())
	if !r.reply && c.RepliesCount > 0 {
		meta += styles.MutedText.Render(fmt.Sprintf("  %d/%d replies", len(c.Replies), c.RepliesCount))
	}
	if comments.RepliesLoading[c.ID] {
		meta += "  " + styles.WarningText.Render("loading replies...")
	}
	if comments.Deleting[c.ID] {
		meta += "  " + styles.DangerText.Render("deleting...")
	}

	pad := strings.Repeat(" ", len([]rune(indent))+2)
	width := max(m.width-len(pad)-2, 10)
	body := pad + styles.Text.Render(truncate(oneLine(c.Content), width))

	out := []string{meta, body}
	if selected {
		for i, l := range out {
			out[i] = styles.Selected.Width(m.width).Render(l)
		}
	}
	return out
}

// renderCompose renders the editor box below the thread.
func (m Model) renderCompose() []string {
	styles := m.theme.Styles()
	label := styles.AccentText.Render(m.compose.label)
	if m.snapshot.Comments.Adding {
		label += "  " + styles.WarningText.Render("Posting...")
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Width(max(m.width-2, 10)).
		Render(label + "\n" + m.compose.input.View())
	return strings.Split(box, "\n")
}

// withFooter fills height lines with body on top and footer pinned below.
func withFooter(body, footer []string, height int) string {
	room := max(height-len(footer), 0)
	if len(body) > room {
		body = body[:room]
	}
	for len(body) < room {
		body = append(body, "")
	}
	return fitHeight(append(body, footer...), height)
}
