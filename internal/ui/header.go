package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/flock/internal/notify"
)

const maxVisibleNotices = 3

// renderMain renders the header, command bar, active view and notices.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	if notices := m.renderNotices(); notices != "" {
		b.WriteString("\n")
		b.WriteString(notices)
	}
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewFeed:
		return m.renderFeed()
	case ViewBookmarks:
		return m.renderBookmarks()
	case ViewThread:
		return m.renderThread()
	case ViewLogs:
		return m.renderLogs()
	default:
		return ""
	}
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < 100

	parts := []string{
		bg.Render("flock", styles.Logo),
		bg.Render(m.currentView.String(), styles.AccentText.Bold(true)),
	}

	if uid := m.userID(); uid != "" {
		name := uid
		if u, ok := m.snapshot.Connections.User(uid); ok {
			name = u.DisplayName()
		}
		parts = append(parts, bg.Render(name, styles.Text))
	} else {
		parts = append(parts, bg.Render("read-only", styles.WarningText))
	}

	if !compact {
		parts = append(parts,
			bg.Render(plural(m.snapshot.Bookmarks.Count, "bookmark"), styles.MutedText),
			bg.Render(plural(len(m.snapshot.Connections.Connections), "connection"), styles.MutedText))
		if n := len(m.snapshot.Connections.Pending); n > 0 {
			parts = append(parts, bg.Render(plural(n, "request"), styles.InfoText))
		}
	}

	if m.syncing() {
		parts = append(parts, bg.Render("Syncing...", styles.WarningText.Bold(true)))
	}
	if ts := formatClock(m.snapshot.UpdatedAt, m.now()); ts != "" {
		parts = append(parts, bg.Render(ts, styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// syncing reports whether any fetch is in flight.
func (m Model) syncing() bool {
	s := m.snapshot
	return s.Posts.FeedLoading || s.Bookmarks.Loading || s.Bookmarks.Checking ||
		s.Connections.Loading || s.Connections.NetLoading
}

// renderCommandBar renders the key hints for the active view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.compose.active:
		commands = []cmd{{"enter", "Post"}, {"esc", "Cancel"}}
	case m.currentView == ViewThread:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"c", "Comment"},
			{"r", "Reply"},
			{"L", "Like"},
			{"R", "Replies"},
			{"d", "Delete"},
			{"n/p", "Page"},
			{"esc", "Back"},
			{"?", "More"},
		}
	case m.currentView == ViewLogs:
		commands = []cmd{
			{"space", ternary(m.logs.follow, "Pause", "Follow")},
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"f", "Feed"},
			{"b", "Bookmarks"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Comments"},
			{"L", "Like"},
			{"m", "Bookmark"},
			{"s", "Share"},
			{"y", "Copy"},
		}
		if m.currentView == ViewFeed {
			commands = append(commands, cmd{"n/p", "Page"}, cmd{"b", "Bookmarks"})
		} else {
			commands = append(commands, cmd{"f", "Feed"})
		}
		commands = append(commands, cmd{"l", "Logs"}, cmd{"?", "More"})
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(bg.Join(segments, "  "))
}

// visibleNotices returns the newest active notices.
func (m Model) visibleNotices() []notify.Notice {
	if len(m.active) <= maxVisibleNotices {
		return m.active
	}
	return m.active[len(m.active)-maxVisibleNotices:]
}

// renderNotices renders active notices, one per line.
func (m Model) renderNotices() string {
	notices := m.visibleNotices()
	if len(notices) == 0 {
		return ""
	}
	styles := m.theme.Styles()
	lines := make([]string, 0, len(notices))
	for _, n := range notices {
		icon := "•"
		switch n.Level {
		case notify.LevelSuccess:
			icon = "✓"
		case notify.LevelError:
			icon = "✗"
		}
		text := truncate(oneLine(n.Message), max(m.width-4, 10))
		lines = append(lines, styles.NoticeStyle(n.Level).Render(" "+icon+" "+text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
