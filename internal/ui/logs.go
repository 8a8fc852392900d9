package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/flock/internal/logtail"
)

// logState holds the diagnostics log view.
type logState struct {
	viewport viewport.Model
	lines    []string
	err      error
	follow   bool
}

// setLogs installs freshly read log lines.
func (m *Model) setLogs(msg logsMsg) {
	m.logs.err = msg.err
	if msg.err != nil {
		return
	}
	m.logs.lines = msg.lines
	formatted := make([]string, len(msg.lines))
	for i, line := range msg.lines {
		formatted[i] = logtail.FormatLine(line)
	}
	m.logs.viewport.SetContent(strings.Join(formatted, "\n"))
	if m.logs.follow {
		m.logs.viewport.GotoBottom()
	}
}

// handleLogsKey processes keys in the logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logs.follow = !m.logs.follow
		if m.logs.follow {
			m.logs.viewport.GotoBottom()
			return m, readLogsCmd(m.logPath)
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logs.follow = false
		m.logs.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logs.viewport.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.logs.follow = false
	}

	var cmd tea.Cmd
	m.logs.viewport, cmd = m.logs.viewport.Update(msg)
	return m, cmd
}

// renderLogs renders the log tail.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	height := m.bodyHeight()

	title := styles.AccentText.Bold(true).Render("Logs") + "  " +
		styles.FaintText.Render(truncate(m.logPath, max(m.width-30, 10)))
	if m.logs.follow {
		title += "  " + styles.SuccessText.Render("following")
	}

	var body string
	switch {
	case m.logPath == "":
		body = styles.MutedText.Render("No log file configured.")
	case m.logs.err != nil:
		body = styles.DangerText.Render("Cannot read log: " + m.logs.err.Error())
	case len(m.logs.lines) == 0:
		body = styles.MutedText.Render("No log entries yet.")
	default:
		vp := m.logs.viewport
		vp.Height = max(height-1, 1)
		body = vp.View()
	}
	return fitHeight(append([]string{title}, strings.Split(body, "\n")...), height)
}
