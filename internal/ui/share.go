package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/flock/internal/api"
	"github.com/five82/flock/internal/dispatch"
)

const (
	shareMessageLimit = 500
	shareListRows     = 10
)

// shareState is the recipient picker shown over the current view.
type shareState struct {
	active       bool
	postID       string
	recipients   []api.User
	cursor       int
	selected     map[string]bool
	input        textinput.Model
	focusMessage bool
}

func newShareState(postID string, recipients []api.User) shareState {
	s := shareState{
		active:   true,
		postID:   postID,
		selected: map[string]bool{},
		input:    newTextInput("Add a message (optional)", shareMessageLimit),
	}
	s.sync(recipients)
	return s
}

// sync replaces the recipient list, dropping selections that vanished.
func (s *shareState) sync(recipients []api.User) {
	s.recipients = recipients
	known := make(map[string]bool, len(recipients))
	for _, u := range recipients {
		known[u.ID] = true
	}
	for id := range s.selected {
		if !known[id] {
			delete(s.selected, id)
		}
	}
	s.cursor = clamp(s.cursor, 0, len(recipients)-1)
}

// toggle flips the recipient under the cursor.
func (s *shareState) toggle() {
	if len(s.recipients) == 0 {
		return
	}
	id := s.recipients[s.cursor].ID
	if s.selected[id] {
		delete(s.selected, id)
		return
	}
	s.selected[id] = true
}

// chosen returns the selected ids in recipient order.
func (s shareState) chosen() []string {
	var ids []string
	for _, u := range s.recipients {
		if s.selected[u.ID] {
			ids = append(ids, u.ID)
		}
	}
	return ids
}

// setFocus moves focus between the list and the message input.
func (s *shareState) setFocus(message bool) tea.Cmd {
	s.focusMessage = message
	if message {
		return s.input.Focus()
	}
	s.input.Blur()
	return nil
}

// openShare opens the picker for postID, loading connections if none are
// known yet.
func (m *Model) openShare(postID string) tea.Cmd {
	m.share = newShareState(postID, m.snapshot.Connections.Connections)
	if len(m.share.recipients) > 0 || m.coord == nil || m.snapshot.Connections.Loading {
		return nil
	}
	return m.action(opFetchConnections, m.coord.FetchPostConnections)
}

// handleShareKey processes keys while the picker is open.
func (m Model) handleShareKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.share = shareState{}
		return m, nil
	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		return m, m.share.setFocus(!m.share.focusMessage)
	case key.Matches(msg, m.keys.Confirm):
		if m.snapshot.Posts.Sharing || m.coord == nil {
			return m, nil
		}
		in := dispatch.ShareInput{
			PostID:       m.share.postID,
			RecipientIDs: m.share.chosen(),
			Message:      m.share.input.Value(),
		}
		coord := m.coord
		return m, m.action(opShare, func(ctx context.Context) error {
			return coord.SharePost(ctx, in)
		})
	}

	if m.share.focusMessage {
		var cmd tea.Cmd
		m.share.input, cmd = m.share.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.share.cursor = clamp(m.share.cursor-1, 0, len(m.share.recipients)-1)
	case key.Matches(msg, m.keys.Down):
		m.share.cursor = clamp(m.share.cursor+1, 0, len(m.share.recipients)-1)
	case key.Matches(msg, m.keys.Toggle):
		m.share.toggle()
	}
	return m, nil
}

// renderShare renders the picker as a centered modal.
func (m Model) renderShare() string {
	styles := m.theme.Styles()
	s := m.share
	conns := m.snapshot.Connections

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Share post"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	switch {
	case len(s.recipients) == 0 && conns.Loading:
		b.WriteString(styles.WarningText.Render("Loading connections..."))
		b.WriteString("\n")
	case len(s.recipients) == 0 && conns.Error != "":
		b.WriteString(styles.DangerText.Render(conns.Error))
		b.WriteString("\n")
	case len(s.recipients) == 0:
		b.WriteString(styles.MutedText.Render("No connections to share with."))
		b.WriteString("\n")
	default:
		start, end := window(s.cursor, len(s.recipients), shareListRows)
		for i := start; i < end; i++ {
			u := s.recipients[i]
			box := ternary(s.selected[u.ID], "[x] ", "[ ] ")
			line := box + padRight(u.DisplayName(), 24)
			if u.Username != "" && u.Name != "" {
				line += styles.FaintText.Render(" @" + u.Username)
			}
			if i == s.cursor && !s.focusMessage {
				line = styles.Selected.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.share.input.View())
	b.WriteString("\n\n")

	status := styles.MutedText.Render(plural(len(s.chosen()), "recipient") + " selected")
	if m.snapshot.Posts.Sharing {
		status = styles.WarningText.Render("Sharing...")
	} else if e := m.snapshot.Posts.ShareError; e != "" {
		status = styles.DangerText.Render(e)
	}
	b.WriteString(status)
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("space select · tab message · enter send · esc cancel"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(inputWidth(m.width) + 6)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
