// Package ui is the bubbletea front end: feed, bookmarks, comment threads,
// the share picker and the diagnostics log.
package ui

import (
	"context"
	"errors"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/flock/internal/dispatch"
	"github.com/five82/flock/internal/logtail"
	"github.com/five82/flock/internal/state"
)

const (
	tickInterval = time.Second
	logTailLines = 500
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type noticesMsg struct{}

// actionMsg reports the end of a coordinator call. The coordinator has
// already recorded failures in the store and the notice center.
type actionMsg struct {
	op  string
	err error
}

type logsMsg struct {
	lines []string
	err   error
}

type copiedMsg struct {
	what string
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForSnapshot(ch <-chan state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-ch)
	}
}

func waitForNotices(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return noticesMsg{}
	}
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines)
		return logsMsg{lines: lines, err: err}
	}
}

func copyCmd(what, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{what: what, err: clipboard.WriteAll(text)}
	}
}

// action runs fn with the model's context off the update loop.
func (m Model) action(op string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionMsg{op: op, err: fn(ctx)}
	}
}

// offerLatest replaces any unread value in ch with v. It must have a
// single sender.
func offerLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func isValidation(err error) bool {
	var verr *dispatch.ValidationError
	return errors.As(err, &verr)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
