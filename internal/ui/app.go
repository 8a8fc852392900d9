package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/flock/internal/dispatch"
	"github.com/five82/flock/internal/notify"
	"github.com/five82/flock/internal/prefs"
	"github.com/five82/flock/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewFeed View = iota
	ViewBookmarks
	ViewThread
	ViewLogs
)

func (v View) String() string {
	switch v {
	case ViewFeed:
		return "Feed"
	case ViewBookmarks:
		return "Bookmarks"
	case ViewThread:
		return "Comments"
	case ViewLogs:
		return "Logs"
	default:
		return "Unknown"
	}
}

// Options configures the UI.
type Options struct {
	Context     context.Context
	Coordinator *dispatch.Coordinator
	Notices     *notify.Center
	Prefs       prefs.Prefs
	PrefsPath   string
	LogPath     string
	Logger      *zap.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	coord     *dispatch.Coordinator
	notices   *notify.Center
	logger    *zap.Logger
	prefs     prefs.Prefs
	prefsPath string
	logPath   string
	keys      keyMap
	now       func() time.Time

	// Subscriptions
	snapshots <-chan state.Snapshot
	noticeCh  <-chan struct{}
	closers   []func()

	// UI state
	theme       Theme
	currentView View
	listView    View // list to return to from a thread
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	snapshot state.Snapshot
	active   []notify.Notice

	// Lists
	feedRow     int
	bookmarkRow int

	thread  threadState
	compose composeState
	share   shareState
	logs    logState
}

// New creates the model and subscribes it to the store and notice center.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	notices := opts.Notices
	if notices == nil {
		notices = notify.NewCenter(notify.DefaultTTL)
	}
	userPrefs := opts.Prefs
	if userPrefs.Theme == "" {
		userPrefs.Theme = prefs.Default().Theme
	}

	m := Model{
		ctx:         ctx,
		coord:       opts.Coordinator,
		notices:     notices,
		logger:      logger.Named("ui"),
		prefs:       userPrefs,
		prefsPath:   opts.PrefsPath,
		logPath:     opts.LogPath,
		keys:        DefaultKeyMap(),
		now:         time.Now,
		theme:       GetTheme(userPrefs.Theme),
		currentView: ViewFeed,
		listView:    ViewFeed,
		compose:     newComposeState(),
		logs:        logState{viewport: viewport.New(0, 0), follow: true},
	}

	snapshots := make(chan state.Snapshot, 1)
	m.snapshots = snapshots
	if m.coord != nil {
		m.snapshot = m.coord.Store().Snapshot()
		m.closers = append(m.closers, m.coord.Store().Subscribe(func(s state.Snapshot) {
			offerLatest(snapshots, s)
		}))
	}

	changed := make(chan struct{}, 1)
	m.noticeCh = changed
	m.closers = append(m.closers, notices.Subscribe(func(notify.Notice) {
		select {
		case changed <- struct{}{}:
		default:
		}
	}))
	return m
}

// Close removes the model's subscriptions.
func (m Model) Close() {
	for _, fn := range m.closers {
		fn()
	}
}

// Init starts the tick loop and one reader per subscription. New already
// holds the store's snapshot; later changes arrive on the channel.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(tickInterval),
		waitForSnapshot(m.snapshots),
		waitForNotices(m.noticeCh),
	)
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeViewports()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, waitForSnapshot(m.snapshots)

	case noticesMsg:
		m.active = m.notices.Active(m.now())
		return m, waitForNotices(m.noticeCh)

	case actionMsg:
		return m.handleAction(msg)

	case logsMsg:
		m.setLogs(msg)
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.logger.Warn("clipboard write failed", zap.Error(msg.err))
			m.notices.Error("Copy failed: " + msg.err.Error())
		} else {
			m.notices.Success("Copied " + msg.what + " to clipboard")
		}
		return m, nil
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.share.active {
		return m.renderShare()
	}
	return m.renderMain()
}

// applySnapshot installs s unless it is older than what is shown.
func (m *Model) applySnapshot(s state.Snapshot) {
	if s.Version < m.snapshot.Version {
		return
	}
	m.snapshot = s
	m.feedRow = clamp(m.feedRow, 0, len(m.feedPosts())-1)
	m.bookmarkRow = clamp(m.bookmarkRow, 0, len(m.bookmarkPosts())-1)
	m.thread.row = clamp(m.thread.row, 0, len(m.threadRows())-1)
	if m.share.active {
		m.share.sync(s.Connections.Connections)
	}
}

// handleAction reacts to finished coordinator calls.
func (m Model) handleAction(msg actionMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Debug("action failed", zap.String("op", msg.op), zap.Error(msg.err))
	}
	switch msg.op {
	case opAddComment:
		if msg.err == nil {
			m.compose.close()
		}
	case opShare:
		if m.share.active && (msg.err == nil || !isValidation(msg.err)) {
			m.share = shareState{}
		}
	case opOpenThread:
		m.thread.row = clamp(m.thread.row, 0, len(m.threadRows())-1)
	}
	return m, nil
}

// handleTick prunes expired notices and follows the log.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(tickInterval)}
	m.active = m.notices.Active(m.now())
	if m.currentView == ViewLogs && m.logs.follow {
		cmds = append(cmds, readLogsCmd(m.logPath))
	}
	return m, tea.Batch(cmds...)
}

// dismissNotice drops the newest visible notice.
func (m *Model) dismissNotice() {
	if len(m.active) == 0 {
		return
	}
	m.notices.Dismiss(m.active[len(m.active)-1].ID)
	m.active = m.notices.Active(m.now())
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Escape) || msg.String() == "q" {
			m.showHelp = false
		}
		return m, nil
	}
	if m.share.active {
		return m.handleShareKey(msg)
	}
	if m.compose.active {
		return m.handleComposeKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
			m.logger.Warn("save prefs failed", zap.Error(err))
		}
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.switchView(m.nextView(1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(m.nextView(-1))

	case key.Matches(msg, m.keys.ViewFeed):
		return m.switchView(ViewFeed)

	case key.Matches(msg, m.keys.ViewBookmarks):
		return m.switchView(ViewBookmarks)

	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()

	case key.Matches(msg, m.keys.Dismiss):
		m.dismissNotice()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.currentView == ViewThread || m.currentView == ViewLogs {
			return m.switchView(m.listView)
		}
		return m, nil
	}

	switch m.currentView {
	case ViewFeed, ViewBookmarks:
		return m.handleListKey(msg)
	case ViewThread:
		return m.handleThreadKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

// nextView cycles Feed, Bookmarks and Logs. A thread counts as its list.
func (m Model) nextView(step int) View {
	order := []View{ViewFeed, ViewBookmarks, ViewLogs}
	current := m.currentView
	if current == ViewThread {
		current = m.listView
	}
	for i, v := range order {
		if v == current {
			return order[(i+step+len(order))%len(order)]
		}
	}
	return ViewFeed
}

// switchView changes the active view. Leaving a thread releases its
// comments from the store.
func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	if m.currentView == v {
		return m, nil
	}
	if m.currentView == ViewThread && m.thread.postID != "" && m.coord != nil {
		m.coord.ClearComments(m.thread.postID)
		m.thread = threadState{}
	}
	if v == ViewFeed || v == ViewBookmarks {
		m.listView = v
	}
	m.currentView = v
	if v == ViewLogs {
		return m, readLogsCmd(m.logPath)
	}
	return m, nil
}

// refresh reloads whatever the current view shows.
func (m Model) refresh() tea.Cmd {
	if m.coord == nil {
		return nil
	}
	coord := m.coord
	switch m.currentView {
	case ViewFeed:
		page := max(m.snapshot.Posts.FeedPage, 1)
		return m.action(opFetchFeed, func(ctx context.Context) error {
			return coord.FetchFeed(ctx, page)
		})
	case ViewBookmarks:
		return m.action(opFetchBookmarks, coord.FetchBookmarks)
	case ViewThread:
		return m.openThreadCmd(m.thread.postID, max(m.thread.page, 1))
	case ViewLogs:
		return readLogsCmd(m.logPath)
	}
	return nil
}

// bodyHeight is the number of lines left for the active view.
func (m Model) bodyHeight() int {
	// header + command bar + notices
	return max(m.height-2-len(m.visibleNotices()), 1)
}

// resizeViewports fits the viewports to the window.
func (m *Model) resizeViewports() {
	m.logs.viewport.Width = m.width
	m.logs.viewport.Height = m.bodyHeight()
	m.compose.input.Width = max(m.width-6, 10)
}

// userID returns the acting user's id, or empty without a session.
func (m Model) userID() string {
	if m.coord == nil {
		return ""
	}
	return m.coord.Session().UserID
}

// inputWidth is the text width of modal inputs.
func inputWidth(width int) int {
	return max(min(width-12, 60), 10)
}

func newTextInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = "> "
	return ti
}
