// Package tui implements the interactive terminal UI for taskflow.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/store"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
	"github.com/twiced-technology-gmbh/taskflow/internal/view"
)

// screen is the current screen state.
type screen int

const (
	screenList screen = iota
	screenDetail
	screenConfirmDelete
	screenForm
	screenCalendar
)

const (
	keyEsc = "esc"

	listChrome     = 4 // filter bar, header, blank line, help
	errorChrome    = 1
	defaultRefresh = 30 * time.Second
)

// Options configures a Model.
type Options struct {
	View    view.Options
	Theme   output.Theme
	Refresh time.Duration
	Loc     *time.Location
	// OnTheme persists a theme toggle. May be nil.
	OnTheme func(output.Theme) error
}

// Model is the top-level bubbletea model.
type Model struct {
	ctx     context.Context
	board   *board.Board
	opts    view.Options
	theme   output.Theme
	styles  palette
	refresh time.Duration
	loc     *time.Location
	onTheme func(output.Theme) error
	now     func() time.Time

	sub    *store.Subscription
	tasks  []*task.Task
	rows   []view.Row
	loaded bool

	screen    screen
	cursor    int
	scrollOff int
	width     int
	height    int
	err       error
	streamErr bool // err came from the subscription
	notice    string

	form *form
	cal  calendar
	keys keyMap
	help help.Model
}

// New creates a Model for b. ctx bounds the task subscription.
func New(ctx context.Context, b *board.Board, opts Options) *Model {
	if opts.Refresh <= 0 {
		opts.Refresh = defaultRefresh
	}
	if opts.Loc == nil {
		opts.Loc = time.Local
	}
	if opts.Theme == "" {
		opts.Theme = output.ThemeDark
	}
	return &Model{
		ctx:     ctx,
		board:   b,
		opts:    opts.View,
		theme:   opts.Theme,
		styles:  paletteFor(opts.Theme),
		refresh: opts.Refresh,
		loc:     opts.Loc,
		onTheme: opts.OnTheme,
		now:     time.Now,
		keys:    newKeyMap(),
		help:    help.New(),
	}
}

// SetNow overrides the clock used for effective status (for testing).
func (m *Model) SetNow(fn func() time.Time) {
	m.now = fn
}

// Close stops the task subscription.
func (m *Model) Close() {
	if m.sub != nil {
		m.sub.Unsubscribe()
	}
}

// snapshotMsg carries a fresh task list from the subscription.
type snapshotMsg store.Snapshot

// subscribedMsg reports a started subscription.
type subscribedMsg struct{ sub *store.Subscription }

// subscriptionClosedMsg is sent when the subscription channel closes.
type subscriptionClosedMsg struct{}

// TickMsg is sent periodically so lapsed deadlines show as Overdue.
type TickMsg struct{}

// doneMsg reports the outcome of a mutation.
type doneMsg struct {
	notice string
	err    error
}

type themeMsg struct{ err error }

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return TickMsg{} })
}

func (m *Model) subscribe() tea.Cmd {
	return func() tea.Msg {
		sub, err := m.board.Subscribe(m.ctx)
		if err != nil {
			return doneMsg{err: fmt.Errorf("subscribing to tasks: %w", err)}
		}
		return subscribedMsg{sub: sub}
	}
}

func waitSnapshot(sub *store.Subscription) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-sub.C()
		if !ok {
			return subscriptionClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.subscribe(), tickCmd(m.refresh))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureVisible()
		return m, nil
	case subscribedMsg:
		m.sub = msg.sub
		return m, waitSnapshot(msg.sub)
	case snapshotMsg:
		if msg.Err != nil {
			m.err = msg.Err
			m.streamErr = true
		} else {
			if m.streamErr {
				m.err = nil
				m.streamErr = false
			}
			m.tasks = msg.Tasks
			m.loaded = true
			m.recompute()
		}
		if m.sub == nil {
			return m, nil
		}
		return m, waitSnapshot(m.sub)
	case subscriptionClosedMsg:
		return m, nil
	case TickMsg:
		m.recompute()
		return m, tickCmd(m.refresh)
	case doneMsg:
		m.err = msg.err
		m.streamErr = false
		if msg.err == nil {
			m.notice = msg.notice
		} else {
			m.notice = ""
		}
		return m, nil
	case themeMsg:
		if msg.err != nil {
			m.err = msg.err
			m.streamErr = false
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	if m.screen == screenForm && m.form != nil {
		return m, m.form.update(msg)
	}
	return m, nil
}

// recompute reruns the view pipeline against the current snapshot.
func (m *Model) recompute() {
	m.rows = view.Rows(m.tasks, m.opts, m.now())
	m.clampCursor()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.screen {
	case screenList:
		return m.handleListKey(msg)
	case screenDetail:
		switch msg.String() {
		case keyEsc, "q", "enter":
			m.screen = screenList
		}
		return m, nil
	case screenConfirmDelete:
		return m.handleDeleteKey(msg)
	case screenForm:
		return m.handleFormKey(msg)
	case screenCalendar:
		return m.handleCalendarKey(msg)
	}
	return m, nil
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit), msg.String() == keyEsc:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.ensureVisible()
		}
	case key.Matches(msg, m.keys.Open):
		if m.selected() != nil {
			m.screen = screenDetail
		}
	case key.Matches(msg, m.keys.Status):
		m.opts.Status = view.Next(view.StatusFilters(), m.opts.Status)
		m.recompute()
	case key.Matches(msg, m.keys.Priority):
		m.opts.Priority = view.Next(view.PriorityFilters(), m.opts.Priority)
		m.recompute()
	case key.Matches(msg, m.keys.Sort):
		m.opts.Sort = view.Next(view.SortOptions, m.opts.Sort)
		m.recompute()
	case key.Matches(msg, m.keys.Complete):
		return m, m.act(task.ActionComplete)
	case key.Matches(msg, m.keys.Reopen):
		return m, m.act(task.ActionReopen)
	case key.Matches(msg, m.keys.Cancel):
		return m, m.act(task.ActionCancel)
	case key.Matches(msg, m.keys.Delete):
		if m.selected() != nil {
			m.screen = screenConfirmDelete
		}
	case key.Matches(msg, m.keys.Add):
		m.form = newAddForm(m.styles)
		m.screen = screenForm
		return m, m.form.focusCmd()
	case key.Matches(msg, m.keys.Edit):
		if t := m.selected(); t != nil {
			m.form = newEditForm(t, m.loc, m.styles)
			m.screen = screenForm
			return m, m.form.focusCmd()
		}
	case key.Matches(msg, m.keys.Calendar):
		today := date.Of(m.now(), m.loc)
		m.cal = calendar{month: today.FirstOfMonth(), selected: today}
		m.screen = screenCalendar
	case key.Matches(msg, m.keys.Theme):
		return m, m.toggleTheme()
	case msg.String() == "?":
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.screen = screenList
		t := m.selected()
		if t == nil {
			return m, nil
		}
		id, title := t.ID, t.Title
		return m, func() tea.Msg {
			_, err := m.board.Delete(m.ctx, id)
			return doneMsg{notice: fmt.Sprintf("Deleted %q", title), err: err}
		}
	case "n", "N", keyEsc, "q":
		m.screen = screenList
	}
	return m, nil
}

// act runs a status transition on the selected task.
func (m *Model) act(a task.Action) tea.Cmd {
	t := m.selected()
	if t == nil {
		return nil
	}
	id, title := t.ID, t.Title
	return func() tea.Msg {
		updated, err := m.board.Act(m.ctx, id, a)
		if err != nil {
			return doneMsg{err: err}
		}
		return doneMsg{notice: fmt.Sprintf("%q is now %s", title, strings.ToLower(string(updated.Status)))}
	}
}

func (m *Model) toggleTheme() tea.Cmd {
	m.theme = m.theme.Toggle()
	m.styles = paletteFor(m.theme)
	if m.form != nil {
		m.form.styles = m.styles
	}
	if m.onTheme == nil {
		return nil
	}
	theme, persist := m.theme, m.onTheme
	return func() tea.Msg { return themeMsg{err: persist(theme)} }
}

func (m *Model) selected() *task.Task {
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		return m.rows[m.cursor].Task
	}
	return nil
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

// visibleRows returns how many list rows fit on screen.
func (m *Model) visibleRows() int {
	h := m.height - listChrome
	if m.err != nil || m.notice != "" {
		h -= errorChrome
	}
	return max(h, 1)
}

// ensureVisible adjusts the scroll offset so the cursor is on screen.
func (m *Model) ensureVisible() {
	n := m.visibleRows()
	switch {
	case m.cursor >= m.scrollOff+n:
		m.scrollOff = m.cursor - n + 1
	case m.cursor < m.scrollOff:
		m.scrollOff = m.cursor
	}
	if m.scrollOff < 0 {
		m.scrollOff = 0
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	switch m.screen {
	case screenDetail:
		return m.viewDetail()
	case screenConfirmDelete:
		return m.viewDeleteConfirm()
	case screenForm:
		return m.form.view(m.width)
	case screenCalendar:
		return m.viewCalendar()
	default:
		return m.viewList()
	}
}
