package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/fsnotify/fsnotify"

	"github.com/evanschultz/kanbo/internal/board"
	"github.com/evanschultz/kanbo/internal/domain"
	"github.com/evanschultz/kanbo/internal/theme"
)

// Service represents service data used by this package.
type Service interface {
	Load() error
	Add(title string) (domain.Task, board.Outcome)
	MoveByID(id int, newStatus string) board.Outcome
	RemoveByID(id int) board.Outcome
	Copy(id int) (board.Outcome, error)
	Render(termWidth int, styles theme.Styles) string
	Column(status domain.Status) []domain.Task
	Flush(ctx context.Context) error
}

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeAddTask
)

// Model represents model data used by this package.
type Model struct {
	svc Service

	ready  bool
	width  int
	height int
	err    error

	status string

	help help.Model
	keys keyMap

	styles theme.Styles

	columns        [][]domain.Task
	selectedColumn int
	selectedTask   int

	mode  inputMode
	input textinput.Model

	watcher   *fsnotify.Watcher
	watchBase string
}

// loadedMsg carries message data through update handling.
type loadedMsg struct {
	columns [][]domain.Task
	err     error
}

// savedMsg reports the result of a background persist.
type savedMsg struct {
	err error
}

// fileChangedMsg signals an external change to the data file.
type fileChangedMsg struct {
	err error
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	input := textinput.New()
	input.Prompt = "new task: "
	input.Placeholder = "task title"
	input.CharLimit = 200
	m := Model{
		svc:    svc,
		status: "loading...",
		help:   h,
		keys:   newKeyMap(),
		styles: theme.Plain(),
		input:  input,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadData, m.waitForChange())
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.columns = msg.columns
		m.clampSelection()
		if m.status == "" || strings.HasSuffix(m.status, "...") {
			m.status = "ready"
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
		}
		return m, nil

	case fileChangedMsg:
		if msg.err != nil {
			m.status = "watch error: " + msg.err.Error()
			return m, m.waitForChange()
		}
		m.status = "reloaded from disk"
		return m, tea.Batch(m.loadData, m.waitForChange())

	case tea.KeyPressMsg:
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	default:
		return m, nil
	}
}

// View handles view.
func (m Model) View() tea.View {
	if m.err != nil {
		v := tea.NewView("error: " + m.err.Error() + "\n\npress r to retry • q quit\n")
		v.AltScreen = true
		return v
	}
	if !m.ready {
		v := tea.NewView("loading...")
		v.AltScreen = true
		return v
	}

	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")

	sections := []string{
		m.svc.Render(m.width, m.styles),
		"",
		lipgloss.NewStyle().Foreground(muted).Render(m.statusLine()),
	}
	if m.mode == modeAddTask {
		sections = append(sections, m.input.View())
	}

	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	v := tea.NewView(strings.Join(sections, "\n") + "\n" + helpLine)
	v.AltScreen = true
	return v
}

// loadData loads required data for the current operation.
func (m Model) loadData() tea.Msg {
	if err := m.svc.Load(); err != nil {
		return loadedMsg{err: err}
	}
	statuses := domain.Statuses()
	columns := make([][]domain.Task, 0, len(statuses))
	for _, status := range statuses {
		columns = append(columns, m.svc.Column(status))
	}
	return loadedMsg{columns: columns}
}

func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case msg.String() == "esc":
		m.help.ShowAll = false
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.status = "reloading..."
		return m, m.loadData
	case key.Matches(msg, m.keys.columnLeft):
		if m.selectedColumn > 0 {
			m.selectedColumn--
			m.selectedTask = 0
		}
		return m, nil
	case key.Matches(msg, m.keys.columnRight):
		if m.selectedColumn < len(m.columns)-1 {
			m.selectedColumn++
			m.selectedTask = 0
		}
		return m, nil
	case key.Matches(msg, m.keys.taskDown):
		if tasks := m.currentColumnTasks(); m.selectedTask < len(tasks)-1 {
			m.selectedTask++
		}
		return m, nil
	case key.Matches(msg, m.keys.taskUp):
		if m.selectedTask > 0 {
			m.selectedTask--
		}
		return m, nil
	case key.Matches(msg, m.keys.addTask):
		m.help.ShowAll = false
		m.mode = modeAddTask
		m.input.SetValue("")
		m.status = "new task"
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.removeTask):
		task, ok := m.selectedTaskInColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		outcome := m.svc.RemoveByID(task.ID)
		m.status = outcome.Message
		m.refreshColumns()
		m.clampSelection()
		return m, m.persist()
	case key.Matches(msg, m.keys.yankTitle):
		task, ok := m.selectedTaskInColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		outcome, err := m.svc.Copy(task.ID)
		if err != nil {
			m.status = "clipboard unavailable"
			return m, nil
		}
		m.status = outcome.Message
		return m, nil
	case key.Matches(msg, m.keys.moveTaskLeft):
		return m.moveSelected(-1)
	case key.Matches(msg, m.keys.moveTaskRight):
		return m.moveSelected(1)
	default:
		return m, nil
	}
}

func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.input.Blur()
		m.status = "ready"
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		m.mode = modeNone
		m.input.Blur()
		if title == "" {
			m.status = "Title required."
			return m, nil
		}
		task, outcome := m.svc.Add(title)
		m.status = outcome.Message
		if !outcome.OK() {
			return m, nil
		}
		m.refreshColumns()
		m.focusTask(domain.StatusTodo, task.ID)
		return m, m.persist()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// moveSelected moves the selected task one stage left or right and
// keeps it selected in its new column.
func (m Model) moveSelected(delta int) (tea.Model, tea.Cmd) {
	task, ok := m.selectedTaskInColumn()
	if !ok {
		m.status = "no task selected"
		return m, nil
	}
	statuses := domain.Statuses()
	target := m.selectedColumn + delta
	if target < 0 || target >= len(statuses) {
		return m, nil
	}
	outcome := m.svc.MoveByID(task.ID, string(statuses[target]))
	m.status = outcome.Message
	if !outcome.OK() {
		return m, nil
	}
	m.refreshColumns()
	m.selectedColumn = target
	m.selectedTask = max(0, len(m.columns[target])-1)
	return m, m.persist()
}

// persist writes the board through the service off the update loop.
func (m Model) persist() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		return savedMsg{err: svc.Flush(context.Background())}
	}
}

// refreshColumns re-reads the per-column task lists after a mutation.
func (m *Model) refreshColumns() {
	statuses := domain.Statuses()
	columns := make([][]domain.Task, 0, len(statuses))
	for _, status := range statuses {
		columns = append(columns, m.svc.Column(status))
	}
	m.columns = columns
}

func (m *Model) clampSelection() {
	if len(m.columns) == 0 {
		m.selectedColumn = 0
		m.selectedTask = 0
		return
	}
	m.selectedColumn = clamp(m.selectedColumn, 0, len(m.columns)-1)
	tasks := m.columns[m.selectedColumn]
	if len(tasks) == 0 {
		m.selectedTask = 0
		return
	}
	m.selectedTask = clamp(m.selectedTask, 0, len(tasks)-1)
}

// focusTask points the cursor at the given task after a refresh.
func (m *Model) focusTask(status domain.Status, id int) {
	for colIdx, s := range domain.Statuses() {
		if s != status || colIdx >= len(m.columns) {
			continue
		}
		m.selectedColumn = colIdx
		for taskIdx, task := range m.columns[colIdx] {
			if task.ID == id {
				m.selectedTask = taskIdx
				return
			}
		}
	}
	m.clampSelection()
}

func (m Model) currentColumnTasks() []domain.Task {
	if m.selectedColumn < 0 || m.selectedColumn >= len(m.columns) {
		return nil
	}
	return m.columns[m.selectedColumn]
}

func (m Model) selectedTaskInColumn() (domain.Task, bool) {
	tasks := m.currentColumnTasks()
	if len(tasks) == 0 || m.selectedTask < 0 || m.selectedTask >= len(tasks) {
		return domain.Task{}, false
	}
	return tasks[m.selectedTask], true
}

// statusLine combines the cursor position with the last outcome text.
func (m Model) statusLine() string {
	statuses := domain.Statuses()
	left := ""
	if m.selectedColumn >= 0 && m.selectedColumn < len(statuses) {
		label := board.HeaderTitle(statuses[m.selectedColumn])
		if task, ok := m.selectedTaskInColumn(); ok {
			left = fmt.Sprintf("%s %d/%d · %d. %s", label, m.selectedTask+1, len(m.currentColumnTasks()), task.ID, task.Title)
		} else {
			left = fmt.Sprintf("%s (empty)", label)
		}
	}
	switch {
	case m.status == "":
		return left
	case left == "":
		return m.status
	default:
		return left + " · " + m.status
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
