package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/evanschultz/kanbo/internal/board"
	"github.com/evanschultz/kanbo/internal/domain"
	"github.com/evanschultz/kanbo/internal/theme"
)

type fakeService struct {
	board *board.Board

	loadErr  error
	flushErr error
	flushes  int

	copied  []string
	copyErr error
}

func newFakeService(todo, inProgress, done []string) *fakeService {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	b := board.New()
	for _, title := range todo {
		b.AddTask(title, now)
	}
	for _, title := range inProgress {
		task, _ := b.AddTask(title, now)
		b.MoveByID(task.ID, string(domain.StatusInProgress), now)
	}
	for _, title := range done {
		task, _ := b.AddTask(title, now)
		b.MoveByID(task.ID, string(domain.StatusDone), now)
	}
	return &fakeService{board: b}
}

func (f *fakeService) Load() error {
	return f.loadErr
}

func (f *fakeService) Add(title string) (domain.Task, board.Outcome) {
	return f.board.AddTask(title, time.Now().UTC())
}

func (f *fakeService) MoveByID(id int, newStatus string) board.Outcome {
	return f.board.MoveByID(id, newStatus, time.Now().UTC())
}

func (f *fakeService) RemoveByID(id int) board.Outcome {
	return f.board.RemoveByID(id)
}

func (f *fakeService) Copy(id int) (board.Outcome, error) {
	for _, task := range f.board.Tasks() {
		if task.ID != id {
			continue
		}
		if f.copyErr != nil {
			return board.Outcome{}, f.copyErr
		}
		f.copied = append(f.copied, task.Title)
		return board.Outcome{Kind: board.OutcomeCopied, Message: fmt.Sprintf("Task %d title copied.", id)}, nil
	}
	return board.Outcome{Kind: board.OutcomeNotFound, Message: fmt.Sprintf("Task id %d not found.", id)}, nil
}

func (f *fakeService) Render(termWidth int, styles theme.Styles) string {
	return f.board.Render(termWidth, styles)
}

func (f *fakeService) Column(status domain.Status) []domain.Task {
	return f.board.Column(status)
}

func (f *fakeService) Flush(context.Context) error {
	f.flushes++
	return f.flushErr
}

func TestModelLoadsColumns(t *testing.T) {
	svc := newFakeService([]string{"write docs", "fix bug"}, []string{"review"}, []string{"ship"})
	m := loadReadyModel(t, NewModel(svc))

	if !m.ready {
		t.Fatal("expected ready model after window size")
	}
	if len(m.columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(m.columns))
	}
	if len(m.columns[0]) != 2 || len(m.columns[1]) != 1 || len(m.columns[2]) != 1 {
		t.Fatalf("unexpected column sizes: %d/%d/%d", len(m.columns[0]), len(m.columns[1]), len(m.columns[2]))
	}
	if m.selectedColumn != 0 || m.selectedTask != 0 {
		t.Fatalf("expected selection at origin, got col=%d task=%d", m.selectedColumn, m.selectedTask)
	}
	if m.status != "ready" {
		t.Fatalf("expected ready status, got %q", m.status)
	}
}

func TestModelNavigation(t *testing.T) {
	svc := newFakeService([]string{"write docs", "fix bug"}, []string{"review"}, nil)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('j'))
	if m.selectedTask != 1 {
		t.Fatalf("expected selectedTask=1 after j, got %d", m.selectedTask)
	}
	m = applyMsg(t, m, keyRune('j'))
	if m.selectedTask != 1 {
		t.Fatalf("expected selectedTask clamped at 1, got %d", m.selectedTask)
	}
	m = applyMsg(t, m, keyRune('k'))
	if m.selectedTask != 0 {
		t.Fatalf("expected selectedTask=0 after k, got %d", m.selectedTask)
	}

	m = applyMsg(t, m, keyRune('l'))
	if m.selectedColumn != 1 {
		t.Fatalf("expected selectedColumn=1 after l, got %d", m.selectedColumn)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyRight})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyRight})
	if m.selectedColumn != 2 {
		t.Fatalf("expected selectedColumn clamped at 2, got %d", m.selectedColumn)
	}
	m = applyMsg(t, m, keyRune('h'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyLeft})
	m = applyMsg(t, m, keyRune('h'))
	if m.selectedColumn != 0 {
		t.Fatalf("expected selectedColumn clamped at 0, got %d", m.selectedColumn)
	}
}

func TestModelAddTaskFlow(t *testing.T) {
	svc := newFakeService([]string{"write docs"}, nil, nil)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('n'))
	if m.mode != modeAddTask {
		t.Fatalf("expected add mode, got %v", m.mode)
	}
	for _, r := range "ship it" {
		m = applyMsg(t, m, keyRune(r))
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if m.mode != modeNone {
		t.Fatalf("expected modeNone after submit, got %v", m.mode)
	}
	todo := svc.board.Column(domain.StatusTodo)
	if len(todo) != 2 || todo[1].Title != "ship it" {
		t.Fatalf("expected new task in todo, got %+v", todo)
	}
	if m.status != "Task 2 added." {
		t.Fatalf("expected added status, got %q", m.status)
	}
	if m.selectedColumn != 0 || m.selectedTask != 1 {
		t.Fatalf("expected selection on new task, got col=%d task=%d", m.selectedColumn, m.selectedTask)
	}
	if svc.flushes != 1 {
		t.Fatalf("expected one flush, got %d", svc.flushes)
	}
}

func TestModelAddModeEscapeAndEmptySubmit(t *testing.T) {
	svc := newFakeService([]string{"write docs"}, nil, nil)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('n'))
	m = applyMsg(t, m, keyRune('a'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyBackspace})
	if m.mode != modeAddTask {
		t.Fatalf("expected add mode to survive editing, got %v", m.mode)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNone {
		t.Fatalf("expected modeNone after escape, got %v", m.mode)
	}

	m = applyMsg(t, m, keyRune('n'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.status != "Title required." {
		t.Fatalf("expected title required status, got %q", m.status)
	}
	if len(svc.board.Column(domain.StatusTodo)) != 1 {
		t.Fatal("expected no task added on empty submit")
	}
	if svc.flushes != 0 {
		t.Fatalf("expected no flush, got %d", svc.flushes)
	}
}

func TestModelMoveFollowsTask(t *testing.T) {
	svc := newFakeService([]string{"write docs", "fix bug"}, []string{"review"}, nil)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune(']'))
	if m.status != `Task 1 moved to "in-progress".` {
		t.Fatalf("unexpected status after move: %q", m.status)
	}
	if m.selectedColumn != 1 || m.selectedTask != 1 {
		t.Fatalf("expected selection to follow task, got col=%d task=%d", m.selectedColumn, m.selectedTask)
	}
	inProgress := svc.board.Column(domain.StatusInProgress)
	if len(inProgress) != 2 || inProgress[1].ID != 1 {
		t.Fatalf("expected task 1 appended to in-progress, got %+v", inProgress)
	}
	if svc.flushes != 1 {
		t.Fatalf("expected one flush, got %d", svc.flushes)
	}

	m = applyMsg(t, m, keyRune('['))
	if m.selectedColumn != 0 || m.selectedTask != 1 {
		t.Fatalf("expected selection back in todo, got col=%d task=%d", m.selectedColumn, m.selectedTask)
	}
	todo := svc.board.Column(domain.StatusTodo)
	if len(todo) != 2 || todo[1].ID != 1 {
		t.Fatalf("expected task 1 appended to todo, got %+v", todo)
	}
}

func TestModelMovePastEdgeIsNoop(t *testing.T) {
	svc := newFakeService([]string{"write docs"}, nil, nil)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('['))
	if len(svc.board.Column(domain.StatusTodo)) != 1 {
		t.Fatal("expected board unchanged when moving past the left edge")
	}
	if svc.flushes != 0 {
		t.Fatalf("expected no flush, got %d", svc.flushes)
	}
}

func TestModelRemoveTask(t *testing.T) {
	svc := newFakeService([]string{"write docs", "fix bug"}, nil, nil)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('j'))
	m = applyMsg(t, m, keyRune('x'))
	if m.status != "Task 2 removed." {
		t.Fatalf("unexpected status after remove: %q", m.status)
	}
	todo := svc.board.Column(domain.StatusTodo)
	if len(todo) != 1 || todo[0].ID != 1 {
		t.Fatalf("expected only task 1 left, got %+v", todo)
	}
	if m.selectedTask != 0 {
		t.Fatalf("expected selection clamped to 0, got %d", m.selectedTask)
	}
	if svc.flushes != 1 {
		t.Fatalf("expected one flush, got %d", svc.flushes)
	}
}

func TestModelRemoveWithEmptyColumn(t *testing.T) {
	svc := newFakeService(nil, []string{"review"}, nil)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('x'))
	if m.status != "no task selected" {
		t.Fatalf("expected no task selected status, got %q", m.status)
	}
	if svc.flushes != 0 {
		t.Fatalf("expected no flush, got %d", svc.flushes)
	}
}

func TestModelYankTitle(t *testing.T) {
	svc := newFakeService([]string{"write docs"}, nil, nil)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('y'))
	if m.status != "Task 1 title copied." {
		t.Fatalf("unexpected status after yank: %q", m.status)
	}
	if len(svc.copied) != 1 || svc.copied[0] != "write docs" {
		t.Fatalf("expected title on clipboard, got %v", svc.copied)
	}
	if svc.flushes != 0 {
		t.Fatalf("yank must not persist, got %d flushes", svc.flushes)
	}
}

func TestModelYankClipboardError(t *testing.T) {
	svc := newFakeService([]string{"write docs"}, nil, nil)
	svc.copyErr = errors.New("no display")
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('y'))
	if m.status != "clipboard unavailable" {
		t.Fatalf("expected clipboard unavailable status, got %q", m.status)
	}
}

func TestModelReloadKey(t *testing.T) {
	svc := newFakeService([]string{"write docs"}, nil, nil)
	m := loadReadyModel(t, NewModel(svc))

	svc.board.AddTask("added elsewhere", time.Now().UTC())
	m = applyMsg(t, m, keyRune('r'))
	if len(m.columns[0]) != 2 {
		t.Fatalf("expected reload to pick up external task, got %d", len(m.columns[0]))
	}
	if m.status != "ready" {
		t.Fatalf("expected ready status after reload, got %q", m.status)
	}
}

func TestModelFileChangedReloads(t *testing.T) {
	svc := newFakeService([]string{"write docs"}, nil, nil)
	m := loadReadyModel(t, NewModel(svc))

	svc.board.AddTask("added elsewhere", time.Now().UTC())
	m = applyMsg(t, m, fileChangedMsg{})
	if len(m.columns[0]) != 2 {
		t.Fatalf("expected file change to reload columns, got %d", len(m.columns[0]))
	}
	if m.status != "reloaded from disk" {
		t.Fatalf("expected reloaded status, got %q", m.status)
	}

	m = applyMsg(t, m, fileChangedMsg{err: errors.New("watch closed")})
	if !strings.Contains(m.status, "watch error") {
		t.Fatalf("expected watch error status, got %q", m.status)
	}
}

func TestModelSaveErrorSurfaced(t *testing.T) {
	svc := newFakeService([]string{"write docs"}, nil, nil)
	svc.flushErr = errors.New("disk full")
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('x'))
	if !strings.Contains(m.status, "save failed: disk full") {
		t.Fatalf("expected save failure status, got %q", m.status)
	}
}

func TestModelLoadErrorAndRetry(t *testing.T) {
	svc := newFakeService([]string{"write docs"}, nil, nil)
	svc.loadErr = errors.New("corrupt file")
	m := loadReadyModel(t, NewModel(svc))

	if m.err == nil {
		t.Fatal("expected load error recorded")
	}
	v := m.View()
	if v.Content == nil {
		t.Fatal("expected error view content")
	}

	svc.loadErr = nil
	m = applyMsg(t, m, keyRune('r'))
	if m.err != nil {
		t.Fatalf("expected retry to clear error, got %v", m.err)
	}
	if len(m.columns) != 3 {
		t.Fatalf("expected columns after retry, got %d", len(m.columns))
	}
}

func TestModelHelpToggle(t *testing.T) {
	svc := newFakeService(nil, nil, nil)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('?'))
	if !m.help.ShowAll {
		t.Fatal("expected full help after ?")
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.help.ShowAll {
		t.Fatal("expected escape to collapse help")
	}
}

func TestModelQuitKey(t *testing.T) {
	m := NewModel(newFakeService(nil, nil, nil))
	updated, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if updated == nil {
		t.Fatal("expected model return value")
	}
	if cmd == nil {
		t.Fatal("expected quit cmd")
	}
}

func TestModelViewStates(t *testing.T) {
	m := NewModel(newFakeService(nil, nil, nil), WithStyles(theme.Plain()))
	v := m.View()
	if v.Content == nil || !v.AltScreen {
		t.Fatal("expected loading view on the alt screen")
	}

	m = loadReadyModel(t, m)
	v = m.View()
	if v.Content == nil {
		t.Fatal("expected board view content")
	}

	m.err = context.DeadlineExceeded
	v = m.View()
	if v.Content == nil {
		t.Fatal("expected error view content")
	}
}

func TestModelStatusLine(t *testing.T) {
	svc := newFakeService([]string{"write docs"}, nil, nil)
	m := loadReadyModel(t, NewModel(svc))

	line := m.statusLine()
	if !strings.Contains(line, "TO DO") || !strings.Contains(line, "1. write docs") {
		t.Fatalf("unexpected status line %q", line)
	}

	m = applyMsg(t, m, keyRune('l'))
	line = m.statusLine()
	if !strings.Contains(line, "IN-PROGRESS (empty)") {
		t.Fatalf("expected empty column marker, got %q", line)
	}
}

func loadReadyModel(t *testing.T, m Model) Model {
	t.Helper()
	return applyMsg(t, applyCmd(t, m, m.Init()), tea.WindowSizeMsg{Width: 120, Height: 40})
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	currentCmd := cmd
	for i := 0; i < 6 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		casted, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		out = casted
		currentCmd = nextCmd
	}
	return out
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}
