package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/evanschultz/kanbo/internal/board"
	"github.com/evanschultz/kanbo/internal/domain"
)

type fakeStore struct {
	state   board.State
	saves   int
	loadErr error
	saveErr error
}

func (f *fakeStore) Load() (board.State, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.state, nil
}

func (f *fakeStore) Save(state board.State) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.state = state
	f.saves++
	return nil
}

type fakeArchive struct {
	rows []board.StoredTask
	at   []time.Time
	err  error
}

func (f *fakeArchive) Archive(_ context.Context, rows []board.StoredTask, archivedAt time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, rows...)
	f.at = append(f.at, archivedAt)
	return nil
}

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestServiceAddMoveFlush(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	svc := NewService(store, nil, fixedClock(now), ServiceConfig{PruneMaxAge: 7 * 24 * time.Hour})
	if err := svc.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	task, outcome := svc.Add("write docs")
	if outcome.Kind != board.OutcomeAdded {
		t.Fatalf("Add() outcome = %s", outcome.Kind)
	}
	if task.ID != 1 {
		t.Fatalf("Add() id = %d, want 1", task.ID)
	}
	svc.Add("review docs")

	if out := svc.MoveByID(1, "d"); out.Kind != board.OutcomeMoved {
		t.Fatalf("MoveByID() outcome = %s: %s", out.Kind, out.Message)
	}

	if err := svc.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if store.saves != 1 {
		t.Fatalf("expected 1 save, got %d", store.saves)
	}
	done := store.state[domain.StatusDone]
	if len(done) != 1 || done[0].ID != 1 {
		t.Fatalf("unexpected done column %#v", done)
	}
	if done[0].CompletionDate == nil || !done[0].CompletionDate.Equal(now) {
		t.Fatalf("unexpected completion date %v", done[0].CompletionDate)
	}
}

func TestServiceFlushPrunesAndArchives(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{state: board.State{
		domain.StatusTodo: {
			{ID: 1, Title: strPtr("open item"), CreatedAt: timePtr(now.Add(-48 * time.Hour))},
		},
		domain.StatusDone: {
			{ID: 2, Title: strPtr("stale"), CompletionDate: timePtr(now.Add(-8 * 24 * time.Hour)), CreatedAt: timePtr(now.Add(-9 * 24 * time.Hour))},
			{ID: 3, Title: strPtr("recent"), CompletionDate: timePtr(now.Add(-time.Hour)), CreatedAt: timePtr(now.Add(-24 * time.Hour))},
		},
	}}
	archive := &fakeArchive{}
	svc := NewService(store, archive, fixedClock(now), ServiceConfig{PruneMaxAge: 7 * 24 * time.Hour})
	if err := svc.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := svc.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if len(archive.rows) != 1 || archive.rows[0].ID != 2 {
		t.Fatalf("unexpected archived rows %#v", archive.rows)
	}
	if len(archive.at) != 1 || !archive.at[0].Equal(now) {
		t.Fatalf("unexpected archive timestamps %v", archive.at)
	}

	// Remaining tasks renumbered by creation order.
	todo := store.state[domain.StatusTodo]
	done := store.state[domain.StatusDone]
	if len(todo) != 1 || todo[0].ID != 1 {
		t.Fatalf("unexpected todo column %#v", todo)
	}
	if len(done) != 1 || done[0].ID != 2 || *done[0].Title != "recent" {
		t.Fatalf("unexpected done column %#v", done)
	}
}

func TestServiceFlushWithoutArchiveDropsPruned(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{state: board.State{
		domain.StatusDone: {
			{ID: 1, Title: strPtr("stale"), CompletionDate: timePtr(now.Add(-30 * 24 * time.Hour))},
		},
	}}
	svc := NewService(store, nil, fixedClock(now), ServiceConfig{PruneMaxAge: 7 * 24 * time.Hour})
	if err := svc.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := svc.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if len(store.state[domain.StatusDone]) != 0 {
		t.Fatalf("expected pruned done column, got %#v", store.state[domain.StatusDone])
	}
}

func TestServiceFlushArchiveErrorAbortsSave(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{state: board.State{
		domain.StatusDone: {
			{ID: 1, Title: strPtr("stale"), CompletionDate: timePtr(now.Add(-30 * 24 * time.Hour))},
		},
	}}
	archive := &fakeArchive{err: errors.New("disk full")}
	svc := NewService(store, archive, fixedClock(now), ServiceConfig{PruneMaxAge: 7 * 24 * time.Hour})
	if err := svc.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	err := svc.Flush(context.Background())
	if err == nil || !strings.Contains(err.Error(), "archive pruned tasks") {
		t.Fatalf("Flush() error = %v", err)
	}
	if store.saves != 0 {
		t.Fatalf("expected no save after archive failure, got %d", store.saves)
	}
	// The stale task must still be in memory.
	if len(svc.Column(domain.StatusDone)) != 1 {
		t.Fatal("expected stale task retained in memory")
	}
}

func TestServicePruneDisabled(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{state: board.State{
		domain.StatusDone: {
			{ID: 1, Title: strPtr("ancient"), CompletionDate: timePtr(now.Add(-365 * 24 * time.Hour))},
		},
	}}
	svc := NewService(store, nil, fixedClock(now), ServiceConfig{})
	if err := svc.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := svc.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if len(store.state[domain.StatusDone]) != 1 {
		t.Fatalf("expected done column untouched, got %#v", store.state[domain.StatusDone])
	}
}

func TestServiceCopy(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	copied := ""
	svc := NewService(&fakeStore{}, nil, fixedClock(now), ServiceConfig{
		Clipboard: func(text string) error {
			copied = text
			return nil
		},
	})
	svc.Add("ship the release")

	outcome, err := svc.Copy(1)
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if outcome.Kind != board.OutcomeCopied || outcome.Message != "Task 1 title copied." {
		t.Fatalf("unexpected outcome %#v", outcome)
	}
	if copied != "ship the release" {
		t.Fatalf("unexpected clipboard text %q", copied)
	}

	copied = ""
	outcome, err = svc.Copy(99)
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if outcome.Kind != board.OutcomeNotFound || outcome.Message != "Task id 99 not found." {
		t.Fatalf("unexpected outcome %#v", outcome)
	}
	if copied != "" {
		t.Fatalf("clipboard written on miss: %q", copied)
	}
}

func TestServiceCopyClipboardError(t *testing.T) {
	svc := NewService(&fakeStore{}, nil, nil, ServiceConfig{
		Clipboard: func(string) error { return errors.New("no display") },
	})
	svc.Add("task")

	if _, err := svc.Copy(1); err == nil {
		t.Fatal("expected clipboard error")
	}
}

func TestServiceLoadErrorPropagates(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("bad json")}
	svc := NewService(store, nil, nil, ServiceConfig{})
	if err := svc.Load(); err == nil {
		t.Fatal("expected load error")
	}
}
