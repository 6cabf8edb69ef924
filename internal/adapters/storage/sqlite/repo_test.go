package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/evanschultz/kanbo/internal/board"
	_ "modernc.org/sqlite"
)

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestRepository_ArchiveAndList(t *testing.T) {
	ctx := context.Background()
	repo, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})

	created := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	completed := time.Date(2026, 1, 10, 17, 30, 0, 0, time.UTC)
	archivedAt := time.Date(2026, 1, 20, 8, 0, 0, 0, time.UTC)

	rows := []board.StoredTask{
		{ID: 3, Title: strPtr("write release notes"), CompletionDate: timePtr(completed), CreatedAt: timePtr(created)},
		{ID: 5, Title: strPtr("fix login redirect"), CompletionDate: timePtr(completed.Add(time.Hour)), CreatedAt: nil},
	}
	if err := repo.Archive(ctx, rows, archivedAt); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	listed, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 archived tasks, got %d", len(listed))
	}
	// Same archive timestamp, so the later insert wins the tiebreak.
	if listed[0].TaskID != 5 || listed[1].TaskID != 3 {
		t.Fatalf("unexpected order %d, %d", listed[0].TaskID, listed[1].TaskID)
	}
	if listed[1].Title != "write release notes" {
		t.Fatalf("unexpected title %q", listed[1].Title)
	}
	if listed[1].CompletedAt == nil || !listed[1].CompletedAt.Equal(completed) {
		t.Fatalf("unexpected completed_at %v", listed[1].CompletedAt)
	}
	if listed[1].CreatedAt == nil || !listed[1].CreatedAt.Equal(created) {
		t.Fatalf("unexpected created_at %v", listed[1].CreatedAt)
	}
	if listed[0].CreatedAt != nil {
		t.Fatalf("expected nil created_at, got %v", listed[0].CreatedAt)
	}
	if !listed[0].ArchivedAt.Equal(archivedAt) {
		t.Fatalf("unexpected archived_at %v", listed[0].ArchivedAt)
	}
}

func TestRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})

	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		row := board.StoredTask{ID: i + 1, Title: strPtr("task")}
		if err := repo.Archive(ctx, []board.StoredTask{row}, base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("Archive() error = %v", err)
		}
	}

	listed, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 archived tasks, got %d", len(listed))
	}
	if listed[0].TaskID != 3 || listed[1].TaskID != 2 {
		t.Fatalf("unexpected order %d, %d", listed[0].TaskID, listed[1].TaskID)
	}
}

func TestRepository_ArchiveEmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	repo, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})

	if err := repo.Archive(ctx, nil, time.Now()); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 0 {
		t.Fatalf("expected empty archive, got %d rows", n)
	}
}

func TestRepository_OpenCreatesParentDir(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "archive.db")
	repo, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})

	title := "done work"
	if err := repo.Archive(ctx, []board.StoredTask{{ID: 1, Title: &title}}, time.Now()); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 archived task, got %d", n)
	}
}

func TestRepository_OpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
