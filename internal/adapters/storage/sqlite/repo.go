package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evanschultz/kanbo/internal/board"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository represents repository data used by this package.
type Repository struct {
	db *sql.DB
}

// ArchivedTask represents archived task data used by this package.
type ArchivedTask struct {
	TaskID      int
	Title       string
	CompletedAt *time.Time
	CreatedAt   *time.Time
	ArchivedAt  time.Time
}

// Open opens the requested operation.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens in memory.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS archived_tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			completed_at TEXT,
			created_at TEXT,
			archived_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_archived_tasks_archived_at ON archived_tasks(archived_at);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite archive: %w", err)
		}
	}
	return nil
}

// Archive stores pruned board rows under a shared archive timestamp.
func (r *Repository) Archive(ctx context.Context, rows []board.StoredTask, archivedAt time.Time) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, row := range rows {
		title := ""
		if row.Title != nil {
			title = *row.Title
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO archived_tasks(task_id, title, completed_at, created_at, archived_at)
			VALUES (?, ?, ?, ?, ?)
		`, row.ID, title, nullableTS(row.CompletionDate), nullableTS(row.CreatedAt), ts(archivedAt))
		if err != nil {
			return err
		}
	}

	err = tx.Commit()
	return err
}

// List lists archived tasks, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]ArchivedTask, error) {
	query := `
		SELECT task_id, title, completed_at, created_at, archived_at
		FROM archived_tasks
		ORDER BY archived_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ArchivedTask{}
	for rows.Next() {
		var (
			item        ArchivedTask
			completed   sql.NullString
			created     sql.NullString
			archivedRaw string
		)
		if err := rows.Scan(&item.TaskID, &item.Title, &completed, &created, &archivedRaw); err != nil {
			return nil, err
		}
		item.CompletedAt = parseNullTS(completed)
		item.CreatedAt = parseNullTS(created)
		item.ArchivedAt = parseTS(archivedRaw)
		out = append(out, item)
	}
	return out, rows.Err()
}

// Count reports how many rows the archive holds.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM archived_tasks`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// nullableTS handles nullable ts.
func nullableTS(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}

// parseNullTS parses input into a normalized form.
func parseNullTS(v sql.NullString) *time.Time {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return nil
	}
	ts := parseTS(v.String)
	return &ts
}
