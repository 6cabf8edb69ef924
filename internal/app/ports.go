package app

import (
	"context"
	"time"

	"github.com/evanschultz/kanbo/internal/board"
)

// Store persists board state between sessions.
type Store interface {
	Load() (board.State, error)
	Save(board.State) error
}

// Archive keeps pruned done tasks out of band. A nil Archive disables
// archiving; pruned rows are then simply dropped.
type Archive interface {
	Archive(ctx context.Context, rows []board.StoredTask, archivedAt time.Time) error
}
