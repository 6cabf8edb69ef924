package storage

import (
	"time"

	"github.com/evanschultz/kanbo/internal/board"
	"github.com/evanschultz/kanbo/internal/domain"
)

// PruneDone splits off done rows whose completion date lies more than
// maxAge before now. Rows without a parseable completion date are
// never considered old. The returned state shares the untouched
// columns with the input.
func PruneDone(state board.State, now time.Time, maxAge time.Duration) (board.State, []board.StoredTask) {
	kept := make(board.State, len(state))
	for status, rows := range state {
		kept[status] = rows
	}

	done := state[domain.StatusDone]
	fresh := make([]board.StoredTask, 0, len(done))
	var pruned []board.StoredTask
	for _, row := range done {
		if row.CompletionDate != nil && now.Sub(*row.CompletionDate) > maxAge {
			pruned = append(pruned, row)
			continue
		}
		fresh = append(fresh, row)
	}
	kept[domain.StatusDone] = fresh
	return kept, pruned
}
