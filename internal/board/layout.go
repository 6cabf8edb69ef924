package board

import (
	"github.com/evanschultz/kanbo/internal/domain"
)

// Layout constants shared by the width allocator and the grid.
const (
	// MinColWidth is the floor below which no column shrinks.
	MinColWidth = 18
	// Separator joins adjacent column cells.
	Separator = " | "
	// DefaultWidth is used when no terminal width is available.
	DefaultWidth = 120
)

const (
	emptyPlaceholder    = "(empty)"
	untitledPlaceholder = "<untitled>"
	noLinesPlaceholder  = "<empty>"
)

// headerTitles maps each status to its column label.
var headerTitles = map[domain.Status]string{
	domain.StatusTodo:       "TO DO",
	domain.StatusInProgress: "IN-PROGRESS",
	domain.StatusDone:       "DONE",
}

// HeaderTitle returns the display label for one status column.
func HeaderTitle(status domain.Status) string {
	return headerTitles[status]
}

// columnWidths allocates an integer width per column for a target
// terminal width. Each column starts from the width its longest
// unwrapped line would need; when over budget the first-widest column
// shrinks one cell at a time down to the minimum floor, and when under
// budget the surplus is dealt round-robin in status order.
func (b *Board) columnWidths(termWidth int) map[domain.Status]int {
	statuses := domain.Statuses()
	sepTotal := visibleWidth(Separator) * (len(statuses) - 1)

	widths := make(map[domain.Status]int, len(statuses))
	for _, status := range statuses {
		longest := visibleWidth(headerTitles[status])
		for _, task := range b.columns[status] {
			if n := taskSegments(task).desiredWidth(); n > longest {
				longest = n
			}
		}
		widths[status] = max(MinColWidth, longest)
	}

	total := sepTotal
	for _, status := range statuses {
		total += widths[status]
	}

	if total > termWidth {
		target := max(termWidth-sepTotal, len(statuses)*MinColWidth)
		for sumWidths(widths, statuses) > target {
			widest := statuses[0]
			for _, status := range statuses[1:] {
				if widths[status] > widths[widest] {
					widest = status
				}
			}
			if widths[widest] <= MinColWidth {
				break
			}
			widths[widest]--
		}
		return widths
	}

	extra := termWidth - total
	for i := 0; extra > 0; i++ {
		widths[statuses[i%len(statuses)]]++
		extra--
	}
	return widths
}

func sumWidths(widths map[domain.Status]int, statuses []domain.Status) int {
	total := 0
	for _, status := range statuses {
		total += widths[status]
	}
	return total
}
