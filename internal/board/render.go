package board

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/evanschultz/kanbo/internal/domain"
	"github.com/evanschultz/kanbo/internal/theme"
)

// visibleWidth measures on-screen width with decoration stripped. All
// layout arithmetic goes through this one function.
func visibleWidth(s string) int {
	return lipgloss.Width(s)
}

// Render draws the board grid for the given terminal width: a header
// row, a dash rule, then one body row per wrapped line, with every
// cell padded to its column's width by visible length and columns
// joined by the separator.
func (b *Board) Render(termWidth int, styles theme.Styles) string {
	if termWidth <= 0 {
		termWidth = DefaultWidth
	}
	statuses := domain.Statuses()
	widths := b.columnWidths(termWidth)
	wrapped := b.wrapColumns(widths, styles)

	rows := 0
	for _, status := range statuses {
		if n := len(wrapped[status]); n > rows {
			rows = n
		}
	}

	var sb strings.Builder
	cells := make([]string, len(statuses))
	for i, status := range statuses {
		cells[i] = pad(styles.Header.Render(headerTitles[status]), widths[status])
	}
	sb.WriteString(strings.Join(cells, Separator))
	sb.WriteByte('\n')

	for i, status := range statuses {
		cells[i] = styles.Divider.Render(strings.Repeat("-", widths[status]))
	}
	sb.WriteString(strings.Join(cells, Separator))

	for r := 0; r < rows; r++ {
		sb.WriteByte('\n')
		for i, status := range statuses {
			lines := wrapped[status]
			if r < len(lines) {
				cells[i] = pad(lines[r], widths[status])
			} else {
				cells[i] = strings.Repeat(" ", widths[status])
			}
		}
		sb.WriteString(strings.Join(cells, Separator))
	}
	return sb.String()
}

// pad right-pads a decorated cell to the column width.
func pad(cell string, width int) string {
	if gap := width - visibleWidth(cell); gap > 0 {
		return cell + strings.Repeat(" ", gap)
	}
	return cell
}
