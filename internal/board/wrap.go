package board

import (
	"fmt"
	"strings"

	"github.com/evanschultz/kanbo/internal/domain"
	"github.com/evanschultz/kanbo/internal/theme"
)

// segments holds the undecorated pieces of one rendered task: the id
// text, the title, and the optional completion suffix. All width
// arithmetic runs on these before any styling is applied.
type segments struct {
	id     string
	title  string
	suffix string
}

func taskSegments(task domain.Task) segments {
	seg := segments{
		id:    fmt.Sprintf("%d.", task.ID),
		title: task.Title,
	}
	if seg.title == "" {
		seg.title = untitledPlaceholder
	}
	if task.Status == domain.StatusDone && task.CompletionDate != nil {
		seg.suffix = fmt.Sprintf(" (✓ %s)", task.CompletionDate.UTC().Format("2006-01-02"))
	}
	return seg
}

// prefixWidth is the visible width reserved on every line: the id text
// plus one space.
func (s segments) prefixWidth() int {
	return visibleWidth(s.id) + 1
}

// desiredWidth is the width a single unwrapped line would need.
func (s segments) desiredWidth() int {
	return s.prefixWidth() + visibleWidth(s.title) + visibleWidth(s.suffix)
}

// wrapTask wraps one task into decorated lines within the column
// width. Line breaks and suffix placement are decided on plain text;
// the limit is a soft target, so a single word longer than the limit
// overflows alone rather than being truncated.
func wrapTask(task domain.Task, colWidth int, styles theme.Styles) []string {
	seg := taskSegments(task)
	indentWidth := seg.prefixWidth()
	limit := max(1, colWidth-indentWidth)

	var raw []string
	current := ""
	for _, word := range strings.Fields(seg.title) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if visibleWidth(candidate) <= limit {
			current = candidate
			continue
		}
		if current != "" {
			raw = append(raw, current)
		}
		current = word
	}
	if current != "" {
		raw = append(raw, current)
	}

	// The suffix rides the last line when it fits in the remaining
	// budget, otherwise it becomes its own trimmed line.
	suffixAt := -1
	suffixAlone := false
	if seg.suffix != "" {
		if n := len(raw); n > 0 && visibleWidth(raw[n-1])+visibleWidth(seg.suffix) <= limit {
			raw[n-1] += seg.suffix
		} else {
			raw = append(raw, strings.TrimSpace(seg.suffix))
			suffixAlone = true
		}
		suffixAt = len(raw) - 1
	}

	prefix := styles.ID.Render(seg.id) + " "
	indent := strings.Repeat(" ", indentWidth)
	titleStyle := styles.Title(task.Status)

	lines := make([]string, 0, len(raw))
	for i, line := range raw {
		lead := indent
		if i == 0 {
			lead = prefix
		}
		switch {
		case i == suffixAt && suffixAlone:
			lines = append(lines, lead+styles.Suffix.Render(line))
		case i == suffixAt:
			body := strings.TrimSuffix(line, seg.suffix)
			lines = append(lines, lead+titleStyle.Render(body)+styles.Suffix.Render(seg.suffix))
		default:
			lines = append(lines, lead+titleStyle.Render(line))
		}
	}
	if len(lines) == 0 {
		return []string{prefix + titleStyle.Render(noLinesPlaceholder)}
	}
	return lines
}

// wrapColumns wraps every task of every column; an empty column yields
// the single placeholder line.
func (b *Board) wrapColumns(widths map[domain.Status]int, styles theme.Styles) map[domain.Status][]string {
	wrapped := make(map[domain.Status][]string, len(widths))
	for _, status := range domain.Statuses() {
		if len(b.columns[status]) == 0 {
			wrapped[status] = []string{styles.Empty.Render(emptyPlaceholder)}
			continue
		}
		var lines []string
		for _, task := range b.columns[status] {
			lines = append(lines, wrapTask(task, widths[status], styles)...)
		}
		wrapped[status] = lines
	}
	return wrapped
}
