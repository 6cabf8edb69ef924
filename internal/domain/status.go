package domain

import (
	"slices"
	"strings"
)

// Status identifies one fixed board stage.
type Status string

// Status values in display order.
const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// validStatuses stores all supported status values.
var validStatuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// statusAliases maps shorthand and legacy spellings onto canonical values.
var statusAliases = map[string]Status{
	"t":     StatusTodo,
	"ip":    StatusInProgress,
	"d":     StatusDone,
	"doing": StatusInProgress,
}

// Statuses returns the fixed stage order.
func Statuses() []Status {
	return slices.Clone(validStatuses)
}

// ParseStatus canonicalizes one status value, accepting aliases.
func ParseStatus(raw string) (Status, error) {
	normalized := strings.TrimSpace(strings.ToLower(raw))
	if status := Status(normalized); slices.Contains(validStatuses, status) {
		return status, nil
	}
	if status, ok := statusAliases[normalized]; ok {
		return status, nil
	}
	return "", ErrInvalidStatus
}

// IsValidStatus reports whether a status value is canonical.
func IsValidStatus(status Status) bool {
	return slices.Contains(validStatuses, status)
}
