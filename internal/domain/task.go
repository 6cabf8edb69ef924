package domain

import (
	"strings"
	"time"
)

type Task struct {
	ID             int
	Title          string
	Status         Status
	CompletionDate *time.Time
	CreatedAt      *time.Time
}

func NewTask(title string, now time.Time) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, ErrInvalidTitle
	}
	created := now.UTC()
	return Task{
		Title:     title,
		Status:    StatusTodo,
		CreatedAt: &created,
	}, nil
}
