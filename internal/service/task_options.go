package service

import (
	"time"

	"taskManager/internal/models/task"
)

// TaskOption заполняет необязательное поле задачи.
// Поле, для которого опция не передана, остаётся пустым (NULL).
type TaskOption func(*task.Task)

func WithDescription(description string) TaskOption {
	return func(t *task.Task) {
		t.Description = &description
	}
}

func WithDueDate(dueDate time.Time) TaskOption {
	return func(t *task.Task) {
		due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
		t.DueDate = &due
	}
}

func WithStatus(status task.Status) TaskOption {
	return func(t *task.Task) {
		t.Status = status
	}
}

func WithAssignee(userID int64) TaskOption {
	return func(t *task.Task) {
		t.AssignedTo = &userID
	}
}

// newTask собирает полную запись задачи: статус по умолчанию pending
func newTask(title string, options ...TaskOption) *task.Task {
	t := &task.Task{
		Title:  title,
		Status: task.StatusPending,
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}
