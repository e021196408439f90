package task

import (
	"time"
)

type Task struct {
	ID          int64      `json:"task_id" db:"task_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	DueDate     *time.Time `json:"due_date" db:"due_date"`
	Status      Status     `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	AssignedTo  *int64     `json:"assigned_to" db:"assigned_to"`
}

type Status string

const StatusPending Status = "pending"
const StatusInProgress Status = "in_progress"
const StatusCompleted Status = "completed"

// переходы между статусами не ограничены, проверяется только само значение
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, bool) {
	status := Status(s)
	return status, status.Valid()
}

// Filter - условия выборки задач, nil поле не ограничивает выборку
type Filter struct {
	Status     *Status
	AssignedTo *int64
}

func (f Filter) Match(t *Task) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.AssignedTo != nil && (t.AssignedTo == nil || *t.AssignedTo != *f.AssignedTo) {
		return false
	}
	return true
}
