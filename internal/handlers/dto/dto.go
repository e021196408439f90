package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
)

// Date - календарная дата в формате YYYY-MM-DD
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("дата должна быть строкой YYYY-MM-DD: %w", err)
	}

	parsed, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return fmt.Errorf("дата должна быть в формате YYYY-MM-DD: %w", err)
	}

	d.Time = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(time.DateOnly))
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	FullName string `json:"full_name" validate:"required,max=100"`
}

// TaskRequest используется и для создания, и для полной замены задачи
type TaskRequest struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description *string `json:"description"`
	DueDate     *Date   `json:"due_date"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	AssignedTo  *int64  `json:"assigned_to" validate:"omitempty,gt=0"`
}

type UserResponse struct {
	ID        int64  `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	CreatedAt string `json:"created_at"`
}

type TaskResponse struct {
	ID          int64   `json:"task_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     *Date   `json:"due_date"`
	Status      string  `json:"status"`
	CreatedAt   Date    `json:"created_at"`
	AssignedTo  *int64  `json:"assigned_to"`
}

func FromUser(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func FromUserList(users []*user.User) []UserResponse {
	result := make([]UserResponse, len(users))
	for i, u := range users {
		result[i] = FromUser(u)
	}
	return result
}

func FromTask(t *task.Task) TaskResponse {
	response := TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   Date{t.CreatedAt},
		AssignedTo:  t.AssignedTo,
	}
	if t.DueDate != nil {
		response.DueDate = &Date{*t.DueDate}
	}
	return response
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}
