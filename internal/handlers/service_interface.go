package handlers

import (
	"context"

	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
	"taskManager/internal/service"
)

type Service interface {
	CreateUser(ctx context.Context, username, email, fullName string) (*user.User, error)
	ListUsers(context.Context) ([]*user.User, error)
	CreateTask(ctx context.Context, title string, options ...service.TaskOption) (*task.Task, error)
	ListTasks(context.Context, task.Filter) ([]*task.Task, error)
	UpdateTask(ctx context.Context, id int64, title string, options ...service.TaskOption) (*task.Task, error)
	DeleteTask(context.Context, int64) error
	HealthCheck(context.Context) error
}
