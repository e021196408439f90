package service

import (
	"context"

	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
)

type UserRepository interface {
	CreateUser(context.Context, *user.User) error
	ListUsers(context.Context) ([]*user.User, error)
}

type TaskRepository interface {
	CreateTask(context.Context, *task.Task) error
	ListTasks(context.Context, task.Filter) ([]*task.Task, error)
	UpdateTask(context.Context, *task.Task) error
	DeleteTask(context.Context, int64) error
}

type Repository interface {
	UserRepository
	TaskRepository
	HealthCheck(context.Context) error
}
