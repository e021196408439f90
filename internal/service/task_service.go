package service

import (
	"context"
	"errors"

	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"

	"go.uber.org/zap"
)

func (s *Service) CreateTask(ctx context.Context, title string, options ...TaskOption) (*task.Task, error) {
	created, err := buildTask(title, options...)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateTask(ctx, created); err != nil {
		logger.Warn("Service: Задача не создана", zap.String("title", created.Title), zap.Error(err))
		return nil, mapRepoError("create_task", err, true)
	}

	logger.Info("Service: Задача создана", zap.Int64("task_id", created.ID))
	return created, nil
}

func (s *Service) ListTasks(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, NewValidationError("status", "неизвестный статус")
	}
	if filter.AssignedTo != nil && *filter.AssignedTo <= 0 {
		return nil, NewValidationError("assigned_to", "id должен быть положительным")
	}

	tasks, err := s.repo.ListTasks(ctx, filter)
	if err != nil {
		logger.Error("Service: Ошибка получения задач", err)
		return nil, mapRepoError("list_tasks", err, false)
	}
	return tasks, nil
}

// UpdateTask полностью заменяет задачу: поля без опций сбрасываются
func (s *Service) UpdateTask(ctx context.Context, id int64, title string, options ...TaskOption) (*task.Task, error) {
	if id <= 0 {
		return nil, NewValidationError("task_id", "id должен быть положительным")
	}

	replacement, err := buildTask(title, options...)
	if err != nil {
		return nil, err
	}
	replacement.ID = id

	if err := s.repo.UpdateTask(ctx, replacement); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			busErr := NewNotFound("task", id)
			busErr.Err = err
			return nil, busErr
		}
		logger.Warn("Service: Задача не обновлена", zap.Int64("task_id", id), zap.Error(err))
		return nil, mapRepoError("update_task", err, true)
	}

	logger.Info("Service: Задача обновлена", zap.Int64("task_id", id))
	return replacement, nil
}

func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewValidationError("task_id", "id должен быть положительным")
	}

	if err := s.repo.DeleteTask(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			busErr := NewNotFound("task", id)
			busErr.Err = err
			return busErr
		}
		logger.Warn("Service: Задача не удалена", zap.Int64("task_id", id), zap.Error(err))
		return mapRepoError("delete_task", err, true)
	}

	logger.Info("Service: Задача удалена", zap.Int64("task_id", id))
	return nil
}

func buildTask(title string, options ...TaskOption) (*task.Task, error) {
	t := newTask(title, options...)

	if err := requireText("title", t.Title, maxTitleLen); err != nil {
		return nil, err
	}
	if !t.Status.Valid() {
		return nil, NewValidationError("status", "допустимые значения: pending, in_progress, completed")
	}
	if t.AssignedTo != nil && *t.AssignedTo <= 0 {
		return nil, NewValidationError("assigned_to", "id должен быть положительным")
	}
	return t, nil
}
