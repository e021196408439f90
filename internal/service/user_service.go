package service

import (
	"context"
	"strings"

	"taskManager/internal/logger"
	"taskManager/internal/models/user"

	"go.uber.org/zap"
)

func (s *Service) CreateUser(ctx context.Context, username, email, fullName string) (*user.User, error) {
	if err := requireText("username", username, maxUsernameLen); err != nil {
		return nil, err
	}
	if err := requireText("email", email, maxEmailLen); err != nil {
		return nil, err
	}
	if !strings.Contains(email, "@") {
		return nil, NewValidationError("email", "некорректный адрес")
	}
	if err := requireText("full_name", fullName, maxFullNameLen); err != nil {
		return nil, err
	}

	newUser := &user.User{
		Username: username,
		Email:    email,
		FullName: fullName,
	}
	if err := s.repo.CreateUser(ctx, newUser); err != nil {
		logger.Warn("Service: Пользователь не создан", zap.String("username", username), zap.Error(err))
		return nil, mapRepoError("create_user", err, true)
	}

	logger.Info("Service: Пользователь создан", zap.Int64("user_id", newUser.ID))
	return newUser, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]*user.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		logger.Error("Service: Ошибка получения пользователей", err)
		return nil, mapRepoError("list_users", err, false)
	}
	return users, nil
}
