package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"taskManager/internal/logger"
)

// здесь происходит проверка ошибок бизнес-логики

const (
	maxUsernameLen = 50
	maxEmailLen    = 100
	maxFullNameLen = 100
	maxTitleLen    = 100
)

type Service struct {
	repo Repository
}

func New(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		logger.Error("Service: Хранилище не отвечает", err)
		return NewStoreUnavailable(err)
	}
	return nil
}

// requireText проверяет обязательное строковое поле; значение сохраняется как есть
func requireText(field, value string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(field, "поле обязательно")
	}
	if utf8.RuneCountInString(value) > maxLen {
		return NewValidationError(field, "слишком длинное значение")
	}
	return nil
}
