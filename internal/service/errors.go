package service

import (
	"errors"
	"fmt"

	repo "taskManager/internal/repository"
)

const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeConflict         = "CONFLICT"
	CodeNotFound         = "NOT_FOUND"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeStoreError       = "STORE_ERROR"
	CodeInternal         = "INTERNAL"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

// AsBusinessError находит BusinessError в цепочке ошибок
func AsBusinessError(err error) (*BusinessError, bool) {
	var busErr *BusinessError
	if errors.As(err, &busErr) {
		return busErr, true
	}
	return nil, false
}

func NewNotFound(resource string, id int64) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %d не найден(а)", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewConflict(field, reason string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeConflict,
		Message: fmt.Sprintf("Конфликт по полю '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
		Err: err,
	}
}

func NewStoreUnavailable(err error) *BusinessError {
	return &BusinessError{
		Code:    CodeStoreUnavailable,
		Message: "Хранилище недоступно",
		Details: map[string]any{},
		Err:     err,
	}
}

func NewStoreError(operation string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeStoreError,
		Message: fmt.Sprintf("Ошибка хранилища при операции %s", operation),
		Details: map[string]any{
			"operation": operation,
		},
		Err: err,
	}
}

func NewInternal(operation string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeInternal,
		Message: fmt.Sprintf("Внутренняя ошибка при операции %s", operation),
		Details: map[string]any{
			"operation": operation,
		},
		Err: err,
	}
}

// mapRepoError переводит ошибку хранилища в BusinessError.
// ErrNotFound обрабатывается вызывающим, так как ему известен id записи.
func mapRepoError(operation string, err error, mutation bool) error {
	column := repo.ColumnOf(err)

	switch {
	case errors.Is(err, repo.ErrUnavailable):
		return NewStoreUnavailable(err)
	case errors.Is(err, repo.ErrAlreadyExists):
		if column == "" {
			column = "unknown"
		}
		return NewConflict(column, "значение уже используется", err)
	case errors.Is(err, repo.ErrReferenceNotFound):
		if column == "" {
			column = "assigned_to"
		}
		return NewConflict(column, "связанная запись не существует", err)
	case errors.Is(err, repo.ErrInvalidValue):
		if column == "" {
			column = "unknown"
		}
		busErr := NewValidationError(column, "значение отклонено хранилищем")
		busErr.Err = err
		return busErr
	}

	if mutation {
		return NewStoreError(operation, err)
	}
	return NewInternal(operation, err)
}
