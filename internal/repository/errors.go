package repository

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("запись не найдена")
	ErrAlreadyExists     = errors.New("запись уже существует")
	ErrReferenceNotFound = errors.New("связанная запись не существует")
	ErrInvalidValue      = errors.New("недопустимое значение поля")
	ErrUnavailable       = errors.New("хранилище недоступно")
)

// ConstraintError уточняет нарушение ограничения: какое поле его вызвало
type ConstraintError struct {
	Err    error
	Column string
}

func (e *ConstraintError) Error() string {
	if e.Column == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Column)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

func NewConstraintError(err error, column string) *ConstraintError {
	return &ConstraintError{Err: err, Column: column}
}

// ColumnOf возвращает поле из ConstraintError, если оно есть в цепочке
func ColumnOf(err error) string {
	var cErr *ConstraintError
	if errors.As(err, &cErr) {
		return cErr.Column
	}
	return ""
}
