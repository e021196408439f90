package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	repo "taskManager/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

// коды SQLSTATE, которые различаем явно
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
	codeStringTooLong       = "22001"
	codeInvalidText         = "22P02"
)

// mapError переводит ошибки драйвера в ошибки пакета repository
func mapError(err error) error {
	if err == nil || alreadyMapped(err) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return repo.NewConstraintError(repo.ErrAlreadyExists, constraintColumn(pgErr))
		case codeForeignKeyViolation:
			return repo.NewConstraintError(repo.ErrReferenceNotFound, constraintColumn(pgErr))
		case codeCheckViolation, codeNotNullViolation, codeStringTooLong, codeInvalidText:
			return repo.NewConstraintError(repo.ErrInvalidValue, constraintColumn(pgErr))
		}
		return fmt.Errorf("postgres [%s]: %w", pgErr.Code, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", repo.ErrUnavailable, err)
	}

	return err
}

func alreadyMapped(err error) bool {
	for _, target := range []error{
		repo.ErrNotFound,
		repo.ErrAlreadyExists,
		repo.ErrReferenceNotFound,
		repo.ErrInvalidValue,
		repo.ErrUnavailable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// constraintColumn достаёт имя поля из ошибки. Postgres не заполняет ColumnName
// для unique/fk/check, поэтому разбираем стандартные имена ограничений:
// users_email_key, tasks_assigned_to_fkey, tasks_status_check
func constraintColumn(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}

	name := pgErr.ConstraintName
	if pgErr.TableName != "" {
		name = strings.TrimPrefix(name, pgErr.TableName+"_")
	}
	for _, suffix := range []string{"_fkey", "_key", "_check"} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}
