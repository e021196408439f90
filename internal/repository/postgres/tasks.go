package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const taskColumns = `task_id,
				title,
				description,
				due_date,
				status,
				created_at,
				assigned_to`

func scanTask(row scanner, t *task.Task) error {
	var status string
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.DueDate,
		&status,
		&t.CreatedAt,
		&t.AssignedTo,
	)
	if err != nil {
		return err
	}
	t.Status = task.Status(status)
	return nil
}

// CreateTask вставляет задачу и заполняет её значениями, которые назначила база
func (s *Storage) CreateTask(ctx context.Context, taskToCreate *task.Task) (err error) {
	ctx, span := startSpan(ctx, "INSERT", "tasks")
	defer func() { endSpan(span, err) }()
	start := time.Now()

	query := `INSERT INTO tasks
				(title, description, due_date, status, assigned_to)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING ` + taskColumns

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, query,
			taskToCreate.Title,
			taskToCreate.Description,
			taskToCreate.DueDate,
			string(taskToCreate.Status),
			taskToCreate.AssignedTo,
		)
		return scanTask(row, taskToCreate)
	})
	if err != nil {
		err = mapError(err)
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	warnIfSlow("create_task", start)
	return nil
}

func (s *Storage) ListTasks(ctx context.Context, filter task.Filter) (tasks []*task.Task, err error) {
	ctx, span := startSpan(ctx, "SELECT", "tasks")
	defer func() { endSpan(span, err) }()
	start := time.Now()

	query, args := buildListTasksQuery(filter)

	tasks = []*task.Task{}
	err = s.withConn(ctx, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			t := &task.Task{}
			if err := scanTask(rows, t); err != nil {
				return fmt.Errorf("сканирование задачи: %w", err)
			}
			tasks = append(tasks, t)
		}
		return rows.Err()
	})
	if err != nil {
		err = mapError(err)
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	warnIfSlow("list_tasks", start)
	return tasks, nil
}

// фильтры объединяются через AND, отсутствующий фильтр не ограничивает выборку
func buildListTasksQuery(filter task.Filter) (string, []any) {
	var (
		sb         strings.Builder
		conditions []string
		args       []any
	)

	sb.WriteString("SELECT " + taskColumns + " FROM tasks")

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		conditions = append(conditions, fmt.Sprintf("assigned_to = $%d", len(args)))
	}

	if len(conditions) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY task_id")

	return sb.String(), args
}

// UpdateTask полностью перезаписывает изменяемые поля задачи
func (s *Storage) UpdateTask(ctx context.Context, taskToUpdate *task.Task) (err error) {
	ctx, span := startSpan(ctx, "UPDATE", "tasks")
	defer func() { endSpan(span, err) }()
	start := time.Now()

	query := `UPDATE tasks
			SET title = $1,
				description = $2,
				due_date = $3,
				status = $4,
				assigned_to = $5
			WHERE task_id = $6
			RETURNING ` + taskColumns

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, query,
			taskToUpdate.Title,
			taskToUpdate.Description,
			taskToUpdate.DueDate,
			string(taskToUpdate.Status),
			taskToUpdate.AssignedTo,
			taskToUpdate.ID,
		)
		err := scanTask(row, taskToUpdate)
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		return err
	})
	if err != nil {
		err = mapError(err)
		if errors.Is(err, repo.ErrNotFound) {
			logger.Warn("Repository: Задача для обновления не найдена", zap.Int64("task_id", taskToUpdate.ID))
		} else {
			logger.Error("Repository: Не удалось обновить задачу", err, zap.Duration("ms", time.Since(start)))
		}
		return fmt.Errorf("обновление задачи: %w", err)
	}

	warnIfSlow("update_task", start)
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, id int64) (err error) {
	ctx, span := startSpan(ctx, "DELETE", "tasks")
	defer func() { endSpan(span, err) }()
	start := time.Now()

	query := `DELETE FROM tasks
				WHERE task_id = $1`

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
	if err != nil {
		err = mapError(err)
		if errors.Is(err, repo.ErrNotFound) {
			logger.Warn("Repository: Задача для удаления не найдена", zap.Int64("task_id", id))
		} else {
			logger.Error("Repository: Полное удаление задачи", err, zap.Duration("ms", time.Since(start)))
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}

	warnIfSlow("delete_task", start)
	return nil
}
