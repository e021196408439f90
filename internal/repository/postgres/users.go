package postgres

import (
	"context"
	"fmt"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/models/user"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func (s *Storage) CreateUser(ctx context.Context, userToCreate *user.User) (err error) {
	ctx, span := startSpan(ctx, "INSERT", "users")
	defer func() { endSpan(span, err) }()
	start := time.Now()

	query := `INSERT INTO users (username, email, full_name)
				VALUES ($1, $2, $3)
				RETURNING user_id, created_at`

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query,
			userToCreate.Username,
			userToCreate.Email,
			userToCreate.FullName,
		).Scan(&userToCreate.ID, &userToCreate.CreatedAt)
	})
	if err != nil {
		err = mapError(err)
		logger.Error("Repository: Не удалось добавить пользователя", err,
			zap.String("username", userToCreate.Username),
			zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление пользователя: %w", err)
	}

	warnIfSlow("create_user", start)
	return nil
}

func (s *Storage) ListUsers(ctx context.Context) (users []*user.User, err error) {
	ctx, span := startSpan(ctx, "SELECT", "users")
	defer func() { endSpan(span, err) }()
	start := time.Now()

	query := `SELECT
				user_id,
				username,
				email,
				full_name,
				created_at
				FROM users
				ORDER BY user_id`

	users = []*user.User{}
	err = s.withConn(ctx, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			u := &user.User{}
			if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.CreatedAt); err != nil {
				return fmt.Errorf("сканирование пользователя: %w", err)
			}
			users = append(users, u)
		}
		return rows.Err()
	})
	if err != nil {
		err = mapError(err)
		logger.Error("Repository: Не удалось получить пользователей", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение пользователей: %w", err)
	}

	warnIfSlow("list_users", start)
	return users, nil
}
