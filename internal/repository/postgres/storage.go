package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskManager/internal/config"
	"taskManager/internal/logger"
	repo "taskManager/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const slowQueryThreshold = 100 * time.Millisecond

var tracer = otel.Tracer("taskManager/repository/postgres")

type Storage struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
}

func New(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	s := &Storage{pool: pool, acquireTimeout: cfg.AcquireTimeout}

	if err := s.HealthCheck(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name),
		zap.Int32("max_conns", cfg.MaxConns))
	return s, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return s.withConn(ctx, func(conn *pgxpool.Conn) error {
		if err := conn.Ping(ctx); err != nil {
			logger.Error("Repository: Неудачная проверка ping", err)
			return fmt.Errorf("проверка соединения ping: %w: %w", repo.ErrUnavailable, err)
		}
		return nil
	})
}

// acquire берёт соединение из пула, ожидая не дольше acquireTimeout
func (s *Storage) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	acquireCtx := ctx
	if s.acquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, s.acquireTimeout)
		defer cancel()
	}

	conn, err := s.pool.Acquire(acquireCtx)
	if err != nil {
		logger.Error("Repository: Не удалось получить соединение из пула", err,
			zap.Duration("acquire_timeout", s.acquireTimeout))
		return nil, fmt.Errorf("получение соединения: %w: %w", repo.ErrUnavailable, err)
	}
	return conn, nil
}

// withConn выполняет fn на отдельном соединении и возвращает его в пул при любом исходе
func (s *Storage) withConn(ctx context.Context, fn func(*pgxpool.Conn) error) error {
	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	return fn(conn)
}

// withTx оборачивает fn в транзакцию: commit при успехе, rollback при любой ошибке
func (s *Storage) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return s.withConn(ctx, func(conn *pgxpool.Conn) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return mapError(fmt.Errorf("начало транзакции: %w", err))
		}

		if err := fn(tx); err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				logger.Error("Repository: Ошибка отката транзакции", rbErr)
			}
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return mapError(fmt.Errorf("фиксация транзакции: %w", err))
		}
		return nil
	})
}

func startSpan(ctx context.Context, operation, table string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "postgres."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", operation),
			attribute.String("db.sql.table", table),
		))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func warnIfSlow(operation string, start time.Time) {
	if elapsed := time.Since(start); elapsed > slowQueryThreshold {
		logger.Warn("Repository: Медленный запрос",
			zap.String("operation", operation),
			zap.Duration("ms", elapsed))
	}
}

type scanner interface {
	Scan(dest ...any) error
}
