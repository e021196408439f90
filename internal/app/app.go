package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"taskManager/internal/config"
	"taskManager/internal/handlers"
	"taskManager/internal/logger"
	"taskManager/internal/repository/inmemory"
	"taskManager/internal/repository/postgres"
	"taskManager/internal/service"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config       *config.Config
	server       *http.Server
	router       http.Handler
	repository   service.Repository
	service      *service.Service
	shutdowns    []func() // функции для graceful shutdown, вызываются в обратном порядке
	shutdownOnce sync.Once
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: Завершение работы логгирования...")
		logger.Sync()
	})

	if err := a.initRepository(ctx); err != nil {
		a.Shutdown()
		return err
	}

	a.service = service.New(a.repository)
	a.router = NewRouter(handlers.NewHandler(a.service), a.config.Server)

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      otelhttp.NewHandler(a.router, "task-manager"),
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}

	logger.Info("App: Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.String("addr", a.server.Addr))
	return nil
}

// initRepository поднимает хранилище; ошибка миграции схемы фатальна
func (a *App) initRepository(ctx context.Context) error {
	switch a.config.Repository.Type {
	case config.RepositoryInMemory:
		a.repository = inmemory.NewStorage()
		return nil

	case config.RepositoryPostgres:
		dsn := a.config.Database.DSN()
		if err := postgres.Migrate(dsn); err != nil {
			return fmt.Errorf("миграция схемы: %w", err)
		}

		storage, err := postgres.New(ctx, a.config.Database)
		if err != nil {
			return fmt.Errorf("подключение к postgres: %w", err)
		}
		a.repository = storage
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("App: Закрытие пула соединений...")
			storage.Close()
		})
		return nil
	}

	return fmt.Errorf("неизвестный тип хранилища: %q", a.config.Repository.Type)
}

// Handler возвращает полный обработчик сервера: трассировка, middleware и маршруты
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает сервер
func (a *App) Run(ctx context.Context) error {
	defer a.Shutdown()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("App: HTTP сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("App: Остановка HTTP сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка http сервера: %w", err)
		}
		return nil
	})

	return group.Wait()
}

func (a *App) Shutdown() {
	a.shutdownOnce.Do(func() {
		for i := len(a.shutdowns) - 1; i >= 0; i-- {
			a.shutdowns[i]()
		}
	})
}
