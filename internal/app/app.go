package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"busynessBuster/internal/clients/gcal"
	"busynessBuster/internal/clients/llm"
	"busynessBuster/internal/config"
	"busynessBuster/internal/handlers"
	"busynessBuster/internal/logger"
	"busynessBuster/internal/middleware"
	"busynessBuster/internal/repository/inmemory"
	"busynessBuster/internal/repository/inter"
	"busynessBuster/internal/repository/postgres"
	"busynessBuster/internal/service"
	"busynessBuster/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// storage — всё, что приложению нужно от хранилища. Реализации:
// postgres и inmemory.
type storage interface {
	inter.UserRepository
	inter.TaskRepository
	inter.GoalRepository
	inter.EventRepository
	HealthCheck(ctx context.Context) error
}

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	worker    *worker.SyncWorker
	shutdowns []func() // функции для graceful shutdown, в обратном порядке
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
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	loc, err := time.LoadLocation(a.config.Calendar.Timezone)
	if err != nil {
		return fmt.Errorf("загрузка таймзоны %s: %w", a.config.Calendar.Timezone, err)
	}

	store, err := a.initStorage(ctx)
	if err != nil {
		return err
	}

	calendarClient := gcal.New(a.config.Calendar.CredentialsPath, a.config.Calendar.TokenPath, loc)
	llmClient := llm.NewOpenAIClient(a.config.Analysis.APIKey, a.config.Analysis.Timeout)

	authService := service.NewAuthService(store, a.config.Auth.Secret, a.config.Auth.TokenTTL)
	taskService := service.NewTaskService(store, store)
	goalService := service.NewGoalService(store)
	eventService := service.NewEventService(store, calendarClient, loc)
	analysisService := service.NewAnalysisService(store, store, store, llmClient, loc)

	authHandler := handlers.NewAuthHandler(&authService)
	taskHandler := handlers.NewTaskHandler(&taskService)
	goalHandler := handlers.NewGoalHandler(&goalService)
	eventHandler := handlers.NewEventHandler(&eventService, a.config.Calendar.SyncTimeout)
	analysisHandler := handlers.NewAnalysisHandler(&analysisService, a.config.Analysis.Timeout)
	healthHandler := handlers.NewHealthHandler(store)

	a.router = chi.NewRouter()
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logging)
	a.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}))
	a.router.Use(middleware.RateLimit(a.config.RateLimit.RPM))

	a.router.Post("/auth/login", authHandler.Login) // POST /auth/login
	a.router.Get("/health", healthHandler.Health)   // GET /health

	a.router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(&authService, store))

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.GetActiveTasks) // GET /tasks
			r.Post("/", taskHandler.PostTask)      // POST /tasks

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.GetTaskByID)   // GET /tasks/{id}
				r.Patch("/", taskHandler.PatchTask)   // PATCH /tasks/{id}
				r.Delete("/", taskHandler.DeleteTask) // DELETE /tasks/{id}
			})
		})

		r.Route("/goals", func(r chi.Router) {
			r.Get("/", goalHandler.GetActiveGoals) // GET /goals
			r.Post("/", goalHandler.PostGoal)      // POST /goals

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", goalHandler.GetGoalByID)   // GET /goals/{id}
				r.Patch("/", goalHandler.PatchGoal)   // PATCH /goals/{id}
				r.Delete("/", goalHandler.DeleteGoal) // DELETE /goals/{id}
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.Post("/sync", eventHandler.SyncEvents)  // POST /events/sync
			r.Get("/{id}", eventHandler.GetEventByID) // GET /events/{id}
		})

		r.Get("/analysis/", analysisHandler.GetAnalysis) // GET /analysis/
	})

	if a.config.Sync.Auto {
		a.worker = worker.NewSyncWorker(store, &eventService, a.config.Sync.Interval, a.config.Calendar.SyncTimeout)
	}

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * a.config.Analysis.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	return nil
}

func (a *App) initStorage(ctx context.Context) (storage, error) {
	switch a.config.Repository.Type {
	case "postgres":
		pg, err := postgres.New(ctx, a.config.Database.URL, postgres.PoolConfig{
			MaxConns:    a.config.Database.MaxConnections,
			MinConns:    a.config.Database.MinConnections,
			IdleTimeout: a.config.Database.IdleTimeout,
		}, a.config.Database.MigrationsDir)
		if err != nil {
			return nil, fmt.Errorf("подключение к postgres: %w", err)
		}

		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, fmt.Errorf("миграции: %w", err)
		}

		a.shutdowns = append(a.shutdowns, pg.Close)
		return pg, nil
	case "inmemory":
		logger.Warn("Repository: Используется inmemory-хранилище, данные не переживут перезапуск")
		return inmemory.New(), nil
	default:
		return nil, fmt.Errorf("неизвестный тип хранилища: %s", a.config.Repository.Type)
	}
}

// Run запускает сервер и фоновую синхронизацию и блокируется до SIGINT
// или SIGTERM.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.worker != nil {
		workerCtx, cancelWorker := context.WithCancel(ctx)
		a.shutdowns = append(a.shutdowns, cancelWorker)
		go a.worker.Start(workerCtx)
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server: Сервер запущен на " + a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("сервер: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Server: Получен сигнал остановки")
	}

	return a.Shutdown()
}

// Shutdown гасит сервер и разворачивает shutdowns в обратном порядке,
// чтобы логгер закрылся последним.
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	var shutdownErr error
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server: Ошибка остановки сервера", err)
		shutdownErr = err
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}

	return shutdownErr
}
