package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rentalAPI/internal/config"
	"rentalAPI/internal/database"
	handlers "rentalAPI/internal/handler"
	"rentalAPI/internal/logger"
	"rentalAPI/internal/metrics"
	"rentalAPI/internal/middleware"
	"rentalAPI/internal/repository"
	"rentalAPI/internal/service"
	"rentalAPI/internal/storage"
)

type App struct {
	Cfg      *config.Config
	DB       *database.DB
	Services *service.Service
	Handler  http.Handler
}

// New opens every dependency and assembles the HTTP stack.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// connection DB
	db, err := database.ConnectDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к БД: %w", err)
	}

	if err := db.RunMigrations(ctx); err != nil {
		db.CloseDB()
		return nil, err
	}

	// connection blob store
	store, err := storage.New(ctx, cfg)
	if err != nil {
		db.CloseDB()
		return nil, fmt.Errorf("не удалось инициализировать хранилище: %w", err)
	}

	registry := NewRegistry()
	m := metrics.New(registry)

	// enabling dependencies
	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, store, m)

	return &App{
		Cfg:      cfg,
		DB:       db,
		Services: services,
		Handler:  NewHTTPHandler(services, cfg, registry, m),
	}, nil
}

func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// NewHTTPHandler wires routes and middlewares around the services.
func NewHTTPHandler(services *service.Service, cfg *config.Config, registry *prometheus.Registry, m *metrics.Metrics) http.Handler {
	handler := handlers.NewHandlers(services, cfg)

	router := handler.NewRouter(
		middleware.AuthMiddleware(services.Auth),
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		middleware.MetricsMiddleware(m),
	)

	return middleware.Chain(
		router,
		middleware.CORSMiddleware,
		middleware.LoggingMiddleware,
	)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Cfg.ServerPort),
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("сервер запущен",
			zap.String("addr", server.Addr),
			zap.String("database", a.Cfg.DB.DbNAME),
			zap.String("storage", a.Cfg.Storage.Driver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка запуска сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Log.Info("остановка сервера", zap.Duration("timeout", a.Cfg.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}
	return nil
}

func (a *App) Close() {
	if err := a.DB.CloseDB(); err != nil {
		logger.Log.Error("ошибка закрытия БД", zap.Error(err))
	}
}
