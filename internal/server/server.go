// Пакет server — HTTP-сервер FoodWagen с graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/foodwagen/internal/api/errors"
	"github.com/bigkaa/foodwagen/internal/config"
)

// API — обработчики маршрутов FoodWagen (реализуется handlers.APIHandler).
type API interface {
	HealthLive(w http.ResponseWriter, r *http.Request)
	HealthReady(w http.ResponseWriter, r *http.Request)
	GetMetrics(w http.ResponseWriter, r *http.Request)
	GetOpenAPISpec(w http.ResponseWriter, r *http.Request)

	GetCatalog(w http.ResponseWriter, r *http.Request)
	LoadCatalog(w http.ResponseWriter, r *http.Request)
	SearchCatalog(w http.ResponseWriter, r *http.Request)
	LoadMore(w http.ResponseWriter, r *http.Request)

	CreateFood(w http.ResponseWriter, r *http.Request)
	UpdateFood(w http.ResponseWriter, r *http.Request)
	DeleteFood(w http.ResponseWriter, r *http.Request)
}

// Server — HTTP-сервер FoodWagen.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
// middlewares — добавляются в порядке переданного среза.
func New(cfg *config.Config, logger *slog.Logger, api API, middlewares ...func(http.Handler) http.Handler) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(api, middlewares...),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает chi-роутер со всеми маршрутами API.
func NewRouter(api API, middlewares ...func(http.Handler) http.Handler) http.Handler {
	router := chi.NewRouter()

	for _, mw := range middlewares {
		router.Use(mw)
	}

	router.Get("/health/live", api.HealthLive)
	router.Get("/health/ready", api.HealthReady)
	router.Get("/metrics", api.GetMetrics)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/openapi.yaml", api.GetOpenAPISpec)

		r.Get("/catalog", api.GetCatalog)
		r.Post("/catalog/load", api.LoadCatalog)
		r.Post("/catalog/search", api.SearchCatalog)
		r.Post("/catalog/more", api.LoadMore)

		r.Post("/foods", api.CreateFood)
		r.Put("/foods/{id}", api.UpdateFood)
		r.Delete("/foods/{id}", api.DeleteFood)
	})

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		apierrors.NotFound(w, "Маршрут не найден")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		apierrors.WriteError(w, http.StatusMethodNotAllowed, apierrors.CodeValidationError, "Метод не поддерживается")
	})

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM) или отмены ctx.
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case <-ctx.Done():
		s.logger.Info("Контекст сервера отменён")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
