package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bigkaa/foodwagen/internal/api/handlers"
	"github.com/bigkaa/foodwagen/internal/api/middleware"
	"github.com/bigkaa/foodwagen/internal/api/openapi"
	"github.com/bigkaa/foodwagen/internal/config"
	"github.com/bigkaa/foodwagen/internal/foodclient"
	"github.com/bigkaa/foodwagen/internal/server"
	"github.com/bigkaa/foodwagen/internal/service"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP-сервер каталога",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// 1. Конфигурация и логгер
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("загрузка конфигурации: %w", err)
			}
			logger := config.SetupLogger(cfg)
			logger.Info("FoodWagen запускается",
				slog.String("version", config.Version),
				slog.Int("port", cfg.Port),
				slog.String("food_api", cfg.FoodAPIURL),
			)

			// 2. Клиент Food API
			client, err := foodclient.New(cfg.FoodAPIURL, cfg.FoodAPICACertPath, cfg.FoodAPITimeout, logger)
			if err != nil {
				return fmt.Errorf("создание клиента Food API: %w", err)
			}

			// 3. Реестр UI-сессий: у каждой сессии свой каталог
			sessions := service.NewSessionRegistry(cfg.SessionMaxSize, cfg.SessionTTL, func() *service.Catalog {
				return service.NewCatalog(client, cfg.PageSize, logger)
			})

			// 4. Мониторинг Food API (topologymetrics)
			var readiness handlers.ReadinessChecker
			if cfg.DephealthEnabled {
				dh, err := service.NewDephealthService(service.DependencyMonitorConfig{
					ServiceID:     "foodwagen",
					Group:         cfg.DephealthGroup,
					FoodAPIURL:    cfg.FoodAPIURL,
					CheckInterval: cfg.DephealthCheckInterval,
					IsEntry:       cfg.DephealthIsEntry,
					TLSSkipVerify: cfg.DephealthTLSSkipVerify,
				}, logger)
				if err != nil {
					return fmt.Errorf("создание dephealth: %w", err)
				}
				if err := dh.Start(ctx); err != nil {
					return fmt.Errorf("запуск dephealth: %w", err)
				}
				defer dh.Stop()
				readiness = dh
			}

			// 5. Валидация запросов по OpenAPI-контракту
			doc, err := openapi.Load()
			if err != nil {
				return err
			}
			validator, err := middleware.OpenAPIValidator(doc)
			if err != nil {
				return err
			}

			// 6. Обработчики и HTTP-сервер
			healthHandler := handlers.NewHealthHandler(readiness)
			apiHandler := handlers.NewAPIHandler(sessions, healthHandler, logger)

			srv := server.New(cfg, logger, apiHandler,
				middleware.RequestID(),
				middleware.RequestLogger(logger),
				middleware.MetricsMiddleware(),
				middleware.CORS(cfg.CORSAllowedOrigins),
				validator,
			)

			// 7. Запуск (блокирующий вызов с graceful shutdown)
			if err := srv.Run(ctx); err != nil {
				logger.Error("Ошибка сервера", slog.String("error", err.Error()))
				return err
			}

			logger.Info("FoodWagen остановлен")
			return nil
		},
	}
}
