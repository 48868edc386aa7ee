// dephealth.go — мониторинг Food API через topologymetrics SDK.
//
// Единственная зависимость FoodWagen — внешний Food API; probe — GET /Food.
// Метрики app_dependency_health и app_dependency_latency_seconds
// отдаются на /metrics вместе с остальными.
package service

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // HTTP checker factory
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bigkaa/foodwagen/internal/foodclient"
)

// FoodAPIDependency — имя зависимости в метриках.
const FoodAPIDependency = "food-api"

const (
	readyOK       = "ok"
	readyDegraded = "degraded"
)

// DependencyMonitorConfig — параметры мониторинга Food API.
type DependencyMonitorConfig struct {
	ServiceID     string // вершина графа текущего приложения
	Group         string // FW_DEPHEALTH_GROUP
	FoodAPIURL    string
	CheckInterval time.Duration
	IsEntry       bool // лейбл isentry=yes
	TLSSkipVerify bool // только для https; dev-стенды с self-signed сертификатами
}

// DephealthService — периодическая проверка Food API.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// DephealthOption — дополнительная настройка SDK.
type DephealthOption = dephealth.Option

// WithRegisterer — отдельный Prometheus registry (в тестах).
func WithRegisterer(reg prometheus.Registerer) DephealthOption {
	return dephealth.WithRegisterer(reg)
}

// NewDephealthService создаёт монитор. Без опций метрики регистрируются
// в глобальном Prometheus registry.
func NewDephealthService(cfg DependencyMonitorConfig, logger *slog.Logger, opts ...DephealthOption) (*DephealthService, error) {
	all := append([]dephealth.Option{
		dephealth.WithLogger(logger),
		dephealth.HTTP(FoodAPIDependency, dependencyOptions(cfg)...),
	}, opts...)

	dh, err := dephealth.New(cfg.ServiceID, cfg.Group, all...)
	if err != nil {
		return nil, err
	}
	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

func dependencyOptions(cfg DependencyMonitorConfig) []dephealth.DependencyOption {
	dep := []dephealth.DependencyOption{
		dephealth.FromURL(cfg.FoodAPIURL),
		dephealth.WithHTTPHealthPath(foodclient.ResourcePath),
		dephealth.CheckInterval(cfg.CheckInterval),
		dephealth.Critical(true),
	}
	if cfg.IsEntry {
		dep = append(dep, dephealth.WithLabel("isentry", "yes"))
	}
	if cfg.TLSSkipVerify && isHTTPS(cfg.FoodAPIURL) {
		dep = append(dep, dephealth.WithHTTPTLSSkipVerify(true))
	}
	return dep
}

func isHTTPS(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme == "https"
}

// Start запускает проверки в фоне.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг Food API запущен")
	return ds.dh.Start(ctx)
}

func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг Food API остановлен")
}

// Health: имя зависимости → последняя проверка успешна.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}

// CheckReady сводит состояние к статусу readiness.
// Недоступный Food API даёт degraded, а не fail.
func (ds *DephealthService) CheckReady() (status, message string) {
	return summarizeHealth(ds.Health())
}

func summarizeHealth(health map[string]bool) (status, message string) {
	if len(health) == 0 {
		return readyOK, "проверки ещё не выполнялись"
	}
	for name, ok := range health {
		if !ok {
			return readyDegraded, "зависимость недоступна: " + name
		}
	}
	return readyOK, ""
}
