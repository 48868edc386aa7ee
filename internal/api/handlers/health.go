// health.go — liveness/readiness probes и /metrics.
// Готовность определяется одной зависимостью: Food API (по данным dephealth).
package handlers

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigkaa/foodwagen/internal/config"
)

const serviceName = "foodwagen"

// Статусы probe в порядке возрастания серьёзности.
const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusFail     = "fail"
)

// ReadinessChecker — источник состояния зависимости.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "degraded", "fail") и сообщение.
	CheckReady() (status, message string)
}

// HealthHandler обслуживает /health/* и /metrics.
type HealthHandler struct {
	foodAPI     ReadinessChecker
	promHandler http.Handler
}

// NewHealthHandler создаёт обработчик. foodAPI == nil — мониторинг отключён,
// readiness всегда ok.
func NewHealthHandler(foodAPI ReadinessChecker) *HealthHandler {
	return &HealthHandler{
		foodAPI:     foodAPI,
		promHandler: promhttp.Handler(),
	}
}

type checkResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string                 `json:"status"`
	Service   string                 `json:"service"`
	Version   string                 `json:"version"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]checkResult `json:"checks,omitempty"`
}

func newHealthResponse(status string) healthResponse {
	return healthResponse{
		Status:    status,
		Service:   serviceName,
		Version:   config.Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// HealthLive — процесс жив; внешние зависимости не проверяются.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newHealthResponse(statusOK))
}

// HealthReady — 200 при ok/degraded, 503 при fail.
// Недоступный Food API даёт degraded: UI продолжает работать и показывает ошибку загрузки.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	food := checkResult{Status: statusOK, Message: "мониторинг отключён"}
	if h.foodAPI != nil {
		st, msg := h.foodAPI.CheckReady()
		food = checkResult{Status: st, Message: msg}
	}

	resp := newHealthResponse(overallStatus(food.Status))
	resp.Checks = map[string]checkResult{"food_api": food}

	code := http.StatusOK
	if resp.Status == statusFail {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

// overallStatus — самый серьёзный из статусов; неизвестные значения считаются fail.
func overallStatus(statuses ...string) string {
	rank := map[string]int{statusOK: 0, statusDegraded: 1, statusFail: 2}
	worst := statusOK
	for _, s := range statuses {
		r, known := rank[s]
		if !known {
			return statusFail
		}
		if r > rank[worst] {
			worst = s
		}
	}
	return worst
}
