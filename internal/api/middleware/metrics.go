// metrics.go — Prometheus HTTP метрики FoodWagen.
// Регистрирует метрики: fw_http_requests_total, fw_http_request_duration_seconds.
// Нормализация путей предотвращает взрывной рост кардинальности.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики FoodWagen
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fw_http_requests_total",
			Help: "Общее количество HTTP-запросов к FoodWagen",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fw_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к FoodWagen в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := normalizePath(r.URL.Path)

			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// normalizePath заменяет идентификатор записи на {id}.
// /api/v1/foods/42 → /api/v1/foods/{id}
// Неизвестные пути сводятся к "other".
func normalizePath(path string) string {
	switch path {
	case "/health/live", "/health/ready", "/metrics",
		"/api/v1/openapi.yaml",
		"/api/v1/catalog", "/api/v1/catalog/load", "/api/v1/catalog/search", "/api/v1/catalog/more",
		"/api/v1/foods":
		return path
	}

	const foodsPrefix = "/api/v1/foods/"
	if rest, ok := strings.CutPrefix(path, foodsPrefix); ok && rest != "" && !strings.Contains(rest, "/") {
		return "/api/v1/foods/{id}"
	}

	return "other"
}
