// handler.go — основной обработчик API FoodWagen.
// Объединяет health, каталог и операции над записями.
// Каталог выбирается по UI-сессии: заголовок X-Session-ID или cookie fw_session.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bigkaa/foodwagen/internal/api/middleware"
	"github.com/bigkaa/foodwagen/internal/api/openapi"
	"github.com/bigkaa/foodwagen/internal/service"
)

// SessionCookie — имя cookie с идентификатором UI-сессии.
const SessionCookie = "fw_session"

// APIHandler — основной обработчик API FoodWagen.
type APIHandler struct {
	sessions *service.SessionRegistry
	health   *HealthHandler
	logger   *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	sessions *service.SessionRegistry,
	health *HealthHandler,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		sessions: sessions,
		health:   health,
		logger:   logger.With(slog.String("component", "api_handler")),
	}
}

// --- Health endpoints (делегируются в HealthHandler) ---

// HealthLive — liveness probe.
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe.
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики.
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// GetOpenAPISpec — OpenAPI-контракт в YAML.
func (h *APIHandler) GetOpenAPISpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openapi.Spec)
}

// --- Вспомогательные функции ---

// catalog возвращает каталог сессии запроса, создавая сессию при необходимости.
// Идентификатор сессии всегда возвращается в заголовке X-Session-ID;
// для новой сессии дополнительно выставляется cookie.
func (h *APIHandler) catalog(w http.ResponseWriter, r *http.Request) *service.Catalog {
	id := r.Header.Get(middleware.SessionHeader)
	if id == "" {
		if cookie, err := r.Cookie(SessionCookie); err == nil {
			id = cookie.Value
		}
	}

	id, c, created := h.sessions.Acquire(id)
	w.Header().Set(middleware.SessionHeader, id)

	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		h.logger.Debug("Создана UI-сессия", slog.String("session_id", id))
	}
	return c
}

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
