// cors.go — CORS для браузерного UI (rs/cors).
package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/bigkaa/foodwagen/internal/requestid"
)

// SessionHeader — заголовок с идентификатором UI-сессии.
const SessionHeader = "X-Session-ID"

// CORS возвращает middleware, разрешающий запросы UI с указанных origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", SessionHeader, requestid.Header},
		ExposedHeaders:   []string{SessionHeader, requestid.Header},
		AllowCredentials: true,
	})
	return c.Handler
}
