// requestid.go — middleware сквозного идентификатора запроса.
// Берёт X-Request-ID из входящего запроса или генерирует новый,
// кладёт его в контекст и возвращает в заголовке ответа.
package middleware

import (
	"net/http"

	"github.com/bigkaa/foodwagen/internal/requestid"
)

// maxRequestIDLen — входящие ID длиннее заменяются сгенерированными.
const maxRequestIDLen = 128

// RequestID возвращает middleware идентификатора запроса.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestid.Header)
			if id == "" || len(id) > maxRequestIDLen {
				id = requestid.New()
			}

			w.Header().Set(requestid.Header, id)
			next.ServeHTTP(w, r.WithContext(requestid.WithID(r.Context(), id)))
		})
	}
}
