// logging.go — журнал HTTP-запросов (slog).
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bigkaa/foodwagen/internal/requestid"
)

// responseWriter запоминает статус и объём ответа. Общий для логирования и метрик.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Unwrap нужен http.ResponseController.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// RequestLogger пишет одну запись на запрос. Сессия берётся из ответа:
// обработчик каталога выставляет X-Session-ID, в том числе для новых сессий.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rw.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.Int64("bytes", rw.written),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("request_id", requestid.FromContext(r.Context())),
			}
			if sid := rw.Header().Get(SessionHeader); sid != "" {
				attrs = append(attrs, slog.String("session_id", sid))
			}
			logger.LogAttrs(r.Context(), levelFor(rw.statusCode), "HTTP запрос", attrs...)
		})
	}
}

// levelFor: 5xx — ERROR, 4xx — WARN, остальное — INFO.
func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
