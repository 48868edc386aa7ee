// Пакет requestid — сквозной идентификатор запроса (X-Request-ID).
// Middleware кладёт ID в контекст, HTTP-клиенты пробрасывают его во внешние вызовы.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header — имя HTTP-заголовка с идентификатором запроса.
const Header = "X-Request-ID"

type ctxKey struct{}

// WithID возвращает контекст с идентификатором запроса.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext возвращает идентификатор запроса или пустую строку.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// New генерирует новый идентификатор (UUID v4).
func New() string {
	return uuid.NewString()
}
