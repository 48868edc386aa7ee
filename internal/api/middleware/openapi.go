// openapi.go — валидация входящих запросов по OpenAPI-контракту (kin-openapi).
// Пути, отсутствующие в контракте, пропускаются без проверки.
package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"

	apierrors "github.com/bigkaa/foodwagen/internal/api/errors"
)

// OpenAPIValidator возвращает middleware, проверяющий параметры и тело запроса.
// Нарушение контракта — 400 VALIDATION_ERROR.
func OpenAPIValidator(doc *openapi3.T) (func(http.Handler) http.Handler, error) {
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("построение OpenAPI-роутера: %w", err)
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		MultiError:         false,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				// Маршрут вне контракта (или метод не описан) — решает chi
				if errors.Is(err, routers.ErrPathNotFound) || errors.Is(err, routers.ErrMethodNotAllowed) {
					next.ServeHTTP(w, r)
					return
				}
				apierrors.ValidationError(w, err.Error())
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				apierrors.ValidationError(w, validationMessage(err))
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

// validationMessage сокращает ошибку kin-openapi до понятного сообщения.
func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		switch {
		case reqErr.Parameter != nil:
			return fmt.Sprintf("Некорректный параметр %s: %s", reqErr.Parameter.Name, reqErr.Reason)
		case reqErr.RequestBody != nil:
			return "Некорректное тело запроса: " + reqErr.Error()
		}
	}
	return err.Error()
}
