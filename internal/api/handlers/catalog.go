// catalog.go — обработчики состояния каталога:
// GET /api/v1/catalog, POST /api/v1/catalog/{load,search,more}.
package handlers

import (
	"net/http"

	"github.com/oapi-codegen/runtime"

	apierrors "github.com/bigkaa/foodwagen/internal/api/errors"
	"github.com/bigkaa/foodwagen/internal/service"
)

// GetCatalog — текущее состояние каталога без сетевых вызовов.
func (h *APIHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog(w, r).Snapshot())
}

// LoadCatalog — загрузка всей коллекции.
func (h *APIHandler) LoadCatalog(w http.ResponseWriter, r *http.Request) {
	writeSnapshot(w, h.catalog(w, r).Load(r.Context()))
}

// SearchCatalog — поиск по имени (?q=). Пустой запрос эквивалентен load.
func (h *APIHandler) SearchCatalog(w http.ResponseWriter, r *http.Request) {
	var q *string
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &q); err != nil {
		apierrors.ValidationError(w, "Некорректный параметр q: "+err.Error())
		return
	}

	query := ""
	if q != nil {
		query = *q
	}

	writeSnapshot(w, h.catalog(w, r).Search(r.Context(), query))
}

// LoadMore — расширение окна отображения на одну страницу.
func (h *APIHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog(w, r).LoadMore())
}

// writeSnapshot отвечает snapshot'ом; статус error — 502 с сообщением для пользователя.
func writeSnapshot(w http.ResponseWriter, snap service.Snapshot) {
	if snap.Status == service.StatusError {
		apierrors.UpstreamError(w, snap.Error)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
