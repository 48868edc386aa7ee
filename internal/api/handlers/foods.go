// foods.go — обработчики записей:
// POST /api/v1/foods, PUT /api/v1/foods/{id}, DELETE /api/v1/foods/{id}.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	apierrors "github.com/bigkaa/foodwagen/internal/api/errors"
	"github.com/bigkaa/foodwagen/internal/domain/model"
	"github.com/bigkaa/foodwagen/internal/service"
)

// maxDraftSize — ограничение на размер тела create/update.
const maxDraftSize = 1 << 20

// CreateFood — создание записи.
func (h *APIHandler) CreateFood(w http.ResponseWriter, r *http.Request) {
	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	writeMutation(w, h.catalog(w, r).Add(r.Context(), draft))
}

// UpdateFood — частичное обновление записи.
func (h *APIHandler) UpdateFood(w http.ResponseWriter, r *http.Request) {
	id, ok := bindFoodID(w, r)
	if !ok {
		return
	}

	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	if draft.IsEmpty() {
		apierrors.ValidationError(w, "Не передано ни одного поля для обновления")
		return
	}

	writeMutation(w, h.catalog(w, r).Edit(r.Context(), id, draft))
}

// DeleteFood — удаление записи.
func (h *APIHandler) DeleteFood(w http.ResponseWriter, r *http.Request) {
	id, ok := bindFoodID(w, r)
	if !ok {
		return
	}
	writeMutation(w, h.catalog(w, r).Remove(r.Context(), id))
}

// bindFoodID извлекает {id} из пути.
func bindFoodID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil || id == "" {
		apierrors.ValidationError(w, "Некорректный идентификатор записи")
		return "", false
	}
	return id, true
}

// decodeDraft разбирает черновик из тела запроса.
func decodeDraft(w http.ResponseWriter, r *http.Request) (model.FoodDraft, bool) {
	var draft model.FoodDraft
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDraftSize)).Decode(&draft); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return model.FoodDraft{}, false
	}
	return draft, true
}

// writeMutation отвечает по результату мутации:
// ok — 200 с записью и snapshot, invalid — 422 с ошибками полей, failed — 502.
func writeMutation(w http.ResponseWriter, m service.Mutation) {
	switch m.Outcome {
	case service.OutcomeOK:
		writeJSON(w, http.StatusOK, m)
	case service.OutcomeInvalid:
		apierrors.FieldErrors(w, m.Errors)
	default:
		apierrors.UpstreamError(w, m.Message)
	}
}
