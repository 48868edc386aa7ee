// Пакет errors — ответы об ошибках API FoodWagen.
// Общий формат: {"error": {"code": "...", "message": "..."}}.
// Ошибки валидации черновика: {"errors": {"<поле>": "<сообщение>"}}.
package errors

import (
	"encoding/json"
	"net/http"
)

// Коды ошибок из OpenAPI контракта.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeUpstreamError   = "UPSTREAM_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)

type envelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// WriteError пишет ответ в общем формате.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	var body envelope
	body.Error.Code = code
	body.Error.Message = message
	write(w, statusCode, body)
}

// ValidationError — 400: тело или параметры запроса не разобраны.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeValidationError, message)
}

// FieldErrors — 422: черновик разобран, но не прошёл правила полей.
func FieldErrors(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusUnprocessableEntity, struct {
		Errors map[string]string `json:"errors"`
	}{errs})
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

// UpstreamError — 502: Food API недоступен или ответил ошибкой.
// message — пользовательское сообщение каталога.
func UpstreamError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadGateway, CodeUpstreamError, message)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternalError, message)
}

func write(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
