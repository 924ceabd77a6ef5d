package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/struchkova/konakovo-backend/internal/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure. Fields is set for validation errors
// that can be pinned to request fields.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

const (
	msgInvalidBody = "Некорректное тело запроса."
	msgTooLarge    = "Тело запроса слишком большое."
	msgConflict    = "Запись с такими данными уже существует."
	msgInternal    = "Внутренняя ошибка сервера."
)

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the message because the handler knows what was being
// looked up.
func notFoundBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: message}}
}

// validationBody returns an ErrorResponse for a domain validation failure.
func validationBody(err error) ErrorResponse {
	detail := ErrorDetail{Code: "validation_error", Message: "Проверьте введённые данные."}
	var fe domain.FieldErrors
	if errors.As(err, &fe) {
		detail.Fields = fe
		if len(fe) == 1 {
			for _, msgs := range fe {
				if len(msgs) > 0 {
					detail.Message = msgs[0]
				}
			}
		}
	}
	return ErrorResponse{Error: detail}
}

// writeError maps err to a status code and writes the matching body.
// notFound is the message used for domain.ErrNotFound.
func writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody(notFound))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: ErrorDetail{Code: "conflict", Message: msgConflict}})
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{Code: "internal_error", Message: msgInternal}})
	}
}

// decodeJSON reads the request body into dst. It writes the error response
// itself and reports false when the body is missing, malformed or too large.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrorDetail{Code: "request_too_large", Message: msgTooLarge}})
	case errors.Is(err, io.EOF):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{Code: "bad_request", Message: msgInvalidBody}})
	default:
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{Code: "bad_request", Message: msgInvalidBody + " " + err.Error()}})
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
