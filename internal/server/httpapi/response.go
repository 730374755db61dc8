package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/filecove/filecove/internal/common"
)

// SuccessResponse is the envelope for every 2xx reply.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorBody carries a stable machine-readable code plus a human message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope for every non-2xx reply.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func writeSuccess(w http.ResponseWriter, code int, message string, data any) {
	writeJSON(w, code, SuccessResponse{Success: true, Message: message, Data: data})
}

// writeError maps a service error to an HTTP status and stable code. Raw
// provider errors never reach the client; only the taxonomy does.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		// do not leak internals
		msg = "internal server error"
	}
	writeJSON(w, status, ErrorResponse{Success: false, Error: ErrorBody{Code: code, Message: msg}})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrAuthRequired):
		return http.StatusUnauthorized, "AUTH_REQUIRED"
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "INVALID_TOKEN"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, common.ErrAccessDenied):
		return http.StatusForbidden, "ACCESS_DENIED"
	case errors.Is(err, common.ErrShareExpired):
		return http.StatusGone, "SHARE_EXPIRED"
	case errors.Is(err, common.ErrShareNotFound):
		return http.StatusNotFound, "SHARE_NOT_FOUND"
	case errors.Is(err, common.ErrObjectMissing):
		return http.StatusNotFound, "OBJECT_MISSING"
	case errors.Is(err, common.ErrFileNotFound):
		return http.StatusNotFound, "FILE_NOT_FOUND"
	case errors.Is(err, common.ErrFolderNotFound):
		return http.StatusNotFound, "FOLDER_NOT_FOUND"
	case errors.Is(err, common.ErrUserNotFound):
		return http.StatusNotFound, "USER_NOT_FOUND"
	case errors.Is(err, common.ErrRecordNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, common.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE"
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, common.ErrUpstream):
		return http.StatusBadGateway, "UPSTREAM_FAILURE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
