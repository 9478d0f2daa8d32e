package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/apperr"
)

// Response общий формат ответа: {"success": bool, "message": "...", ...данные}
type Response map[string]interface{}

func ok(payload Response) Response {
	if payload == nil {
		payload = Response{}
	}
	payload["success"] = true
	return payload
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{"success": false, "message": message})
}

// writeError превращает ошибку операции в ответ {"success": false, "message": ...}
// и пишет ее в лог один раз
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := "Internal server error"
	if appErr := asAppError(err); appErr != nil {
		message = appErr.Message
	}

	fields := []zap.Field{
		zap.String("code", apperr.CodeOf(err)),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("operation failed", fields...)
	} else {
		h.log.Info("operation rejected", fields...)
	}

	writeFailure(w, status, message)
}

func asAppError(err error) *apperr.Error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func statusFor(err error) int {
	switch apperr.CodeOf(err) {
	case apperr.ErrNoSession.Code, apperr.ErrSessionExpired.Code, apperr.ErrDomainRevoked.Code:
		return http.StatusUnauthorized
	case apperr.ErrInvalidDomain.Code, apperr.ErrNotAuthorized.Code, apperr.ErrWrongRole.Code:
		return http.StatusForbidden
	}

	switch apperr.KindOf(err) {
	case apperr.KindConfiguration:
		return http.StatusServiceUnavailable
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindStore:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
