package handlers

import (
	"net/http"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/apperr"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/session"
)

// Login создает сессию для подтвержденного email
// POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Authenticate(r.Context())
	if err != nil {
		h.metrics.AuthAttempt(apperr.CodeOf(err))
		h.writeError(w, r, err)
		return
	}
	h.metrics.AuthAttempt("ok")
	writeJSON(w, http.StatusOK, ok(sessionPayload(s)))
}

// Me возвращает текущую сессию без проверки
// GET /api/v1/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Current(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if s == nil {
		writeFailure(w, http.StatusUnauthorized, "No active session")
		return
	}
	writeJSON(w, http.StatusOK, ok(sessionPayload(s)))
}

// Logout завершает сессию; всегда успешен
// POST /api/v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context())
	writeJSON(w, http.StatusOK, ok(nil))
}

func sessionPayload(s *session.Session) Response {
	payload := Response{
		"userType":  s.UserType,
		"userEmail": s.UserEmail,
	}
	if s.StudentInfo != nil {
		payload["studentInfo"] = s.StudentInfo
	}
	return payload
}
