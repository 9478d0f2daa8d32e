package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListQuestions GET /api/v1/questions?unit=&topic=
func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	questions, err := h.questions.ListQuestions(r.Context(), q.Get("unit"), q.Get("topic"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(Response{"questions": questions}))
}

// ListUnits GET /api/v1/units
func (h *Handler) ListUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.questions.ListUnits(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(Response{"units": units}))
}

// ListTopics GET /api/v1/units/{unit}/topics
func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.questions.ListTopics(r.Context(), chi.URLParam(r, "unit"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(Response{"topics": topics}))
}
