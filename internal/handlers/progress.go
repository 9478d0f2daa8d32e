package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/apperr"
)

// unitValue принимает раздел и строкой, и числом
type unitValue string

func (u *unitValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*u = unitValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*u = unitValue(n.String())
	return nil
}

// RecordScoreRequest тело запроса записи результата
type RecordScoreRequest struct {
	Unit  unitValue `json:"unit"`
	Score *float64  `json:"score"`
	Total *float64  `json:"total"`
}

// RecordScore POST /api/v1/scores
func (h *Handler) RecordScore(w http.ResponseWriter, r *http.Request) {
	var req RecordScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperr.InvalidArgument("Invalid request body"))
		return
	}
	if strings.TrimSpace(string(req.Unit)) == "" || req.Score == nil || req.Total == nil {
		h.writeError(w, r, apperr.InvalidArgument("unit, score and total are required"))
		return
	}

	attempt, err := h.progress.RecordScore(r.Context(), string(req.Unit), *req.Score, *req.Total)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(Response{
		"message": "Score recorded successfully",
		"attempt": attempt,
	}))
}

// StudentProgress GET /api/v1/progress?email=
func (h *Handler) StudentProgress(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.reports.StudentProgress(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(Response{"progress": attempts}))
}
