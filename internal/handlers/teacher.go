package handlers

import "net/http"

// TeacherStudents GET /api/v1/teacher/students
func (h *Handler) TeacherStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.reports.TeacherStudents(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(Response{"students": students}))
}

// ClassStatistics GET /api/v1/teacher/statistics
func (h *Handler) ClassStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.ClassStatistics(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(Response{"stats": stats}))
}

// FilteredProgress GET /api/v1/teacher/progress?email=&unit=
func (h *Handler) FilteredProgress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	attempts, err := h.reports.FilteredProgress(r.Context(), q.Get("email"), q.Get("unit"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(Response{"progress": attempts}))
}
