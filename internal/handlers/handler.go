// Package handlers предоставляет HTTP API сервиса: вход, каталог вопросов,
// запись результатов и отчеты учителя.
package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/metrics"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/progress"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/questions"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/reports"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/session"
)

// Authenticator проверяет токен запроса и кладет email в контекст.
// Identify не отклоняет запрос без валидного токена.
type Authenticator interface {
	Authenticate(next http.Handler) http.Handler
	Identify(next http.Handler) http.Handler
}

// Handler обрабатывает HTTP запросы API
type Handler struct {
	sessions  *session.Manager
	questions *questions.Service
	progress  *progress.Service
	reports   *reports.Service
	metrics   *metrics.Metrics
	log       *zap.Logger
}

// NewHandler создает новый HTTP handler
func NewHandler(
	sessions *session.Manager,
	questionsService *questions.Service,
	progressService *progress.Service,
	reportsService *reports.Service,
	m *metrics.Metrics,
	log *zap.Logger,
) *Handler {
	return &Handler{
		sessions:  sessions,
		questions: questionsService,
		progress:  progressService,
		reports:   reportsService,
		metrics:   m,
		log:       log,
	}
}

// Routes собирает маршруты API
func (h *Handler) Routes(authn Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.logRequests)
	r.Use(h.recoverPanics)
	r.Use(h.metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", h.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// выход без валидного токена ничего не делает и отвечает успехом
		r.With(authn.Identify).Post("/auth/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(authn.Authenticate)

			r.Post("/auth/login", h.Login)
			r.Get("/auth/me", h.Me)

			r.Get("/questions", h.ListQuestions)
			r.Get("/units", h.ListUnits)
			r.Get("/units/{unit}/topics", h.ListTopics)

			r.Post("/scores", h.RecordScore)
			r.Get("/progress", h.StudentProgress)

			r.Route("/teacher", func(r chi.Router) {
				r.Get("/students", h.TeacherStudents)
				r.Get("/statistics", h.ClassStatistics)
				r.Get("/progress", h.FilteredProgress)
			})
		})
	})

	return otelhttp.NewHandler(r, "grammar-practice")
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		h.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// recoverPanics отвечает на панику обработчика 500 в общем формате ответа
func (h *Handler) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			h.log.Error("handler panic",
				zap.Any("panic", rec),
				zap.String("path", r.URL.Path),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Stack("stack"),
			)
			writeFailure(w, http.StatusInternalServerError, "Internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}
