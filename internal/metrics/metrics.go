// Package metrics содержит метрики Prometheus сервиса
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор метрик сервиса
type Metrics struct {
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	scoresRecorded prometheus.Counter
	authAttempts   *prometheus.CounterVec
	gatherer       prometheus.Gatherer
}

// New создает метрики и регистрирует их в отдельном реестре
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		),
		scoresRecorded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "grammar_scores_recorded_total",
				Help: "Score attempts appended to proficiency sheets",
			},
		),
		authAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grammar_auth_attempts_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
		gatherer: reg,
	}
	reg.MustRegister(m.requests, m.duration, m.scoresRecorded, m.authAttempts)
	return m
}

// ScoreRecorded учитывает записанную попытку. Раздел присылает клиент,
// поэтому он не используется как метка.
func (m *Metrics) ScoreRecorded() {
	m.scoresRecorded.Inc()
}

// AuthAttempt учитывает попытку входа; result — "ok" или код ошибки
func (m *Metrics) AuthAttempt(result string) {
	m.authAttempts.WithLabelValues(result).Inc()
}

// Handler отдает метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware считает запросы и их длительность по шаблону маршрута
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
