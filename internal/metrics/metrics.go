package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service's Prometheus collectors.
type Metrics struct {
	PlayersRegistered  prometheus.Counter
	AttemptsStarted    prometheus.Counter
	AttemptsCompleted  prometheus.Counter
	ResponsesRecorded  *prometheus.CounterVec
	RejectedOperations *prometheus.CounterVec
	RequestCounter     *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg, which also serves Handler.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		PlayersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quizz_players_registered_total",
			Help: "Players created by the player directory",
		}),
		AttemptsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quizz_attempts_started_total",
			Help: "Attempts created for a new player and quizz pair",
		}),
		AttemptsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quizz_attempts_completed_total",
			Help: "Attempts moved to the completed state",
		}),
		ResponsesRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizz_responses_recorded_total",
				Help: "Responses persisted, by correctness",
			},
			[]string{"correct"},
		),
		RejectedOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizz_rejected_operations_total",
				Help: "Commands rejected, by operation and reason",
			},
			[]string{"operation", "reason"},
		),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		gatherer: reg,
	}
	reg.MustRegister(
		m.PlayersRegistered,
		m.AttemptsStarted,
		m.AttemptsCompleted,
		m.ResponsesRecorded,
		m.RejectedOperations,
		m.RequestCounter,
		m.RequestDuration,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, endpoint string, status int, elapsed time.Duration) {
	m.RequestCounter.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// ResponseRecorded counts a persisted response.
func (m *Metrics) ResponseRecorded(correct bool) {
	m.ResponsesRecorded.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

// Rejected counts a command that failed with the given reason.
func (m *Metrics) Rejected(operation, reason string) {
	m.RejectedOperations.WithLabelValues(operation, reason).Inc()
}
