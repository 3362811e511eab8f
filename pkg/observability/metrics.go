package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intervue_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intervue_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Conversation metrics
	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intervue_turns_total",
			Help: "Total number of processed conversation turns",
		},
		[]string{"interview_type", "status"},
	)

	turnDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intervue_turn_duration_seconds",
			Help:    "End-to-end turn processing duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"interview_type"},
	)

	completionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intervue_completions_total",
			Help: "Total number of text-completion calls",
		},
		[]string{"provider", "status"},
	)

	transcriptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intervue_transcriptions_total",
			Help: "Total number of audio transcription calls",
		},
		[]string{"status"},
	)

	finalizationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intervue_finalizations_total",
			Help: "Total number of interview finalizations",
		},
		[]string{"status"},
	)

	// Session metrics
	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "intervue_active_sessions",
			Help: "Number of live session contexts in the cache",
		},
	)

	initOnce sync.Once
)

// InitMetrics registers all Prometheus metrics.
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestsTotal,
			httpRequestDuration,
			turnsTotal,
			turnDuration,
			completionsTotal,
			transcriptionsTotal,
			finalizationsTotal,
			activeSessions,
		)
	})
}

// MetricsHandler returns an HTTP handler for Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records HTTP request metrics.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTurn records one processed conversation turn.
func RecordTurn(interviewType, status string, duration time.Duration) {
	turnsTotal.WithLabelValues(interviewType, status).Inc()
	turnDuration.WithLabelValues(interviewType).Observe(duration.Seconds())
}

// RecordCompletion records one text-completion call.
func RecordCompletion(provider, status string) {
	completionsTotal.WithLabelValues(provider, status).Inc()
}

// RecordTranscription records one audio transcription call.
func RecordTranscription(status string) {
	transcriptionsTotal.WithLabelValues(status).Inc()
}

// RecordFinalization records one interview finalization.
func RecordFinalization(status string) {
	finalizationsTotal.WithLabelValues(status).Inc()
}

// SetActiveSessions sets the live session context gauge.
func SetActiveSessions(count int) {
	activeSessions.Set(float64(count))
}
