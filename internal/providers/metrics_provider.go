package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"abd/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	ObserveRequestSize(endpoint string, bytes int64)
	IncCommandsTotal(command string, success bool)
	ObserveCommandDuration(command string, duration time.Duration)
	IncSaveFailures()
	ObservePersistenceDuration(duration time.Duration)
	AddParserSkips(n int)
	AddAchievementsAwarded(n int)
	IncBroadcastFailures()
	SetUsersTotal(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	requestSize         *prometheus.HistogramVec
	commandsTotal       *prometheus.CounterVec
	commandDuration     *prometheus.HistogramVec
	saveFailures        prometheus.Counter
	persistenceDuration prometheus.Histogram
	parserSkips         prometheus.Counter
	achievementsAwarded prometheus.Counter
	broadcastFailures   prometheus.Counter
	usersTotal          prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) ObserveRequestSize(endpoint string, bytes int64) {
	m.requestSize.WithLabelValues(endpoint).Observe(float64(bytes))
}

func (m *MetricsProvider) IncCommandsTotal(command string, success bool) {
	status := "ok"
	if !success {
		status = "failed"
	}
	m.commandsTotal.WithLabelValues(command, status).Inc()
}

func (m *MetricsProvider) ObserveCommandDuration(command string, duration time.Duration) {
	m.commandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncSaveFailures() {
	m.saveFailures.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) AddParserSkips(n int) {
	m.parserSkips.Add(float64(n))
}

func (m *MetricsProvider) AddAchievementsAwarded(n int) {
	m.achievementsAwarded.Add(float64(n))
}

func (m *MetricsProvider) IncBroadcastFailures() {
	m.broadcastFailures.Inc()
}

func (m *MetricsProvider) SetUsersTotal(count int) {
	m.usersTotal.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "abd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "abd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		// 64 B .. 1 MiB, matching the request body cap.
		requestSize: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "abd_request_size_bytes",
			Help:    "HTTP request body size in bytes",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		}, []string{"endpoint"}),

		commandsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "abd_commands_total",
			Help: "Total number of processed chat commands",
		}, []string{"command", "status"}),

		commandDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "abd_command_duration_seconds",
			Help:    "Chat command processing duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"command"}),

		saveFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "abd_save_failures_total",
			Help: "Total number of failed ledger saves",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "abd_persistence_duration_seconds",
			Help:    "Duration of ledger save operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		parserSkips: promauto.NewCounter(prometheus.CounterOpts{
			Name: "abd_parser_skipped_tokens_total",
			Help: "Total number of activity tokens skipped by the parser",
		}),

		achievementsAwarded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "abd_achievements_awarded_total",
			Help: "Total number of achievements awarded",
		}),

		broadcastFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "abd_broadcast_failures_total",
			Help: "Total number of failed outbound broadcasts",
		}),

		usersTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "abd_users_total",
			Help: "Number of known users in the ledger",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) ObserveRequestSize(_ string, _ int64)             {}
func (n *noopMetrics) IncCommandsTotal(_ string, _ bool)                {}
func (n *noopMetrics) ObserveCommandDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncSaveFailures()                                 {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) AddParserSkips(_ int)                             {}
func (n *noopMetrics) AddAchievementsAwarded(_ int)                     {}
func (n *noopMetrics) IncBroadcastFailures()                            {}
func (n *noopMetrics) SetUsersTotal(_ int)                              {}
