package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Query metrics
	QueriesServed *prometheus.CounterVec
	QueryRows     *prometheus.HistogramVec
	ScopeFiltered *prometheus.CounterVec
	StatsCache    *prometheus.CounterVec

	// Record metrics
	RecordWrites *prometheus.CounterVec

	// Access metrics
	AccessDenied    *prometheus.CounterVec
	SessionsOpened  *prometheus.CounterVec
	PermissionRoles *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates all Prometheus metrics and registers them with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Query metrics
		QueriesServed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trafficadmin_queries_total",
				Help: "Total record listings served",
			},
			[]string{"resource", "scope"},
		),
		QueryRows: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trafficadmin_query_rows",
				Help:    "Rows matched by a listing before pagination",
				Buckets: []float64{0, 1, 10, 50, 100, 500, 1000, 10000},
			},
			[]string{"resource"},
		),
		ScopeFiltered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trafficadmin_scope_filtered_rows_total",
				Help: "Rows removed by location scope filtering",
			},
			[]string{"resource", "scope"},
		),
		StatsCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trafficadmin_stats_cache_total",
				Help: "Stats cache lookups by result",
			},
			[]string{"resource", "result"},
		),

		// Record metrics
		RecordWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trafficadmin_record_writes_total",
				Help: "Total record writes by resource and verb",
			},
			[]string{"resource", "verb"},
		),

		// Access metrics
		AccessDenied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trafficadmin_access_denied_total",
				Help: "Total operations refused by the capability gate",
			},
			[]string{"capability"},
		),
		SessionsOpened: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trafficadmin_sessions_opened_total",
				Help: "Total session tokens issued by resolved role",
			},
			[]string{"role"},
		),
		PermissionRoles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trafficadmin_permission_resolutions_total",
				Help: "Total permission resolutions by role",
			},
			[]string{"role"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trafficadmin_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trafficadmin_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trafficadmin_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Audit metrics
		AuditLogsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trafficadmin_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
