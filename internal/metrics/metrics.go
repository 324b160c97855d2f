package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farm_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "farm_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// TradeWritesTotal counts persisted trade writes by entity and the column
	// set that accepted them ("wide" or "legacy").
	TradeWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farm_trade_writes_total",
			Help: "Trade record writes by entity and schema.",
		},
		[]string{"entity", "schema"},
	)

	SchemaDriftWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farm_schema_drift_warnings_total",
			Help: "Additive schema changes that failed for a reason other than the column already existing.",
		},
		[]string{"table"},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "farm_websocket_clients",
			Help: "Connected change-feed clients.",
		},
	)

	ReportArchivesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farm_report_archives_total",
			Help: "Report archive uploads by result.",
		},
		[]string{"result"},
	)
)
