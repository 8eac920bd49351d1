package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScansTotal tracks completed scans per verdict
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptoshield_scans_total",
			Help: "Total number of completed token scans",
		},
		[]string{"verdict"},
	)

	// ScanDuration tracks end-to-end assessment latency
	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cryptoshield_scan_duration_seconds",
			Help:    "Token assessment duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CheckFailures tracks checks that degraded to a failure outcome
	CheckFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptoshield_check_failures_total",
			Help: "Total number of check failures",
		},
		[]string{"check", "kind"},
	)

	// InvalidInputs tracks rejected scan requests
	InvalidInputs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cryptoshield_invalid_inputs_total",
			Help: "Total number of scan requests rejected for malformed addresses",
		},
	)

	// RPCCallsTotal tracks RPC calls per endpoint
	RPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptoshield_rpc_calls_total",
			Help: "Total number of RPC calls",
		},
		[]string{"provider", "method"},
	)

	// RPCErrorsTotal tracks RPC errors per endpoint
	RPCErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptoshield_rpc_errors_total",
			Help: "Total number of RPC errors",
		},
		[]string{"provider", "error_type"},
	)

	// RPCLatency tracks RPC call latency
	RPCLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cryptoshield_rpc_latency_seconds",
			Help:    "RPC call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "method"},
	)

	// HistoryWriteErrors tracks scan records that could not be stored
	HistoryWriteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cryptoshield_history_write_errors_total",
			Help: "Total number of scan history write failures",
		},
	)
)
