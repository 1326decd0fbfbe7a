package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cravings"

var (
	// HTTPRequestsTotal counts requests by route template and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	// ResetCodesIssued counts issuance outcomes: sent, unknown_account, failed
	ResetCodesIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "password_reset",
			Name:      "codes_issued_total",
			Help:      "Password reset code issuance attempts by outcome",
		},
		[]string{"outcome"},
	)

	// ResetAttempts counts verification outcomes: success, invalid_code, weak_password,
	// account_not_found, failed
	ResetAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "password_reset",
			Name:      "attempts_total",
			Help:      "Password reset attempts by outcome",
		},
		[]string{"outcome"},
	)

	ExpiredCodesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "password_reset",
			Name:      "expired_codes_deleted_total",
			Help:      "Expired reset codes removed by the cleanup job",
		},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		},
		[]string{"bucket"},
	)

	// LLMRequestDuration tracks gateway calls by function and status
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "LLM gateway request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"function", "status"},
	)

	LLMBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "circuit_breaker_state",
			Help:      "LLM circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)
