package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spa_http_requests_total",
			Help: "HTTP requests served, by route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spa_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spa_bookings_total",
			Help: "Booking attempts by result",
		},
		[]string{"result"},
	)

	CancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spa_cancellations_total",
			Help: "Appointments cancelled by their clients",
		},
	)

	PaymentsFinalized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spa_payments_finalized_total",
			Help: "Payments finalized, by method",
		},
		[]string{"method"},
	)

	RefundsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spa_refunds_failed_total",
			Help: "Card charges that could not be refunded after a failed settlement",
		},
	)

	AppointmentsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spa_appointments_swept_total",
			Help: "Stale unpaid appointments purged by the maintenance sweep",
		},
	)

	AuditEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spa_audit_events_dropped_total",
			Help: "Audit events discarded because the queue was full",
		},
	)
)
