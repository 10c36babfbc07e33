package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Connection metrics
var (
	ConnectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smsgate_connections_total",
			Help: "Total number of connections established",
		},
		[]string{"protocol"},
	)

	ConnectionsCurrent = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "smsgate_connections_current",
			Help: "Current number of active connections",
		},
		[]string{"protocol"},
	)

	AuthenticationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smsgate_authentication_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"protocol", "result"},
	)

	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smsgate_commands_total",
			Help: "Total number of protocol commands received",
		},
		[]string{"protocol", "command"},
	)
)

// Message store metrics
var (
	MessagesStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smsgate_messages_stored_total",
			Help: "Total number of messages inserted into the store",
		},
		[]string{"direction"},
	)

	MessagesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "smsgate_messages_deleted_total",
			Help: "Total number of messages deleted from the store",
		},
	)

	MessagesDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smsgate_messages_discarded_total",
			Help: "Total number of messages discarded before insertion",
		},
		[]string{"reason"},
	)

	StoreMessagesCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "smsgate_store_messages",
			Help: "Number of messages currently held in the store",
		},
	)

	StoreBytesCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "smsgate_store_bytes",
			Help: "Number of message bytes currently held in the store",
		},
	)

	DKIMVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smsgate_dkim_verifications_total",
			Help: "DKIM signature verification results for received mail",
		},
		[]string{"result"},
	)
)

// SMS metrics
var (
	SMSRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smsgate_sms_requests_total",
			Help: "Total number of outbound SMS requests",
		},
		[]string{"status"},
	)

	SMSSegmentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "smsgate_sms_segments_total",
			Help: "Total number of SMS segments handed to the pager",
		},
	)

	PagerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smsgate_pager_duration_seconds",
			Help:    "Duration of pager invocations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"pager", "status"},
	)
)
