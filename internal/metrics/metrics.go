// Package metrics exposes Prometheus counters for the webhook pipeline.
// Storage and forwarding failures never fail the provider ack, so these
// counters are the only place those failures become visible.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	WebhookEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Total number of webhook deliveries received",
		},
	)

	WebhookMalformedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_malformed_total",
			Help: "Total number of empty or malformed webhook bodies",
		},
	)

	ReportsInsertedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reports_inserted_total",
			Help: "Total number of report rows inserted",
		},
	)

	ReportsUpdatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reports_updated_total",
			Help: "Total number of report rows updated by re-delivered events",
		},
	)

	StorageFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storage_failures_total",
			Help: "Total number of swallowed storage failures",
		},
	)

	ForwardsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_forwards_total",
			Help: "Total number of reply payloads forwarded to the dashboard",
		},
	)

	ForwardFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_forward_failures_total",
			Help: "Total number of failed dashboard forward attempts",
		},
	)

	AutoRepliesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auto_replies_total",
			Help: "Total number of auto-reply messages sent",
		},
	)

	AutoReplyFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auto_reply_failures_total",
			Help: "Total number of failed auto-reply attempts",
		},
	)
)

var registerOnce sync.Once

// Register registers all pipeline metrics with the default registry.
// Safe to call more than once.
func Register() {
	registerOnce.Do(register)
}

func register() {
	prometheus.MustRegister(
		WebhookEventsTotal,
		WebhookMalformedTotal,
		ReportsInsertedTotal,
		ReportsUpdatedTotal,
		StorageFailuresTotal,
		ForwardsTotal,
		ForwardFailuresTotal,
		AutoRepliesTotal,
		AutoReplyFailuresTotal,
	)
}
