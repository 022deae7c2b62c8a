// Package metrics exposes the Prometheus collectors shared across services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	WebhookResults *prometheus.CounterVec
	BalanceCredits prometheus.Counter
	BalanceDebits  prometheus.Counter
	BalanceDrift   prometheus.Gauge
	AIRequests     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitracker_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fitracker_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		WebhookResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitracker_webhook_notifications_total",
			Help: "Payment webhook notifications by reconciliation result.",
		}, []string{"result"}),
		BalanceCredits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fitracker_balance_credits_total",
			Help: "Completed transaction credits applied to account balances.",
		}),
		BalanceDebits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fitracker_balance_debits_total",
			Help: "AI usage debits applied to account balances.",
		}),
		BalanceDrift: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fitracker_balance_drift_accounts",
			Help: "Accounts whose stored balance disagrees with the ledger-derived balance, per audit run.",
		}),
		AIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitracker_ai_requests_total",
			Help: "AI completion requests by model and outcome.",
		}, []string{"model", "outcome"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.WebhookResults,
		m.BalanceCredits,
		m.BalanceDebits,
		m.BalanceDrift,
		m.AIRequests,
	)
	return m
}

var Module = fx.Module("metrics",
	fx.Provide(New),
)
