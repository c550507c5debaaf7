package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	EmailsSent      *prometheus.CounterVec
	EmailsFailed    prometheus.Counter
	CampaignRuns    prometheus.Counter
	SendDuration    prometheus.Histogram
	ActiveCampaigns prometheus.Gauge
}

// NewMetrics creates new Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		EmailsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "outrexo_emails_sent_total",
			Help: "Total number of emails delivered, by channel",
		}, []string{"channel"}),
		EmailsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "outrexo_emails_failed_total",
			Help: "Total number of email delivery failures",
		}),
		CampaignRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "outrexo_campaign_runs_total",
			Help: "Total number of campaign send runs started",
		}),
		SendDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "outrexo_send_duration_seconds",
			Help:    "Time spent on a single per-recipient send attempt",
			Buckets: prometheus.DefBuckets,
		}),
		ActiveCampaigns: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "outrexo_active_campaign_runs",
			Help: "Number of campaign send runs currently in flight",
		}),
	}
}
