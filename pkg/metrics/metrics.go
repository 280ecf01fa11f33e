// pkg/metrics/metrics.go

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Webhook outcome labels.
const (
	WebhookUnauthorized = "unauthorized"
	WebhookInvalid      = "invalid"
	WebhookIgnored      = "ignored"
	WebhookSent         = "sent"
	WebhookFailed       = "failed"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)

	receiptsRendered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receipts_rendered_total",
			Help: "Receipts rendered, by whether a logo was placed",
		},
		[]string{"logo"},
	)

	webhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Webhook deliveries by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(receiptsRendered)
	prometheus.MustRegister(webhookEvents)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveWebhook(outcome string) {
	webhookEvents.WithLabelValues(outcome).Inc()
}

func ObserveRender(withLogo bool) {
	receiptsRendered.WithLabelValues(strconv.FormatBool(withLogo)).Inc()
}

// ObserveRequest records one finished HTTP request.
func ObserveRequest(handler, method string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(handler, method, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(handler, method).Observe(elapsed.Seconds())
}
