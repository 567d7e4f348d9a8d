package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the service's prometheus collectors.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ProductsRoutedTotal *prometheus.CounterVec
	InvoicesIssuedTotal prometheus.Counter
	EmailsSentTotal     prometheus.Counter
	EmailsFailedTotal   prometheus.Counter
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		ProductsRoutedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "products_routed_total",
				Help: "Total number of products routed, by action",
			},
			[]string{"action"},
		),
		InvoicesIssuedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "invoices_issued_total",
				Help: "Total number of invoices issued",
			},
		),
		EmailsSentTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "emails_sent_total",
				Help: "Total number of emails delivered to the provider",
			},
		),
		EmailsFailedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "emails_failed_total",
				Help: "Total number of email delivery failures",
			},
		),
	}

	m.Registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ProductsRoutedTotal,
		m.InvoicesIssuedTotal,
		m.EmailsSentTotal,
		m.EmailsFailedTotal,
	)
	return m
}
