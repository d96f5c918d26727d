// Package metrics exposes Prometheus counters for account operations and mail delivery.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	apperrors "github.com/tendant/simple-account/pkg/errors"
)

// Mail delivery statuses.
const (
	MailSent     = "sent"
	MailFailed   = "failed"
	MailDropped  = "dropped"
	MailEnqueued = "enqueued"
)

// Metrics holds the application counters. A nil *Metrics records nothing.
type Metrics struct {
	AuthOperations *prometheus.CounterVec
	MailDeliveries *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates a private registry with the Go and process collectors plus the
// application counters.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := NewMetrics(registry)
	m.gatherer = registry
	return m
}

// NewMetrics creates and registers the application counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AuthOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "account_operations_total",
				Help: "Total number of account operations by operation and outcome code",
			},
			[]string{"operation", "outcome"},
		),
		MailDeliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "account_mail_deliveries_total",
				Help: "Total number of mail deliveries by kind and status",
			},
			[]string{"kind", "status"},
		),
	}

	reg.MustRegister(m.AuthOperations)
	reg.MustRegister(m.MailDeliveries)

	return m
}

// ObserveOperation counts one operation. The outcome is "ok" or the error code.
func (m *Metrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(apperrors.GetCode(err))
	}
	m.AuthOperations.WithLabelValues(operation, outcome).Inc()
}

// ObserveMail counts one mail delivery event.
func (m *Metrics) ObserveMail(kind, status string) {
	if m == nil {
		return
	}
	m.MailDeliveries.WithLabelValues(kind, status).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
