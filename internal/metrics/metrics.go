// Package metrics holds the Prometheus collectors of the sharebook server.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/sharebook/internal/events"
	"github.com/mmynk/sharebook/internal/models"
)

const namespace = "sharebook"

// Metrics groups the server's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	RPCs          *prometheus.CounterVec
	RPCDuration   *prometheus.HistogramVec
	Events        *prometheus.CounterVec
	Invitations   *prometheus.CounterVec
	Quotes        *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	Streams       prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RPCs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPCs handled, by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Duration of handled RPCs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entity_events_published_total",
			Help:      "Entity updates published on the event bus.",
		}, []string{"type", "operation"}),
		Invitations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invitation_recipients_total",
			Help:      "Invitation recipients, by outcome.",
		}, []string{"result"}),
		Quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_quotes_total",
			Help:      "Price quotes calculated, by feature.",
		}, []string{"feature"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "share_notifications_total",
			Help:      "Share notification mails, by state.",
		}, []string{"state"}),
		Streams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_streams_open",
			Help:      "Open entity event streams.",
		}),
	}
	m.registry.MustRegister(
		m.RPCs,
		m.RPCDuration,
		m.Events,
		m.Invitations,
		m.Quotes,
		m.Notifications,
		m.Streams,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveEvents counts published updates. It is meant to be subscribed to the
// event bus.
func (m *Metrics) ObserveEvents(_ context.Context, updates []events.EntityUpdate) {
	for _, u := range updates {
		m.Events.WithLabelValues(string(u.Type), string(u.Operation)).Inc()
	}
}

// ObserveInvitation counts the outcome of one invitation request.
func (m *Metrics) ObserveInvitation(result models.InvitationResult) {
	m.Invitations.WithLabelValues("invited").Add(float64(len(result.Invited)))
	m.Invitations.WithLabelValues("existing").Add(float64(len(result.Existing)))
	m.Invitations.WithLabelValues("invalid").Add(float64(len(result.Invalid)))
}
