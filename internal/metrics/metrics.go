// Package metrics holds the prometheus collectors shared by the client,
// the fallback path and the push subscriber.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry       *prometheus.Registry
	RemoteRequests *prometheus.CounterVec
	FallbackSaves  *prometheus.CounterVec
	SyncTasks      *prometheus.CounterVec
	PushOutcomes   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RemoteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tortas",
			Name:      "remote_requests_total",
			Help:      "Calls to the remote dish API by call and outcome.",
		}, []string{"call", "outcome"}),
		FallbackSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tortas",
			Name:      "fallback_saves_total",
			Help:      "Pending dishes written to the local fallback store.",
		}, []string{"outcome"}),
		SyncTasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tortas",
			Name:      "sync_registrations_total",
			Help:      "Background sync tasks registered after a failed create.",
		}, []string{"outcome"}),
		PushOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tortas",
			Name:      "push_subscriber_outcomes_total",
			Help:      "Terminal states reached by the notification subscriber.",
		}, []string{"state"}),
	}
	m.registry.MustRegister(m.RemoteRequests, m.FallbackSaves, m.SyncTasks, m.PushOutcomes)
	return m
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) ObserveRemote(call string, err error) {
	if m == nil {
		return
	}
	m.RemoteRequests.WithLabelValues(call, outcome(err)).Inc()
}

func (m *Metrics) ObserveFallback(err error) {
	if m == nil {
		return
	}
	m.FallbackSaves.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) ObserveSync(err error) {
	if m == nil {
		return
	}
	m.SyncTasks.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) ObservePush(state string) {
	if m == nil {
		return
	}
	m.PushOutcomes.WithLabelValues(state).Inc()
}
