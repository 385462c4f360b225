package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records per-entity sync outcomes and delivery attempts.
type SyncMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	delivery *prometheus.CounterVec
}

// NewSyncMetrics registers the sync metrics on the provided registerer.
// A nil registerer yields a no-op recorder, which keeps tests quiet.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_duration_seconds",
		Help:    "Duration of entity refreshes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_success_total",
		Help: "Successful entity refreshes.",
	}, []string{"entity"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_failure_total",
		Help: "Failed entity refreshes.",
	}, []string{"entity"})
	delivery := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pedido_delivery_total",
		Help: "Outbound order delivery attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, success, failure, delivery)
	return &SyncMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		delivery: delivery,
	}
}

// ObserveDuration records how long a refresh of the named entity took.
func (m *SyncMetrics) ObserveDuration(entity string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(entity)).Observe(d.Seconds())
}

// IncSuccess counts a successful refresh for the named entity.
func (m *SyncMetrics) IncSuccess(entity string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(entity)).Inc()
}

// IncFailure counts a failed refresh for the named entity.
func (m *SyncMetrics) IncFailure(entity string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(entity)).Inc()
}

// IncDelivery counts an outbound delivery attempt by outcome
// (enviado, guardado_local, error_servidor, sin_conexion).
func (m *SyncMetrics) IncDelivery(outcome string) {
	if m == nil || m.delivery == nil {
		return
	}
	m.delivery.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
