// Package metrics define los contadores Prometheus de la API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa los colectores. Todos los métodos toleran receptor nil.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	AuthFailures        *prometheus.CounterVec
	AccessDenied        *prometheus.CounterVec
	UpsertOutcomes      *prometheus.CounterVec
	SyncRows            *prometheus.CounterVec
}

// New registra los colectores en reg con el prefijo dado (p. ej. "backoffice").
func New(prefix string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		AuthFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_auth_failures_total",
			Help: "Rejected credentials by reason",
		}, []string{"reason"}),
		AccessDenied: f.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_access_denied_total",
			Help: "Access control denials by required permission and reason",
		}, []string{"permission", "reason"}),
		UpsertOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_upsert_outcomes_total",
			Help: "Upsert results by resource and outcome",
		}, []string{"resource", "outcome"}),
		SyncRows: f.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_sync_rows_total",
			Help: "Rows delivered by the sync delta per entity kind",
		}, []string{"kind"}),
	}
}

// ObserveHTTP registra una petición HTTP terminada.
func (m *Metrics) ObserveHTTP(method, path, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordAuthFailure(reason string) {
	if m == nil {
		return
	}
	m.AuthFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordAccessDenied(permission, reason string) {
	if m == nil {
		return
	}
	m.AccessDenied.WithLabelValues(permission, reason).Inc()
}

func (m *Metrics) RecordUpsert(resource, outcome string) {
	if m == nil {
		return
	}
	m.UpsertOutcomes.WithLabelValues(resource, outcome).Inc()
}

func (m *Metrics) RecordSyncRows(kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.SyncRows.WithLabelValues(kind).Add(float64(n))
}
