// Package metrics holds the Prometheus instruments for registry lookups.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "registry_lookup"

// Lookup outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeDegraded = "degraded"
)

// Link sources.
const (
	SourceSuggested = "suggested"
	SourceFallback  = "fallback"
)

// Metrics holds all lookup Prometheus metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Lookups         *prometheus.CounterVec
	LinkResolutions *prometheus.CounterVec
	SessionsActive  prometheus.Gauge
	LookupDuration  prometheus.Histogram
	FieldMisses     *prometheus.CounterVec
}

// New registers the lookup metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Total lookups by outcome",
		}, []string{"outcome"}),
		LinkResolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "link_resolutions_total",
			Help:      "Profile links resolved by source",
		}, []string{"source"}),
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "browser_sessions_active",
			Help:      "Browser sessions currently open",
		}),
		LookupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_duration_seconds",
			Help:      "Wall time of a full lookup",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 45, 60, 90, 120},
		}),
		FieldMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_misses_total",
			Help:      "Fields that fell back to their sentinel value",
		}, []string{"field"}),
	}
}

func (m *Metrics) RecordLookup(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(outcome).Inc()
	if d > 0 {
		m.LookupDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) RecordLink(suggested bool) {
	if m == nil {
		return
	}
	source := SourceFallback
	if suggested {
		source = SourceSuggested
	}
	m.LinkResolutions.WithLabelValues(source).Inc()
}

func (m *Metrics) RecordFieldMiss(field string) {
	if m == nil {
		return
	}
	m.FieldMisses.WithLabelValues(field).Inc()
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.SessionsActive.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.SessionsActive.Dec()
}
