package sqlpage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomePassthrough = "passthrough"
	outcomePaged       = "paged"
	outcomeEmpty       = "empty"
	outcomeError       = "error"

	lookupHit  = "hit"
	lookupMiss = "miss"
)

// Metrics counts intercepted calls by outcome and count statement cache
// lookups by result.
type Metrics struct {
	queries      *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		queries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sqlpage_queries_total",
				Help: "Total number of intercepted queries by outcome",
			},
			[]string{"dialect", "outcome"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sqlpage_count_statement_cache_lookups_total",
				Help: "Total number of count statement cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) observeQuery(dialect, outcome string) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(dialect, outcome).Inc()
}

func (m *Metrics) observeCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := lookupMiss
	if hit {
		result = lookupHit
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
