package host

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics for contract invocations.
type Metrics struct {
	invocationsTotal   *prometheus.CounterVec
	invocationDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the invocation metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		invocationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pairstate_invocations_total",
			Help: "Contract invocations, labeled by function, outcome and error code.",
		}, []string{"function", "outcome", "code"}),
		invocationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pairstate_invocation_duration_seconds",
			Help:    "Wall time of a contract invocation including commit.",
			Buckets: prometheus.DefBuckets,
		}, []string{"function"}),
	}
	reg.MustRegister(m.invocationsTotal, m.invocationDuration)
	return m
}

func (m *Metrics) observe(function, outcome string, code uint32, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.invocationsTotal.WithLabelValues(function, outcome, strconv.FormatUint(uint64(code), 10)).Inc()
	m.invocationDuration.WithLabelValues(function).Observe(elapsed.Seconds())
}
