package bench

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusSink exports observations as metrics on a caller-supplied
// registerer.
type PrometheusSink struct {
	duration *prometheus.HistogramVec
	last     *prometheus.GaugeVec
}

func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	factory := promauto.With(reg)
	return &PrometheusSink{
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name: "svsim_circuit_duration_seconds",
			Help: "Mean gate-application time of the standard circuit",
			// 1us to ~4.5min
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 15),
		}, []string{"strategy"}),
		last: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "svsim_circuit_last_duration_seconds",
			Help: "Most recent standard-circuit time per qubit count",
		}, []string{"strategy", "qubits"}),
	}
}

func (s *PrometheusSink) Record(_ context.Context, obs Observation) error {
	secs := obs.Elapsed.Seconds()
	s.duration.WithLabelValues(obs.Strategy).Observe(secs)
	s.last.WithLabelValues(obs.Strategy, strconv.Itoa(obs.NumQubits)).Set(secs)
	return nil
}

func (s *PrometheusSink) Close() error { return nil }
