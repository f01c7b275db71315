package learning

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes learner activity as Prometheus collectors.
type Metrics struct {
	updatesTotal    prometheus.Counter
	explorationRate prometheus.Gauge
	rewards         prometheus.Histogram
}

// NewMetrics creates learner metrics and registers them with reg when
// it is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		updatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fcrew",
			Subsystem: "learning",
			Name:      "updates_total",
			Help:      "Total number of Q-table updates applied",
		}),
		explorationRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fcrew",
			Subsystem: "learning",
			Name:      "exploration_rate",
			Help:      "Current exploration rate of the epsilon-greedy policy",
		}),
		rewards: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fcrew",
			Subsystem: "learning",
			Name:      "reward",
			Help:      "Distribution of rewards observed in experiences",
			Buckets:   prometheus.LinearBuckets(-1.0, 0.25, 9),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.updatesTotal, m.explorationRate, m.rewards)
	}
	return m
}

func (m *Metrics) observeUpdate(reward, explorationRate float64) {
	m.updatesTotal.Inc()
	m.explorationRate.Set(explorationRate)
	m.rewards.Observe(reward)
}
