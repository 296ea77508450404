package metrics

import "github.com/prometheus/client_golang/prometheus"

// BoardLatencyMetric is the fully-qualified histogram name the dashboard
// reads back from the gatherer.
const BoardLatencyMetric = "klinik_queue_board_latency_seconds"

// QueueMetrics exposes counters/histograms for the queue engine.
type QueueMetrics struct {
	ticketsIssued *prometheus.CounterVec
	boardLatency  prometheus.Histogram
}

func NewQueueMetrics(reg prometheus.Registerer) *QueueMetrics {
	m := &QueueMetrics{
		ticketsIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "klinik",
			Subsystem: "queue",
			Name:      "tickets_issued_total",
			Help:      "Queue tickets issued, by letter prefix and issuance mode",
		}, []string{"prefix", "mode"}),
		boardLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "klinik",
			Subsystem: "queue",
			Name:      "board_latency_seconds",
			Help:      "Latency of queue board snapshot computation",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.ticketsIssued, m.boardLatency)
	return m
}

// ObserveTicket records an issued ticket. mode is "sequential" for the
// normal path or "fallback" for the collision path.
func (m *QueueMetrics) ObserveTicket(prefix string, fallback bool) {
	if m == nil {
		return
	}
	mode := "sequential"
	if fallback {
		mode = "fallback"
	}
	m.ticketsIssued.WithLabelValues(prefix, mode).Inc()
}

// ObserveBoardLatency records one board computation.
func (m *QueueMetrics) ObserveBoardLatency(seconds float64) {
	if m == nil {
		return
	}
	m.boardLatency.Observe(seconds)
}
