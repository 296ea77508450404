package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveTicketCountsByPrefixAndMode(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewQueueMetrics(reg)

	m.ObserveTicket("A", false)
	m.ObserveTicket("A", false)
	m.ObserveTicket("A", true)
	m.ObserveTicket("B", false)

	expected := `
# HELP klinik_queue_tickets_issued_total Queue tickets issued, by letter prefix and issuance mode
# TYPE klinik_queue_tickets_issued_total counter
klinik_queue_tickets_issued_total{mode="fallback",prefix="A"} 1
klinik_queue_tickets_issued_total{mode="sequential",prefix="A"} 2
klinik_queue_tickets_issued_total{mode="sequential",prefix="B"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "klinik_queue_tickets_issued_total"); err != nil {
		t.Fatalf("unexpected ticket counter state: %v", err)
	}
}

func TestObserveBoardLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewQueueMetrics(reg)

	m.ObserveBoardLatency(0.01)
	m.ObserveBoardLatency(0.02)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() == BoardLatencyMetric {
			if got := fam.GetMetric()[0].GetHistogram().GetSampleCount(); got != 2 {
				t.Fatalf("expected 2 samples, got %d", got)
			}
			return
		}
	}
	t.Fatalf("metric %s not gathered", BoardLatencyMetric)
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *QueueMetrics
	m.ObserveTicket("A", false)
	m.ObserveBoardLatency(0.5)
}
