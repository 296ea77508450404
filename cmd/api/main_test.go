package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kliniksehat/clinic-platform/internal/observability/metrics"
)

func TestMetricsEndpointExportsQueueCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewQueueMetrics(reg)
	m.ObserveTicket("A", false)

	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "klinik_queue_tickets_issued_total") {
		t.Fatalf("expected tickets counter to be exported")
	}
}
