package queue

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/kliniksehat/clinic-platform/internal/observability/metrics"
	"github.com/kliniksehat/clinic-platform/internal/reservations"
	"github.com/kliniksehat/clinic-platform/pkg/logging"
)

// BoardComputer produces queue snapshots; satisfied by Board and
// CachedBoard.
type BoardComputer interface {
	Compute(ctx context.Context, date string) (*Snapshot, error)
}

// Handler serves the public queue board and the admin dashboard.
type Handler struct {
	board    BoardComputer
	stats    *StatsService
	gatherer prometheus.Gatherer
	location *time.Location
	logger   *logging.Logger
	now      func() time.Time
}

func NewHandler(board BoardComputer, stats *StatsService, gatherer prometheus.Gatherer, location *time.Location, logger *logging.Logger) *Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		board:    board,
		stats:    stats,
		gatherer: gatherer,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// Routes returns a chi router with the queue endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/status", h.GetStatus)
	r.Get("/dashboard", h.GetDashboard)
	return r
}

// GetStatus returns the live board for a day.
// GET /queue/status?date=2026-08-31 (defaults to today, clinic time)
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	date, ok := h.requestDate(w, r)
	if !ok {
		return
	}

	snap, err := h.board.Compute(r.Context(), date)
	if err != nil {
		h.logger.Error("failed to compute queue board", "date", date, "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}

// DashboardResponse is the admin dashboard payload: the day's stats plus
// an in-process view of board computation latency.
type DashboardResponse struct {
	*DashboardStats
	BoardLatency BoardLatencySnapshot `json:"board_latency"`
}

// GetDashboard returns the day's operational stats.
// GET /queue/dashboard?date=2026-08-31 (defaults to today, clinic time)
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	date, ok := h.requestDate(w, r)
	if !ok {
		return
	}

	stats, err := h.stats.Dashboard(r.Context(), date)
	if err != nil {
		h.logger.Error("failed to compute dashboard stats", "date", date, "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	resp := DashboardResponse{
		DashboardStats: stats,
		BoardLatency:   snapshotBoardLatency(h.gatherer),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// requestDate resolves the ?date= query parameter, defaulting to today in
// the clinic's timezone. Writes a 400 and returns false on a bad date.
func (h *Handler) requestDate(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		return h.now().In(h.location).Format(reservations.DateLayout), true
	}
	if _, err := time.Parse(reservations.DateLayout, raw); err != nil {
		http.Error(w, `{"error":"invalid date, use YYYY-MM-DD"}`, http.StatusBadRequest)
		return "", false
	}
	return raw, true
}

// BoardLatencySnapshot summarizes the board latency histogram gathered
// from the process registry.
type BoardLatencySnapshot struct {
	Total int64   `json:"total"`
	P90Ms float64 `json:"p90_ms"`
	P95Ms float64 `json:"p95_ms"`
}

func snapshotBoardLatency(gatherer prometheus.Gatherer) BoardLatencySnapshot {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mfs, err := gatherer.Gather()
	if err != nil {
		return BoardLatencySnapshot{}
	}

	var family *dto.MetricFamily
	for _, mf := range mfs {
		if mf != nil && mf.GetName() == metrics.BoardLatencyMetric {
			family = mf
			break
		}
	}
	if family == nil || len(family.Metric) == 0 {
		return BoardLatencySnapshot{}
	}

	hist := family.Metric[0].GetHistogram()
	if hist == nil || hist.GetSampleCount() == 0 {
		return BoardLatencySnapshot{}
	}

	uppers := make([]float64, 0, len(hist.Bucket))
	cumulative := map[float64]uint64{}
	for _, b := range hist.Bucket {
		if b == nil {
			continue
		}
		uppers = append(uppers, b.GetUpperBound())
		cumulative[b.GetUpperBound()] = b.GetCumulativeCount()
	}
	sort.Float64s(uppers)

	total := hist.GetSampleCount()
	return BoardLatencySnapshot{
		Total: int64(total),
		P90Ms: quantileUpperBoundMs(uppers, cumulative, total, 0.90),
		P95Ms: quantileUpperBoundMs(uppers, cumulative, total, 0.95),
	}
}

// quantileUpperBoundMs returns the upper bound, in milliseconds, of the
// first bucket whose cumulative count covers the quantile.
func quantileUpperBoundMs(uppers []float64, cumulative map[float64]uint64, total uint64, q float64) float64 {
	threshold := uint64(math.Ceil(q * float64(total)))
	for _, upper := range uppers {
		if cumulative[upper] >= threshold {
			if math.IsInf(upper, 1) {
				break
			}
			return upper * 1000
		}
	}
	// Everything landed in the +Inf overflow bucket.
	if len(uppers) > 0 && !math.IsInf(uppers[len(uppers)-1], 1) {
		return uppers[len(uppers)-1] * 1000
	}
	return 0
}
