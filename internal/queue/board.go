package queue

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kliniksehat/clinic-platform/internal/doctors"
	"github.com/kliniksehat/clinic-platform/internal/observability/metrics"
	"github.com/kliniksehat/clinic-platform/internal/reservations"
)

var boardTracer = otel.Tracer("klinik.internal.queue.board")

// DoctorLister is the slice of the doctor repository the board reads.
type DoctorLister interface {
	List(ctx context.Context, activeOnly bool) ([]*doctors.Doctor, error)
}

// BoardStore is the slice of the reservation repository the board reads.
type BoardStore interface {
	ListActiveByDate(ctx context.Context, date string) ([]*reservations.Reservation, error)
}

// DoctorQueue is one row on the waiting-room display: a doctor's current
// ticket, how many patients still wait, and the projected wait.
type DoctorQueue struct {
	DoctorID      string  `json:"doctor_id"`
	DoctorName    string  `json:"doctor_name"`
	Specialty     string  `json:"specialty"`
	CurrentQueue  *string `json:"current_queue"`
	WaitingCount  int     `json:"waiting_count"`
	EstimatedTime string  `json:"estimated_time"`
}

// Snapshot is the full board for one day.
type Snapshot struct {
	Date        string        `json:"date"`
	Doctors     []DoctorQueue `json:"doctors"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// Board computes queue snapshots from current reservation state.
type Board struct {
	store             BoardStore
	doctors           DoctorLister
	minutesPerPatient int
	metrics           *metrics.QueueMetrics
	now               func() time.Time
}

func NewBoard(store BoardStore, doctorRepo DoctorLister, minutesPerPatient int, m *metrics.QueueMetrics) *Board {
	if minutesPerPatient <= 0 {
		minutesPerPatient = 15
	}
	return &Board{
		store:             store,
		doctors:           doctorRepo,
		minutesPerPatient: minutesPerPatient,
		metrics:           m,
		now:               time.Now,
	}
}

// Compute builds the board for date. One row per active doctor, ordered by
// doctor name; a doctor with no active reservations shows a nil current
// ticket and a zero wait. Reservations pointing at a deleted or inactive
// doctor are left off the board. Either both reads succeed or the whole
// snapshot fails.
func (b *Board) Compute(ctx context.Context, date string) (*Snapshot, error) {
	ctx, span := boardTracer.Start(ctx, "queue.board")
	defer span.End()
	span.SetAttributes(attribute.String("klinik.queue.date", date))

	started := b.now()

	active, err := b.store.ListActiveByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	docs, err := b.doctors.List(ctx, true)
	if err != nil {
		return nil, err
	}

	byDoctor := make(map[string][]*reservations.Reservation, len(docs))
	for _, res := range active {
		if res.DoctorID == nil {
			continue
		}
		byDoctor[*res.DoctorID] = append(byDoctor[*res.DoctorID], res)
	}

	rows := make([]DoctorQueue, 0, len(docs))
	for _, doc := range docs {
		queue := byDoctor[doc.ID]
		row := DoctorQueue{
			DoctorID:      doc.ID,
			DoctorName:    doc.Name,
			Specialty:     doc.Specialty,
			WaitingCount:  len(queue),
			EstimatedTime: fmt.Sprintf("%d menit", len(queue)*b.minutesPerPatient),
		}
		// Active reservations arrive ordered by ticket, so the head of
		// the queue is the smallest ticket of the day.
		if len(queue) > 0 {
			ticket := queue[0].QueueNumber
			row.CurrentQueue = &ticket
		}
		rows = append(rows, row)
	}

	b.metrics.ObserveBoardLatency(b.now().Sub(started).Seconds())
	span.SetAttributes(attribute.Int("klinik.queue.doctor_count", len(rows)))

	return &Snapshot{
		Date:        date,
		Doctors:     rows,
		GeneratedAt: b.now().UTC(),
	}, nil
}
