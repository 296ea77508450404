// Package queue implements the clinic's daily queue engine: ticket
// numbering, the live status board, and dashboard statistics.
package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kliniksehat/clinic-platform/internal/observability/metrics"
	"github.com/kliniksehat/clinic-platform/internal/reservations"
)

var ticketTracer = otel.Tracer("klinik.internal.queue.ticket")

const (
	// ticketsPerLetter is how many sequential numbers each letter prefix
	// holds before rolling to the next one (A999 -> B001).
	ticketsPerLetter = 999
	letterCount      = 26
)

// TicketStore is the slice of the reservation repository the generator
// reads from.
type TicketStore interface {
	CountByDate(ctx context.Context, date string) (int64, error)
	FindByQueueNumber(ctx context.Context, date, ticket string) (*reservations.Reservation, error)
}

// TicketGenerator issues the next queue number for a given day.
type TicketGenerator struct {
	store   TicketStore
	metrics *metrics.QueueMetrics
	now     func() time.Time
}

func NewTicketGenerator(store TicketStore, m *metrics.QueueMetrics) *TicketGenerator {
	return &TicketGenerator{
		store:   store,
		metrics: m,
		now:     time.Now,
	}
}

// Next returns the queue number for the next reservation on date.
//
// The ordinal is derived from the day's reservation count: the n-th
// reservation of the day gets ticket letter('A'+(n-1)/999) followed by a
// zero-padded position within that letter block. Before handing the
// ticket out the generator re-checks storage; if another writer already
// holds the candidate, it falls back to the letter plus the last three
// digits of the current timestamp.
func (g *TicketGenerator) Next(ctx context.Context, date string) (string, error) {
	ctx, span := ticketTracer.Start(ctx, "queue.next_ticket")
	defer span.End()
	span.SetAttributes(attribute.String("klinik.queue.date", date))

	count, err := g.store.CountByDate(ctx, date)
	if err != nil {
		return "", err
	}

	ordinal := count + 1
	letter := byte('A' + ((ordinal-1)/ticketsPerLetter)%letterCount)
	number := (ordinal-1)%ticketsPerLetter + 1
	candidate := fmt.Sprintf("%c%03d", letter, number)

	_, err = g.store.FindByQueueNumber(ctx, date, candidate)
	if errors.Is(err, reservations.ErrNotFound) {
		span.SetAttributes(attribute.String("klinik.queue.ticket", candidate))
		g.metrics.ObserveTicket(string(letter), false)
		return candidate, nil
	}
	if err != nil {
		return "", err
	}

	// Candidate is taken: a concurrent booking won the race. Keep the
	// letter block, replace the position with the millisecond tail so the
	// two writers cannot produce the same ticket again.
	fallback := fmt.Sprintf("%c%03d", letter, g.now().UnixMilli()%1000)
	span.SetAttributes(
		attribute.String("klinik.queue.ticket", fallback),
		attribute.Bool("klinik.queue.fallback", true),
	)
	g.metrics.ObserveTicket(string(letter), true)
	return fallback, nil
}
