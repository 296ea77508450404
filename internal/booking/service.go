// Package booking orchestrates the patient booking flow: ticket
// assignment, persistence, cache invalidation, and the confirmation
// email.
package booking

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kliniksehat/clinic-platform/internal/doctors"
	"github.com/kliniksehat/clinic-platform/internal/notify"
	"github.com/kliniksehat/clinic-platform/internal/queue"
	"github.com/kliniksehat/clinic-platform/internal/reservations"
	"github.com/kliniksehat/clinic-platform/internal/services"
	"github.com/kliniksehat/clinic-platform/pkg/logging"
)

var bookingTracer = otel.Tracer("klinik.internal.booking")

var (
	ErrDoctorNotFound  = errors.New("booking: doctor not found")
	ErrServiceNotFound = errors.New("booking: service not found")
)

// BoardInvalidator drops a cached queue board after the queue changes.
// Satisfied by queue.CachedBoard.
type BoardInvalidator interface {
	Invalidate(ctx context.Context, date string)
}

// Service coordinates a booking from request to confirmation.
type Service struct {
	repo     reservations.Repository
	doctors  doctors.Repository
	services services.Repository
	tickets  *queue.TicketGenerator
	notifier *notify.Service
	board    BoardInvalidator
	logger   *logging.Logger

	emailTimeout time.Duration
}

func NewService(
	repo reservations.Repository,
	doctorRepo doctors.Repository,
	serviceRepo services.Repository,
	tickets *queue.TicketGenerator,
	notifier *notify.Service,
	board BoardInvalidator,
	logger *logging.Logger,
) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:         repo,
		doctors:      doctorRepo,
		services:     serviceRepo,
		tickets:      tickets,
		notifier:     notifier,
		board:        board,
		logger:       logger,
		emailTimeout: 10 * time.Second,
	}
}

// Book validates the request, assigns the day's next queue number, and
// persists the reservation. The confirmation email goes out in the
// background; a failed email never fails the booking.
func (s *Service) Book(ctx context.Context, req *reservations.CreateReservationRequest) (*reservations.Reservation, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.book")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	doctor, err := s.doctors.GetByID(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, doctors.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	service, err := s.services.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	ticket, err := s.tickets.Next(ctx, req.AppointmentDate)
	if err != nil {
		return nil, err
	}
	req.QueueNumber = ticket

	res, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("klinik.queue.ticket", res.QueueNumber),
		attribute.String("klinik.reservation.id", res.ID),
	)
	s.logger.Info("reservation booked",
		"reservation_id", res.ID,
		"queue_number", res.QueueNumber,
		"date", res.AppointmentDate,
		"doctor_id", req.DoctorID,
	)

	if s.board != nil {
		s.board.Invalidate(ctx, res.AppointmentDate)
	}

	if s.notifier != nil {
		go s.sendConfirmation(res, doctor.Name, service.Name)
	}
	return res, nil
}

// Get returns a reservation for the public status lookup.
func (s *Service) Get(ctx context.Context, id string) (*reservations.Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) sendConfirmation(res *reservations.Reservation, doctorName, serviceName string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.emailTimeout)
	defer cancel()

	if err := s.notifier.SendBookingConfirmation(ctx, res, doctorName, serviceName); err != nil {
		s.logger.Error("failed to send booking confirmation",
			"reservation_id", res.ID,
			"error", err,
		)
	}
}
