package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kliniksehat/clinic-platform/internal/doctors"
	"github.com/kliniksehat/clinic-platform/internal/notify"
	"github.com/kliniksehat/clinic-platform/internal/queue"
	"github.com/kliniksehat/clinic-platform/internal/reservations"
	"github.com/kliniksehat/clinic-platform/internal/services"
	"github.com/kliniksehat/clinic-platform/pkg/logging"
)

type channelSender struct {
	sent chan notify.EmailMessage
}

func (c *channelSender) Send(ctx context.Context, msg notify.EmailMessage) error {
	c.sent <- msg
	return nil
}

type countingInvalidator struct {
	mu    sync.Mutex
	dates []string
}

func (c *countingInvalidator) Invalidate(ctx context.Context, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dates = append(c.dates, date)
}

type fixture struct {
	service     *Service
	repo        *reservations.InMemoryRepository
	doctorID    string
	serviceID   string
	sender      *channelSender
	invalidator *countingInvalidator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := logging.New("error")

	doctorRepo := doctors.NewInMemoryRepository()
	doc, err := doctorRepo.Create(ctx, &doctors.CreateDoctorRequest{
		Name:      "dr. Sari Wijaya",
		Specialty: "Dokter Umum",
	})
	require.NoError(t, err)

	serviceRepo := services.NewInMemoryRepository()
	svc, err := serviceRepo.Create(ctx, &services.CreateServiceRequest{
		Name:            "Pemeriksaan Umum",
		Price:           150000,
		DurationMinutes: 15,
	})
	require.NoError(t, err)

	repo := reservations.NewInMemoryRepository()
	sender := &channelSender{sent: make(chan notify.EmailMessage, 8)}
	invalidator := &countingInvalidator{}

	bookingSvc := NewService(
		repo,
		doctorRepo,
		serviceRepo,
		queue.NewTicketGenerator(repo, nil),
		notify.NewService(sender, logger),
		invalidator,
		logger,
	)
	return &fixture{
		service:     bookingSvc,
		repo:        repo,
		doctorID:    doc.ID,
		serviceID:   svc.ID,
		sender:      sender,
		invalidator: invalidator,
	}
}

func (f *fixture) request() *reservations.CreateReservationRequest {
	return &reservations.CreateReservationRequest{
		PatientName:     "Budi Hartono",
		Email:           "budi@example.com",
		DoctorID:        f.doctorID,
		ServiceID:       f.serviceID,
		AppointmentDate: "2026-08-31",
		AppointmentTime: "09:00",
	}
}

func (f *fixture) waitForEmail(t *testing.T) notify.EmailMessage {
	t.Helper()
	select {
	case msg := <-f.sender.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation email never sent")
		return notify.EmailMessage{}
	}
}

func TestBookAssignsSequentialTickets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.Book(ctx, f.request())
	require.NoError(t, err)
	assert.Equal(t, "A001", first.QueueNumber)
	assert.Equal(t, reservations.StatusMenunggu, first.Status)

	second, err := f.service.Book(ctx, f.request())
	require.NoError(t, err)
	assert.Equal(t, "A002", second.QueueNumber)
}

func TestBookSendsConfirmation(t *testing.T) {
	f := newFixture(t)

	res, err := f.service.Book(context.Background(), f.request())
	require.NoError(t, err)

	msg := f.waitForEmail(t)
	assert.Equal(t, "budi@example.com", msg.To)
	assert.Contains(t, msg.Subject, res.QueueNumber)
	assert.Contains(t, msg.Body, "dr. Sari Wijaya")
	assert.Contains(t, msg.Body, "Pemeriksaan Umum")
}

func TestBookInvalidatesBoardCache(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Book(context.Background(), f.request())
	require.NoError(t, err)

	f.invalidator.mu.Lock()
	defer f.invalidator.mu.Unlock()
	assert.Equal(t, []string{"2026-08-31"}, f.invalidator.dates)
}

func TestBookUnknownDoctor(t *testing.T) {
	f := newFixture(t)

	req := f.request()
	req.DoctorID = "no-such-doctor"
	_, err := f.service.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestBookUnknownService(t *testing.T) {
	f := newFixture(t)

	req := f.request()
	req.ServiceID = "no-such-service"
	_, err := f.service.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestBookRejectsInvalidRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.request()
	req.PatientName = "  "
	_, err := f.service.Book(ctx, req)
	assert.ErrorIs(t, err, reservations.ErrInvalidPatientName)

	req = f.request()
	req.Email = ""
	req.Phone = ""
	_, err = f.service.Book(ctx, req)
	assert.ErrorIs(t, err, reservations.ErrMissingContact)

	req = f.request()
	req.AppointmentTime = "12:00"
	_, err = f.service.Book(ctx, req)
	assert.ErrorIs(t, err, reservations.ErrInvalidTimeSlot)
}
