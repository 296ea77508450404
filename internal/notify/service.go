package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/kliniksehat/clinic-platform/internal/reservations"
	"github.com/kliniksehat/clinic-platform/pkg/logging"
)

// Service sends patient-facing notifications for the booking flow.
type Service struct {
	email  EmailSender
	logger *logging.Logger
}

// NewService creates a notification service. A nil sender disables email.
func NewService(email EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:  email,
		logger: logger,
	}
}

// SendBookingConfirmation emails the patient their queue number after a
// successful booking. Patients who booked with a phone number only are
// skipped.
func (s *Service) SendBookingConfirmation(ctx context.Context, res *reservations.Reservation, doctorName, serviceName string) error {
	if s.email == nil {
		s.logger.Debug("notify: email sender not configured, skipping confirmation")
		return nil
	}
	if res.Email == "" {
		s.logger.Debug("notify: reservation has no email, skipping confirmation", "reservation_id", res.ID)
		return nil
	}

	msg := EmailMessage{
		To:      res.Email,
		ToName:  res.PatientName,
		Subject: fmt.Sprintf("Konfirmasi Reservasi - Nomor Antrian %s", res.QueueNumber),
		Body:    buildConfirmationBody(res, doctorName, serviceName),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: booking confirmation: %w", err)
	}
	return nil
}

func buildConfirmationBody(res *reservations.Reservation, doctorName, serviceName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Halo %s,\n\n", res.PatientName)
	fmt.Fprintf(&b, "Reservasi Anda telah kami terima.\n\n")
	fmt.Fprintf(&b, "Nomor antrian: %s\n", res.QueueNumber)
	fmt.Fprintf(&b, "Tanggal: %s\n", res.AppointmentDate)
	fmt.Fprintf(&b, "Jam: %s\n", res.AppointmentTime)
	if doctorName != "" {
		fmt.Fprintf(&b, "Dokter: %s\n", doctorName)
	}
	if serviceName != "" {
		fmt.Fprintf(&b, "Layanan: %s\n", serviceName)
	}
	b.WriteString("\nMohon datang 10 menit sebelum jam yang dipilih.\n\nTerima kasih,\nKlinik Sehat")
	return b.String()
}
