package reservations

import (
	"strings"
	"time"
)

// DateLayout is the canonical day-key format for appointment dates. The
// queue engine treats the date as an opaque key; time zone resolution is
// the caller's responsibility.
const DateLayout = "2006-01-02"

// TimeSlots is the fixed list of bookable appointment times.
var TimeSlots = []string{
	"08:00", "09:00", "10:00", "11:00",
	"13:00", "14:00", "15:00", "16:00", "17:00",
}

// IsValidTimeSlot reports whether slot is one of the bookable times.
func IsValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Reservation is a patient booking holding a per-day queue ticket.
type Reservation struct {
	ID              string    `json:"id"`
	QueueNumber     string    `json:"queue_number"`
	PatientName     string    `json:"patient_name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	DoctorID        *string   `json:"doctor_id"`
	ServiceID       *string   `json:"service_id"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	Status          Status    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateReservationRequest carries a new booking. The queue number is
// assigned by the booking flow, not by the caller.
type CreateReservationRequest struct {
	QueueNumber     string `json:"-"`
	PatientName     string `json:"patient_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	DoctorID        string `json:"doctor_id"`
	ServiceID       string `json:"service_id"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Notes           string `json:"notes"`
}

// Validate validates the create reservation request
func (r *CreateReservationRequest) Validate() error {
	if strings.TrimSpace(r.PatientName) == "" {
		return ErrInvalidPatientName
	}
	if r.Email == "" && r.Phone == "" {
		return ErrMissingContact
	}
	if strings.TrimSpace(r.DoctorID) == "" {
		return ErrMissingDoctor
	}
	if strings.TrimSpace(r.ServiceID) == "" {
		return ErrMissingService
	}
	if _, err := time.Parse(DateLayout, r.AppointmentDate); err != nil {
		return ErrInvalidDate
	}
	if !IsValidTimeSlot(r.AppointmentTime) {
		return ErrInvalidTimeSlot
	}
	return nil
}

// UpdateReservationRequest carries admin edits to a reservation. Zero-value
// fields are left unchanged.
type UpdateReservationRequest struct {
	PatientName     string `json:"patient_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	DoctorID        string `json:"doctor_id"`
	ServiceID       string `json:"service_id"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Notes           string `json:"notes"`
}

// Filter narrows reservation listings. Each field is optional; set fields
// are combined with AND.
type Filter struct {
	DoctorID string
	Status   Status
	Date     string
}
