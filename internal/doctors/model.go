package doctors

import (
	"strings"
	"time"
)

// TimeRange is a practice window within a day, 24-hour "15:04" strings.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Schedule maps weekdays to practice hours. Nil means the doctor does not
// practice that day. Keys keep the Indonesian day names used across the
// patient-facing app.
type Schedule struct {
	Senin  *TimeRange `json:"senin"`
	Selasa *TimeRange `json:"selasa"`
	Rabu   *TimeRange `json:"rabu"`
	Kamis  *TimeRange `json:"kamis"`
	Jumat  *TimeRange `json:"jumat"`
	Sabtu  *TimeRange `json:"sabtu"`
	Minggu *TimeRange `json:"minggu"`
}

// ForWeekday returns the practice hours for a weekday.
func (s *Schedule) ForWeekday(day time.Weekday) *TimeRange {
	if s == nil {
		return nil
	}
	switch day {
	case time.Monday:
		return s.Senin
	case time.Tuesday:
		return s.Selasa
	case time.Wednesday:
		return s.Rabu
	case time.Thursday:
		return s.Kamis
	case time.Friday:
		return s.Jumat
	case time.Saturday:
		return s.Sabtu
	case time.Sunday:
		return s.Minggu
	default:
		return nil
	}
}

// Doctor is a practitioner patients can book.
type Doctor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	Status    bool      `json:"status"`
	ImageURL  *string   `json:"image_url"`
	Schedule  Schedule  `json:"schedule"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateDoctorRequest carries a new doctor record.
type CreateDoctorRequest struct {
	Name      string   `json:"name"`
	Specialty string   `json:"specialty"`
	Status    *bool    `json:"status"`
	ImageURL  string   `json:"image_url"`
	Schedule  Schedule `json:"schedule"`
}

// Validate validates the create doctor request
func (r *CreateDoctorRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(r.Specialty) == "" {
		return ErrInvalidSpecialty
	}
	return nil
}

// UpdateDoctorRequest carries edits to a doctor. Nil/empty fields are left
// unchanged.
type UpdateDoctorRequest struct {
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	Status    *bool     `json:"status"`
	ImageURL  *string   `json:"image_url"`
	Schedule  *Schedule `json:"schedule"`
}
