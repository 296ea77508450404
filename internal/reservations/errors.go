package reservations

import "errors"

var (
	// ErrInvalidPatientName is returned when the patient name is missing
	ErrInvalidPatientName = errors.New("patient name is required")

	// ErrMissingContact is returned when both email and phone are missing
	ErrMissingContact = errors.New("either email or phone is required")

	// ErrMissingDoctor is returned when no doctor is selected
	ErrMissingDoctor = errors.New("doctor is required")

	// ErrMissingService is returned when no service is selected
	ErrMissingService = errors.New("service is required")

	// ErrInvalidDate is returned when the appointment date is not YYYY-MM-DD
	ErrInvalidDate = errors.New("appointment date must be YYYY-MM-DD")

	// ErrInvalidTimeSlot is returned when the time is not a bookable slot
	ErrInvalidTimeSlot = errors.New("appointment time is not an available slot")

	// ErrInvalidStatus is returned for an unknown lifecycle state
	ErrInvalidStatus = errors.New("unknown reservation status")

	// ErrInvalidTransition is returned when a status change violates the lifecycle
	ErrInvalidTransition = errors.New("status transition not allowed")

	// ErrNotFound is returned when a reservation does not exist
	ErrNotFound = errors.New("reservation not found")
)
