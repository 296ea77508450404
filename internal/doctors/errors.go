package doctors

import "errors"

var (
	// ErrInvalidName is returned when the doctor name is missing
	ErrInvalidName = errors.New("doctor name is required")

	// ErrInvalidSpecialty is returned when the specialty is missing
	ErrInvalidSpecialty = errors.New("specialty is required")

	// ErrNotFound is returned when a doctor does not exist
	ErrNotFound = errors.New("doctor not found")
)
