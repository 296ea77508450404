package services

import (
	"strings"
	"time"
)

// Service is a bookable clinic service (consultation, lab work, etc).
type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Price in rupiah.
	Price           int64     `json:"price"`
	DurationMinutes int       `json:"duration"`
	Icon            string    `json:"icon"`
	Color           string    `json:"color"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateServiceRequest carries a new service record.
type CreateServiceRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           int64  `json:"price"`
	DurationMinutes int    `json:"duration"`
	Icon            string `json:"icon"`
	Color           string `json:"color"`
}

// Validate validates the create service request
func (r *CreateServiceRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if r.Price < 0 {
		return ErrInvalidPrice
	}
	if r.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	return nil
}

// UpdateServiceRequest carries edits to a service. Nil fields are left
// unchanged.
type UpdateServiceRequest struct {
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	Price           *int64  `json:"price"`
	DurationMinutes *int    `json:"duration"`
	Icon            string  `json:"icon"`
	Color           string  `json:"color"`
}
