package reservations

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for reservation storage
type Repository interface {
	Create(ctx context.Context, req *CreateReservationRequest) (*Reservation, error)
	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, error)
	Update(ctx context.Context, id string, req *UpdateReservationRequest) (*Reservation, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Reservation, error)
	Delete(ctx context.Context, id string) error

	// Queue engine reads.
	CountByDate(ctx context.Context, date string) (int64, error)
	FindByQueueNumber(ctx context.Context, date, ticket string) (*Reservation, error)
	ListActiveByDate(ctx context.Context, date string) ([]*Reservation, error)
	ListCreatedSince(ctx context.Context, since time.Time) ([]*Reservation, error)
}

// InMemoryRepository is a Repository backed by a map, used in tests and
// local development.
type InMemoryRepository struct {
	mu           sync.RWMutex
	reservations map[string]*Reservation
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		reservations: make(map[string]*Reservation),
	}
}

// Create stores a new reservation with the pre-assigned queue number.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateReservationRequest) (*Reservation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doctorID := req.DoctorID
	serviceID := req.ServiceID
	res := &Reservation{
		ID:              uuid.New().String(),
		QueueNumber:     req.QueueNumber,
		PatientName:     req.PatientName,
		Email:           req.Email,
		Phone:           req.Phone,
		DoctorID:        &doctorID,
		ServiceID:       &serviceID,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Status:          StatusMenunggu,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	r.mu.Lock()
	r.reservations[res.ID] = res
	r.mu.Unlock()

	return res, nil
}

// GetByID retrieves a reservation by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *res
	return &copied, nil
}

// List returns reservations matching the filter, newest first.
func (r *InMemoryRepository) List(ctx context.Context, filter Filter) ([]*Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Reservation
	for _, res := range r.reservations {
		if !matches(res, filter) {
			continue
		}
		copied := *res
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update applies non-empty fields of req to the stored reservation.
func (r *InMemoryRepository) Update(ctx context.Context, id string, req *UpdateReservationRequest) (*Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	if req.PatientName != "" {
		res.PatientName = req.PatientName
	}
	if req.Email != "" {
		res.Email = req.Email
	}
	if req.Phone != "" {
		res.Phone = req.Phone
	}
	if req.DoctorID != "" {
		doctorID := req.DoctorID
		res.DoctorID = &doctorID
	}
	if req.ServiceID != "" {
		serviceID := req.ServiceID
		res.ServiceID = &serviceID
	}
	if req.AppointmentDate != "" {
		if _, err := time.Parse(DateLayout, req.AppointmentDate); err != nil {
			return nil, ErrInvalidDate
		}
		res.AppointmentDate = req.AppointmentDate
	}
	if req.AppointmentTime != "" {
		if !IsValidTimeSlot(req.AppointmentTime) {
			return nil, ErrInvalidTimeSlot
		}
		res.AppointmentTime = req.AppointmentTime
	}
	if req.Notes != "" {
		res.Notes = req.Notes
	}
	res.UpdatedAt = time.Now().UTC()
	copied := *res
	return &copied, nil
}

// UpdateStatus moves a reservation through its lifecycle.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Reservation, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !CanTransition(res.Status, status) {
		return nil, ErrInvalidTransition
	}
	res.Status = status
	res.UpdatedAt = time.Now().UTC()
	copied := *res
	return &copied, nil
}

// Delete removes a reservation.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reservations[id]; !ok {
		return ErrNotFound
	}
	delete(r.reservations, id)
	return nil
}

// CountByDate counts all reservations recorded for the given day,
// regardless of status. The queue generator derives the next ordinal
// from this count.
func (r *InMemoryRepository) CountByDate(ctx context.Context, date string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, res := range r.reservations {
		if res.AppointmentDate == date {
			n++
		}
	}
	return n, nil
}

// FindByQueueNumber looks up the reservation holding ticket on date.
func (r *InMemoryRepository) FindByQueueNumber(ctx context.Context, date, ticket string) (*Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, res := range r.reservations {
		if res.AppointmentDate == date && res.QueueNumber == ticket {
			copied := *res
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// ListActiveByDate returns the day's reservations still occupying a queue
// slot (Menunggu or Dikonfirmasi).
func (r *InMemoryRepository) ListActiveByDate(ctx context.Context, date string) ([]*Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Reservation
	for _, res := range r.reservations {
		if res.AppointmentDate == date && res.Status.Active() {
			copied := *res
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QueueNumber < out[j].QueueNumber
	})
	return out, nil
}

// ListCreatedSince returns reservations created at or after the cutoff,
// newest first. The dashboard uses this for trailing-week figures.
func (r *InMemoryRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]*Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Reservation
	for _, res := range r.reservations {
		if !res.CreatedAt.Before(since) {
			copied := *res
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func matches(res *Reservation, filter Filter) bool {
	if filter.DoctorID != "" {
		if res.DoctorID == nil || *res.DoctorID != filter.DoctorID {
			return false
		}
	}
	if filter.Status != "" && res.Status != filter.Status {
		return false
	}
	if filter.Date != "" && res.AppointmentDate != filter.Date {
		return false
	}
	return true
}
