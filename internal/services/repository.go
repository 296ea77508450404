package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for service storage
type Repository interface {
	Create(ctx context.Context, req *CreateServiceRequest) (*Service, error)
	GetByID(ctx context.Context, id string) (*Service, error)
	// List returns services ordered by name.
	List(ctx context.Context) ([]*Service, error)
	Update(ctx context.Context, id string, req *UpdateServiceRequest) (*Service, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is a Repository backed by a map, used in tests and
// local development.
type InMemoryRepository struct {
	mu       sync.RWMutex
	services map[string]*Service
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		services: make(map[string]*Service),
	}
}

// Create stores a new service.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateServiceRequest) (*Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	svc := &Service{
		ID:              uuid.New().String(),
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		Icon:            req.Icon,
		Color:           req.Color,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	r.mu.Lock()
	r.services[svc.ID] = svc
	r.mu.Unlock()

	return svc, nil
}

// GetByID retrieves a service by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	svc, ok := r.services[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *svc
	return &copied, nil
}

// List returns services sorted by name.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Service, 0, len(r.services))
	for _, svc := range r.services {
		copied := *svc
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Update applies set fields of req to the stored service.
func (r *InMemoryRepository) Update(ctx context.Context, id string, req *UpdateServiceRequest) (*Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	svc, ok := r.services[id]
	if !ok {
		return nil, ErrNotFound
	}
	if req.Name != "" {
		svc.Name = req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, ErrInvalidPrice
		}
		svc.Price = *req.Price
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, ErrInvalidDuration
		}
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Icon != "" {
		svc.Icon = req.Icon
	}
	if req.Color != "" {
		svc.Color = req.Color
	}
	svc.UpdatedAt = time.Now().UTC()
	copied := *svc
	return &copied, nil
}

// Delete removes a service.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.services[id]; !ok {
		return ErrNotFound
	}
	delete(r.services, id)
	return nil
}
