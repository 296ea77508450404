package doctors

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for doctor storage
type Repository interface {
	Create(ctx context.Context, req *CreateDoctorRequest) (*Doctor, error)
	GetByID(ctx context.Context, id string) (*Doctor, error)
	// List returns doctors ordered by name; activeOnly restricts to
	// doctors currently taking patients.
	List(ctx context.Context, activeOnly bool) ([]*Doctor, error)
	Update(ctx context.Context, id string, req *UpdateDoctorRequest) (*Doctor, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is a Repository backed by a map, used in tests and
// local development.
type InMemoryRepository struct {
	mu      sync.RWMutex
	doctors map[string]*Doctor
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		doctors: make(map[string]*Doctor),
	}
}

// Create stores a new doctor.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateDoctorRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	status := true
	if req.Status != nil {
		status = *req.Status
	}
	now := time.Now().UTC()
	doc := &Doctor{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Specialty: req.Specialty,
		Status:    status,
		Schedule:  req.Schedule,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.ImageURL != "" {
		img := req.ImageURL
		doc.ImageURL = &img
	}

	r.mu.Lock()
	r.doctors[doc.ID] = doc
	r.mu.Unlock()

	return doc, nil
}

// GetByID retrieves a doctor by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

// List returns doctors sorted by name.
func (r *InMemoryRepository) List(ctx context.Context, activeOnly bool) ([]*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Doctor
	for _, doc := range r.doctors {
		if activeOnly && !doc.Status {
			continue
		}
		copied := *doc
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Update applies set fields of req to the stored doctor.
func (r *InMemoryRepository) Update(ctx context.Context, id string, req *UpdateDoctorRequest) (*Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	if req.Name != "" {
		doc.Name = req.Name
	}
	if req.Specialty != "" {
		doc.Specialty = req.Specialty
	}
	if req.Status != nil {
		doc.Status = *req.Status
	}
	if req.ImageURL != nil {
		doc.ImageURL = req.ImageURL
	}
	if req.Schedule != nil {
		doc.Schedule = *req.Schedule
	}
	doc.UpdatedAt = time.Now().UTC()
	copied := *doc
	return &copied, nil
}

// Delete removes a doctor.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.doctors[id]; !ok {
		return ErrNotFound
	}
	delete(r.doctors, id)
	return nil
}
