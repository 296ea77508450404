package services

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kliniksehat/clinic-platform/pkg/logging"
)

// Handler provides HTTP endpoints for the service catalog. Listing is
// public; mutations are mounted behind admin auth by the router.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// PublicRoutes returns the patient-facing catalog routes.
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListServices)
	r.Get("/{id}", h.GetService)
	return r
}

// AdminRoutes returns the admin CRUD routes.
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateService)
	r.Put("/{id}", h.UpdateService)
	r.Delete("/{id}", h.DeleteService)
	return r
}

// ListServices returns the catalog ordered by name.
// GET /services
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*Service{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// GetService returns one catalog entry.
// GET /services/{id}
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	svc, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, id, err, "failed to get service")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(svc)
}

// CreateService adds a catalog entry.
// POST /admin/services
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	svc, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, "", err, "failed to create service")
		return
	}
	h.logger.Info("service created", "service_id", svc.ID, "name", svc.Name)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(svc)
}

// UpdateService applies edits to a catalog entry.
// PUT /admin/services/{id}
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	svc, err := h.repo.Update(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, id, err, "failed to update service")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(svc)
}

// DeleteService removes a catalog entry.
// DELETE /admin/services/{id}
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeError(w, id, err, "failed to delete service")
		return
	}
	h.logger.Info("service deleted", "service_id", id)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, id string, err error, logMsg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, `{"error":"service not found"}`, http.StatusNotFound)
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidPrice), errors.Is(err, ErrInvalidDuration):
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
	default:
		h.logger.Error(logMsg, "service_id", id, "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
	}
}
