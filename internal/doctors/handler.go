package doctors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kliniksehat/clinic-platform/pkg/logging"
)

// Handler provides HTTP endpoints for doctor management. Listing is
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

// PublicRoutes returns the patient-facing doctor routes.
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListDoctors)
	r.Get("/{id}", h.GetDoctor)
	return r
}

// AdminRoutes returns the admin CRUD routes.
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateDoctor)
	r.Put("/{id}", h.UpdateDoctor)
	r.Delete("/{id}", h.DeleteDoctor)
	return r
}

// ListDoctors returns doctors ordered by name.
// GET /doctors?active=true
func (h *Handler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	list, err := h.repo.List(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("failed to list doctors", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*Doctor{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// GetDoctor returns one doctor.
// GET /doctors/{id}
func (h *Handler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, id, err, "failed to get doctor")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(doc)
}

// CreateDoctor registers a new doctor.
// POST /admin/doctors
func (h *Handler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	doc, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, "", err, "failed to create doctor")
		return
	}
	h.logger.Info("doctor created", "doctor_id", doc.ID, "name", doc.Name)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(doc)
}

// UpdateDoctor applies edits to a doctor.
// PUT /admin/doctors/{id}
func (h *Handler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	doc, err := h.repo.Update(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, id, err, "failed to update doctor")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(doc)
}

// DeleteDoctor removes a doctor. Existing reservations keep their slot;
// the database sets their doctor reference to null.
// DELETE /admin/doctors/{id}
func (h *Handler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeError(w, id, err, "failed to delete doctor")
		return
	}
	h.logger.Info("doctor deleted", "doctor_id", id)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, id string, err error, logMsg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, `{"error":"doctor not found"}`, http.StatusNotFound)
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidSpecialty):
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
	default:
		h.logger.Error(logMsg, "doctor_id", id, "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
	}
}
