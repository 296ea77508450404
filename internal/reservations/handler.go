package reservations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kliniksehat/clinic-platform/pkg/logging"
)

// BoardInvalidator drops the cached queue board for a day after an admin
// edit changes the queue.
type BoardInvalidator interface {
	Invalidate(ctx context.Context, date string)
}

// Handler provides admin HTTP endpoints for reservation management.
type Handler struct {
	repo   Repository
	board  BoardInvalidator
	logger *logging.Logger
}

func NewHandler(repo Repository, board BoardInvalidator, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:   repo,
		board:  board,
		logger: logger,
	}
}

// Routes returns a chi router with admin reservation routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListReservations)
	r.Get("/{id}", h.GetReservation)
	r.Put("/{id}", h.UpdateReservation)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Delete("/{id}", h.DeleteReservation)
	return r
}

// ListReservations returns reservations, optionally filtered.
// GET /admin/reservations?doctor_id=&status=&date=
func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := Filter{
		DoctorID: q.Get("doctor_id"),
		Status:   Status(q.Get("status")),
		Date:     q.Get("date"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		http.Error(w, `{"error":"invalid status"}`, http.StatusBadRequest)
		return
	}

	list, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list reservations", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*Reservation{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// GetReservation returns one reservation.
// GET /admin/reservations/{id}
func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, id, err, "failed to get reservation")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

// UpdateReservation applies admin edits to a reservation.
// PUT /admin/reservations/{id}
func (h *Handler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	res, err := h.repo.Update(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, id, err, "failed to update reservation")
		return
	}
	h.invalidate(r.Context(), res.AppointmentDate)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

// UpdateStatusRequest is the body for a status change.
type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

// UpdateStatus moves a reservation through its lifecycle.
// PATCH /admin/reservations/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	res, err := h.repo.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeError(w, id, err, "failed to update reservation status")
		return
	}
	h.invalidate(r.Context(), res.AppointmentDate)

	h.logger.Info("reservation status updated",
		"reservation_id", id,
		"status", string(res.Status),
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

// DeleteReservation removes a reservation.
// DELETE /admin/reservations/{id}
func (h *Handler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, id, err, "failed to load reservation")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeError(w, id, err, "failed to delete reservation")
		return
	}
	h.invalidate(r.Context(), res.AppointmentDate)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) invalidate(ctx context.Context, date string) {
	if h.board != nil {
		h.board.Invalidate(ctx, date)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, id string, err error, logMsg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, `{"error":"reservation not found"}`, http.StatusNotFound)
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidTimeSlot):
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
	case errors.Is(err, ErrInvalidTransition):
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusConflict)
	default:
		h.logger.Error(logMsg, "reservation_id", id, "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
	}
}
