package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kliniksehat/clinic-platform/internal/reservations"
	"github.com/kliniksehat/clinic-platform/pkg/logging"
)

// Handler provides the public booking endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Routes returns a chi router with the booking routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateReservation)
	r.Get("/{id}", h.GetReservation)
	return r
}

// CreateReservation books an appointment and returns the assigned queue
// number.
// POST /reservations
func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req reservations.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	res, err := h.service.Book(r.Context(), &req)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		h.logger.Error("failed to encode reservation", "reservation_id", res.ID, "error", err)
	}
}

// GetReservation returns a single reservation so patients can re-check
// their queue number.
// GET /reservations/{id}
func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, reservations.ErrNotFound) {
			http.Error(w, `{"error":"reservation not found"}`, http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load reservation", "reservation_id", id, "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

func (h *Handler) writeBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reservations.ErrInvalidPatientName),
		errors.Is(err, reservations.ErrMissingContact),
		errors.Is(err, reservations.ErrMissingDoctor),
		errors.Is(err, reservations.ErrMissingService),
		errors.Is(err, reservations.ErrInvalidDate),
		errors.Is(err, reservations.ErrInvalidTimeSlot):
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
	case errors.Is(err, ErrDoctorNotFound), errors.Is(err, ErrServiceNotFound):
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusUnprocessableEntity)
	default:
		h.logger.Error("booking failed", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
	}
}
