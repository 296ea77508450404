// Package router wires the HTTP surface: public booking and queue
// endpoints, and the JWT-protected admin API.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kliniksehat/clinic-platform/internal/booking"
	"github.com/kliniksehat/clinic-platform/internal/doctors"
	httpmiddleware "github.com/kliniksehat/clinic-platform/internal/http/middleware"
	"github.com/kliniksehat/clinic-platform/internal/queue"
	"github.com/kliniksehat/clinic-platform/internal/reservations"
	"github.com/kliniksehat/clinic-platform/internal/services"
	"github.com/kliniksehat/clinic-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger *logging.Logger

	BookingHandler     *booking.Handler
	QueueHandler       *queue.Handler
	DoctorsHandler     *doctors.Handler
	ServicesHandler    *services.Handler
	AdminReservations  *reservations.Handler
	MetricsHandler     http.Handler
	AdminAuthSecret    string
	CORSAllowedOrigins []string

	// Requests/sec and burst for the public booking endpoint.
	BookingRateLimit float64
	BookingBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)

		if cfg.QueueHandler != nil {
			public.Mount("/queue", cfg.QueueHandler.Routes())
		}
		if cfg.DoctorsHandler != nil {
			public.Mount("/doctors", cfg.DoctorsHandler.PublicRoutes())
		}
		if cfg.ServicesHandler != nil {
			public.Mount("/services", cfg.ServicesHandler.PublicRoutes())
		}
		if cfg.BookingHandler != nil {
			rate, burst := cfg.BookingRateLimit, cfg.BookingBurst
			if rate <= 0 {
				rate = 5
			}
			if burst <= 0 {
				burst = 10
			}
			public.With(httpmiddleware.RateLimit(rate, burst)).
				Mount("/reservations", cfg.BookingHandler.Routes())
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Admin routes, protected by HMAC JWT
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			if cfg.AdminReservations != nil {
				admin.Mount("/reservations", cfg.AdminReservations.Routes())
			}
			if cfg.DoctorsHandler != nil {
				admin.Mount("/doctors", cfg.DoctorsHandler.AdminRoutes())
			}
			if cfg.ServicesHandler != nil {
				admin.Mount("/services", cfg.ServicesHandler.AdminRoutes())
			}
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
