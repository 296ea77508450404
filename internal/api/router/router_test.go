package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kliniksehat/clinic-platform/internal/booking"
	"github.com/kliniksehat/clinic-platform/internal/doctors"
	"github.com/kliniksehat/clinic-platform/internal/queue"
	"github.com/kliniksehat/clinic-platform/internal/reservations"
	"github.com/kliniksehat/clinic-platform/internal/services"
	"github.com/kliniksehat/clinic-platform/pkg/logging"
)

const testSecret = "test-secret"

type testEnv struct {
	router   http.Handler
	doctorID string
}

func newTestRouter(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := logging.New("error")

	doctorRepo := doctors.NewInMemoryRepository()
	doc, err := doctorRepo.Create(ctx, &doctors.CreateDoctorRequest{
		Name: "dr. Sari Wijaya", Specialty: "Dokter Umum",
	})
	require.NoError(t, err)

	serviceRepo := services.NewInMemoryRepository()
	svc, err := serviceRepo.Create(ctx, &services.CreateServiceRequest{
		Name: "Pemeriksaan Umum", Price: 150000, DurationMinutes: 15,
	})
	require.NoError(t, err)
	_ = svc

	repo := reservations.NewInMemoryRepository()
	board := queue.NewBoard(repo, doctorRepo, 15, nil)
	stats := queue.NewStatsService(repo, doctorRepo, 15)

	bookingSvc := booking.NewService(
		repo, doctorRepo, serviceRepo,
		queue.NewTicketGenerator(repo, nil),
		nil, nil, logger,
	)

	r := New(&Config{
		Logger:            logger,
		BookingHandler:    booking.NewHandler(bookingSvc, logger),
		QueueHandler:      queue.NewHandler(board, stats, nil, time.UTC, logger),
		DoctorsHandler:    doctors.NewHandler(doctorRepo, logger),
		ServicesHandler:   services.NewHandler(serviceRepo, logger),
		AdminReservations: reservations.NewHandler(repo, nil, logger),
		AdminAuthSecret:   testSecret,
	})
	return &testEnv{router: r, doctorID: doc.ID}
}

func adminToken(t *testing.T) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestPublicRoutesMounted(t *testing.T) {
	env := newTestRouter(t)

	for _, path := range []string{
		"/queue/status?date=2026-08-31",
		"/queue/dashboard?date=2026-08-31",
		"/doctors",
		"/services",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "GET %s", path)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/reservations", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/reservations", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBookingThroughRouter(t *testing.T) {
	env := newTestRouter(t)

	// Find the seeded service through the public catalog.
	req := httptest.NewRequest(http.MethodGet, "/services", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var catalog []*services.Service
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalog))
	require.NotEmpty(t, catalog)

	body, err := json.Marshal(map[string]string{
		"patient_name":     "Budi Hartono",
		"email":            "budi@example.com",
		"doctor_id":        env.doctorID,
		"service_id":       catalog[0].ID,
		"appointment_date": "2026-08-31",
		"appointment_time": "09:00",
	})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(string(body)))
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var res reservations.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "A001", res.QueueNumber)

	// The new booking shows up on the public queue board.
	req = httptest.NewRequest(http.MethodGet, "/queue/status?date=2026-08-31", nil)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap queue.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Len(t, snap.Doctors, 1)
	require.NotNil(t, snap.Doctors[0].CurrentQueue)
	assert.Equal(t, "A001", *snap.Doctors[0].CurrentQueue)
	assert.Equal(t, "15 menit", snap.Doctors[0].EstimatedTime)
}
