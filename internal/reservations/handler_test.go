package reservations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kliniksehat/clinic-platform/pkg/logging"
)

type recordingInvalidator struct {
	mu    sync.Mutex
	dates []string
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, date string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dates = append(r.dates, date)
}

func newAdminRouter(t *testing.T) (*InMemoryRepository, *recordingInvalidator, http.Handler) {
	t.Helper()
	repo := NewInMemoryRepository()
	inv := &recordingInvalidator{}
	h := NewHandler(repo, inv, logging.New("error"))
	return repo, inv, h.Routes()
}

func seedReservation(t *testing.T, repo *InMemoryRepository) *Reservation {
	t.Helper()
	res, err := repo.Create(context.Background(), validRequest())
	require.NoError(t, err)
	return res
}

func TestListReservationsEndpoint(t *testing.T) {
	repo, _, router := newAdminRouter(t)
	seedReservation(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/?date=2026-08-31", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var list []*Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestListReservationsEmptyIsArray(t *testing.T) {
	_, _, router := newAdminRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestListReservationsRejectsUnknownStatus(t *testing.T) {
	_, _, router := newAdminRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/?status=Pending", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	repo, inv, router := newAdminRouter(t)
	res := seedReservation(t, repo)

	req := httptest.NewRequest(http.MethodPatch, "/"+res.ID+"/status",
		strings.NewReader(`{"status":"Dikonfirmasi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, StatusDikonfirmasi, got.Status)

	inv.mu.Lock()
	defer inv.mu.Unlock()
	assert.Equal(t, []string{"2026-08-31"}, inv.dates)
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	repo, _, router := newAdminRouter(t)
	res := seedReservation(t, repo)

	req := httptest.NewRequest(http.MethodPatch, "/"+res.ID+"/status",
		strings.NewReader(`{"status":"Selesai"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	repo, _, router := newAdminRouter(t)
	res := seedReservation(t, repo)

	req := httptest.NewRequest(http.MethodPatch, "/"+res.ID+"/status",
		strings.NewReader(`{"status":"Pending"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateReservationEndpoint(t *testing.T) {
	repo, _, router := newAdminRouter(t)
	res := seedReservation(t, repo)

	req := httptest.NewRequest(http.MethodPut, "/"+res.ID,
		strings.NewReader(`{"appointment_time":"14:00"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "14:00", got.AppointmentTime)
}

func TestDeleteReservationEndpoint(t *testing.T) {
	repo, inv, router := newAdminRouter(t)
	res := seedReservation(t, repo)

	req := httptest.NewRequest(http.MethodDelete, "/"+res.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, err := repo.GetByID(context.Background(), res.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	inv.mu.Lock()
	defer inv.mu.Unlock()
	assert.Equal(t, []string{"2026-08-31"}, inv.dates)
}

func TestReservationEndpointsNotFound(t *testing.T) {
	_, _, router := newAdminRouter(t)

	for _, tc := range []struct {
		method, path, body string
	}{
		{http.MethodGet, "/missing", ""},
		{http.MethodPut, "/missing", `{"notes":"x"}`},
		{http.MethodPatch, "/missing/status", `{"status":"Dikonfirmasi"}`},
		{http.MethodDelete, "/missing", ""},
	} {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
	}
}
