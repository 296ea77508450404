package doctors

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kliniksehat/clinic-platform/pkg/logging"
)

func newDoctorHandler(t *testing.T) (*InMemoryRepository, *Handler) {
	t.Helper()
	repo := NewInMemoryRepository()
	return repo, NewHandler(repo, logging.New("error"))
}

func TestListDoctorsEndpoint(t *testing.T) {
	repo, h := newDoctorHandler(t)

	inactive := false
	_, err := repo.Create(context.Background(), &CreateDoctorRequest{
		Name: "dr. Sari Wijaya", Specialty: "Dokter Umum",
	})
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), &CreateDoctorRequest{
		Name: "dr. Andi Pratama", Specialty: "Dokter Anak", Status: &inactive,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/?active=true", nil)
	rec := httptest.NewRecorder()
	h.PublicRoutes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var list []*Doctor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "dr. Sari Wijaya", list[0].Name)
}

func TestCreateDoctorEndpoint(t *testing.T) {
	_, h := newDoctorHandler(t)

	body := `{
		"name": "drg. Budi Santoso",
		"specialty": "Dokter Gigi",
		"schedule": {"senin": {"start": "08:00", "end": "14:00"}}
	}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.AdminRoutes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var doc Doctor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.NotEmpty(t, doc.ID)
	require.NotNil(t, doc.Schedule.Senin)
	assert.Equal(t, "08:00", doc.Schedule.Senin.Start)
}

func TestCreateDoctorValidation(t *testing.T) {
	_, h := newDoctorHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"specialty":"Dokter Gigi"}`))
	rec := httptest.NewRecorder()
	h.AdminRoutes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateDoctorEndpoint(t *testing.T) {
	repo, h := newDoctorHandler(t)
	doc, err := repo.Create(context.Background(), &CreateDoctorRequest{
		Name: "dr. Sari Wijaya", Specialty: "Dokter Umum",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/"+doc.ID, strings.NewReader(`{"status": false}`))
	rec := httptest.NewRecorder()
	h.AdminRoutes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got Doctor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.Status)
}

func TestDeleteDoctorEndpoint(t *testing.T) {
	repo, h := newDoctorHandler(t)
	doc, err := repo.Create(context.Background(), &CreateDoctorRequest{
		Name: "dr. Sari Wijaya", Specialty: "Dokter Umum",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/"+doc.ID, nil)
	rec := httptest.NewRecorder()
	h.AdminRoutes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/"+doc.ID, nil)
	rec = httptest.NewRecorder()
	h.AdminRoutes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
