package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kliniksehat/clinic-platform/internal/doctors"
	"github.com/kliniksehat/clinic-platform/internal/reservations"
)

type fakeBoardStore struct {
	active   map[string][]*reservations.Reservation
	err      error
	computed int
}

func (f *fakeBoardStore) ListActiveByDate(ctx context.Context, date string) ([]*reservations.Reservation, error) {
	f.computed++
	if f.err != nil {
		return nil, f.err
	}
	return f.active[date], nil
}

type fakeDoctorLister struct {
	doctors []*doctors.Doctor
	err     error
}

func (f *fakeDoctorLister) List(ctx context.Context, activeOnly bool) ([]*doctors.Doctor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.doctors, nil
}

func activeReservation(doctorID, ticket string) *reservations.Reservation {
	return &reservations.Reservation{
		QueueNumber:     ticket,
		DoctorID:        &doctorID,
		AppointmentDate: "2026-08-31",
		Status:          reservations.StatusMenunggu,
	}
}

func TestComputeBoardPerDoctor(t *testing.T) {
	store := &fakeBoardStore{active: map[string][]*reservations.Reservation{
		"2026-08-31": {
			// Arrives ordered by ticket, as the repository guarantees.
			activeReservation("doc-umum", "A002"),
			activeReservation("doc-umum", "A005"),
			activeReservation("doc-umum", "A009"),
			activeReservation("doc-gigi", "A007"),
		},
	}}
	lister := &fakeDoctorLister{doctors: []*doctors.Doctor{
		{ID: "doc-gigi", Name: "drg. Budi Santoso", Specialty: "Dokter Gigi"},
		{ID: "doc-umum", Name: "dr. Sari Wijaya", Specialty: "Dokter Umum"},
	}}

	board := NewBoard(store, lister, 15, nil)
	snap, err := board.Compute(context.Background(), "2026-08-31")
	require.NoError(t, err)
	require.Len(t, snap.Doctors, 2)
	assert.Equal(t, "2026-08-31", snap.Date)

	gigi := snap.Doctors[0]
	assert.Equal(t, "drg. Budi Santoso", gigi.DoctorName)
	require.NotNil(t, gigi.CurrentQueue)
	assert.Equal(t, "A007", *gigi.CurrentQueue)
	assert.Equal(t, 1, gigi.WaitingCount)
	assert.Equal(t, "15 menit", gigi.EstimatedTime)

	umum := snap.Doctors[1]
	require.NotNil(t, umum.CurrentQueue)
	assert.Equal(t, "A002", *umum.CurrentQueue)
	assert.Equal(t, 3, umum.WaitingCount)
	assert.Equal(t, "45 menit", umum.EstimatedTime)
}

func TestComputeBoardEmptyDay(t *testing.T) {
	store := &fakeBoardStore{}
	lister := &fakeDoctorLister{doctors: []*doctors.Doctor{
		{ID: "doc-umum", Name: "dr. Sari Wijaya"},
	}}

	board := NewBoard(store, lister, 15, nil)
	snap, err := board.Compute(context.Background(), "2026-08-31")
	require.NoError(t, err)
	require.Len(t, snap.Doctors, 1)

	row := snap.Doctors[0]
	assert.Nil(t, row.CurrentQueue)
	assert.Equal(t, 0, row.WaitingCount)
	assert.Equal(t, "0 menit", row.EstimatedTime)
}

func TestComputeBoardSkipsUnattributableReservations(t *testing.T) {
	orphan := activeReservation("doc-gone", "A001")
	unassigned := &reservations.Reservation{
		QueueNumber:     "A002",
		AppointmentDate: "2026-08-31",
		Status:          reservations.StatusMenunggu,
	}
	store := &fakeBoardStore{active: map[string][]*reservations.Reservation{
		"2026-08-31": {orphan, unassigned, activeReservation("doc-umum", "A003")},
	}}
	lister := &fakeDoctorLister{doctors: []*doctors.Doctor{
		{ID: "doc-umum", Name: "dr. Sari Wijaya"},
	}}

	board := NewBoard(store, lister, 15, nil)
	snap, err := board.Compute(context.Background(), "2026-08-31")
	require.NoError(t, err)
	require.Len(t, snap.Doctors, 1)
	assert.Equal(t, 1, snap.Doctors[0].WaitingCount)
	assert.Equal(t, "A003", *snap.Doctors[0].CurrentQueue)
}

func TestComputeBoardIsIdempotent(t *testing.T) {
	store := &fakeBoardStore{active: map[string][]*reservations.Reservation{
		"2026-08-31": {activeReservation("doc-umum", "A001")},
	}}
	lister := &fakeDoctorLister{doctors: []*doctors.Doctor{
		{ID: "doc-umum", Name: "dr. Sari Wijaya"},
	}}

	board := NewBoard(store, lister, 15, nil)
	first, err := board.Compute(context.Background(), "2026-08-31")
	require.NoError(t, err)
	second, err := board.Compute(context.Background(), "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, first.Doctors, second.Doctors)
}

func TestComputeBoardFailsWhole(t *testing.T) {
	boom := errors.New("connection refused")

	board := NewBoard(&fakeBoardStore{err: boom}, &fakeDoctorLister{}, 15, nil)
	_, err := board.Compute(context.Background(), "2026-08-31")
	assert.ErrorIs(t, err, boom)

	board = NewBoard(&fakeBoardStore{}, &fakeDoctorLister{err: boom}, 15, nil)
	_, err = board.Compute(context.Background(), "2026-08-31")
	assert.ErrorIs(t, err, boom)
}
