package queue

import (
	"context"
	"time"

	"github.com/kliniksehat/clinic-platform/internal/reservations"
)

// StatsStore is the slice of the reservation repository the dashboard
// reads.
type StatsStore interface {
	List(ctx context.Context, filter reservations.Filter) ([]*reservations.Reservation, error)
	ListCreatedSince(ctx context.Context, since time.Time) ([]*reservations.Reservation, error)
}

// DashboardStats summarizes one day of clinic operations for the admin
// dashboard, with trailing-week context.
type DashboardStats struct {
	Date               string `json:"date"`
	TotalReservations  int    `json:"total_reservations"`
	Served             int    `json:"served"`
	Waiting            int    `json:"waiting"`
	AverageWaitMinutes int    `json:"average_wait_minutes"`

	WeekReservations    int `json:"week_reservations"`
	ActiveDoctors       int `json:"active_doctors"`
	NewPatientsThisWeek int `json:"new_patients_this_week"`
}

// StatsService computes dashboard statistics.
type StatsService struct {
	store             StatsStore
	doctors           DoctorLister
	minutesPerPatient int
	now               func() time.Time
}

func NewStatsService(store StatsStore, doctorRepo DoctorLister, minutesPerPatient int) *StatsService {
	if minutesPerPatient <= 0 {
		minutesPerPatient = 15
	}
	return &StatsService{
		store:             store,
		doctors:           doctorRepo,
		minutesPerPatient: minutesPerPatient,
		now:               time.Now,
	}
}

// Dashboard computes the stats for date. The average wait divides the
// total projected wait of the day's waiting patients by their count, so
// it reports the per-patient slot length whenever anyone is waiting and
// zero otherwise.
func (s *StatsService) Dashboard(ctx context.Context, date string) (*DashboardStats, error) {
	day, err := s.store.List(ctx, reservations.Filter{Date: date})
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{Date: date, TotalReservations: len(day)}
	for _, res := range day {
		switch {
		case res.Status == reservations.StatusSelesai:
			stats.Served++
		case res.Status.Active():
			stats.Waiting++
		}
	}
	if stats.Waiting > 0 {
		stats.AverageWaitMinutes = stats.Waiting * s.minutesPerPatient / stats.Waiting
	}

	week, err := s.store.ListCreatedSince(ctx, s.now().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	stats.WeekReservations = len(week)
	emails := make(map[string]struct{}, len(week))
	for _, res := range week {
		if res.Email != "" {
			emails[res.Email] = struct{}{}
		}
	}
	stats.NewPatientsThisWeek = len(emails)

	docs, err := s.doctors.List(ctx, true)
	if err != nil {
		return nil, err
	}
	stats.ActiveDoctors = len(docs)

	return stats, nil
}
