package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reservationDB is the slice of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type reservationDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores reservations in the relational database.
type PostgresRepository struct {
	db reservationDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("reservations: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db reservationDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const reservationColumns = `
	id::text, queue_number, patient_name, email, phone,
	doctor_id::text, service_id::text,
	appointment_date::text, appointment_time,
	status, COALESCE(notes, ''), created_at, updated_at`

func scanReservation(row pgx.Row) (*Reservation, error) {
	var res Reservation
	var status string
	if err := row.Scan(
		&res.ID,
		&res.QueueNumber,
		&res.PatientName,
		&res.Email,
		&res.Phone,
		&res.DoctorID,
		&res.ServiceID,
		&res.AppointmentDate,
		&res.AppointmentTime,
		&status,
		&res.Notes,
		&res.CreatedAt,
		&res.UpdatedAt,
	); err != nil {
		return nil, err
	}
	res.Status = Status(status)
	return &res, nil
}

// Create inserts a new row with the pre-assigned queue number.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateReservationRequest) (*Reservation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO reservations
			(id, queue_number, patient_name, email, phone, doctor_id, service_id,
			 appointment_date, appointment_time, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + reservationColumns
	row := r.db.QueryRow(ctx, query,
		id,
		req.QueueNumber,
		req.PatientName,
		req.Email,
		req.Phone,
		req.DoctorID,
		req.ServiceID,
		req.AppointmentDate,
		req.AppointmentTime,
		string(StatusMenunggu),
		nullable(req.Notes),
	)
	res, err := scanReservation(row)
	if err != nil {
		return nil, fmt.Errorf("reservations: insert failed: %w", err)
	}
	return res, nil
}

// GetByID fetches a single reservation.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reservations: select failed: %w", err)
	}
	return res, nil
}

// List returns reservations matching the filter, newest first. Filter
// fields are optional and combined with AND.
func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]*Reservation, error) {
	var conds []string
	var args []any
	if filter.DoctorID != "" {
		args = append(args, filter.DoctorID)
		conds = append(conds, fmt.Sprintf("doctor_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Date != "" {
		args = append(args, filter.Date)
		conds = append(conds, fmt.Sprintf("appointment_date = $%d", len(args)))
	}

	query := `SELECT ` + reservationColumns + ` FROM reservations`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reservations: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("reservations: scan failed: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reservations: iterate failed: %w", err)
	}
	return out, nil
}

// Update applies non-empty fields of req to the stored row.
func (r *PostgresRepository) Update(ctx context.Context, id string, req *UpdateReservationRequest) (*Reservation, error) {
	sets := []string{"updated_at = now()"}
	var args []any

	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.PatientName != "" {
		add("patient_name", req.PatientName)
	}
	if req.Email != "" {
		add("email", req.Email)
	}
	if req.Phone != "" {
		add("phone", req.Phone)
	}
	if req.DoctorID != "" {
		add("doctor_id", req.DoctorID)
	}
	if req.ServiceID != "" {
		add("service_id", req.ServiceID)
	}
	if req.AppointmentDate != "" {
		add("appointment_date", req.AppointmentDate)
	}
	if req.AppointmentTime != "" {
		if !IsValidTimeSlot(req.AppointmentTime) {
			return nil, ErrInvalidTimeSlot
		}
		add("appointment_time", req.AppointmentTime)
	}
	if req.Notes != "" {
		add("notes", req.Notes)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE reservations SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), reservationColumns,
	)
	res, err := scanReservation(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reservations: update failed: %w", err)
	}
	return res, nil
}

// UpdateStatus moves a reservation through its lifecycle, enforcing the
// transition table.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Reservation, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var current string
	if err := r.db.QueryRow(ctx, `SELECT status FROM reservations WHERE id = $1`, id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reservations: load status: %w", err)
	}
	if !CanTransition(Status(current), status) {
		return nil, ErrInvalidTransition
	}

	query := `
		UPDATE reservations SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
		RETURNING ` + reservationColumns
	res, err := scanReservation(r.db.QueryRow(ctx, query, string(status), id, current))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Row changed underneath us between the read and the write.
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("reservations: update status: %w", err)
	}
	return res, nil
}

// Delete removes a reservation.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("reservations: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByDate counts every reservation recorded for the day, regardless of
// status. The queue generator derives the next ordinal from this count.
func (r *PostgresRepository) CountByDate(ctx context.Context, date string) (int64, error) {
	var n int64
	query := `SELECT COUNT(*) FROM reservations WHERE appointment_date = $1`
	if err := r.db.QueryRow(ctx, query, date).Scan(&n); err != nil {
		return 0, fmt.Errorf("reservations: count by date: %w", err)
	}
	return n, nil
}

// FindByQueueNumber looks up the reservation holding ticket on date.
func (r *PostgresRepository) FindByQueueNumber(ctx context.Context, date, ticket string) (*Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE appointment_date = $1 AND queue_number = $2`
	res, err := scanReservation(r.db.QueryRow(ctx, query, date, ticket))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reservations: find by queue number: %w", err)
	}
	return res, nil
}

// ListActiveByDate returns the day's reservations still occupying a queue
// slot, ordered by ticket.
func (r *PostgresRepository) ListActiveByDate(ctx context.Context, date string) ([]*Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE appointment_date = $1 AND status = ANY($2)
		ORDER BY queue_number`
	rows, err := r.db.Query(ctx, query, date, []string{string(StatusMenunggu), string(StatusDikonfirmasi)})
	if err != nil {
		return nil, fmt.Errorf("reservations: list active: %w", err)
	}
	defer rows.Close()

	var out []*Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("reservations: scan active: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reservations: iterate active: %w", err)
	}
	return out, nil
}

// ListCreatedSince returns reservations created at or after the cutoff,
// newest first.
func (r *PostgresRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]*Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE created_at >= $1
		ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("reservations: list created since: %w", err)
	}
	defer rows.Close()

	var out []*Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("reservations: scan created since: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reservations: iterate created since: %w", err)
	}
	return out, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
