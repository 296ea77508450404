package doctors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type doctorDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores doctors in the relational database. The weekly
// schedule lives in a jsonb column.
type PostgresRepository struct {
	db doctorDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("doctors: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db doctorDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const doctorColumns = `
	id::text, name, specialty, status, image_url, schedule, created_at, updated_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var doc Doctor
	var schedule []byte
	if err := row.Scan(
		&doc.ID,
		&doc.Name,
		&doc.Specialty,
		&doc.Status,
		&doc.ImageURL,
		&schedule,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(schedule) > 0 {
		if err := json.Unmarshal(schedule, &doc.Schedule); err != nil {
			return nil, fmt.Errorf("doctors: decode schedule: %w", err)
		}
	}
	return &doc, nil
}

// Create inserts a new doctor row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateDoctorRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	status := true
	if req.Status != nil {
		status = *req.Status
	}
	schedule, err := json.Marshal(req.Schedule)
	if err != nil {
		return nil, fmt.Errorf("doctors: encode schedule: %w", err)
	}

	var imageURL *string
	if req.ImageURL != "" {
		imageURL = &req.ImageURL
	}

	query := `
		INSERT INTO doctors (id, name, specialty, status, image_url, schedule)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + doctorColumns
	doc, err := scanDoctor(r.db.QueryRow(ctx, query,
		uuid.New(), req.Name, req.Specialty, status, imageURL, schedule,
	))
	if err != nil {
		return nil, fmt.Errorf("doctors: insert failed: %w", err)
	}
	return doc, nil
}

// GetByID fetches a single doctor.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1`
	doc, err := scanDoctor(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("doctors: select failed: %w", err)
	}
	return doc, nil
}

// List returns doctors ordered by name. activeOnly restricts to status=true,
// which is what the queue board reads.
func (r *PostgresRepository) List(ctx context.Context, activeOnly bool) ([]*Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors`
	if activeOnly {
		query += ` WHERE status = true`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("doctors: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Doctor
	for rows.Next() {
		doc, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("doctors: scan failed: %w", err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("doctors: iterate failed: %w", err)
	}
	return out, nil
}

// Update applies set fields of req to the stored row.
func (r *PostgresRepository) Update(ctx context.Context, id string, req *UpdateDoctorRequest) (*Doctor, error) {
	sets := []string{"updated_at = now()"}
	var args []any

	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Name != "" {
		add("name", req.Name)
	}
	if req.Specialty != "" {
		add("specialty", req.Specialty)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.ImageURL != nil {
		add("image_url", *req.ImageURL)
	}
	if req.Schedule != nil {
		schedule, err := json.Marshal(req.Schedule)
		if err != nil {
			return nil, fmt.Errorf("doctors: encode schedule: %w", err)
		}
		add("schedule", schedule)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE doctors SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), doctorColumns,
	)
	doc, err := scanDoctor(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("doctors: update failed: %w", err)
	}
	return doc, nil
}

// Delete removes a doctor. Reservations referencing the doctor keep their
// rows; the foreign key nulls out on delete.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("doctors: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
