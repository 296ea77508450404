package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type serviceDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores services in the relational database.
type PostgresRepository struct {
	db serviceDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("services: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db serviceDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const serviceColumns = `
	id::text, name, COALESCE(description, ''), price, duration_minutes,
	icon, color, created_at, updated_at`

func scanService(row pgx.Row) (*Service, error) {
	var svc Service
	if err := row.Scan(
		&svc.ID,
		&svc.Name,
		&svc.Description,
		&svc.Price,
		&svc.DurationMinutes,
		&svc.Icon,
		&svc.Color,
		&svc.CreatedAt,
		&svc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &svc, nil
}

// Create inserts a new service row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateServiceRequest) (*Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var description *string
	if req.Description != "" {
		description = &req.Description
	}

	query := `
		INSERT INTO services (id, name, description, price, duration_minutes, icon, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + serviceColumns
	svc, err := scanService(r.db.QueryRow(ctx, query,
		uuid.New(), req.Name, description, req.Price, req.DurationMinutes, req.Icon, req.Color,
	))
	if err != nil {
		return nil, fmt.Errorf("services: insert failed: %w", err)
	}
	return svc, nil
}

// GetByID fetches a single service.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`
	svc, err := scanService(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("services: select failed: %w", err)
	}
	return svc, nil
}

// List returns all services ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("services: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("services: scan failed: %w", err)
		}
		out = append(out, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("services: iterate failed: %w", err)
	}
	return out, nil
}

// Update applies set fields of req to the stored row.
func (r *PostgresRepository) Update(ctx context.Context, id string, req *UpdateServiceRequest) (*Service, error) {
	sets := []string{"updated_at = now()"}
	var args []any

	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Name != "" {
		add("name", req.Name)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, ErrInvalidPrice
		}
		add("price", *req.Price)
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, ErrInvalidDuration
		}
		add("duration_minutes", *req.DurationMinutes)
	}
	if req.Icon != "" {
		add("icon", req.Icon)
	}
	if req.Color != "" {
		add("color", req.Color)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE services SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), serviceColumns,
	)
	svc, err := scanService(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("services: update failed: %w", err)
	}
	return svc, nil
}

// Delete removes a service.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("services: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
