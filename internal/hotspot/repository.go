package hotspot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/whale-spotting/whale_spotting/internal/domain"
)

// Repository persists hotspots.
type Repository interface {
	Create(ctx context.Context, h Hotspot) error
	FindByID(ctx context.Context, id string) (Hotspot, error)
	// List returns hotspots in creation order, optionally filtered by a
	// case-insensitive name substring.
	List(ctx context.Context, search string) ([]Hotspot, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed hotspot repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a hotspot record.
func (r *PostgresRepository) Create(ctx context.Context, h Hotspot) error {
	hotspotID, err := uuid.Parse(h.ID)
	if err != nil {
		return fmt.Errorf("%w: hotspot id", domain.ErrInvalidInput)
	}
	_, err = r.db.Exec(ctx, `INSERT INTO hotspots (id, name, latitude, longitude, created_at)
        VALUES ($1, $2, $3, $4, $5)`, hotspotID, h.Name, h.Latitude, h.Longitude, h.CreatedAt.UTC())
	return err
}

// FindByID fetches a hotspot by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Hotspot, error) {
	hotspotID, err := uuid.Parse(id)
	if err != nil {
		return Hotspot{}, fmt.Errorf("%w: hotspot %s", domain.ErrNotFound, id)
	}
	row := r.db.QueryRow(ctx, `SELECT id, name, latitude, longitude, created_at
        FROM hotspots WHERE id = $1`, hotspotID)
	return scanHotspot(row)
}

// List returns hotspots matching the optional name filter.
func (r *PostgresRepository) List(ctx context.Context, search string) ([]Hotspot, error) {
	const base = `SELECT id, name, latitude, longitude, created_at FROM hotspots`

	var (
		rows pgx.Rows
		err  error
	)
	if search == "" {
		rows, err = r.db.Query(ctx, base+` ORDER BY created_at, id`)
	} else {
		rows, err = r.db.Query(ctx, base+` WHERE name ILIKE '%' || $1 || '%' ORDER BY created_at, id`, search)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Hotspot
	for rows.Next() {
		h, err := scanHotspot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func scanHotspot(row pgx.Row) (Hotspot, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		h         Hotspot
	)
	if err := row.Scan(&id, &h.Name, &h.Latitude, &h.Longitude, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Hotspot{}, fmt.Errorf("%w: hotspot", domain.ErrNotFound)
		}
		return Hotspot{}, err
	}
	h.ID = id.String()
	h.CreatedAt = createdAt.UTC()
	return h, nil
}
