package species

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/whale-spotting/whale_spotting/internal/domain"
)

const pgUniqueViolation = "23505"

// Repository persists species reference data.
type Repository interface {
	Create(ctx context.Context, sp Species) error
	FindByID(ctx context.Context, id string) (Species, error)
	List(ctx context.Context) ([]Species, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed species repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a species record. Duplicate names map to domain.ErrConflict.
func (r *PostgresRepository) Create(ctx context.Context, sp Species) error {
	speciesID, err := uuid.Parse(sp.ID)
	if err != nil {
		return fmt.Errorf("%w: species id", domain.ErrInvalidInput)
	}
	_, err = r.db.Exec(ctx, `INSERT INTO species (id, name, created_at) VALUES ($1, $2, $3)`,
		speciesID, sp.Name, sp.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: species %q", domain.ErrConflict, sp.Name)
		}
		return err
	}
	return nil
}

// FindByID fetches a species by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Species, error) {
	speciesID, err := uuid.Parse(id)
	if err != nil {
		return Species{}, fmt.Errorf("%w: species %s", domain.ErrNotFound, id)
	}
	row := r.db.QueryRow(ctx, `SELECT id, name, created_at FROM species WHERE id = $1`, speciesID)
	return scanSpecies(row)
}

// List returns all species in creation order.
func (r *PostgresRepository) List(ctx context.Context) ([]Species, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM species ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Species
	for rows.Next() {
		sp, err := scanSpecies(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

func scanSpecies(row pgx.Row) (Species, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		sp        Species
	)
	if err := row.Scan(&id, &sp.Name, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Species{}, fmt.Errorf("%w: species", domain.ErrNotFound)
		}
		return Species{}, err
	}
	sp.ID = id.String()
	sp.CreatedAt = createdAt.UTC()
	return sp, nil
}
