package sighting

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

	"github.com/whale-spotting/whale_spotting/internal/domain"
)

const pgForeignKeyViolation = "23503"

// Repository persists sightings. Create must either commit the full row or
// nothing; a write naming a nonexistent species or hotspot fails with
// domain.ErrInvalidReference.
type Repository interface {
	Create(ctx context.Context, s Sighting) error
	FindByID(ctx context.Context, id string) (Sighting, error)
	List(ctx context.Context, f Filter) ([]Sighting, error)
	CountByHotspot(ctx context.Context) (map[string]int, error)
	CountByMonth(ctx context.Context) (map[time.Month]int, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed sighting repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create verifies both references and inserts the sighting in a single
// transaction so a bad reference never leaves a partial row.
func (r *PostgresRepository) Create(ctx context.Context, s Sighting) error {
	sightingID, err := uuid.Parse(s.ID)
	if err != nil {
		return fmt.Errorf("%w: sighting id", domain.ErrInvalidInput)
	}
	speciesID, err := uuid.Parse(s.SpeciesID)
	if err != nil {
		return fmt.Errorf("%w: species %s", domain.ErrInvalidReference, s.SpeciesID)
	}
	hotspotID, err := uuid.Parse(s.HotspotID)
	if err != nil {
		return fmt.Errorf("%w: hotspot %s", domain.ErrInvalidReference, s.HotspotID)
	}
	userID, err := uuid.Parse(s.UserID)
	if err != nil {
		return fmt.Errorf("%w: user id", domain.ErrInvalidInput)
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM species WHERE id = $1)`, speciesID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: species %s", domain.ErrInvalidReference, s.SpeciesID)
	}
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM hotspots WHERE id = $1)`, hotspotID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: hotspot %s", domain.ErrInvalidReference, s.HotspotID)
	}

	_, err = tx.Exec(ctx, `INSERT INTO sightings (id, species_id, hotspot_id, user_id, sighted_at, notes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sightingID, speciesID, hotspotID, userID, s.SightedAt.UTC(), s.Notes, s.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("%w: %s", domain.ErrInvalidReference, pgErr.ConstraintName)
		}
		return err
	}

	return tx.Commit(ctx)
}

// FindByID fetches a sighting by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Sighting, error) {
	sightingID, err := uuid.Parse(id)
	if err != nil {
		return Sighting{}, fmt.Errorf("%w: sighting %s", domain.ErrNotFound, id)
	}
	row := r.db.QueryRow(ctx, `SELECT id, species_id, hotspot_id, user_id, sighted_at, notes, created_at
        FROM sightings WHERE id = $1`, sightingID)
	return scanSighting(row)
}

// List returns sightings matching the filter in creation order.
func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]Sighting, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT id, species_id, hotspot_id, user_id, sighted_at, notes, created_at FROM sightings`)

	var (
		clauses []string
		args    []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.SpeciesID != "" {
		speciesID, err := uuid.Parse(f.SpeciesID)
		if err != nil {
			return []Sighting{}, nil
		}
		clauses = append(clauses, "species_id = "+arg(speciesID))
	}
	if f.HotspotIDs != nil {
		ids := make([]uuid.UUID, 0, len(f.HotspotIDs))
		for _, raw := range f.HotspotIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			return []Sighting{}, nil
		}
		clauses = append(clauses, "hotspot_id = ANY("+arg(ids)+")")
	}
	if !f.From.IsZero() {
		clauses = append(clauses, "sighted_at >= "+arg(f.From.UTC()))
	}
	if !f.To.IsZero() {
		clauses = append(clauses, "sighted_at <= "+arg(f.To.UTC()))
	}

	if len(clauses) > 0 {
		query.WriteString(" WHERE " + strings.Join(clauses, " AND "))
	}
	query.WriteString(" ORDER BY created_at, id")

	rows, err := r.db.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sighting
	for rows.Next() {
		s, err := scanSighting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountByHotspot aggregates sighting counts per hotspot id.
func (r *PostgresRepository) CountByHotspot(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT hotspot_id, COUNT(*) FROM sightings GROUP BY hotspot_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			id    uuid.UUID
			count int
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, err
		}
		counts[id.String()] = count
	}
	return counts, rows.Err()
}

// CountByMonth aggregates sighting counts per calendar month across years.
func (r *PostgresRepository) CountByMonth(ctx context.Context) (map[time.Month]int, error) {
	rows, err := r.db.Query(ctx, `SELECT EXTRACT(MONTH FROM sighted_at)::int, COUNT(*)
        FROM sightings GROUP BY 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[time.Month]int)
	for rows.Next() {
		var (
			month int
			count int
		)
		if err := rows.Scan(&month, &count); err != nil {
			return nil, err
		}
		counts[time.Month(month)] = count
	}
	return counts, rows.Err()
}

func scanSighting(row pgx.Row) (Sighting, error) {
	var (
		id        uuid.UUID
		speciesID uuid.UUID
		hotspotID uuid.UUID
		userID    uuid.UUID
		sightedAt time.Time
		createdAt time.Time
		s         Sighting
	)
	if err := row.Scan(&id, &speciesID, &hotspotID, &userID, &sightedAt, &s.Notes, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sighting{}, fmt.Errorf("%w: sighting", domain.ErrNotFound)
		}
		return Sighting{}, err
	}
	s.ID = id.String()
	s.SpeciesID = speciesID.String()
	s.HotspotID = hotspotID.String()
	s.UserID = userID.String()
	s.SightedAt = sightedAt.UTC()
	s.CreatedAt = createdAt.UTC()
	return s, nil
}
