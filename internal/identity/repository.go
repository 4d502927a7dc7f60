package identity

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

// Repository persists users. Usernames are unique and compared
// case-sensitively.
type Repository interface {
	Create(ctx context.Context, user User) error
	FindByUsername(ctx context.Context, username string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context) ([]User, error)
	UpdateProfileImage(ctx context.Context, id, imageURL string) error
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	Delete(ctx context.Context, id string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user. Duplicate usernames map to domain.ErrConflict.
func (r *PostgresRepository) Create(ctx context.Context, user User) error {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return fmt.Errorf("%w: user id", domain.ErrInvalidInput)
	}
	_, err = r.db.Exec(ctx, `INSERT INTO users (id, username, password_hash, role, profile_image_url, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, user.Username, user.PasswordHash, string(user.Role), user.ProfileImageURL, user.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: username %q", domain.ErrConflict, user.Username)
		}
		return err
	}
	return nil
}

// FindByUsername fetches a user by exact username.
func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, username, password_hash, role, profile_image_url, created_at
        FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// FindByID fetches a user by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	row := r.db.QueryRow(ctx, `SELECT id, username, password_hash, role, profile_image_url, created_at
        FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// List returns all users in creation order.
func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT id, username, password_hash, role, profile_image_url, created_at
        FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateProfileImage stores a new profile image reference.
func (r *PostgresRepository) UpdateProfileImage(ctx context.Context, id, imageURL string) error {
	return r.update(ctx, id, `UPDATE users SET profile_image_url = $1 WHERE id = $2`, imageURL)
}

// UpdateRole changes the user's access tier.
func (r *PostgresRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	return r.update(ctx, id, `UPDATE users SET role = $1 WHERE id = $2`, string(role))
}

// Delete removes the user record.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *PostgresRepository) update(ctx context.Context, id, query string, value string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	cmd, err := r.db.Exec(ctx, query, value, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var (
		id        uuid.UUID
		role      string
		createdAt time.Time
		user      User
	)
	if err := row.Scan(&id, &user.Username, &user.PasswordHash, &role, &user.ProfileImageURL, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, fmt.Errorf("%w: user", domain.ErrNotFound)
		}
		return User{}, err
	}
	user.ID = id.String()
	user.Role = domain.Role(role)
	user.CreatedAt = createdAt.UTC()
	return user, nil
}
