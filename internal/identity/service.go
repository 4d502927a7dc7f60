package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/whale-spotting/whale_spotting/internal/domain"
)

const minPasswordLength = 8

// Service manages the user identity lifecycle.
type Service struct {
	repo       Repository
	bcryptCost int
}

// NewService creates a new identity service.
func NewService(repo Repository, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// Register creates a new member and stores a hashed password.
func (s *Service) Register(ctx context.Context, creds Credentials) (User, error) {
	if creds.Username == "" {
		return User{}, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if len(creds.Password) < minPasswordLength {
		return User{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.bcryptCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.New().String(),
		Username:     creds.Username,
		PasswordHash: hash,
		Role:         domain.RoleMember,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// Authenticate verifies credentials. The failure is identical whether the
// username is unknown or the password is wrong.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	user, err := s.repo.FindByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return User{}, fmt.Errorf("%w: invalid username or password", domain.ErrUnauthenticated)
		}
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return User{}, fmt.Errorf("%w: invalid username or password", domain.ErrUnauthenticated)
	}

	return user, nil
}

// GetByID fetches a single user.
func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns all users in creation order.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// UpdateProfileImage replaces the user's profile image reference and returns
// the updated record. An empty URL resets to the default image.
func (s *Service) UpdateProfileImage(ctx context.Context, id, imageURL string) (User, error) {
	if err := s.repo.UpdateProfileImage(ctx, id, imageURL); err != nil {
		return User{}, err
	}
	return s.repo.FindByID(ctx, id)
}

// Delete removes a user account.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// EnsureAdmin creates the named admin account on first startup, or promotes
// an existing account of that name. Idempotent.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if user.Role == domain.RoleAdmin {
			return user, nil
		}
		if err := s.repo.UpdateRole(ctx, user.ID, domain.RoleAdmin); err != nil {
			return User{}, err
		}
		user.Role = domain.RoleAdmin
		return user, nil
	case errors.Is(err, domain.ErrNotFound):
		user, err := s.Register(ctx, Credentials{Username: username, Password: password})
		if err != nil {
			return User{}, err
		}
		if err := s.repo.UpdateRole(ctx, user.ID, domain.RoleAdmin); err != nil {
			return User{}, err
		}
		user.Role = domain.RoleAdmin
		return user, nil
	default:
		return User{}, err
	}
}
