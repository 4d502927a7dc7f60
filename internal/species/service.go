package species

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/whale-spotting/whale_spotting/internal/domain"
)

const (
	listCacheKey = "cache:species:list"
	listCacheTTL = 5 * time.Minute
)

// Service exposes species operations. The list is read-mostly reference
// data and is cached in Redis when a client is configured; a nil cache
// disables caching.
type Service struct {
	repo  Repository
	cache *redis.Client
}

// NewService builds a species service instance.
func NewService(repo Repository, cache *redis.Client) *Service {
	return &Service{repo: repo, cache: cache}
}

// Create adds a new species and invalidates the cached list.
func (s *Service) Create(ctx context.Context, name string) (Species, error) {
	if name == "" {
		return Species{}, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	sp := Species{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, sp); err != nil {
		return Species{}, err
	}

	if s.cache != nil {
		s.cache.Del(ctx, listCacheKey)
	}

	return sp, nil
}

// GetByID fetches a single species.
func (s *Service) GetByID(ctx context.Context, id string) (Species, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns all species in creation order, serving from the cache when
// possible. Cache failures fall back to the store.
func (s *Service) List(ctx context.Context) ([]Species, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, listCacheKey).Bytes(); err == nil {
			var cached []Species
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(out); err == nil {
			s.cache.Set(ctx, listCacheKey, raw, listCacheTTL)
		}
	}

	return out, nil
}
