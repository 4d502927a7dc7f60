package hotspot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/whale-spotting/whale_spotting/internal/domain"
)

// SightingCounter reports how many sightings reference each hotspot. The
// sighting repository implements it; hotspots themselves never hold
// sighting references.
type SightingCounter interface {
	CountByHotspot(ctx context.Context) (map[string]int, error)
}

// Service exposes hotspot operations with derived sighting counts.
type Service struct {
	repo     Repository
	counters SightingCounter
}

// NewService builds a hotspot service instance.
func NewService(repo Repository, counters SightingCounter) *Service {
	return &Service{repo: repo, counters: counters}
}

// CreateInput captures data required to create a hotspot.
type CreateInput struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// Create adds a new hotspot after validating coordinates.
func (s *Service) Create(ctx context.Context, input CreateInput) (Hotspot, error) {
	if input.Name == "" {
		return Hotspot{}, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if input.Latitude < -90 || input.Latitude > 90 {
		return Hotspot{}, fmt.Errorf("%w: latitude must be within [-90, 90]", domain.ErrInvalidInput)
	}
	if input.Longitude < -180 || input.Longitude > 180 {
		return Hotspot{}, fmt.Errorf("%w: longitude must be within [-180, 180]", domain.ErrInvalidInput)
	}

	h := Hotspot{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, h); err != nil {
		return Hotspot{}, err
	}

	return h, nil
}

// GetByID fetches a hotspot with its derived sighting count.
func (s *Service) GetByID(ctx context.Context, id string) (WithCount, error) {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return WithCount{}, err
	}
	counts, err := s.counters.CountByHotspot(ctx)
	if err != nil {
		return WithCount{}, err
	}
	return WithCount{Hotspot: h, SightingCount: counts[h.ID]}, nil
}

// List returns hotspots matching the optional name search, each with its
// derived sighting count, in creation order.
func (s *Service) List(ctx context.Context, search string) ([]WithCount, error) {
	hotspots, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, err
	}
	counts, err := s.counters.CountByHotspot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]WithCount, 0, len(hotspots))
	for _, h := range hotspots {
		out = append(out, WithCount{Hotspot: h, SightingCount: counts[h.ID]})
	}
	return out, nil
}
