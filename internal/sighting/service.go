package sighting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/whale-spotting/whale_spotting/internal/domain"
	"github.com/whale-spotting/whale_spotting/internal/hotspot"
	"github.com/whale-spotting/whale_spotting/internal/species"
)

// Service exposes sighting operations. Reference checks run against the
// species and hotspot stores before any write reaches the sighting store.
type Service struct {
	repo     Repository
	species  species.Repository
	hotspots hotspot.Repository
}

// NewService builds a sighting service instance.
func NewService(repo Repository, sp species.Repository, hs hotspot.Repository) *Service {
	return &Service{repo: repo, species: sp, hotspots: hs}
}

// CreateInput captures data required to report a sighting. UserID comes
// from the authenticated caller's token claims, never from the request body.
type CreateInput struct {
	SpeciesID string
	HotspotID string
	UserID    string
	SightedAt time.Time
	Notes     string
}

// Create validates both references and records the sighting. A nonexistent
// species or hotspot fails with domain.ErrInvalidReference and writes
// nothing.
func (s *Service) Create(ctx context.Context, input CreateInput) (Sighting, error) {
	if input.SpeciesID == "" {
		return Sighting{}, fmt.Errorf("%w: speciesId is required", domain.ErrInvalidInput)
	}
	if input.HotspotID == "" {
		return Sighting{}, fmt.Errorf("%w: hotspotId is required", domain.ErrInvalidInput)
	}

	if _, err := s.species.FindByID(ctx, input.SpeciesID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Sighting{}, fmt.Errorf("%w: species %s", domain.ErrInvalidReference, input.SpeciesID)
		}
		return Sighting{}, err
	}
	if _, err := s.hotspots.FindByID(ctx, input.HotspotID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Sighting{}, fmt.Errorf("%w: hotspot %s", domain.ErrInvalidReference, input.HotspotID)
		}
		return Sighting{}, err
	}

	now := time.Now().UTC()
	sightedAt := input.SightedAt
	if sightedAt.IsZero() {
		sightedAt = now
	}

	sighting := Sighting{
		ID:        uuid.New().String(),
		SpeciesID: input.SpeciesID,
		HotspotID: input.HotspotID,
		UserID:    input.UserID,
		SightedAt: sightedAt.UTC(),
		Notes:     input.Notes,
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, sighting); err != nil {
		return Sighting{}, err
	}

	return sighting, nil
}

// GetByID fetches a single sighting.
func (s *Service) GetByID(ctx context.Context, id string) (Sighting, error) {
	return s.repo.FindByID(ctx, id)
}

// Query narrows a sighting listing. HotspotName is a free-text search
// resolved against hotspot names before the store is consulted.
type Query struct {
	SpeciesID   string
	HotspotID   string
	HotspotName string
	From        time.Time
	To          time.Time
}

// List returns sightings matching the query in creation order. Repeated
// identical queries return identical orderings.
func (s *Service) List(ctx context.Context, q Query) ([]Sighting, error) {
	filter := Filter{SpeciesID: q.SpeciesID, From: q.From, To: q.To}

	if q.HotspotName != "" {
		matches, err := s.hotspots.List(ctx, q.HotspotName)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(matches))
		for _, h := range matches {
			if q.HotspotID == "" || q.HotspotID == h.ID {
				ids = append(ids, h.ID)
			}
		}
		filter.HotspotIDs = ids
	} else if q.HotspotID != "" {
		filter.HotspotIDs = []string{q.HotspotID}
	}

	return s.repo.List(ctx, filter)
}

// Months returns the sighting count for each calendar month, all twelve
// months present in order.
func (s *Service) Months(ctx context.Context) ([]MonthCount, error) {
	counts, err := s.repo.CountByMonth(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MonthCount, 0, 12)
	for m := time.January; m <= time.December; m++ {
		out = append(out, MonthCount{Month: m, Count: counts[m]})
	}
	return out, nil
}
