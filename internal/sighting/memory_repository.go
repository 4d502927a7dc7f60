package sighting

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/whale-spotting/whale_spotting/internal/domain"
)

type memoryRepository struct {
	mu        sync.RWMutex
	sightings map[string]Sighting
}

// NewMemoryRepository builds an in-memory sighting store for development and
// tests. Reference checks are performed by the service before Create, so
// this store only handles the insert.
func NewMemoryRepository() Repository {
	return &memoryRepository{sightings: make(map[string]Sighting)}
}

func (r *memoryRepository) Create(_ context.Context, s Sighting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sightings[s.ID] = s
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Sighting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sightings[id]
	if !ok {
		return Sighting{}, fmt.Errorf("%w: sighting %s", domain.ErrNotFound, id)
	}
	return s, nil
}

func (r *memoryRepository) List(_ context.Context, f Filter) ([]Sighting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var hotspots map[string]struct{}
	if f.HotspotIDs != nil {
		hotspots = make(map[string]struct{}, len(f.HotspotIDs))
		for _, id := range f.HotspotIDs {
			hotspots[id] = struct{}{}
		}
	}

	out := make([]Sighting, 0, len(r.sightings))
	for _, s := range r.sightings {
		if f.SpeciesID != "" && s.SpeciesID != f.SpeciesID {
			continue
		}
		if hotspots != nil {
			if _, ok := hotspots[s.HotspotID]; !ok {
				continue
			}
		}
		if !f.From.IsZero() && s.SightedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && s.SightedAt.After(f.To) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memoryRepository) CountByHotspot(_ context.Context) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int)
	for _, s := range r.sightings {
		counts[s.HotspotID]++
	}
	return counts, nil
}

func (r *memoryRepository) CountByMonth(_ context.Context) (map[time.Month]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[time.Month]int)
	for _, s := range r.sightings {
		counts[s.SightedAt.UTC().Month()]++
	}
	return counts, nil
}
