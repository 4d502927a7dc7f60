package species

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/whale-spotting/whale_spotting/internal/domain"
)

type memoryRepository struct {
	mu      sync.RWMutex
	species map[string]Species
}

// NewMemoryRepository builds an in-memory species store for development and
// tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{species: make(map[string]Species)}
}

func (r *memoryRepository) Create(_ context.Context, sp Species) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.species {
		if existing.Name == sp.Name {
			return fmt.Errorf("%w: species %q", domain.ErrConflict, sp.Name)
		}
	}
	r.species[sp.ID] = sp
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Species, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sp, ok := r.species[id]
	if !ok {
		return Species{}, fmt.Errorf("%w: species %s", domain.ErrNotFound, id)
	}
	return sp, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Species, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Species, 0, len(r.species))
	for _, sp := range r.species {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
