package hotspot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/whale-spotting/whale_spotting/internal/domain"
)

type memoryRepository struct {
	mu       sync.RWMutex
	hotspots map[string]Hotspot
}

// NewMemoryRepository builds an in-memory hotspot store for development and
// tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{hotspots: make(map[string]Hotspot)}
}

func (r *memoryRepository) Create(_ context.Context, h Hotspot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hotspots[h.ID] = h
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Hotspot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.hotspots[id]
	if !ok {
		return Hotspot{}, fmt.Errorf("%w: hotspot %s", domain.ErrNotFound, id)
	}
	return h, nil
}

func (r *memoryRepository) List(_ context.Context, search string) ([]Hotspot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(search)
	out := make([]Hotspot, 0, len(r.hotspots))
	for _, h := range r.hotspots {
		if needle != "" && !strings.Contains(strings.ToLower(h.Name), needle) {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
