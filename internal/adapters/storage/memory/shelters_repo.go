package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"shelter-registry/internal/domain/shelters"
)

type sheltersRepo struct {
	mu   sync.RWMutex
	byID map[string]shelters.Shelter
}

func NewSheltersRepo() shelters.Repository {
	return &sheltersRepo{
		byID: make(map[string]shelters.Shelter),
	}
}

func (r *sheltersRepo) Create(ctx context.Context, s shelters.Shelter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return errors.New("shelter id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return errors.New("shelter already exists")
	}
	r.byID[s.ID] = s
	return nil
}

func (r *sheltersRepo) GetByID(ctx context.Context, id string) (shelters.Shelter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return shelters.Shelter{}, shelters.ErrNotFound
	}
	return s, nil
}

func (r *sheltersRepo) List(ctx context.Context) ([]shelters.Shelter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]shelters.Shelter, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}
