package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"shelter-registry/internal/domain/dogs"
)

type dogsRepo struct {
	mu   sync.RWMutex
	byID map[string]dogs.Dog
}

func NewDogsRepo() dogs.Repository {
	return &dogsRepo{
		byID: make(map[string]dogs.Dog),
	}
}

func (r *dogsRepo) Create(ctx context.Context, d dogs.Dog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(d.ID) == "" {
		return errors.New("dog id required")
	}
	if _, exists := r.byID[d.ID]; exists {
		return errors.New("dog already exists")
	}
	r.byID[d.ID] = d
	return nil
}

func (r *dogsRepo) Update(ctx context.Context, d dogs.Dog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[d.ID]
	if !exists || !cur.Live() {
		return dogs.ErrNotFound
	}
	r.byID[d.ID] = d
	return nil
}

func (r *dogsRepo) GetLiveByID(ctx context.Context, id string) (dogs.Dog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok || !d.Live() {
		return dogs.Dog{}, dogs.ErrNotFound
	}
	return d, nil
}

func (r *dogsRepo) ListLive(ctx context.Context, f dogs.Filter, p dogs.Pagination) ([]dogs.Dog, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]dogs.Dog, 0)
	for _, d := range r.byID {
		if !d.Live() {
			continue
		}
		if !f.Shelter.All && d.ShelterID != f.Shelter.ShelterID {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		matched = append(matched, d)
	}

	// Mismo orden que el repo de Postgres: más recientes primero.
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := p.Offset()
	if start >= total {
		return []dogs.Dog{}, total, nil
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *dogsRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok || !d.Live() {
		return dogs.ErrNotFound
	}
	d.DeletedAt = &at
	d.UpdatedAt = at
	r.byID[id] = d
	return nil
}

func (r *dogsRepo) ExistsLiveMicrochip(ctx context.Context, microchipID, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.byID {
		if !d.Live() {
			continue
		}
		if d.ID == excludeID {
			continue
		}
		if d.MicrochipID != "" && d.MicrochipID == microchipID {
			return true, nil
		}
	}
	return false, nil
}
