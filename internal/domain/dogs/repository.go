package dogs

import (
	"context"
	"time"
)

// Filter acota la búsqueda de perros vivos.
type Filter struct {
	Shelter ShelterFilter
	Status  Status // vacío = todos
}

// Pagination ya viene normalizada por el service (defaults y cap aplicados).
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Repository es el contrato del store. Todas las lecturas excluyen
// soft-deleted. La unicidad de microchip también debe estar garantizada en
// el storage (índice parcial): el chequeo del service es check-then-act y
// solo sirve como rechazo rápido, no cierra la carrera de inserts
// concurrentes.
type Repository interface {
	GetLiveByID(ctx context.Context, id string) (Dog, error)
	ListLive(ctx context.Context, f Filter, p Pagination) ([]Dog, int, error)
	Create(ctx context.Context, d Dog) error
	Update(ctx context.Context, d Dog) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	ExistsLiveMicrochip(ctx context.Context, microchipID, excludeID string) (bool, error)
}
