package shelters

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Shelter, error)
	List(ctx context.Context) ([]Shelter, error)
	Create(ctx context.Context, s Shelter) error
}
