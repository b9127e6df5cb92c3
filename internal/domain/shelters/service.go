package shelters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shelter-registry/internal/domain/identity"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List devuelve todos los refugios. Solo SUPER_ADMIN: es la única vista
// cross-tenant del directorio.
func (s *Service) List(ctx context.Context, ident identity.Identity) ([]Shelter, error) {
	if ident.Role != identity.RoleSuperAdmin {
		return nil, fmt.Errorf("%w: role %s cannot list shelters", ErrForbidden, ident.Role)
	}
	return s.repo.List(ctx)
}

// GetByID aplica la misma precedencia que el resto del sistema:
// existencia primero (NotFound), propiedad después (Forbidden).
func (s *Service) GetByID(ctx context.Context, ident identity.Identity, id string) (Shelter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Shelter{}, ErrNotFound
	}

	sh, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Shelter{}, err
	}

	if ident.Role != identity.RoleSuperAdmin && !ident.InShelter(sh.ID) {
		return Shelter{}, fmt.Errorf("%w: access denied to this shelter", ErrForbidden)
	}
	return sh, nil
}
