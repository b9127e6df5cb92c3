package dogs

import (
	"errors"
	"fmt"

	"shelter-registry/internal/domain/identity"
)

var ErrForbidden = errors.New("forbidden")

// Operation clasifica las operaciones para la matriz de permisos.
type Operation string

const (
	OpList   Operation = "list"
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpMutate Operation = "mutate" // update y delete
)

// permissions es la matriz (rol, operación) completa. Única fuente de verdad
// de qué rol puede hacer qué; el alcance por refugio se decide aparte
// (ApplyShelterScope / ownership checks).
var permissions = map[identity.Role]map[Operation]bool{
	identity.RoleSuperAdmin: {
		OpList: true, OpRead: true, OpCreate: true, OpMutate: true,
	},
	identity.RoleShelterAdmin: {
		OpList: true, OpRead: true, OpCreate: true, OpMutate: true,
	},
	identity.RoleStaff: {
		OpList: true, OpRead: true, OpCreate: true, OpMutate: true,
	},
	identity.RoleVolunteer: {
		OpList: true, OpRead: true, OpCreate: false, OpMutate: false,
	},
}

func roleAllows(role identity.Role, op Operation) bool {
	return permissions[role][op]
}

// ShelterFilter es el filtro efectivo por refugio para lecturas.
// All=true solo para SUPER_ADMIN sin filtro explícito.
type ShelterFilter struct {
	All       bool
	ShelterID string
}

// ApplyShelterScope calcula el filtro efectivo para list.
//   - SUPER_ADMIN: sin filtro, salvo que él mismo pida acotar por refugio
//     (eso siempre se permite).
//   - Resto de roles: el filtro se fuerza a su propio refugio. El filtro que
//     venga del caller se IGNORA, nunca se honra: es el borde duro de
//     aislamiento entre refugios, no un default.
//
// Falla con ErrForbidden si un rol no-super no tiene refugio asignado.
func ApplyShelterScope(id identity.Identity, requested string) (ShelterFilter, error) {
	if !roleAllows(id.Role, OpList) {
		return ShelterFilter{}, fmt.Errorf("%w: role %s cannot list dogs", ErrForbidden, id.Role)
	}

	if id.Role == identity.RoleSuperAdmin {
		if requested != "" {
			return ShelterFilter{ShelterID: requested}, nil
		}
		return ShelterFilter{All: true}, nil
	}

	if id.ShelterID == nil {
		return ShelterFilter{}, fmt.Errorf("%w: no shelter assigned", ErrForbidden)
	}
	return ShelterFilter{ShelterID: *id.ShelterID}, nil
}

// AuthorizeRead decide si la identidad puede leer un perro del refugio dado.
func AuthorizeRead(id identity.Identity, dogShelterID string) error {
	if !roleAllows(id.Role, OpRead) {
		return fmt.Errorf("%w: role %s cannot read dogs", ErrForbidden, id.Role)
	}
	if id.Role == identity.RoleSuperAdmin {
		return nil
	}
	if !id.InShelter(dogShelterID) {
		return fmt.Errorf("%w: access denied to this dog", ErrForbidden)
	}
	return nil
}

// AuthorizeCreate decide si la identidad puede crear y a qué refugio se
// atribuye el perro nuevo. El refugio lo asigna la política, nunca el input
// del caller. Un SUPER_ADMIN sin refugio propio tampoco puede crear: no
// existe un path "crear en refugio X", así que se falla cerrado.
func AuthorizeCreate(id identity.Identity) (string, error) {
	if !roleAllows(id.Role, OpCreate) {
		return "", fmt.Errorf("%w: role %s cannot create dogs", ErrForbidden, id.Role)
	}
	if id.ShelterID == nil {
		return "", fmt.Errorf("%w: no shelter assigned", ErrForbidden)
	}
	return *id.ShelterID, nil
}

// AuthorizeMutate decide update/delete sobre un perro del refugio dado.
func AuthorizeMutate(id identity.Identity, dogShelterID string) error {
	if !roleAllows(id.Role, OpMutate) {
		return fmt.Errorf("%w: role %s cannot modify dogs", ErrForbidden, id.Role)
	}
	if id.Role == identity.RoleSuperAdmin {
		return nil
	}
	if !id.InShelter(dogShelterID) {
		return fmt.Errorf("%w: access denied to this dog", ErrForbidden)
	}
	return nil
}
