package identity

import (
	"errors"
	"strings"

	"shelter-registry/internal/ports/auth"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnknownRole     = errors.New("unknown role")
)

// Role define los niveles de permiso del sistema. Enumeración fija.
type Role string

const (
	RoleSuperAdmin   Role = "SUPER_ADMIN"
	RoleShelterAdmin Role = "SHELTER_ADMIN"
	RoleStaff        Role = "STAFF"
	RoleVolunteer    Role = "VOLUNTEER"
)

// ParseRole valida el string crudo del claim contra la enumeración.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleSuperAdmin:
		return RoleSuperAdmin, nil
	case RoleShelterAdmin:
		return RoleShelterAdmin, nil
	case RoleStaff:
		return RoleStaff, nil
	case RoleVolunteer:
		return RoleVolunteer, nil
	default:
		return "", ErrUnknownRole
	}
}

// Identity es el par (rol, refugio) que usan todas las decisiones de
// autorización aguas abajo. Inmutable durante el request; nunca se
// re-deriva desde input crudo del caller.
type Identity struct {
	UserID    string
	Role      Role
	ShelterID *string // nil = sin refugio asignado (solo válido para SUPER_ADMIN)
}

// InShelter indica si la identidad tiene asignado el refugio dado.
func (i Identity) InShelter(shelterID string) bool {
	return i.ShelterID != nil && *i.ShelterID == shelterID
}

// Resolve proyecta los claims verificados a una Identity.
// Proyección pura: no toca red ni storage. Falla con ErrUnauthenticated
// si no hay principal, ErrUnknownRole si el rol no es de la enumeración.
func Resolve(claims auth.Claims) (Identity, error) {
	userID := strings.TrimSpace(claims.UserID)
	if userID == "" {
		return Identity{}, ErrUnauthenticated
	}

	role, err := ParseRole(claims.Role)
	if err != nil {
		return Identity{}, err
	}

	var shelterID *string
	if s := strings.TrimSpace(claims.ShelterID); s != "" {
		shelterID = &s
	}

	return Identity{
		UserID:    userID,
		Role:      role,
		ShelterID: shelterID,
	}, nil
}
