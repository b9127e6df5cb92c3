package dogs

import "time"

// Sex define el sexo del perro.
// @Enum MALE, FEMALE, UNKNOWN
type Sex string

const (
	SexMale    Sex = "MALE"
	SexFemale  Sex = "FEMALE"
	SexUnknown Sex = "UNKNOWN"
)

// Size define el tamaño.
// @Enum SMALL, MEDIUM, LARGE, XL, UNKNOWN
type Size string

const (
	SizeSmall   Size = "SMALL"
	SizeMedium  Size = "MEDIUM"
	SizeLarge   Size = "LARGE"
	SizeXL      Size = "XL"
	SizeUnknown Size = "UNKNOWN"
)

// Status define el estado de adopción.
// @Enum AVAILABLE, ON_HOLD, ADOPTED, FOSTERED, MEDICAL, UNKNOWN
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusOnHold    Status = "ON_HOLD"
	StatusAdopted   Status = "ADOPTED"
	StatusFostered  Status = "FOSTERED"
	StatusMedical   Status = "MEDICAL"
	StatusUnknown   Status = "UNKNOWN"
)

// Dog representa un perro registrado en el sistema.
// ShelterID es inmutable después de crear (la propiedad nunca se transfiere
// vía update). MicrochipID, cuando existe, es único entre TODOS los perros
// vivos del sistema, no solo dentro del refugio.
type Dog struct {
	ID        string
	ShelterID string

	Name string
	Sex  Sex
	Size Size

	ApproxBirthdate *time.Time
	Breed           string
	WeightKg        *float64
	MicrochipID     string
	IntakeDate      *time.Time
	Status          Status
	Description     string

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // nil = vivo; no-nil lo excluye de todas las operaciones
}

// Live indica si el perro sigue visible (no soft-deleted).
func (d Dog) Live() bool {
	return d.DeletedAt == nil
}
