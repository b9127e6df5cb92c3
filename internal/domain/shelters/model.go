package shelters

import "time"

// Shelter es la unidad organizacional aislada que posee sus perros.
type Shelter struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
