package auth

// Claims representa la identidad verificada que entrega el proveedor de auth.
// Role y ShelterID vienen tal cual del token/servicio; quien los interpreta
// es el resolver de identidad (internal/domain/identity).
type Claims struct {
	UserID    string
	Email     string
	Role      string
	ShelterID string // vacío = sin refugio asignado
}
