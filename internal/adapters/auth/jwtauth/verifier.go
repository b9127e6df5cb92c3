package jwtauth

import (
	"context"
	"errors"
	"strings"
	"time"

	"shelter-registry/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSecret     = errors.New("jwt secret not configured")
	ErrInvalidToken = errors.New("invalid token")
)

// tokenClaims es el formato del access token que emite el servicio de
// cuentas: user_id + role + shelter_id como custom claims.
type tokenClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
	ShelterID string `json:"shelter_id,omitempty"`
	jwt.RegisteredClaims
}

// Verifier implementa auth.AuthVerifier validando JWT HS256 localmente.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || len(v.secret) == 0 {
		return auth.Claims{}, ErrNoSecret
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil {
		return auth.Claims{}, err
	}
	if !parsed.Valid {
		return auth.Claims{}, jwt.ErrSignatureInvalid
	}

	if strings.TrimSpace(claims.UserID) == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	return auth.Claims{
		UserID:    strings.TrimSpace(claims.UserID),
		Email:     strings.TrimSpace(claims.Email),
		Role:      strings.TrimSpace(claims.Role),
		ShelterID: strings.TrimSpace(claims.ShelterID),
	}, nil
}

// GenerateToken firma un token con los claims dados. Lo usan los tests y
// el tooling de dev; la emisión real vive en el servicio de cuentas.
func GenerateToken(secret, userID, email, role, shelterID string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		ShelterID: shelterID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
