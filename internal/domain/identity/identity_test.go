package identity

import (
	"errors"
	"testing"

	"shelter-registry/internal/ports/auth"
)

func TestResolve_MissingPrincipal(t *testing.T) {
	_, err := Resolve(auth.Claims{})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	_, err = Resolve(auth.Claims{UserID: "   ", Role: "STAFF"})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for blank user, got %v", err)
	}
}

func TestResolve_UnknownRole(t *testing.T) {
	_, err := Resolve(auth.Claims{UserID: "u1", Role: "WIZARD"})
	if !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}

	_, err = Resolve(auth.Claims{UserID: "u1"})
	if !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole for empty role, got %v", err)
	}
}

func TestResolve_RoleCaseInsensitive(t *testing.T) {
	id, err := Resolve(auth.Claims{UserID: "u1", Role: "shelter_admin", ShelterID: "s1"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if id.Role != RoleShelterAdmin {
		t.Fatalf("expected SHELTER_ADMIN, got %s", id.Role)
	}
}

func TestResolve_ShelterID(t *testing.T) {
	id, err := Resolve(auth.Claims{UserID: "u1", Role: "STAFF", ShelterID: " s1 "})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if id.ShelterID == nil || *id.ShelterID != "s1" {
		t.Fatalf("expected shelter s1, got %#v", id.ShelterID)
	}
	if !id.InShelter("s1") || id.InShelter("s2") {
		t.Fatalf("InShelter mismatch")
	}

	// Sin refugio => nil, no string vacío.
	id, err = Resolve(auth.Claims{UserID: "u1", Role: "SUPER_ADMIN"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if id.ShelterID != nil {
		t.Fatalf("expected nil shelter, got %q", *id.ShelterID)
	}
}
