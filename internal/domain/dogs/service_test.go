package dogs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"shelter-registry/internal/domain/identity"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID  map[string]Dog
	reads int // lecturas al store, para validar que create no toca nada en deny
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Dog{}}
}

func (r *testRepo) Create(ctx context.Context, d Dog) error {
	if d.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[d.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[d.ID] = d
	return nil
}

func (r *testRepo) Update(ctx context.Context, d Dog) error {
	cur, ok := r.byID[d.ID]
	if !ok || !cur.Live() {
		return ErrNotFound
	}
	r.byID[d.ID] = d
	return nil
}

func (r *testRepo) GetLiveByID(ctx context.Context, id string) (Dog, error) {
	r.reads++
	d, ok := r.byID[id]
	if !ok || !d.Live() {
		return Dog{}, ErrNotFound
	}
	return d, nil
}

func (r *testRepo) ListLive(ctx context.Context, f Filter, p Pagination) ([]Dog, int, error) {
	r.reads++
	matched := make([]Dog, 0)
	for _, d := range r.byID {
		if !d.Live() {
			continue
		}
		if !f.Shelter.All && d.ShelterID != f.Shelter.ShelterID {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		matched = append(matched, d)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := p.Offset()
	if start >= total {
		return []Dog{}, total, nil
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *testRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	d, ok := r.byID[id]
	if !ok || !d.Live() {
		return ErrNotFound
	}
	d.DeletedAt = &at
	r.byID[id] = d
	return nil
}

func (r *testRepo) ExistsLiveMicrochip(ctx context.Context, microchipID, excludeID string) (bool, error) {
	r.reads++
	for _, d := range r.byID {
		if !d.Live() || d.ID == excludeID {
			continue
		}
		if d.MicrochipID != "" && d.MicrochipID == microchipID {
			return true, nil
		}
	}
	return false, nil
}

func seedDog(r *testRepo, id, shelterID string, at time.Time) Dog {
	d := Dog{
		ID:        id,
		ShelterID: shelterID,
		Name:      "dog-" + id,
		Sex:       SexUnknown,
		Size:      SizeMedium,
		Status:    StatusAvailable,
		CreatedAt: at,
		UpdatedAt: at,
	}
	r.byID[id] = d
	return d
}

// -------------------------
// Tests
// -------------------------

func TestService_List_ForcesOwnShelter(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	seedDog(repo, "d1", "s1", now)
	seedDog(repo, "d2", "s2", now.Add(time.Minute))

	// El staff pide explícitamente el refugio ajeno: se ignora.
	out, err := svc.List(context.Background(), ident(identity.RoleStaff, "s1"), ListInput{ShelterID: "s2"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(out.Items) != 1 || out.Items[0].ID != "d1" {
		t.Fatalf("expected only own-shelter dog d1, got %#v", out.Items)
	}
	for _, d := range out.Items {
		if d.ShelterID != "s1" {
			t.Fatalf("tenant isolation broken: got dog from %s", d.ShelterID)
		}
	}
}

func TestService_List_SuperAdminSeesAll(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	seedDog(repo, "d1", "s1", now)
	seedDog(repo, "d2", "s2", now.Add(time.Minute))

	out, err := svc.List(context.Background(), ident(identity.RoleSuperAdmin, ""), ListInput{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if out.Total != 2 {
		t.Fatalf("expected 2 dogs across shelters, got %d", out.Total)
	}

	// Y si él mismo acota, se respeta.
	out, err = svc.List(context.Background(), ident(identity.RoleSuperAdmin, ""), ListInput{ShelterID: "s2"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if out.Total != 1 || out.Items[0].ID != "d2" {
		t.Fatalf("expected only d2, got %#v", out.Items)
	}
}

func TestService_List_NoShelterAssigned(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.List(context.Background(), ident(identity.RoleShelterAdmin, ""), ListInput{})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestService_List_PaginationArithmetic(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 47; i++ {
		seedDog(repo, fmt.Sprintf("d%02d", i), "s1", base.Add(time.Duration(i)*time.Second))
	}

	staff := ident(identity.RoleStaff, "s1")

	out, err := svc.List(context.Background(), staff, ListInput{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if out.Page != 1 || out.Limit != 20 {
		t.Fatalf("expected defaults page=1 limit=20, got %d/%d", out.Page, out.Limit)
	}
	if out.Total != 47 || out.TotalPages != 3 {
		t.Fatalf("expected total=47 totalPages=3, got %d/%d", out.Total, out.TotalPages)
	}
	if len(out.Items) != 20 {
		t.Fatalf("expected 20 items on page 1, got %d", len(out.Items))
	}

	// Página más allá del final: vacía pero con la misma metadata.
	out, err = svc.List(context.Background(), staff, ListInput{Page: 9})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(out.Items) != 0 || out.Total != 47 || out.TotalPages != 3 {
		t.Fatalf("expected empty page with same metadata, got %d items total=%d pages=%d",
			len(out.Items), out.Total, out.TotalPages)
	}

	// Cap del limit.
	out, err = svc.List(context.Background(), staff, ListInput{Limit: 500})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if out.Limit != 100 {
		t.Fatalf("expected limit capped at 100, got %d", out.Limit)
	}
}

func TestService_List_EmptyTotals(t *testing.T) {
	svc := NewService(newTestRepo())

	out, err := svc.List(context.Background(), ident(identity.RoleStaff, "s1"), ListInput{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if out.Total != 0 || out.TotalPages != 0 {
		t.Fatalf("expected total=0 totalPages=0, got %d/%d", out.Total, out.TotalPages)
	}
}

func TestService_GetByID_ExistenceBeforeOwnership(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	seedDog(repo, "d1", "s2", now)

	staff := ident(identity.RoleStaff, "s1")

	// Id inexistente: NotFound, nunca Forbidden.
	_, err := svc.GetByID(context.Background(), staff, "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}

	// Existe pero es de otro refugio: ahí sí Forbidden.
	_, err = svc.GetByID(context.Background(), staff, "d1")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for out-of-shelter dog, got %v", err)
	}

	// Super admin lee cualquier refugio.
	d, err := svc.GetByID(context.Background(), ident(identity.RoleSuperAdmin, ""), "d1")
	if err != nil || d.ID != "d1" {
		t.Fatalf("super admin read failed: %v", err)
	}
}

func TestService_Create_VolunteerDeniedBeforeStore(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), ident(identity.RoleVolunteer, "s1"), CreateInput{
		Name: "Rex", MicrochipID: "chip-1",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	// El rol se chequea antes que cualquier lectura al store.
	if repo.reads != 0 {
		t.Fatalf("expected no store reads on role deny, got %d", repo.reads)
	}
}

func TestService_Create_SuperAdminWithoutShelter(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), ident(identity.RoleSuperAdmin, ""), CreateInput{Name: "Rex"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden (fail closed), got %v", err)
	}
}

func TestService_Create_AssignsShelterFromPolicy(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	d, err := svc.Create(context.Background(), ident(identity.RoleShelterAdmin, "s1"), CreateInput{
		Name: "Rex", Sex: SexMale, Size: SizeLarge, Status: StatusAvailable,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if d.ShelterID != "s1" {
		t.Fatalf("expected shelter s1 from policy, got %s", d.ShelterID)
	}
	if d.CreatedAt != now || d.UpdatedAt != now {
		t.Fatalf("expected timestamps set to now")
	}
	if d.DeletedAt != nil {
		t.Fatalf("new dog must be live")
	}
}

func TestService_Create_MicrochipUniqueness(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	staff := ident(identity.RoleStaff, "s1")
	first, err := svc.Create(context.Background(), staff, CreateInput{Name: "Rex", MicrochipID: "chip-1"})
	if err != nil {
		t.Fatalf("Create #1 returned error: %v", err)
	}

	// Mismo chip desde OTRO refugio: la unicidad es global, no por refugio.
	_, err = svc.Create(context.Background(), ident(identity.RoleStaff, "s2"), CreateInput{
		Name: "Luna", MicrochipID: "chip-1",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// Soft-delete del primero libera el chip.
	if err := svc.Delete(context.Background(), staff, first.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	_, err = svc.Create(context.Background(), ident(identity.RoleStaff, "s2"), CreateInput{
		Name: "Luna", MicrochipID: "chip-1",
	})
	if err != nil {
		t.Fatalf("expected create to succeed after soft delete, got %v", err)
	}
}

func TestService_Update_PartialPatch(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	created := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	before := seedDog(repo, "d1", "s1", created)
	before.Breed = "mixed"
	before.MicrochipID = "chip-9"
	w := 12.5
	before.WeightKg = &w
	repo.byID["d1"] = before

	svc.now = func() time.Time { return updated }

	status := StatusAdopted
	after, err := svc.Update(context.Background(), ident(identity.RoleStaff, "s1"), "d1", UpdateInput{
		Status: &status,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if after.Status != StatusAdopted {
		t.Fatalf("expected status ADOPTED, got %s", after.Status)
	}
	if after.UpdatedAt != updated {
		t.Fatalf("expected UpdatedAt to advance")
	}
	// Todo lo demás queda intacto.
	if after.Name != before.Name || after.Breed != before.Breed ||
		after.MicrochipID != before.MicrochipID || *after.WeightKg != *before.WeightKg ||
		after.ShelterID != before.ShelterID || after.CreatedAt != before.CreatedAt {
		t.Fatalf("partial patch touched unrelated fields: %#v", after)
	}
}

func TestService_Update_NullClearsOptional(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	created := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	d := seedDog(repo, "d1", "s1", created)
	d.Breed = "mixed"
	w := 10.0
	d.WeightKg = &w
	repo.byID["d1"] = d

	after, err := svc.Update(context.Background(), ident(identity.RoleStaff, "s1"), "d1", UpdateInput{
		Breed:    OptionalString{Present: true},
		WeightKg: OptionalFloat{Present: true},
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if after.Breed != "" || after.WeightKg != nil {
		t.Fatalf("expected breed/weight cleared, got %q %v", after.Breed, after.WeightKg)
	}
}

func TestService_Update_MicrochipConflictExcludesSelf(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	created := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	d1 := seedDog(repo, "d1", "s1", created)
	d1.MicrochipID = "chip-1"
	repo.byID["d1"] = d1
	d2 := seedDog(repo, "d2", "s1", created)
	d2.MicrochipID = "chip-2"
	repo.byID["d2"] = d2

	staff := ident(identity.RoleStaff, "s1")

	// Re-mandar el propio chip no es conflicto.
	chip1 := "chip-1"
	if _, err := svc.Update(context.Background(), staff, "d1", UpdateInput{
		MicrochipID: OptionalString{Present: true, Value: &chip1},
	}); err != nil {
		t.Fatalf("own chip should not conflict: %v", err)
	}

	// El chip de otro perro vivo sí.
	chip2 := "chip-2"
	if _, err := svc.Update(context.Background(), staff, "d1", UpdateInput{
		MicrochipID: OptionalString{Present: true, Value: &chip2},
	}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestService_Mutate_ExistenceBeforeOwnership(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	created := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	seedDog(repo, "d1", "s2", created)

	staff := ident(identity.RoleStaff, "s1")
	name := "Nuevo"

	if _, err := svc.Update(context.Background(), staff, "nope", UpdateInput{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
	if _, err := svc.Update(context.Background(), staff, "d1", UpdateInput{Name: &name}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for out-of-shelter dog, got %v", err)
	}
	if err := svc.Delete(context.Background(), staff, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
	if err := svc.Delete(context.Background(), staff, "d1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for out-of-shelter dog, got %v", err)
	}
}

func TestService_Delete_SoftDeleteInvisibility(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	created := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	seedDog(repo, "d1", "s1", created)

	staff := ident(identity.RoleStaff, "s1")

	if err := svc.Delete(context.Background(), staff, "d1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	// Después del delete, el perro no existe para nadie.
	if _, err := svc.GetByID(context.Background(), staff, "d1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	name := "x"
	if _, err := svc.Update(context.Background(), staff, "d1", UpdateInput{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update after delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), staff, "d1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}

	out, err := svc.List(context.Background(), staff, ListInput{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if out.Total != 0 {
		t.Fatalf("deleted dog still visible in list")
	}

	// Ni siquiera para el super admin.
	if _, err := svc.GetByID(context.Background(), ident(identity.RoleSuperAdmin, ""), "d1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for super admin after delete, got %v", err)
	}
}
