package dogs

import (
	"context"
	"errors"
	"strings"
	"time"

	"shelter-registry/internal/domain/identity"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("microchip id already exists")
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// ListInput trae los filtros del caller tal cual llegaron. ShelterID solo se
// honra para SUPER_ADMIN; para el resto lo pisa ApplyShelterScope.
type ListInput struct {
	ShelterID string
	Status    Status
	Page      int
	Limit     int
}

type ListPage struct {
	Items      []Dog
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

func (s *Service) List(ctx context.Context, ident identity.Identity, in ListInput) (ListPage, error) {
	scope, err := ApplyShelterScope(ident, strings.TrimSpace(in.ShelterID))
	if err != nil {
		return ListPage{}, err
	}

	p := normalizePagination(in.Page, in.Limit)
	items, total, err := s.repo.ListLive(ctx, Filter{Shelter: scope, Status: in.Status}, p)
	if err != nil {
		return ListPage{}, err
	}

	return ListPage{
		Items:      items,
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages(total, p.Limit),
	}, nil
}

// GetByID aplica el orden existencia-antes-que-propiedad: primero se
// confirma que el perro existe y está vivo (si no, ErrNotFound), recién
// después se evalúa el refugio. Así un id ajeno inexistente no filtra
// información vía el tipo de error.
func (s *Service) GetByID(ctx context.Context, ident identity.Identity, id string) (Dog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Dog{}, ErrNotFound
	}

	d, err := s.repo.GetLiveByID(ctx, id)
	if err != nil {
		return Dog{}, err
	}

	if err := AuthorizeRead(ident, d.ShelterID); err != nil {
		return Dog{}, err
	}
	return d, nil
}

type CreateInput struct {
	Name            string
	Sex             Sex
	Size            Size
	Status          Status
	ApproxBirthdate *time.Time
	Breed           string
	WeightKg        *float64
	MicrochipID     string
	IntakeDate      *time.Time
	Description     string
}

// Create chequea rol ANTES de tocar el store (un volunteer se rechaza sin
// ninguna lectura). El refugio del perro nuevo lo decide la política.
func (s *Service) Create(ctx context.Context, ident identity.Identity, in CreateInput) (Dog, error) {
	shelterID, err := AuthorizeCreate(ident)
	if err != nil {
		return Dog{}, err
	}

	if strings.TrimSpace(in.Name) == "" {
		return Dog{}, ErrInvalidInput
	}

	chip := strings.TrimSpace(in.MicrochipID)
	if chip != "" {
		taken, err := s.repo.ExistsLiveMicrochip(ctx, chip, "")
		if err != nil {
			return Dog{}, err
		}
		if taken {
			return Dog{}, ErrConflict
		}
	}

	now := s.now()
	d := Dog{
		ID:              uuid.NewString(),
		ShelterID:       shelterID,
		Name:            strings.TrimSpace(in.Name),
		Sex:             in.Sex,
		Size:            in.Size,
		Status:          in.Status,
		ApproxBirthdate: in.ApproxBirthdate,
		Breed:           strings.TrimSpace(in.Breed),
		WeightKg:        in.WeightKg,
		MicrochipID:     chip,
		IntakeDate:      in.IntakeDate,
		Description:     in.Description,
		CreatedAt:       now,
		UpdatedAt:       now,
		DeletedAt:       nil,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return Dog{}, err
	}
	return d, nil
}

// Campos opcionales de un PATCH: Present=false significa "no tocar",
// Present=true con Value=nil significa "limpiar". Mismo truco que el
// birth_date del módulo de mascotas original.
type OptionalString struct {
	Present bool
	Value   *string
}

type OptionalFloat struct {
	Present bool
	Value   *float64
}

type OptionalDate struct {
	Present bool
	Value   *time.Time
}

// UpdateInput es un patch parcial. Punteros nil = campo no enviado.
// ShelterID no aparece a propósito: la propiedad es inmutable.
type UpdateInput struct {
	Name            *string
	Sex             *Sex
	Size            *Size
	Status          *Status
	ApproxBirthdate OptionalDate
	Breed           OptionalString
	WeightKg        OptionalFloat
	MicrochipID     OptionalString
	IntakeDate      OptionalDate
	Description     OptionalString
}

func (s *Service) Update(ctx context.Context, ident identity.Identity, id string, in UpdateInput) (Dog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Dog{}, ErrNotFound
	}

	// Existencia primero, propiedad después (igual que GetByID).
	d, err := s.repo.GetLiveByID(ctx, id)
	if err != nil {
		return Dog{}, err
	}
	if err := AuthorizeMutate(ident, d.ShelterID); err != nil {
		return Dog{}, err
	}

	if in.MicrochipID.Present && in.MicrochipID.Value != nil {
		chip := strings.TrimSpace(*in.MicrochipID.Value)
		if chip != "" && chip != d.MicrochipID {
			taken, err := s.repo.ExistsLiveMicrochip(ctx, chip, d.ID)
			if err != nil {
				return Dog{}, err
			}
			if taken {
				return Dog{}, ErrConflict
			}
		}
	}

	applyPatch(&d, in)
	d.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, d); err != nil {
		return Dog{}, err
	}
	return d, nil
}

func (s *Service) Delete(ctx context.Context, ident identity.Identity, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}

	d, err := s.repo.GetLiveByID(ctx, id)
	if err != nil {
		return err
	}
	if err := AuthorizeMutate(ident, d.ShelterID); err != nil {
		return err
	}

	return s.repo.SoftDelete(ctx, d.ID, s.now())
}

// applyPatch toca solo los campos presentes. Los ausentes quedan
// byte-idénticos a su valor previo.
func applyPatch(d *Dog, in UpdateInput) {
	if in.Name != nil {
		d.Name = strings.TrimSpace(*in.Name)
	}
	if in.Sex != nil {
		d.Sex = *in.Sex
	}
	if in.Size != nil {
		d.Size = *in.Size
	}
	if in.Status != nil {
		d.Status = *in.Status
	}
	if in.ApproxBirthdate.Present {
		d.ApproxBirthdate = in.ApproxBirthdate.Value
	}
	if in.Breed.Present {
		d.Breed = optString(in.Breed.Value)
	}
	if in.WeightKg.Present {
		d.WeightKg = in.WeightKg.Value
	}
	if in.MicrochipID.Present {
		d.MicrochipID = strings.TrimSpace(optString(in.MicrochipID.Value))
	}
	if in.IntakeDate.Present {
		d.IntakeDate = in.IntakeDate.Value
	}
	if in.Description.Present {
		d.Description = optString(in.Description.Value)
	}
}

func optString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func normalizePagination(page, limit int) Pagination {
	if page <= 0 {
		page = defaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

func totalPages(total, limit int) int {
	if total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
