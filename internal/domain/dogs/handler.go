package dogs

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shelter-registry/internal/domain/identity"
	"shelter-registry/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/dogs", func(dr chi.Router) {
		dr.Get("/", listDogsHandler(svc))
		dr.Post("/", createDogHandler(svc))
		dr.Get("/{dogID}", getDogHandler(svc))
		dr.Put("/{dogID}", updateDogHandler(svc))
		dr.Delete("/{dogID}", deleteDogHandler(svc))
	})
}

// Envelope estándar del API: {success, data?, error?, pagination?}.
type response struct {
	Success    bool            `json:"success"`
	Data       any             `json:"data,omitempty"`
	Error      *responseError  `json:"error,omitempty"`
	Pagination *paginationMeta `json:"pagination,omitempty"`
}

type responseError struct {
	Message string `json:"message"`
}

type paginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type dogResponse struct {
	ID              string     `json:"id"`
	ShelterID       string     `json:"shelterId"`
	Name            string     `json:"name"`
	Sex             Sex        `json:"sex"`
	Size            Size       `json:"size"`
	ApproxBirthdate *time.Time `json:"approxBirthdate"`
	Breed           *string    `json:"breed"`
	WeightKg        *float64   `json:"weightKg"`
	MicrochipID     *string    `json:"microchipId"`
	IntakeDate      *time.Time `json:"intakeDate"`
	Status          Status     `json:"status"`
	Description     *string    `json:"description"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type createDogRequest struct {
	Name            string   `json:"name"`
	Sex             string   `json:"sex"`
	Size            string   `json:"size"`
	Status          string   `json:"status"`
	ApproxBirthdate *string  `json:"approxBirthdate"`
	Breed           *string  `json:"breed"`
	WeightKg        *float64 `json:"weightKg"`
	MicrochipID     *string  `json:"microchipId"`
	IntakeDate      *string  `json:"intakeDate"`
	Description     *string  `json:"description"`
}

type updateDogRequest struct {
	// Punteros para PATCH real: nil = no tocar. Los campos limpiables
	// (null explícito) se detectan aparte sobre el JSON crudo.
	Name   *string `json:"name"`
	Sex    *string `json:"sex"`
	Size   *string `json:"size"`
	Status *string `json:"status"`
}

func listDogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, err := callerIdentity(r)
		if err != nil {
			writeError(w, err)
			return
		}

		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))

		out, err := svc.List(r.Context(), ident, ListInput{
			ShelterID: q.Get("shelterId"),
			Status:    Status(strings.ToUpper(strings.TrimSpace(q.Get("status")))),
			Page:      page,
			Limit:     limit,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		items := make([]dogResponse, 0, len(out.Items))
		for _, d := range out.Items {
			items = append(items, toDogResponse(d))
		}

		writeJSON(w, http.StatusOK, response{
			Success: true,
			Data:    items,
			Pagination: &paginationMeta{
				Page:       out.Page,
				Limit:      out.Limit,
				Total:      out.Total,
				TotalPages: out.TotalPages,
			},
		})
	}
}

func getDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, err := callerIdentity(r)
		if err != nil {
			writeError(w, err)
			return
		}

		d, err := svc.GetByID(r.Context(), ident, chi.URLParam(r, "dogID"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, response{Success: true, Data: toDogResponse(d)})
	}
}

func createDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, err := callerIdentity(r)
		if err != nil {
			writeError(w, err)
			return
		}

		var req createDogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid json")
			return
		}

		bd, err := parseDatePtr(req.ApproxBirthdate)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "approxBirthdate must be a date")
			return
		}
		intake, err := parseDatePtr(req.IntakeDate)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "intakeDate must be a date")
			return
		}

		d, err := svc.Create(r.Context(), ident, CreateInput{
			Name:            req.Name,
			Sex:             Sex(strings.ToUpper(strings.TrimSpace(req.Sex))),
			Size:            Size(strings.ToUpper(strings.TrimSpace(req.Size))),
			Status:          Status(strings.ToUpper(strings.TrimSpace(req.Status))),
			ApproxBirthdate: bd,
			Breed:           derefString(req.Breed),
			WeightKg:        req.WeightKg,
			MicrochipID:     derefString(req.MicrochipID),
			IntakeDate:      intake,
			Description:     derefString(req.Description),
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, response{Success: true, Data: toDogResponse(d)})
	}
}

func updateDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, err := callerIdentity(r)
		if err != nil {
			writeError(w, err)
			return
		}

		// Para distinguir "campo ausente" de "campo: null" decodificamos
		// primero a un map crudo y miramos presencia por clave.
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid json")
			return
		}

		var req updateDogRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				writeMessage(w, http.StatusBadRequest, "invalid json")
				return
			}
		}

		in := UpdateInput{}
		if req.Name != nil {
			in.Name = req.Name
		}
		if req.Sex != nil {
			s := Sex(strings.ToUpper(strings.TrimSpace(*req.Sex)))
			in.Sex = &s
		}
		if req.Size != nil {
			s := Size(strings.ToUpper(strings.TrimSpace(*req.Size)))
			in.Size = &s
		}
		if req.Status != nil {
			s := Status(strings.ToUpper(strings.TrimSpace(*req.Status)))
			in.Status = &s
		}

		var badField string
		in.ApproxBirthdate, err = optionalDateField(raw, "approxBirthdate")
		if err != nil {
			badField = "approxBirthdate"
		}
		if badField == "" {
			in.IntakeDate, err = optionalDateField(raw, "intakeDate")
			if err != nil {
				badField = "intakeDate"
			}
		}
		if badField != "" {
			writeMessage(w, http.StatusBadRequest, badField+" must be a date or null")
			return
		}

		in.Breed = optionalStringField(raw, "breed")
		in.MicrochipID = optionalStringField(raw, "microchipId")
		in.Description = optionalStringField(raw, "description")
		in.WeightKg = optionalFloatField(raw, "weightKg")

		d, err := svc.Update(r.Context(), ident, chi.URLParam(r, "dogID"), in)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, response{Success: true, Data: toDogResponse(d)})
	}
}

func deleteDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, err := callerIdentity(r)
		if err != nil {
			writeError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), ident, chi.URLParam(r, "dogID")); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, response{Success: true})
	}
}

// callerIdentity resuelve la identidad una sola vez por request a partir de
// los claims que dejó el middleware. Los handlers nunca re-derivan
// rol/refugio desde el input crudo.
func callerIdentity(r *http.Request) (identity.Identity, error) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		return identity.Identity{}, identity.ErrUnauthenticated
	}
	return identity.Resolve(claims)
}

func toDogResponse(d Dog) dogResponse {
	return dogResponse{
		ID:              d.ID,
		ShelterID:       d.ShelterID,
		Name:            d.Name,
		Sex:             d.Sex,
		Size:            d.Size,
		ApproxBirthdate: d.ApproxBirthdate,
		Breed:           emptyToNil(d.Breed),
		WeightKg:        d.WeightKg,
		MicrochipID:     emptyToNil(d.MicrochipID),
		IntakeDate:      d.IntakeDate,
		Status:          d.Status,
		Description:     emptyToNil(d.Description),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// parseDate acepta RFC3339 o fecha simple YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalStringField(raw map[string]json.RawMessage, key string) OptionalString {
	v, exists := raw[key]
	if !exists {
		return OptionalString{}
	}
	if string(v) == "null" {
		return OptionalString{Present: true}
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return OptionalString{}
	}
	return OptionalString{Present: true, Value: &s}
}

func optionalFloatField(raw map[string]json.RawMessage, key string) OptionalFloat {
	v, exists := raw[key]
	if !exists {
		return OptionalFloat{}
	}
	if string(v) == "null" {
		return OptionalFloat{Present: true}
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		return OptionalFloat{}
	}
	return OptionalFloat{Present: true, Value: &f}
}

func optionalDateField(raw map[string]json.RawMessage, key string) (OptionalDate, error) {
	v, exists := raw[key]
	if !exists {
		return OptionalDate{}, nil
	}
	if string(v) == "null" {
		return OptionalDate{Present: true}, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return OptionalDate{}, err
	}
	t, err := parseDate(s)
	if err != nil {
		return OptionalDate{}, err
	}
	return OptionalDate{Present: true, Value: &t}, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrUnauthenticated), errors.Is(err, identity.ErrUnknownRole):
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, ErrNotFound):
		writeMessage(w, http.StatusNotFound, "dog not found")
	case errors.Is(err, ErrForbidden):
		writeMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrConflict):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, response{Success: false, Error: &responseError{Message: msg}})
}

// writeJSON está duplicado a propósito en handlers de distintos módulos
// (dogs/shelters) para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
