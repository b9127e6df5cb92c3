package shelters

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"shelter-registry/internal/domain/identity"
	"shelter-registry/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/shelters", func(sr chi.Router) {
		sr.Get("/", listSheltersHandler(svc))
		sr.Get("/{shelterID}", getShelterHandler(svc))
	})
}

type response struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *responseError `json:"error,omitempty"`
}

type responseError struct {
	Message string `json:"message"`
}

type shelterResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func listSheltersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, err := callerIdentity(r)
		if err != nil {
			writeError(w, err)
			return
		}

		items, err := svc.List(r.Context(), ident)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]shelterResponse, 0, len(items))
		for _, sh := range items {
			out = append(out, toShelterResponse(sh))
		}
		writeJSON(w, http.StatusOK, response{Success: true, Data: out})
	}
}

func getShelterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, err := callerIdentity(r)
		if err != nil {
			writeError(w, err)
			return
		}

		sh, err := svc.GetByID(r.Context(), ident, chi.URLParam(r, "shelterID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, response{Success: true, Data: toShelterResponse(sh)})
	}
}

func callerIdentity(r *http.Request) (identity.Identity, error) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		return identity.Identity{}, identity.ErrUnauthenticated
	}
	return identity.Resolve(claims)
}

func toShelterResponse(s Shelter) shelterResponse {
	return shelterResponse{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrUnauthenticated), errors.Is(err, identity.ErrUnknownRole):
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, ErrNotFound):
		writeMessage(w, http.StatusNotFound, "shelter not found")
	case errors.Is(err, ErrForbidden):
		writeMessage(w, http.StatusForbidden, err.Error())
	default:
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, response{Success: false, Error: &responseError{Message: msg}})
}

// Duplicado a propósito (ver nota en dogs/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
