package postgres

import (
	"context"
	"database/sql"
	"strings"

	"shelter-registry/internal/domain/shelters"
)

type SheltersRepo struct {
	db *sql.DB
}

func NewSheltersRepo(db *sql.DB) *SheltersRepo {
	return &SheltersRepo{db: db}
}

func (r *SheltersRepo) Create(ctx context.Context, s shelters.Shelter) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shelters (id, name, created_at, updated_at)
		VALUES ($1,$2,$3,$4)
	`, s.ID, s.Name, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *SheltersRepo) GetByID(ctx context.Context, id string) (shelters.Shelter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return shelters.Shelter{}, shelters.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM shelters
		WHERE id = $1
	`, id)

	var s shelters.Shelter
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return shelters.Shelter{}, shelters.ErrNotFound
		}
		return shelters.Shelter{}, err
	}
	return s, nil
}

func (r *SheltersRepo) List(ctx context.Context) ([]shelters.Shelter, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM shelters
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]shelters.Shelter, 0)
	for rows.Next() {
		var s shelters.Shelter
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
