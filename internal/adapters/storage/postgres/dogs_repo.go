package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"shelter-registry/internal/domain/dogs"
)

type DogsRepo struct {
	db *sql.DB
}

func NewDogsRepo(db *sql.DB) *DogsRepo {
	return &DogsRepo{db: db}
}

const dogColumns = `
	id, shelter_id,
	name, sex, size,
	approx_birthdate, breed, weight_kg, microchip_id, intake_date,
	status, description,
	created_at, updated_at`

func (r *DogsRepo) Create(ctx context.Context, d dogs.Dog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dogs (
			id, shelter_id,
			name, sex, size,
			approx_birthdate, breed, weight_kg, microchip_id, intake_date,
			status, description,
			created_at, updated_at, deleted_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,NULL)
	`,
		d.ID,
		d.ShelterID,
		d.Name,
		string(d.Sex),
		string(d.Size),
		toNullTime(d.ApproxBirthdate),
		toNullString(d.Breed),
		toNullFloat(d.WeightKg),
		toNullString(d.MicrochipID),
		toNullTime(d.IntakeDate),
		string(d.Status),
		toNullString(d.Description),
		d.CreatedAt,
		d.UpdatedAt,
	)
	return err
}

// Update persiste la fila completa; el patch parcial ya lo aplicó el
// service. shelter_id no aparece en el SET: la propiedad es inmutable.
func (r *DogsRepo) Update(ctx context.Context, d dogs.Dog) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dogs
		SET
			name = $2,
			sex = $3,
			size = $4,
			approx_birthdate = $5,
			breed = $6,
			weight_kg = $7,
			microchip_id = $8,
			intake_date = $9,
			status = $10,
			description = $11,
			updated_at = $12
		WHERE id = $1 AND deleted_at IS NULL
	`,
		d.ID,
		d.Name,
		string(d.Sex),
		string(d.Size),
		toNullTime(d.ApproxBirthdate),
		toNullString(d.Breed),
		toNullFloat(d.WeightKg),
		toNullString(d.MicrochipID),
		toNullTime(d.IntakeDate),
		string(d.Status),
		toNullString(d.Description),
		d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return dogs.ErrNotFound
	}
	return nil
}

func (r *DogsRepo) GetLiveByID(ctx context.Context, id string) (dogs.Dog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return dogs.Dog{}, dogs.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+dogColumns+`
		FROM dogs
		WHERE id = $1 AND deleted_at IS NULL
	`, id)

	d, err := scanDog(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return dogs.Dog{}, dogs.ErrNotFound
		}
		return dogs.Dog{}, err
	}
	return d, nil
}

func (r *DogsRepo) ListLive(ctx context.Context, f dogs.Filter, p dogs.Pagination) ([]dogs.Dog, int, error) {
	where := []string{"deleted_at IS NULL"}
	args := []any{}

	if !f.Shelter.All {
		args = append(args, f.Shelter.ShelterID)
		where = append(where, fmt.Sprintf("shelter_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM dogs WHERE "+cond, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM dogs
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, dogColumns, cond, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]dogs.Dog, 0)
	for rows.Next() {
		d, err := scanDog(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r *DogsRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dogs
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`, id, at)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return dogs.ErrNotFound
	}
	return nil
}

func (r *DogsRepo) ExistsLiveMicrochip(ctx context.Context, microchipID, excludeID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM dogs
		WHERE microchip_id = $1
		  AND deleted_at IS NULL
		  AND ($2 = '' OR id <> $2)
	`, microchipID, excludeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDog(row rowScanner) (dogs.Dog, error) {
	var (
		d           dogs.Dog
		sex, size   string
		status      string
		bd, intake  sql.NullTime
		breed       sql.NullString
		weight      sql.NullFloat64
		chip        sql.NullString
		description sql.NullString
	)

	if err := row.Scan(
		&d.ID,
		&d.ShelterID,
		&d.Name,
		&sex,
		&size,
		&bd,
		&breed,
		&weight,
		&chip,
		&intake,
		&status,
		&description,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return dogs.Dog{}, err
	}

	d.Sex = dogs.Sex(sex)
	d.Size = dogs.Size(size)
	d.Status = dogs.Status(status)
	d.Breed = breed.String
	d.MicrochipID = chip.String
	d.Description = description.String
	if bd.Valid {
		t := bd.Time
		d.ApproxBirthdate = &t
	}
	if intake.Valid {
		t := intake.Time
		d.IntakeDate = &t
	}
	if weight.Valid {
		w := weight.Float64
		d.WeightKg = &w
	}
	return d, nil
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func toNullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
