package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"petshop/internal/models"
	"petshop/internal/store"
)

type PetStore struct {
	DB *sql.DB
}

func NewPetStore(db *sql.DB) *PetStore {
	return &PetStore{DB: db}
}

const petColumns = `id, name, species, breed, age, price, description, image_url, status, seller_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (models.Pet, error) {
	var p models.Pet
	var status string
	err := row.Scan(
		&p.ID, &p.Name, &p.Species, &p.Breed, &p.Age, &p.Price,
		&p.Description, &p.ImageURL, &status, &p.SellerID, &p.CreatedAt, &p.UpdatedAt,
	)
	p.Status = models.PetStatus(status)
	return p, err
}

func buildWhere(f models.PetFilter) ([]string, []any) {
	var where []string
	var args []any

	if f.Species != "" {
		args = append(args, f.Species)
		where = append(where, fmt.Sprintf("LOWER(species) = LOWER($%d)", len(args)))
	}
	if f.Breed != "" {
		args = append(args, f.Breed)
		where = append(where, fmt.Sprintf("LOWER(breed) = LOWER($%d)", len(args)))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		where = append(where, fmt.Sprintf("price >= $%d", len(args)))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		where = append(where, fmt.Sprintf("price <= $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(name ILIKE $%d OR species ILIKE $%d OR breed ILIKE $%d OR description ILIKE $%d)",
			n, n, n, n,
		))
	}
	return where, args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (s *PetStore) ListPets(ctx context.Context, filter models.PetFilter) ([]models.Pet, error) {
	where, args := buildWhere(filter)

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	q := fmt.Sprintf(`SELECT %s FROM pets %s ORDER BY created_at DESC, id DESC`, petColumns, whereSQL)

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list pets: %w", err)
	}
	defer rows.Close()

	pets := []models.Pet{}
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan pet: %w", err)
		}
		pets = append(pets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list pets: %w", err)
	}
	return pets, nil
}

func (s *PetStore) GetPet(ctx context.Context, id string) (*models.Pet, error) {
	q := fmt.Sprintf(`SELECT %s FROM pets WHERE id = $1`, petColumns)

	p, err := scanPet(s.DB.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: get pet: %w", err)
	}
	return &p, nil
}

func (s *PetStore) CreatePet(ctx context.Context, pet *models.Pet) error {
	q := fmt.Sprintf(`INSERT INTO pets (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`, petColumns)

	_, err := s.DB.ExecContext(ctx, q,
		pet.ID, pet.Name, pet.Species, pet.Breed, pet.Age, pet.Price,
		pet.Description, pet.ImageURL, string(pet.Status), pet.SellerID, pet.CreatedAt, pet.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("postgres: create pet: %w", err)
	}
	return nil
}

func (s *PetStore) UpdatePet(ctx context.Context, pet *models.Pet) error {
	const q = `
UPDATE pets
SET name = $2, species = $3, breed = $4, age = $5, price = $6,
    description = $7, image_url = $8, status = $9, updated_at = $10
WHERE id = $1`

	res, err := s.DB.ExecContext(ctx, q,
		pet.ID, pet.Name, pet.Species, pet.Breed, pet.Age, pet.Price,
		pet.Description, pet.ImageURL, string(pet.Status), pet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: update pet: %w", err)
	}
	return expectOneRow(res)
}

func (s *PetStore) DeletePet(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete pet: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
