package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"petshop/internal/models"
	"petshop/internal/store"
)

type CartStore struct {
	DB  *sql.DB
	now func() time.Time
}

func NewCartStore(db *sql.DB) *CartStore {
	return &CartStore{DB: db, now: time.Now}
}

func (s *CartStore) LoadCart(ctx context.Context, owner string) (*models.Cart, error) {
	const q = `
SELECT id, owner, items, total_amount, created_at, updated_at
FROM carts
WHERE owner = $1`

	var (
		cart  models.Cart
		items []byte
	)
	err := s.DB.QueryRowContext(ctx, q, owner).Scan(
		&cart.ID, &cart.Owner, &items, &cart.TotalAmount, &cart.CreatedAt, &cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: load cart: %w", err)
	}

	cart.Items = []models.CartItem{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &cart.Items); err != nil {
			return nil, fmt.Errorf("postgres: decode cart items: %w", err)
		}
	}
	return &cart, nil
}

func (s *CartStore) CreateCart(ctx context.Context, owner string) (*models.Cart, error) {
	const q = `
INSERT INTO carts (id, owner, items, total_amount, created_at, updated_at)
VALUES ($1, $2, '[]', 0, $3, $3)`

	cart := models.NewCart(uuid.NewString(), owner, s.now().UTC())
	if _, err := s.DB.ExecContext(ctx, q, cart.ID, cart.Owner, cart.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicate
		}
		return nil, fmt.Errorf("postgres: create cart: %w", err)
	}
	return cart, nil
}

func (s *CartStore) SaveCart(ctx context.Context, cart *models.Cart) error {
	const q = `
UPDATE carts
SET items = $2, total_amount = $3, updated_at = $4
WHERE owner = $1`

	items := cart.Items
	if items == nil {
		items = []models.CartItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("postgres: encode cart items: %w", err)
	}

	res, err := s.DB.ExecContext(ctx, q, cart.Owner, string(raw), cart.TotalAmount, cart.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres: save cart: %w", err)
	}
	return expectOneRow(res)
}
