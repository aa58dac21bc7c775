package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"petshop/internal/models"
	"petshop/internal/store"
)

// CartStore keeps carts in process memory, one per owner.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string]*models.Cart // owner -> cart
	now   func() time.Time
}

func NewCartStore() *CartStore {
	return &CartStore{
		carts: make(map[string]*models.Cart),
		now:   time.Now,
	}
}

func (s *CartStore) LoadCart(ctx context.Context, owner string) (*models.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, exists := s.carts[owner]
	if !exists {
		return nil, store.ErrNotFound
	}
	return cart.Clone(), nil
}

func (s *CartStore) CreateCart(ctx context.Context, owner string) (*models.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.carts[owner]; exists {
		return nil, store.ErrDuplicate
	}

	cart := models.NewCart(uuid.NewString(), owner, s.now().UTC())
	s.carts[owner] = cart
	return cart.Clone(), nil
}

func (s *CartStore) SaveCart(ctx context.Context, cart *models.Cart) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.carts[cart.Owner]
	if !exists {
		return store.ErrNotFound
	}

	saved := cart.Clone()
	saved.ID = existing.ID
	saved.CreatedAt = existing.CreatedAt
	s.carts[cart.Owner] = saved
	return nil
}

// Len reports how many carts are stored.
func (s *CartStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.carts)
}
