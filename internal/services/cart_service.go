package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"petshop/internal/models"
	"petshop/internal/store"
)

// CatalogLookup resolves a pet for the cart. It returns an error matching
// ErrNotFound when the pet does not exist.
type CatalogLookup interface {
	FindProduct(ctx context.Context, id string) (*models.PetSummary, error)
}

// CartStore persists one cart per owner. LoadCart returns store.ErrNotFound
// when the owner has no cart; CreateCart returns store.ErrDuplicate when one
// already exists.
type CartStore interface {
	LoadCart(ctx context.Context, owner string) (*models.Cart, error)
	CreateCart(ctx context.Context, owner string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
}

type CartService struct {
	carts   CartStore
	catalog CatalogLookup
	locks   *ownerLocks
	logger  *zap.Logger
	now     func() time.Time
}

func NewCartService(carts CartStore, catalog CatalogLookup, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		carts:   carts,
		catalog: catalog,
		locks:   newOwnerLocks(),
		logger:  logger,
		now:     time.Now,
	}
}

// GetOrCreate returns owner's cart, creating an empty one on first use.
func (s *CartService) GetOrCreate(ctx context.Context, owner string) (*models.CartView, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, NewInvalidArgument(MsgOwnerRequired)
	}

	release, err := s.locks.acquire(ctx, owner)
	if err != nil {
		return nil, err
	}
	defer release()

	cart, err := s.loadOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// AddItem puts quantity units of productID in owner's cart. If the pet is
// already in the cart its quantity is replaced, not incremented, and the
// price captured on the first add is kept.
func (s *CartService) AddItem(ctx context.Context, owner, productID string, quantity int) (*models.CartView, error) {
	owner = strings.TrimSpace(owner)
	productID = strings.TrimSpace(productID)
	if owner == "" {
		return nil, NewInvalidArgument(MsgOwnerRequired)
	}
	if productID == "" {
		return nil, NewInvalidArgument(MsgPetIDRequired)
	}
	if quantity < 1 {
		return nil, NewInvalidArgument(MsgQuantityPositive)
	}

	product, err := s.catalog.FindProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NewNotFound(MsgPetNotFound)
		}
		return nil, fmt.Errorf("cart: lookup pet %s: %w", productID, err)
	}
	if !product.Available {
		return nil, NewUnavailable(MsgPetUnavailable)
	}

	release, err := s.locks.acquire(ctx, owner)
	if err != nil {
		return nil, err
	}
	defer release()

	cart, err := s.loadOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if idx := cart.FindByProduct(productID); idx >= 0 {
		cart.Items[idx].Quantity = quantity
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			ID:        uuid.NewString(),
			ProductID: productID,
			Name:      product.Name,
			Quantity:  quantity,
			Price:     product.Price,
			AddedAt:   now,
		})
	}

	if err := s.save(ctx, cart, now); err != nil {
		return nil, err
	}

	s.logger.Info("item added to cart",
		zap.String("owner", owner),
		zap.String("pet_id", productID),
		zap.Int("quantity", quantity),
		zap.String("total", cart.TotalAmount.String()),
	)
	return s.view(ctx, cart)
}

// UpdateItemQuantity sets the quantity of one line item.
func (s *CartService) UpdateItemQuantity(ctx context.Context, owner, itemID string, quantity int) (*models.CartView, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, NewInvalidArgument(MsgOwnerRequired)
	}
	if quantity < 1 {
		return nil, NewInvalidArgument(MsgQuantityPositive)
	}

	release, err := s.locks.acquire(ctx, owner)
	if err != nil {
		return nil, err
	}
	defer release()

	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}

	idx := cart.FindByID(itemID)
	if idx < 0 {
		return nil, NewNotFound(MsgItemNotFound)
	}
	cart.Items[idx].Quantity = quantity

	if err := s.save(ctx, cart, s.now().UTC()); err != nil {
		return nil, err
	}

	s.logger.Info("cart item updated",
		zap.String("owner", owner),
		zap.String("item_id", itemID),
		zap.Int("quantity", quantity),
	)
	return s.view(ctx, cart)
}

// RemoveItem drops a line item. Removing an id that is not in the cart is a
// no-op.
func (s *CartService) RemoveItem(ctx context.Context, owner, itemID string) (*models.CartView, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, NewInvalidArgument(MsgOwnerRequired)
	}

	release, err := s.locks.acquire(ctx, owner)
	if err != nil {
		return nil, err
	}
	defer release()

	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	if err := s.save(ctx, cart, s.now().UTC()); err != nil {
		return nil, err
	}

	s.logger.Info("cart item removed", zap.String("owner", owner), zap.String("item_id", itemID))
	return s.view(ctx, cart)
}

// Clear empties owner's cart but keeps the cart itself.
func (s *CartService) Clear(ctx context.Context, owner string) error {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return NewInvalidArgument(MsgOwnerRequired)
	}

	release, err := s.locks.acquire(ctx, owner)
	if err != nil {
		return err
	}
	defer release()

	cart, err := s.load(ctx, owner)
	if err != nil {
		return err
	}

	cart.Items = []models.CartItem{}
	if err := s.save(ctx, cart, s.now().UTC()); err != nil {
		return err
	}

	s.logger.Info("cart cleared", zap.String("owner", owner))
	return nil
}

// Helper methods

func (s *CartService) load(ctx context.Context, owner string) (*models.Cart, error) {
	cart, err := s.carts.LoadCart(ctx, owner)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewNotFound(MsgCartNotFound)
		}
		return nil, fmt.Errorf("cart: load %s: %w", owner, err)
	}
	return cart, nil
}

func (s *CartService) loadOrCreate(ctx context.Context, owner string) (*models.Cart, error) {
	cart, err := s.carts.LoadCart(ctx, owner)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("cart: load %s: %w", owner, err)
	}

	cart, err = s.carts.CreateCart(ctx, owner)
	switch {
	case err == nil:
		s.logger.Debug("cart created", zap.String("owner", owner))
		return cart, nil
	case errors.Is(err, store.ErrDuplicate):
		// Another instance created it between our load and create.
		return s.load(ctx, owner)
	default:
		return nil, fmt.Errorf("cart: create %s: %w", owner, err)
	}
}

func (s *CartService) save(ctx context.Context, cart *models.Cart, now time.Time) error {
	cart.Recalculate()
	cart.UpdatedAt = now
	if err := s.carts.SaveCart(ctx, cart); err != nil {
		return fmt.Errorf("cart: save %s: %w", cart.Owner, err)
	}
	return nil
}

// view resolves each line's pet for display. A pet that has left the catalog
// is shown from the snapshot taken when it was added, marked unavailable.
func (s *CartService) view(ctx context.Context, cart *models.Cart) (*models.CartView, error) {
	items := make([]models.CartItemView, 0, len(cart.Items))
	for _, item := range cart.Items {
		summary, err := s.catalog.FindProduct(ctx, item.ProductID)
		switch {
		case err == nil:
		case errors.Is(err, ErrNotFound):
			summary = &models.PetSummary{
				ID:    item.ProductID,
				Name:  item.Name,
				Price: item.Price,
			}
		default:
			return nil, fmt.Errorf("cart: resolve pet %s: %w", item.ProductID, err)
		}

		items = append(items, models.CartItemView{
			ID:       item.ID,
			Pet:      *summary,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	return &models.CartView{
		ID:          cart.ID,
		Owner:       cart.Owner,
		Items:       items,
		TotalAmount: cart.TotalAmount,
		CreatedAt:   cart.CreatedAt,
		UpdatedAt:   cart.UpdatedAt,
	}, nil
}
