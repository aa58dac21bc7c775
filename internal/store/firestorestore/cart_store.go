// Package firestorestore keeps carts in Cloud Firestore, one document per
// owner in the "carts" collection (docId = owner).
package firestorestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"petshop/internal/models"
	"petshop/internal/store"
)

const cartsCollection = "carts"

// Money is stored as decimal strings; Firestore has no exact decimal type.
type cartDoc struct {
	ID          string        `firestore:"id"`
	Owner       string        `firestore:"owner"`
	Items       []cartItemDoc `firestore:"items"`
	TotalAmount string        `firestore:"totalAmount"`
	CreatedAt   time.Time     `firestore:"createdAt"`
	UpdatedAt   time.Time     `firestore:"updatedAt"`
}

type cartItemDoc struct {
	ID        string    `firestore:"id"`
	ProductID string    `firestore:"petId"`
	Name      string    `firestore:"name"`
	Quantity  int       `firestore:"quantity"`
	Price     string    `firestore:"price"`
	AddedAt   time.Time `firestore:"addedAt"`
}

func itemDocsFromDomain(items []models.CartItem) []cartItemDoc {
	out := make([]cartItemDoc, 0, len(items))
	for _, it := range items {
		out = append(out, cartItemDoc{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price.String(),
			AddedAt:   it.AddedAt,
		})
	}
	return out
}

func cartDocFromDomain(c *models.Cart) cartDoc {
	return cartDoc{
		ID:          c.ID,
		Owner:       c.Owner,
		Items:       itemDocsFromDomain(c.Items),
		TotalAmount: c.TotalAmount.String(),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (d cartDoc) toDomain() (*models.Cart, error) {
	total, err := decimal.NewFromString(d.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("firestore: cart %s total: %w", d.Owner, err)
	}

	c := &models.Cart{
		ID:          d.ID,
		Owner:       d.Owner,
		Items:       make([]models.CartItem, 0, len(d.Items)),
		TotalAmount: total,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	for _, it := range d.Items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return nil, fmt.Errorf("firestore: cart %s item %s price: %w", d.Owner, it.ID, err)
		}
		c.Items = append(c.Items, models.CartItem{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     price,
			AddedAt:   it.AddedAt,
		})
	}
	return c, nil
}

type CartStore struct {
	Client *firestore.Client
	now    func() time.Time
}

func NewCartStore(client *firestore.Client) *CartStore {
	return &CartStore{Client: client, now: time.Now}
}

func (s *CartStore) col() *firestore.CollectionRef {
	return s.Client.Collection(cartsCollection)
}

func (s *CartStore) LoadCart(ctx context.Context, owner string) (*models.Cart, error) {
	snap, err := s.col().Doc(owner).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("firestore: load cart: %w", err)
	}

	var doc cartDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore: decode cart: %w", err)
	}
	// docId is the source of truth for the owner.
	doc.Owner = owner
	return doc.toDomain()
}

func (s *CartStore) CreateCart(ctx context.Context, owner string) (*models.Cart, error) {
	cart := models.NewCart(uuid.NewString(), owner, s.now().UTC())

	if _, err := s.col().Doc(owner).Create(ctx, cartDocFromDomain(cart)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, store.ErrDuplicate
		}
		return nil, fmt.Errorf("firestore: create cart: %w", err)
	}
	return cart, nil
}

func (s *CartStore) SaveCart(ctx context.Context, cart *models.Cart) error {
	_, err := s.col().Doc(cart.Owner).Update(ctx, []firestore.Update{
		{Path: "items", Value: itemDocsFromDomain(cart.Items)},
		{Path: "totalAmount", Value: cart.TotalAmount.String()},
		{Path: "updatedAt", Value: cart.UpdatedAt},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return store.ErrNotFound
		}
		return fmt.Errorf("firestore: save cart: %w", err)
	}
	return nil
}
