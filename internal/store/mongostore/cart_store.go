package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"petshop/internal/models"
	"petshop/internal/store"
)

type cartDoc struct {
	ID          string               `bson:"_id"`
	Owner       string               `bson:"owner"`
	Items       []cartItemDoc        `bson:"items"`
	TotalAmount primitive.Decimal128 `bson:"totalAmount"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

type cartItemDoc struct {
	ID        string               `bson:"_id"`
	ProductID string               `bson:"pet"`
	Name      string               `bson:"name"`
	Quantity  int                  `bson:"quantity"`
	Price     primitive.Decimal128 `bson:"price"`
	AddedAt   time.Time            `bson:"addedAt"`
}

func cartDocFromDomain(c *models.Cart) (cartDoc, error) {
	total, err := toDecimal128(c.TotalAmount)
	if err != nil {
		return cartDoc{}, err
	}

	doc := cartDoc{
		ID:          c.ID,
		Owner:       c.Owner,
		Items:       make([]cartItemDoc, 0, len(c.Items)),
		TotalAmount: total,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	for _, it := range c.Items {
		price, err := toDecimal128(it.Price)
		if err != nil {
			return cartDoc{}, err
		}
		doc.Items = append(doc.Items, cartItemDoc{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     price,
			AddedAt:   it.AddedAt,
		})
	}
	return doc, nil
}

func (d cartDoc) toDomain() (*models.Cart, error) {
	total, err := fromDecimal128(d.TotalAmount)
	if err != nil {
		return nil, err
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
		price, err := fromDecimal128(it.Price)
		if err != nil {
			return nil, err
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
	col *mongo.Collection
	now func() time.Time
}

func NewCartStore(db *mongo.Database) *CartStore {
	return &CartStore{col: db.Collection(cartsCollection), now: time.Now}
}

func (s *CartStore) LoadCart(ctx context.Context, owner string) (*models.Cart, error) {
	var doc cartDoc
	if err := s.col.FindOne(ctx, bson.M{"owner": owner}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("mongo: load cart: %w", err)
	}
	return doc.toDomain()
}

func (s *CartStore) CreateCart(ctx context.Context, owner string) (*models.Cart, error) {
	cart := models.NewCart(uuid.NewString(), owner, s.now().UTC())

	doc, err := cartDocFromDomain(cart)
	if err != nil {
		return nil, err
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, store.ErrDuplicate
		}
		return nil, fmt.Errorf("mongo: create cart: %w", err)
	}
	return cart, nil
}

func (s *CartStore) SaveCart(ctx context.Context, cart *models.Cart) error {
	doc, err := cartDocFromDomain(cart)
	if err != nil {
		return err
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"owner": cart.Owner}, bson.M{"$set": bson.M{
		"items":       doc.Items,
		"totalAmount": doc.TotalAmount,
		"updatedAt":   doc.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("mongo: save cart: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
