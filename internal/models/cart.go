package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID          string          `json:"_id"`
	Owner       string          `json:"user"`
	Items       []CartItem      `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CartItem is one product line. Price and Name are captured when the item is
// first added and never follow later catalog changes.
type CartItem struct {
	ID        string          `json:"_id"`
	ProductID string          `json:"petId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	AddedAt   time.Time       `json:"addedAt"`
}

// NewCart returns an empty cart for owner.
func NewCart(id, owner string, now time.Time) *Cart {
	return &Cart{
		ID:          id,
		Owner:       owner,
		Items:       []CartItem{},
		TotalAmount: decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Recalculate sets TotalAmount from the current items only.
func (c *Cart) Recalculate() {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	c.TotalAmount = total
}

func (c *Cart) FindByProduct(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) FindByID(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// Clone deep-copies the cart so stores never share item slices with callers.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Items = make([]CartItem, len(c.Items))
	copy(cp.Items, c.Items)
	return &cp
}

// CartView is the cart as returned to clients, with each line's pet resolved.
type CartView struct {
	ID          string          `json:"_id"`
	Owner       string          `json:"user"`
	Items       []CartItemView  `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type CartItemView struct {
	ID       string          `json:"_id"`
	Pet      PetSummary      `json:"pet"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type AddToCartRequest struct {
	PetID    string `json:"petId" binding:"required"`
	Quantity int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}
