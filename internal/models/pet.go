package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PetStatus string

const (
	PetStatusAvailable PetStatus = "available"
	PetStatusSold      PetStatus = "sold"
)

func (s PetStatus) Valid() bool {
	return s == PetStatusAvailable || s == PetStatusSold
}

type Pet struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Species     string          `json:"species"`
	Breed       string          `json:"breed"`
	Age         int             `json:"age"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	Status      PetStatus       `json:"status"`
	SellerID    string          `json:"seller"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (p *Pet) Available() bool {
	return p.Status == PetStatusAvailable
}

// PetSummary is the read projection embedded in cart responses.
type PetSummary struct {
	ID        string          `json:"_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"imageUrl"`
	Available bool            `json:"available"`
}

// PetFilter narrows catalog listings. Zero values mean "no filter".
type PetFilter struct {
	Species  string
	Breed    string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Search   string
}

// CreatePetRequest uses pointers for Age and Price so a missing field is
// rejected instead of read as zero.
type CreatePetRequest struct {
	Name        string           `json:"name" binding:"required"`
	Species     string           `json:"species" binding:"required"`
	Breed       string           `json:"breed" binding:"required"`
	Age         *int             `json:"age" binding:"required,gte=0"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Description string           `json:"description" binding:"required"`
	ImageURL    string           `json:"imageUrl" binding:"required"`
}

// UpdatePetRequest carries a partial update; empty fields keep the stored value.
type UpdatePetRequest struct {
	Name        string           `json:"name"`
	Species     string           `json:"species"`
	Breed       string           `json:"breed"`
	Age         int              `json:"age" binding:"gte=0"`
	Price       *decimal.Decimal `json:"price"`
	Description string           `json:"description"`
	ImageURL    string           `json:"imageUrl"`
	Status      PetStatus        `json:"status"`
}

// Match reports whether p passes every set filter. Search is a case-insensitive
// substring match over name, species, breed and description.
func (f PetFilter) Match(p *Pet) bool {
	if f.Species != "" && !strings.EqualFold(p.Species, f.Species) {
		return false
	}
	if f.Breed != "" && !strings.EqualFold(p.Breed, f.Breed) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		for _, field := range []string{p.Name, p.Species, p.Breed, p.Description} {
			if strings.Contains(strings.ToLower(field), q) {
				return true
			}
		}
		return false
	}
	return true
}
