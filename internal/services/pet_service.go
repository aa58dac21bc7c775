package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"petshop/internal/models"
	"petshop/internal/store"
)

type PetStore interface {
	ListPets(ctx context.Context, filter models.PetFilter) ([]models.Pet, error)
	GetPet(ctx context.Context, id string) (*models.Pet, error)
	CreatePet(ctx context.Context, pet *models.Pet) error
	UpdatePet(ctx context.Context, pet *models.Pet) error
	DeletePet(ctx context.Context, id string) error
}

// PetService is the catalog. It also serves as the cart's CatalogLookup.
type PetService struct {
	pets   PetStore
	logger *zap.Logger
	now    func() time.Time
}

func NewPetService(pets PetStore, logger *zap.Logger) *PetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PetService{
		pets:   pets,
		logger: logger,
		now:    time.Now,
	}
}

func (s *PetService) List(ctx context.Context, filter models.PetFilter) ([]models.Pet, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, NewInvalidArgument(MsgInvalidPriceFilter)
	}

	pets, err := s.pets.ListPets(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("pets: list: %w", err)
	}
	return pets, nil
}

func (s *PetService) Get(ctx context.Context, id string) (*models.Pet, error) {
	pet, err := s.pets.GetPet(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewNotFound(MsgPetNotFound)
		}
		return nil, fmt.Errorf("pets: get %s: %w", id, err)
	}
	return pet, nil
}

// FindProduct implements CatalogLookup.
func (s *PetService) FindProduct(ctx context.Context, id string) (*models.PetSummary, error) {
	pet, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.PetSummary{
		ID:        pet.ID,
		Name:      pet.Name,
		Price:     pet.Price,
		ImageURL:  pet.ImageURL,
		Available: pet.Available(),
	}, nil
}

func (s *PetService) Create(ctx context.Context, sellerID string, req models.CreatePetRequest) (*models.Pet, error) {
	if req.Price == nil || req.Age == nil {
		return nil, NewInvalidArgument(MsgPetFieldsRequired)
	}
	if req.Price.IsNegative() {
		return nil, NewInvalidArgument(MsgPriceNegative)
	}
	if *req.Age < 0 {
		return nil, NewInvalidArgument("Age cannot be negative")
	}

	now := s.now().UTC()
	pet := &models.Pet{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Species:     strings.TrimSpace(req.Species),
		Breed:       strings.TrimSpace(req.Breed),
		Age:         *req.Age,
		Price:       *req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Status:      models.PetStatusAvailable,
		SellerID:    sellerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.pets.CreatePet(ctx, pet); err != nil {
		return nil, fmt.Errorf("pets: create: %w", err)
	}

	s.logger.Info("pet created", zap.String("pet_id", pet.ID), zap.String("seller", sellerID))
	return pet, nil
}

// Update applies a partial update: empty or zero fields keep the stored value.
// That includes a price of 0.
func (s *PetService) Update(ctx context.Context, id string, req models.UpdatePetRequest) (*models.Pet, error) {
	if req.Price != nil && req.Price.IsNegative() {
		return nil, NewInvalidArgument(MsgPriceNegative)
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, NewInvalidArgument(MsgInvalidStatus)
	}

	pet, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		pet.Name = req.Name
	}
	if req.Species != "" {
		pet.Species = req.Species
	}
	if req.Breed != "" {
		pet.Breed = req.Breed
	}
	if req.Age > 0 {
		pet.Age = req.Age
	}
	if req.Price != nil && !req.Price.IsZero() {
		pet.Price = *req.Price
	}
	if req.Description != "" {
		pet.Description = req.Description
	}
	if req.ImageURL != "" {
		pet.ImageURL = req.ImageURL
	}
	if req.Status != "" {
		pet.Status = req.Status
	}
	pet.UpdatedAt = s.now().UTC()

	if err := s.pets.UpdatePet(ctx, pet); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewNotFound(MsgPetNotFound)
		}
		return nil, fmt.Errorf("pets: update %s: %w", id, err)
	}

	s.logger.Info("pet updated", zap.String("pet_id", pet.ID), zap.String("status", string(pet.Status)))
	return pet, nil
}

// Delete removes a pet from the catalog. Carts holding it keep their snapshot.
func (s *PetService) Delete(ctx context.Context, id string) error {
	if err := s.pets.DeletePet(ctx, strings.TrimSpace(id)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewNotFound(MsgPetNotFound)
		}
		return fmt.Errorf("pets: delete %s: %w", id, err)
	}

	s.logger.Info("pet removed", zap.String("pet_id", id))
	return nil
}

// SeedSampleData fills an empty catalog with a few pets for local runs.
func (s *PetService) SeedSampleData(ctx context.Context) (int, error) {
	existing, err := s.pets.ListPets(ctx, models.PetFilter{})
	if err != nil {
		return 0, fmt.Errorf("pets: seed: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	samples := []struct {
		name, species, breed string
		age                  int
		price                string
		description, image   string
	}{
		{"Buddy", "Dog", "Golden Retriever", 2, "850", "Friendly and loves to fetch.", "https://images.example.com/buddy.jpg"},
		{"Luna", "Cat", "Siamese", 1, "400", "Curious and vocal.", "https://images.example.com/luna.jpg"},
		{"Kiwi", "Bird", "Budgerigar", 1, "49.99", "Chirpy green budgie.", "https://images.example.com/kiwi.jpg"},
		{"Shelly", "Reptile", "Red-eared Slider", 3, "75.50", "Calm turtle, tank included.", "https://images.example.com/shelly.jpg"},
	}

	for _, sample := range samples {
		age := sample.age
		price := decimal.RequireFromString(sample.price)
		req := models.CreatePetRequest{
			Name:        sample.name,
			Species:     sample.species,
			Breed:       sample.breed,
			Age:         &age,
			Price:       &price,
			Description: sample.description,
			ImageURL:    sample.image,
		}
		if _, err := s.Create(ctx, "seed", req); err != nil {
			return 0, err
		}
	}
	return len(samples), nil
}
