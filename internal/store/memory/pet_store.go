package memory

import (
	"context"
	"sort"
	"sync"

	"petshop/internal/models"
	"petshop/internal/store"
)

type PetStore struct {
	mu   sync.RWMutex
	pets map[string]*models.Pet
}

func NewPetStore() *PetStore {
	return &PetStore{
		pets: make(map[string]*models.Pet),
	}
}

// ListPets returns the pets matching filter, newest first.
func (s *PetStore) ListPets(ctx context.Context, filter models.PetFilter) ([]models.Pet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]models.Pet, 0, len(s.pets))
	for _, pet := range s.pets {
		if filter.Match(pet) {
			results = append(results, *pet)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].ID > results[j].ID
		}
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

func (s *PetStore) GetPet(ctx context.Context, id string) (*models.Pet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	pet, exists := s.pets[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	cp := *pet
	return &cp, nil
}

func (s *PetStore) CreatePet(ctx context.Context, pet *models.Pet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pets[pet.ID]; exists {
		return store.ErrDuplicate
	}
	cp := *pet
	s.pets[pet.ID] = &cp
	return nil
}

func (s *PetStore) UpdatePet(ctx context.Context, pet *models.Pet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pets[pet.ID]; !exists {
		return store.ErrNotFound
	}
	cp := *pet
	s.pets[pet.ID] = &cp
	return nil
}

func (s *PetStore) DeletePet(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pets[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.pets, id)
	return nil
}
