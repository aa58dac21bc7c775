package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"petshop/internal/models"
	"petshop/internal/store"
)

type petDoc struct {
	ID          string               `bson:"_id"`
	Name        string               `bson:"name"`
	Species     string               `bson:"species"`
	Breed       string               `bson:"breed"`
	Age         int                  `bson:"age"`
	Price       primitive.Decimal128 `bson:"price"`
	Description string               `bson:"description"`
	ImageURL    string               `bson:"imageUrl"`
	Status      string               `bson:"status"`
	SellerID    string               `bson:"seller"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

func petDocFromDomain(p *models.Pet) (petDoc, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return petDoc{}, err
	}
	return petDoc{
		ID:          p.ID,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		Age:         p.Age,
		Price:       price,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Status:      string(p.Status),
		SellerID:    p.SellerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func (d petDoc) toDomain() (models.Pet, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return models.Pet{}, err
	}
	return models.Pet{
		ID:          d.ID,
		Name:        d.Name,
		Species:     d.Species,
		Breed:       d.Breed,
		Age:         d.Age,
		Price:       price,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		Status:      models.PetStatus(d.Status),
		SellerID:    d.SellerID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

type PetStore struct {
	col *mongo.Collection
}

func NewPetStore(db *mongo.Database) *PetStore {
	return &PetStore{col: db.Collection(petsCollection)}
}

func exactCI(v string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(v) + "$", Options: "i"}
}

func buildFilter(f models.PetFilter) (bson.M, error) {
	filter := bson.M{}
	if f.Species != "" {
		filter["species"] = exactCI(f.Species)
	}
	if f.Breed != "" {
		filter["breed"] = exactCI(f.Breed)
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			v, err := toDecimal128(*f.MinPrice)
			if err != nil {
				return nil, err
			}
			price["$gte"] = v
		}
		if f.MaxPrice != nil {
			v, err := toDecimal128(*f.MaxPrice)
			if err != nil {
				return nil, err
			}
			price["$lte"] = v
		}
		filter["price"] = price
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"species": re},
			bson.M{"breed": re},
			bson.M{"description": re},
		}
	}
	return filter, nil
}

func (s *PetStore) ListPets(ctx context.Context, f models.PetFilter) ([]models.Pet, error) {
	filter, err := buildFilter(f)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: list pets: %w", err)
	}
	defer cur.Close(ctx)

	pets := []models.Pet{}
	for cur.Next(ctx) {
		var doc petDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decode pet: %w", err)
		}
		p, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		pets = append(pets, p)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo: list pets: %w", err)
	}
	return pets, nil
}

func (s *PetStore) GetPet(ctx context.Context, id string) (*models.Pet, error) {
	var doc petDoc
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("mongo: get pet: %w", err)
	}
	p, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PetStore) CreatePet(ctx context.Context, pet *models.Pet) error {
	doc, err := petDocFromDomain(pet)
	if err != nil {
		return err
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("mongo: create pet: %w", err)
	}
	return nil
}

func (s *PetStore) UpdatePet(ctx context.Context, pet *models.Pet) error {
	doc, err := petDocFromDomain(pet)
	if err != nil {
		return err
	}
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": pet.ID}, doc)
	if err != nil {
		return fmt.Errorf("mongo: update pet: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PetStore) DeletePet(ctx context.Context, id string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo: delete pet: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
