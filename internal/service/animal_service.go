package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"pawfinder/web/internal/catalog"
)

type AnimalService struct {
	animals    AnimalCatalog
	animalType string
	limit      int
	log        zerolog.Logger
}

func NewAnimalService(animals AnimalCatalog, animalType string, limit int, log zerolog.Logger) *AnimalService {
	return &AnimalService{animals: animals, animalType: animalType, limit: limit, log: log}
}

// Discover returns one page of listings near location, keeping only animals with photos.
func (s *AnimalService) Discover(ctx context.Context, location string, page int) ([]catalog.Animal, error) {
	if page < 1 {
		page = 1
	}
	listed, err := s.animals.ListAnimals(ctx, catalog.ListQuery{
		Type:     s.animalType,
		Location: location,
		Limit:    s.limit,
		Page:     page,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list animals: %w", ErrUpstream, err)
	}

	withPhotos := make([]catalog.Animal, 0, len(listed))
	for _, animal := range listed {
		if animal.HasPhotos() {
			withPhotos = append(withPhotos, animal)
		}
	}
	return withPhotos, nil
}

func (s *AnimalService) Get(ctx context.Context, animalID int64) (catalog.Animal, error) {
	if err := checkAnimalID(animalID); err != nil {
		return catalog.Animal{}, err
	}
	animal, err := s.animals.GetAnimal(ctx, animalID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return catalog.Animal{}, ErrNotFound
		}
		return catalog.Animal{}, fmt.Errorf("%w: get animal: %w", ErrUpstream, err)
	}
	return animal, nil
}
