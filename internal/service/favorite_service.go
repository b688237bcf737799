package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"pawfinder/web/internal/catalog"
)

type FavoriteService struct {
	favorites FavoriteStore
	animals   AnimalCatalog
	log       zerolog.Logger
}

func NewFavoriteService(favorites FavoriteStore, animals AnimalCatalog, log zerolog.Logger) *FavoriteService {
	return &FavoriteService{favorites: favorites, animals: animals, log: log}
}

func checkAnimalID(animalID int64) error {
	if animalID <= 0 {
		return fmt.Errorf("%w: animal id must be positive", ErrInvalidInput)
	}
	return nil
}

// Add records the pair. Adding a pair that already exists is a no-op.
func (s *FavoriteService) Add(ctx context.Context, userID string, animalID int64) error {
	if err := checkAnimalID(animalID); err != nil {
		return err
	}
	if err := s.favorites.Add(ctx, userID, animalID); err != nil {
		return fmt.Errorf("%w: add favorite: %w", ErrUpstream, err)
	}
	return nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID string, animalID int64) error {
	if err := checkAnimalID(animalID); err != nil {
		return err
	}
	if err := s.favorites.Remove(ctx, userID, animalID); err != nil {
		return fmt.Errorf("%w: remove favorite: %w", ErrUpstream, err)
	}
	return nil
}

func (s *FavoriteService) IsFavorite(ctx context.Context, userID string, animalID int64) (bool, error) {
	ok, err := s.favorites.Exists(ctx, userID, animalID)
	if err != nil {
		return false, fmt.Errorf("%w: check favorite: %w", ErrUpstream, err)
	}
	return ok, nil
}

// List resolves the user's stored favorites through the catalog, newest first.
// Entries whose lookup fails or that have no photos are skipped; their rows stay.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]catalog.Animal, error) {
	ids, err := s.favorites.ListAnimalIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list favorites: %w", ErrUpstream, err)
	}

	animals := make([]catalog.Animal, 0, len(ids))
	for _, id := range ids {
		animal, err := s.animals.GetAnimal(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Int64("animal_id", id).Msg("favorite lookup failed, skipping")
			continue
		}
		if !animal.HasPhotos() {
			s.log.Warn().Str("user_id", userID).Int64("animal_id", id).Msg("favorite has no photos, skipping")
			continue
		}
		animals = append(animals, animal)
	}
	return animals, nil
}
