package service

import (
	"context"

	"pawfinder/web/internal/catalog"
	"pawfinder/web/internal/models"
)

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	Update(ctx context.Context, user models.User) error
}

type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	GetByID(ctx context.Context, id string) (models.Session, error)
	DeleteByID(ctx context.Context, id string) error
	ReplaceUser(ctx context.Context, user models.User) error
}

type FavoriteStore interface {
	Add(ctx context.Context, userID string, animalID int64) error
	Remove(ctx context.Context, userID string, animalID int64) error
	Exists(ctx context.Context, userID string, animalID int64) (bool, error)
	ListAnimalIDs(ctx context.Context, userID string) ([]int64, error)
}

type AnimalCatalog interface {
	ListAnimals(ctx context.Context, q catalog.ListQuery) ([]catalog.Animal, error)
	GetAnimal(ctx context.Context, id int64) (catalog.Animal, error)
}
