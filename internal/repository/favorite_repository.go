package repository

import (
	"context"
)

type FavoriteRepository struct {
	db DBTX
}

func NewFavoriteRepository(db DBTX) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add stores the pair; adding a pair that already exists is a no-op.
func (r *FavoriteRepository) Add(ctx context.Context, userID string, animalID int64) error {
	const query = `
		INSERT INTO favorites (user_id, animal_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, animal_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, userID, animalID)
	if isPgError(err, pgForeignKeyViolation) {
		return ErrUserNotFound
	}
	return err
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID string, animalID int64) error {
	const query = `DELETE FROM favorites WHERE user_id = $1 AND animal_id = $2`
	_, err := r.db.Exec(ctx, query, userID, animalID)
	return err
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID string, animalID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND animal_id = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, animalID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListAnimalIDs returns the user's favorite animal ids, newest first.
func (r *FavoriteRepository) ListAnimalIDs(ctx context.Context, userID string) ([]int64, error) {
	const query = `
		SELECT animal_id
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC, animal_id
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
