package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pawfinder/web/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_sessions:"
)

// SessionRepository keeps session records in Redis. Each record expires on its
// own; a per-user set indexes live session ids so profile edits can reach them.
type SessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func userSessionsKey(userID string) string {
	return userSessionKeyPrefix + userID
}

func (r *SessionRepository) Create(ctx context.Context, session models.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.ID)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	indexKey := userSessionsKey(session.User.ID)
	indexTTL, err := r.client.TTL(ctx, indexKey).Result()
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.ID), payload, ttl)
		pipe.SAdd(ctx, indexKey, session.ID)
		// The index must live as long as its longest-lived session.
		if indexTTL < ttl {
			pipe.Expire(ctx, indexKey, ttl)
		}
		return nil
	})
	return err
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (models.Session, error) {
	payload, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, err
	}

	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return models.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return session, nil
}

func (r *SessionRepository) DeleteByID(ctx context.Context, id string) error {
	session, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(id))
		pipe.SRem(ctx, userSessionsKey(session.User.ID), id)
		return nil
	})
	return err
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string) ([]models.Session, error) {
	ids, err := r.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	sessions := make([]models.Session, 0, len(ids))
	for _, id := range ids {
		session, err := r.GetByID(ctx, id)
		if errors.Is(err, ErrSessionNotFound) {
			r.client.SRem(ctx, userSessionsKey(userID), id)
			continue
		}
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// ReplaceUser rewrites the user copy held by every live session of user.ID,
// keeping each record's remaining lifetime.
func (r *SessionRepository) ReplaceUser(ctx context.Context, user models.User) error {
	sessions, err := r.ListByUser(ctx, user.ID)
	if err != nil {
		return err
	}

	for _, session := range sessions {
		session.User = user
		payload, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		// XX: a record that expired since ListByUser stays gone.
		if err := r.client.SetArgs(ctx, sessionKey(session.ID), payload, redis.SetArgs{
			Mode:    "XX",
			KeepTTL: true,
		}).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
	}
	return nil
}
