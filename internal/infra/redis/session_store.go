package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis implementation of app.SessionRepository.
// The last word served to each user lives under quiz:session:{user} and expires after ttl.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *SessionStore) LastServed(ctx context.Context, user string) (string, error) {
	word, err := s.client.Get(ctx, s.key(user)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return word, err
}

func (s *SessionStore) Remember(ctx context.Context, user, word string) error {
	return s.client.Set(ctx, s.key(user), word, s.ttl).Err()
}

func (s *SessionStore) key(user string) string {
	return "quiz:session:" + user
}
