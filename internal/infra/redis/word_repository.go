package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"vocab-quiz-service/internal/domain"
)

// WordLoader fetches the word set from a backing store (YAML file, Postgres, ...).
type WordLoader interface {
	LoadWords(ctx context.Context) ([]domain.Word, error)
}

// WordRepository caches the word bank in Redis (one hash field per word) and falls back to a loader on cache miss.
// Words are stored as: HSET quiz:words {word} {json}
type WordRepository struct {
	client *redis.Client
	loader WordLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewWordRepository(client *redis.Client, loader WordLoader, ttl time.Duration) *WordRepository {
	return &WordRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *WordRepository) ListWords(ctx context.Context) ([]domain.Word, error) {
	cached, err := r.client.HGetAll(ctx, wordsKey).Result()
	if err == nil && len(cached) > 0 {
		return decodeWords(cached)
	}

	result, err, _ := r.sf.Do(wordsKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		cached, err := r.client.HGetAll(ctx, wordsKey).Result()
		if err == nil && len(cached) > 0 {
			return decodeWords(cached)
		}

		words, err := r.loader.LoadWords(ctx)
		if err != nil {
			return nil, err
		}
		if len(words) == 0 {
			return []domain.Word{}, nil
		}

		pipe := r.client.Pipeline()
		for _, w := range words {
			raw, err := json.Marshal(w)
			if err != nil {
				return nil, fmt.Errorf("encode word %q: %w", w.Word, err)
			}
			pipe.HSet(ctx, wordsKey, w.Word, raw)
		}
		if ttl := r.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, wordsKey, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return words, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Word), nil
}

const wordsKey = "quiz:words"

// decodeWords returns cached words sorted by name so selection does not depend on hash order.
func decodeWords(cached map[string]string) ([]domain.Word, error) {
	words := make([]domain.Word, 0, len(cached))
	for name, raw := range cached {
		var w domain.Word
		if err := json.Unmarshal([]byte(raw), &w); err != nil {
			return nil, fmt.Errorf("decode cached word %q: %w", name, err)
		}
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool { return words[i].Word < words[j].Word })
	return words, nil
}

func (r *WordRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
