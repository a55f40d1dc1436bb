package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"vocab-quiz-service/internal/domain"
)

// WordLoader fetches the word set from a backing store (YAML file, Postgres, ...).
type WordLoader interface {
	LoadWords(ctx context.Context) ([]domain.Word, error)
}

const cacheKey = "words"

// WordRepository caches the word set with a TTL to avoid repeated loader hits.
type WordRepository struct {
	loader WordLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	words     []domain.Word
	expiresAt time.Time
}

func NewWordRepository(loader WordLoader, ttl time.Duration) *WordRepository {
	return &WordRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *WordRepository) ListWords(ctx context.Context) ([]domain.Word, error) {
	now := r.clock()

	r.mu.RLock()
	if r.words != nil && r.expiresAt.After(now) {
		words := r.words
		r.mu.RUnlock()
		return words, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(cacheKey, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.words != nil && r.expiresAt.After(now) {
			words := r.words
			r.mu.RUnlock()
			return words, nil
		}
		r.mu.RUnlock()

		words, err := r.loader.LoadWords(ctx)
		if err != nil {
			return nil, err
		}
		if words == nil {
			words = []domain.Word{}
		}

		expiresAt := now.Add(r.ttlWithJitter())
		r.mu.Lock()
		r.words = words
		r.expiresAt = expiresAt
		r.mu.Unlock()
		return words, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Word), nil
}

func (r *WordRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticWordLoader is a simple loader backed by a fixed slice (useful for tests/demos).
type StaticWordLoader struct {
	words []domain.Word
}

func NewStaticWordLoader(words []domain.Word) *StaticWordLoader {
	return &StaticWordLoader{words: words}
}

func (l *StaticWordLoader) LoadWords(_ context.Context) ([]domain.Word, error) {
	out := make([]domain.Word, len(l.words))
	copy(out, l.words)
	return out, nil
}
