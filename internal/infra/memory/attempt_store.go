package memory

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"vocab-quiz-service/internal/domain"
)

// DefaultLockTimeout bounds how long Record waits for the write lock.
const DefaultLockTimeout = 2 * time.Second

// AttemptStore is an in-memory implementation of app.AttemptStore.
// Writers are serialized by a single-slot semaphore; readers see a prefix of the log.
type AttemptStore struct {
	writeLock   *semaphore.Weighted
	lockTimeout time.Duration
	clock       func() time.Time

	mu       sync.RWMutex
	attempts []domain.Attempt
}

func NewAttemptStore(lockTimeout time.Duration) *AttemptStore {
	return NewAttemptStoreWithClock(lockTimeout, time.Now)
}

// NewAttemptStoreWithClock allows deterministic timestamps in tests.
func NewAttemptStoreWithClock(lockTimeout time.Duration, now func() time.Time) *AttemptStore {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &AttemptStore{
		writeLock:   semaphore.NewWeighted(1),
		lockTimeout: lockTimeout,
		clock:       now,
	}
}

func (s *AttemptStore) Record(ctx context.Context, fields domain.AttemptFields) (domain.Attempt, error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()
	if err := s.writeLock.Acquire(lockCtx, 1); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return domain.Attempt{}, domain.ErrStoreBusy
		}
		return domain.Attempt{}, fmt.Errorf("acquire write lock: %w", err)
	}
	defer s.writeLock.Release(1)

	attempt := domain.Attempt{
		ID:              uuid.NewString(),
		User:            fields.User,
		Word:            fields.Word,
		SubmittedAnswer: fields.SubmittedAnswer,
		CorrectAnswer:   fields.CorrectAnswer,
		IsCorrect:       fields.IsCorrect,
		Timestamp:       s.clock(),
	}

	s.mu.Lock()
	// Keep the log ordered even if the clock steps backwards.
	if n := len(s.attempts); n > 0 && attempt.Timestamp.Before(s.attempts[n-1].Timestamp) {
		attempt.Timestamp = s.attempts[n-1].Timestamp
	}
	s.attempts = append(s.attempts, attempt)
	s.mu.Unlock()
	return attempt, nil
}

func (s *AttemptStore) Query(ctx context.Context, filter domain.AttemptFilter) iter.Seq2[domain.Attempt, error] {
	return func(yield func(domain.Attempt, error) bool) {
		// Records are never mutated after append, so the prefix is a stable snapshot.
		s.mu.RLock()
		snapshot := s.attempts[:len(s.attempts):len(s.attempts)]
		s.mu.RUnlock()

		for _, attempt := range snapshot {
			if err := ctx.Err(); err != nil {
				yield(domain.Attempt{}, err)
				return
			}
			if !filter.Match(attempt) {
				continue
			}
			if !yield(attempt, nil) {
				return
			}
		}
	}
}

// Len reports how many attempts have been recorded.
func (s *AttemptStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.attempts)
}
