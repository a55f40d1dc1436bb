package redis

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"vocab-quiz-service/internal/domain"
)

const (
	attemptsKey     = "quiz:attempts"
	defaultPageSize = 200
)

// AttemptStore keeps attempts in a Redis stream. XADD is atomic, so readers never see
// a partial entry, and stream IDs give a server-assigned time order.
type AttemptStore struct {
	client       *redis.Client
	writeTimeout time.Duration
	pageSize     int64
}

func NewAttemptStore(client *redis.Client, writeTimeout time.Duration) *AttemptStore {
	return &AttemptStore{
		client:       client,
		writeTimeout: writeTimeout,
		pageSize:     defaultPageSize,
	}
}

func (s *AttemptStore) Record(ctx context.Context, fields domain.AttemptFields) (domain.Attempt, error) {
	writeCtx := ctx
	if s.writeTimeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(ctx, s.writeTimeout)
		defer cancel()
	}

	attempt := domain.Attempt{
		ID:              uuid.NewString(),
		User:            fields.User,
		Word:            fields.Word,
		SubmittedAnswer: fields.SubmittedAnswer,
		CorrectAnswer:   fields.CorrectAnswer,
		IsCorrect:       fields.IsCorrect,
	}
	streamID, err := s.client.XAdd(writeCtx, &redis.XAddArgs{
		Stream: attemptsKey,
		Values: map[string]interface{}{
			"id":               attempt.ID,
			"user":             attempt.User,
			"word":             attempt.Word,
			"submitted_answer": attempt.SubmittedAnswer,
			"correct_answer":   attempt.CorrectAnswer,
			"is_correct":       strconv.FormatBool(attempt.IsCorrect),
		},
	}).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return domain.Attempt{}, domain.ErrStoreBusy
		}
		return domain.Attempt{}, fmt.Errorf("xadd attempt: %w", err)
	}

	ms, _, err := parseStreamID(streamID)
	if err != nil {
		return domain.Attempt{}, err
	}
	attempt.Timestamp = time.UnixMilli(ms)
	return attempt, nil
}

func (s *AttemptStore) Query(ctx context.Context, filter domain.AttemptFilter) iter.Seq2[domain.Attempt, error] {
	return func(yield func(domain.Attempt, error) bool) {
		start, end := "-", "+"
		if !filter.From.IsZero() {
			start = strconv.FormatInt(filter.From.UnixMilli(), 10)
		}
		if !filter.To.IsZero() {
			end = strconv.FormatInt(filter.To.Add(-time.Nanosecond).UnixMilli(), 10)
		}

		for {
			msgs, err := s.client.XRangeN(ctx, attemptsKey, start, end, s.pageSize).Result()
			if err != nil {
				yield(domain.Attempt{}, fmt.Errorf("xrange attempts: %w", err))
				return
			}
			for _, msg := range msgs {
				attempt, err := decodeAttempt(msg)
				if err != nil {
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
			if int64(len(msgs)) < s.pageSize {
				return
			}
			next, err := nextStreamID(msgs[len(msgs)-1].ID)
			if err != nil {
				yield(domain.Attempt{}, err)
				return
			}
			start = next
		}
	}
}

func decodeAttempt(msg redis.XMessage) (domain.Attempt, error) {
	ms, _, err := parseStreamID(msg.ID)
	if err != nil {
		return domain.Attempt{}, err
	}
	str := func(key string) string {
		v, _ := msg.Values[key].(string)
		return v
	}
	return domain.Attempt{
		ID:              str("id"),
		User:            str("user"),
		Word:            str("word"),
		SubmittedAnswer: str("submitted_answer"),
		CorrectAnswer:   str("correct_answer"),
		IsCorrect:       str("is_correct") == "true",
		Timestamp:       time.UnixMilli(ms),
	}, nil
}

// parseStreamID splits "<ms>-<seq>".
func parseStreamID(id string) (int64, int64, error) {
	msPart, seqPart, ok := strings.Cut(id, "-")
	if !ok {
		return 0, 0, fmt.Errorf("malformed stream id %q", id)
	}
	ms, err := strconv.ParseInt(msPart, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed stream id %q: %w", id, err)
	}
	seq, err := strconv.ParseInt(seqPart, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed stream id %q: %w", id, err)
	}
	return ms, seq, nil
}

func nextStreamID(id string) (string, error) {
	ms, seq, err := parseStreamID(id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%d", ms, seq+1), nil
}
