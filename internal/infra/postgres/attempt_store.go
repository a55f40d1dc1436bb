package postgres

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"vocab-quiz-service/internal/domain"
)

type attemptRow struct {
	bun.BaseModel `bun:"table:attempts"`

	Seq             int64     `bun:"seq,pk,autoincrement"`
	ID              string    `bun:"id,type:uuid,notnull"`
	User            string    `bun:"user_name,notnull"`
	Word            string    `bun:"word,notnull"`
	SubmittedAnswer string    `bun:"submitted_answer,notnull"`
	CorrectAnswer   string    `bun:"correct_answer,notnull"`
	IsCorrect       bool      `bun:"is_correct,notnull"`
	CreatedAt       time.Time `bun:"created_at,notnull"`
}

func (r attemptRow) toDomain() domain.Attempt {
	return domain.Attempt{
		ID:              r.ID,
		User:            r.User,
		Word:            r.Word,
		SubmittedAnswer: r.SubmittedAnswer,
		CorrectAnswer:   r.CorrectAnswer,
		IsCorrect:       r.IsCorrect,
		Timestamp:       r.CreatedAt,
	}
}

// AttemptStore persists attempts in the attempts table. Each Record is a single INSERT,
// so a row is visible to readers either completely or not at all.
type AttemptStore struct {
	db           *bun.DB
	writeTimeout time.Duration
	clock        func() time.Time
}

func NewAttemptStore(db *bun.DB, writeTimeout time.Duration) *AttemptStore {
	return &AttemptStore{db: db, writeTimeout: writeTimeout, clock: time.Now}
}

func (s *AttemptStore) Record(ctx context.Context, fields domain.AttemptFields) (domain.Attempt, error) {
	writeCtx := ctx
	if s.writeTimeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(ctx, s.writeTimeout)
		defer cancel()
	}

	row := attemptRow{
		ID:              uuid.NewString(),
		User:            fields.User,
		Word:            fields.Word,
		SubmittedAnswer: fields.SubmittedAnswer,
		CorrectAnswer:   fields.CorrectAnswer,
		IsCorrect:       fields.IsCorrect,
		// Postgres keeps microseconds.
		CreatedAt: s.clock().UTC().Truncate(time.Microsecond),
	}
	if _, err := s.db.NewInsert().Model(&row).Returning("seq").Exec(writeCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return domain.Attempt{}, domain.ErrStoreBusy
		}
		return domain.Attempt{}, fmt.Errorf("insert attempt: %w", err)
	}
	return row.toDomain(), nil
}

func (s *AttemptStore) Query(ctx context.Context, filter domain.AttemptFilter) iter.Seq2[domain.Attempt, error] {
	return func(yield func(domain.Attempt, error) bool) {
		q := s.db.NewSelect().
			Model((*attemptRow)(nil)).
			OrderExpr("created_at ASC, seq ASC")
		if filter.User != "" {
			q = q.Where("user_name = ?", filter.User)
		}
		if !filter.From.IsZero() {
			q = q.Where("created_at >= ?", filter.From)
		}
		if !filter.To.IsZero() {
			q = q.Where("created_at < ?", filter.To)
		}

		rows, err := q.Rows(ctx)
		if err != nil {
			yield(domain.Attempt{}, fmt.Errorf("query attempts: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var row attemptRow
			if err := s.db.ScanRow(ctx, rows, &row); err != nil {
				yield(domain.Attempt{}, fmt.Errorf("scan attempt: %w", err))
				return
			}
			if !yield(row.toDomain(), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(domain.Attempt{}, fmt.Errorf("query attempts: %w", err))
		}
	}
}
