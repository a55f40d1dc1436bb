package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"vocab-quiz-service/internal/domain"
)

// WordLoader loads the word bank from Postgres.
type WordLoader struct {
	pool *pgxpool.Pool
}

func NewWordLoader(pool *pgxpool.Pool) *WordLoader {
	return &WordLoader{pool: pool}
}

func (l *WordLoader) LoadWords(ctx context.Context) ([]domain.Word, error) {
	rows, err := l.pool.Query(ctx, `SELECT word, correct_answer, options FROM words ORDER BY word`)
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	defer rows.Close()

	words := []domain.Word{}
	for rows.Next() {
		var (
			w   domain.Word
			raw []byte
		)
		if err := rows.Scan(&w.Word, &w.CorrectAnswer, &raw); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		if err := json.Unmarshal(raw, &w.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options for %q: %w", w.Word, err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	return words, nil
}
