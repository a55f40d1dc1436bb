package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"vocab-quiz-service/internal/domain"
)

type wordRow struct {
	bun.BaseModel `bun:"table:words"`

	Word          string   `bun:"word,pk"`
	CorrectAnswer string   `bun:"correct_answer,notnull"`
	Options       []string `bun:"options,type:jsonb,notnull"`
}

// SeedWords upserts words into the words table.
func SeedWords(ctx context.Context, db bun.IDB, words []domain.Word) (int64, error) {
	if len(words) == 0 {
		return 0, nil
	}
	rows := make([]wordRow, 0, len(words))
	for _, w := range words {
		rows = append(rows, wordRow{Word: w.Word, CorrectAnswer: w.CorrectAnswer, Options: w.Options})
	}
	res, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (word) DO UPDATE").
		Set("correct_answer = EXCLUDED.correct_answer").
		Set("options = EXCLUDED.options").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed words: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
