package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"vocab-quiz-service/internal/domain"
)

// DefaultDistractors is how many wrong options accompany the correct answer.
const DefaultDistractors = 3

// WordRepository serves the read-only word set (from cache/backing store).
type WordRepository interface {
	ListWords(ctx context.Context) ([]domain.Word, error)
}

// SelectOptions steers a single selection.
type SelectOptions struct {
	// LastWord is skipped when any other candidate exists.
	LastWord string
	// Exclude removes words from the candidate set entirely.
	Exclude map[string]bool
}

// QuestionBank picks words and builds shuffled option lists.
type QuestionBank struct {
	words       WordRepository
	distractors int

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewQuestionBank builds a bank. A nil rnd is seeded from the clock; tests pass a fixed seed.
func NewQuestionBank(words WordRepository, distractors int, rnd *rand.Rand) *QuestionBank {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if distractors <= 0 {
		distractors = DefaultDistractors
	}
	return &QuestionBank{words: words, distractors: distractors, rnd: rnd}
}

// Select draws a word uniformly from the candidates and returns it as a Question.
func (b *QuestionBank) Select(ctx context.Context, opts SelectOptions) (domain.Question, error) {
	words, err := b.words.ListWords(ctx)
	if err != nil {
		return domain.Question{}, err
	}
	if len(words) == 0 {
		return domain.Question{}, domain.ErrEmptyBank
	}

	candidates := make([]int, 0, len(words))
	for i, w := range words {
		if !opts.Exclude[w.Word] {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return domain.Question{}, domain.ErrAllWordsLearned
	}
	if opts.LastWord != "" && len(candidates) > 1 {
		fresh := candidates[:0:0]
		for _, i := range candidates {
			if words[i].Word != opts.LastWord {
				fresh = append(fresh, i)
			}
		}
		if len(fresh) > 0 {
			candidates = fresh
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	word := words[candidates[b.rnd.Intn(len(candidates))]]
	return domain.Question{
		Word:          word.Word,
		Options:       b.optionsLocked(word, words),
		CorrectAnswer: word.CorrectAnswer,
	}, nil
}

// optionsLocked returns the correct answer plus up to b.distractors wrong options, shuffled.
// The word's own distractors come first; other words' meanings top up the list.
func (b *QuestionBank) optionsLocked(word domain.Word, all []domain.Word) []string {
	options := make([]string, 0, b.distractors+1)
	seen := map[string]bool{Normalize(word.CorrectAnswer): true}
	options = append(options, word.CorrectAnswer)

	add := func(pool []string) {
		b.rnd.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		for _, opt := range pool {
			if len(options) > b.distractors {
				return
			}
			key := Normalize(opt)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			options = append(options, opt)
		}
	}

	add(word.Distractors())
	if len(options) <= b.distractors {
		pool := make([]string, 0, len(all))
		for _, other := range all {
			if other.Word != word.Word {
				pool = append(pool, other.CorrectAnswer)
			}
		}
		add(pool)
	}

	b.rnd.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return options
}
