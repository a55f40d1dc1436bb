package app_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/infra/memory"
)

func TestSelectOptionsContainCorrectAnswerOnce(t *testing.T) {
	bank := app.NewQuestionBank(wordRepo(sampleWords()), 3, rand.New(rand.NewSource(1)))
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		q, err := bank.Select(ctx, app.SelectOptions{})
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(q.Options), 2)
		require.LessOrEqual(t, len(q.Options), 4)

		hits := 0
		seen := map[string]bool{}
		for _, opt := range q.Options {
			require.False(t, seen[opt], "duplicate option %q", opt)
			seen[opt] = true
			if opt == q.CorrectAnswer {
				hits++
			}
		}
		require.Equal(t, 1, hits, "options %v", q.Options)
	}
}

func TestSelectTopsUpDistractorsFromOtherWords(t *testing.T) {
	words := []domain.Word{
		{Word: "abate", CorrectAnswer: "to lessen", Options: []string{"to lessen", "to grow"}},
		{Word: "abhor", CorrectAnswer: "to hate", Options: []string{"to hate", "to love"}},
		{Word: "abject", CorrectAnswer: "wretched", Options: []string{"wretched", "proud"}},
	}
	bank := app.NewQuestionBank(wordRepo(words), 3, rand.New(rand.NewSource(7)))

	q, err := bank.Select(context.Background(), app.SelectOptions{Exclude: map[string]bool{"abhor": true, "abject": true}})
	require.NoError(t, err)
	require.Equal(t, "abate", q.Word)
	require.ElementsMatch(t, []string{"to lessen", "to grow", "to hate", "wretched"}, q.Options)
}

func TestSelectAvoidsLastWord(t *testing.T) {
	bank := app.NewQuestionBank(wordRepo(sampleWords()), 3, rand.New(rand.NewSource(3)))
	for i := 0; i < 50; i++ {
		q, err := bank.Select(context.Background(), app.SelectOptions{LastWord: "ephemeral"})
		require.NoError(t, err)
		require.NotEqual(t, "ephemeral", q.Word)
	}
}

func TestSelectRepeatsWhenOnlyOneCandidate(t *testing.T) {
	bank := app.NewQuestionBank(wordRepo(sampleWords()[:1]), 3, rand.New(rand.NewSource(3)))
	q, err := bank.Select(context.Background(), app.SelectOptions{LastWord: "ephemeral"})
	require.NoError(t, err)
	require.Equal(t, "ephemeral", q.Word)
}

func TestSelectIsDeterministicForSeed(t *testing.T) {
	a := app.NewQuestionBank(wordRepo(sampleWords()), 3, rand.New(rand.NewSource(42)))
	b := app.NewQuestionBank(wordRepo(sampleWords()), 3, rand.New(rand.NewSource(42)))
	for i := 0; i < 10; i++ {
		qa, err := a.Select(context.Background(), app.SelectOptions{})
		require.NoError(t, err)
		qb, err := b.Select(context.Background(), app.SelectOptions{})
		require.NoError(t, err)
		require.Equal(t, qa, qb)
	}
}

func TestSelectShufflesCorrectPosition(t *testing.T) {
	bank := app.NewQuestionBank(wordRepo(sampleWords()[:1]), 3, rand.New(rand.NewSource(11)))
	positions := make(map[int]int)
	for i := 0; i < 400; i++ {
		q, err := bank.Select(context.Background(), app.SelectOptions{})
		require.NoError(t, err)
		for pos, opt := range q.Options {
			if opt == q.CorrectAnswer {
				positions[pos]++
			}
		}
	}
	require.Len(t, positions, 4, "correct answer should land in every slot")
	for pos, n := range positions {
		require.Greater(t, n, 50, "slot %d under-represented", pos)
	}
}

func TestSelectErrors(t *testing.T) {
	empty := app.NewQuestionBank(wordRepo(nil), 3, rand.New(rand.NewSource(1)))
	_, err := empty.Select(context.Background(), app.SelectOptions{})
	require.True(t, errors.Is(err, domain.ErrEmptyBank))

	bank := app.NewQuestionBank(wordRepo(sampleWords()), 3, rand.New(rand.NewSource(1)))
	_, err = bank.Select(context.Background(), app.SelectOptions{Exclude: map[string]bool{
		"ephemeral": true, "abate": true, "abhor": true, "acumen": true,
	}})
	require.True(t, errors.Is(err, domain.ErrAllWordsLearned))
}

func wordRepo(words []domain.Word) *memory.WordRepository {
	return memory.NewWordRepository(memory.NewStaticWordLoader(words), time.Minute)
}

func sampleWords() []domain.Word {
	return []domain.Word{
		{Word: "ephemeral", CorrectAnswer: "short-lived", Options: []string{"short-lived", "eternal", "loud", "wet"}},
		{Word: "abate", CorrectAnswer: "to lessen", Options: []string{"to lessen", "to grow", "to shout", "to sleep"}},
		{Word: "abhor", CorrectAnswer: "to hate", Options: []string{"to hate", "to love", "to run", "to eat"}},
		{Word: "acumen", CorrectAnswer: "keen insight", Options: []string{"keen insight", "dullness", "anger", "height"}},
	}
}
