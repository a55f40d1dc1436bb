package app

import (
	"fmt"
	"strings"

	"vocab-quiz-service/internal/domain"
)

const (
	MessageCorrect   = "Correct!"
	MessageIncorrect = "Incorrect."
)

// Normalize lowercases s, trims it, and collapses internal whitespace runs to one space.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Grade compares a submitted answer with the correct one. It has no side effects.
func Grade(word, submitted, correct string) (domain.Verdict, error) {
	switch {
	case strings.TrimSpace(word) == "":
		return domain.Verdict{}, fmt.Errorf("%w: word is required", domain.ErrInvalidSubmission)
	case strings.TrimSpace(submitted) == "":
		return domain.Verdict{}, fmt.Errorf("%w: answer is required", domain.ErrInvalidSubmission)
	case strings.TrimSpace(correct) == "":
		return domain.Verdict{}, fmt.Errorf("%w: correct answer is required", domain.ErrInvalidSubmission)
	}

	verdict := domain.Verdict{
		IsCorrect:     Normalize(submitted) == Normalize(correct),
		CorrectAnswer: correct,
		ResultMessage: MessageIncorrect,
	}
	if verdict.IsCorrect {
		verdict.ResultMessage = MessageCorrect
	}
	return verdict, nil
}
