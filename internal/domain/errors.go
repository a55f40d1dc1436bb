package domain

import "errors"

var (
	// ErrEmptyBank is returned when no words are configured.
	ErrEmptyBank = errors.New("question bank is empty")
	// ErrInvalidSubmission indicates a malformed answer payload.
	ErrInvalidSubmission = errors.New("invalid submission")
	// ErrStoreBusy is returned when the attempt store could not take its write lock in time.
	ErrStoreBusy = errors.New("attempt store busy")
	// ErrWordNotFound indicates a submitted word is not in the bank.
	ErrWordNotFound = errors.New("word not found")
	// ErrAllWordsLearned is returned when every word has reached the per-word attempt limit.
	ErrAllWordsLearned = errors.New("all words learned")
	// ErrDailyLimitReached is returned once a user has answered the daily limit.
	ErrDailyLimitReached = errors.New("daily answer limit reached")
)
