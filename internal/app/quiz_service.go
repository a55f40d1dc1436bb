package app

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"go.uber.org/zap"
	"vocab-quiz-service/internal/domain"
)

// SessionRepository remembers the last word served to each user (in-memory, Redis, etc).
type SessionRepository interface {
	LastServed(ctx context.Context, user string) (string, error)
	Remember(ctx context.Context, user, word string) error
}

// AttemptStore is the append-only record of graded attempts.
// Query yields attempts ordered by timestamp ascending; each call starts a fresh pass.
type AttemptStore interface {
	Record(ctx context.Context, fields domain.AttemptFields) (domain.Attempt, error)
	Query(ctx context.Context, filter domain.AttemptFilter) iter.Seq2[domain.Attempt, error]
}

// Options tunes QuizService limits. Zero values disable the corresponding limit.
type Options struct {
	MaxAttemptsPerWord int
	DailyLimit         int
	Location           *time.Location
	Now                func() time.Time
}

// QuizService contains the core quiz use cases.
type QuizService struct {
	bank     *QuestionBank
	words    WordRepository
	sessions SessionRepository
	attempts AttemptStore
	opts     Options
	log      *zap.Logger
}

func NewQuizService(bank *QuestionBank, words WordRepository, sessions SessionRepository, attempts AttemptStore, opts Options, log *zap.Logger) *QuizService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &QuizService{
		bank:     bank,
		words:    words,
		sessions: sessions,
		attempts: attempts,
		opts:     opts,
		log:      log,
	}
}

// NextQuestion selects a question for user, avoiding the word served just before.
func (s *QuizService) NextQuestion(ctx context.Context, user string) (domain.Question, error) {
	if user == "" {
		return domain.Question{}, fmt.Errorf("%w: user is required", domain.ErrInvalidSubmission)
	}

	u, err := s.usage(ctx, user)
	if err != nil {
		return domain.Question{}, err
	}
	if s.opts.DailyLimit > 0 && u.today >= s.opts.DailyLimit {
		return domain.Question{}, domain.ErrDailyLimitReached
	}

	var exclude map[string]bool
	if s.opts.MaxAttemptsPerWord > 0 {
		exclude = make(map[string]bool)
		for word, n := range u.perWord {
			if n >= s.opts.MaxAttemptsPerWord {
				exclude[word] = true
			}
		}
	}

	last, err := s.sessions.LastServed(ctx, user)
	if err != nil {
		s.log.Warn("load last served word", zap.String("user", user), zap.Error(err))
	}

	question, err := s.bank.Select(ctx, SelectOptions{LastWord: last, Exclude: exclude})
	if err != nil {
		return domain.Question{}, err
	}
	if err := s.sessions.Remember(ctx, user, question.Word); err != nil {
		s.log.Warn("remember served word", zap.String("user", user), zap.Error(err))
	}
	return question, nil
}

// SubmitAnswer grades an answer against the bank's own record of the word and records the attempt.
// A client-supplied correct answer is never trusted.
func (s *QuizService) SubmitAnswer(ctx context.Context, user string, submission domain.AnswerSubmission) (domain.Verdict, error) {
	if user == "" {
		return domain.Verdict{}, fmt.Errorf("%w: user is required", domain.ErrInvalidSubmission)
	}
	if strings.TrimSpace(submission.Answer) == "" {
		return domain.Verdict{}, fmt.Errorf("%w: answer is required", domain.ErrInvalidSubmission)
	}

	wordName := strings.TrimSpace(submission.Word)
	if wordName == "" {
		last, err := s.sessions.LastServed(ctx, user)
		if err != nil {
			return domain.Verdict{}, err
		}
		wordName = last
	}
	if wordName == "" {
		return domain.Verdict{}, fmt.Errorf("%w: word is required", domain.ErrInvalidSubmission)
	}

	word, err := s.findWord(ctx, wordName)
	if err != nil {
		return domain.Verdict{}, err
	}
	if submission.CorrectAnswer != "" && Normalize(submission.CorrectAnswer) != Normalize(word.CorrectAnswer) {
		s.log.Warn("client correct answer disagrees with bank",
			zap.String("user", user),
			zap.String("word", word.Word),
			zap.String("client_correct_answer", submission.CorrectAnswer))
	}

	if s.opts.DailyLimit > 0 {
		u, err := s.usage(ctx, user)
		if err != nil {
			return domain.Verdict{}, err
		}
		if u.today >= s.opts.DailyLimit {
			return domain.Verdict{}, domain.ErrDailyLimitReached
		}
	}

	verdict, err := Grade(word.Word, submission.Answer, word.CorrectAnswer)
	if err != nil {
		return domain.Verdict{}, err
	}

	attempt, err := s.attempts.Record(ctx, domain.AttemptFields{
		User:            user,
		Word:            word.Word,
		SubmittedAnswer: strings.TrimSpace(submission.Answer),
		CorrectAnswer:   word.CorrectAnswer,
		IsCorrect:       verdict.IsCorrect,
	})
	if err != nil {
		return domain.Verdict{}, err
	}
	s.log.Debug("attempt recorded",
		zap.String("id", attempt.ID),
		zap.String("user", user),
		zap.String("word", word.Word),
		zap.Bool("correct", verdict.IsCorrect))
	return verdict, nil
}

// Summary totals attempts for user, or for everyone when user is empty.
// Unknown users yield an empty summary.
func (s *QuizService) Summary(ctx context.Context, user string) (domain.Summary, error) {
	return Summarize(s.attempts.Query(ctx, domain.AttemptFilter{User: user}))
}

// Dashboard returns per-day, per-user counts for the calendar days from..to inclusive.
// A zero bound leaves that side open.
func (s *QuizService) Dashboard(ctx context.Context, from, to time.Time) ([]domain.DashboardPoint, error) {
	filter := domain.AttemptFilter{}
	if !from.IsZero() {
		filter.From = StartOfDay(from, s.opts.Location)
	}
	if !to.IsZero() {
		filter.To = StartOfDay(to, s.opts.Location).AddDate(0, 0, 1)
	}
	return BuildSeries(s.attempts.Query(ctx, filter), s.opts.Location)
}

// RecentWindow returns the first and last calendar day of the trailing window of days ending today.
func (s *QuizService) RecentWindow(days int) (time.Time, time.Time) {
	today := StartOfDay(s.opts.Now(), s.opts.Location)
	if days <= 0 {
		return today, today
	}
	return today.AddDate(0, 0, -(days - 1)), today
}

// Location is the zone used for day boundaries.
func (s *QuizService) Location() *time.Location {
	return s.opts.Location
}

func (s *QuizService) findWord(ctx context.Context, name string) (domain.Word, error) {
	words, err := s.words.ListWords(ctx)
	if err != nil {
		return domain.Word{}, err
	}
	key := Normalize(name)
	for _, w := range words {
		if w.Word == name {
			return w, nil
		}
	}
	for _, w := range words {
		if Normalize(w.Word) == key {
			return w, nil
		}
	}
	return domain.Word{}, fmt.Errorf("%w: %q", domain.ErrWordNotFound, name)
}

type usage struct {
	perWord map[string]int
	today   int
}

// usage scans the user's history only when a limit needs it.
func (s *QuizService) usage(ctx context.Context, user string) (usage, error) {
	u := usage{perWord: make(map[string]int)}
	if s.opts.MaxAttemptsPerWord <= 0 && s.opts.DailyLimit <= 0 {
		return u, nil
	}
	midnight := StartOfDay(s.opts.Now(), s.opts.Location)
	for attempt, err := range s.attempts.Query(ctx, domain.AttemptFilter{User: user}) {
		if err != nil {
			return usage{}, fmt.Errorf("scan attempts: %w", err)
		}
		u.perWord[attempt.Word]++
		if !attempt.Timestamp.Before(midnight) {
			u.today++
		}
	}
	return u, nil
}

// IsClientError reports whether err was caused by the request rather than the server.
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrInvalidSubmission) || errors.Is(err, domain.ErrWordNotFound)
}
