package domain

import "time"

// Word is an immutable vocabulary item: one correct meaning plus the options offered with it.
// Options contains CorrectAnswer exactly once.
type Word struct {
	Word          string   `json:"word" yaml:"word"`
	CorrectAnswer string   `json:"correct_answer" yaml:"correct_answer"`
	Options       []string `json:"options" yaml:"options"`
}

// Distractors returns the options that are not the correct answer.
func (w Word) Distractors() []string {
	out := make([]string, 0, len(w.Options))
	for _, opt := range w.Options {
		if opt != w.CorrectAnswer {
			out = append(out, opt)
		}
	}
	return out
}

// Question is the per-request view of a Word with shuffled options.
type Question struct {
	Word          string   `json:"word"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// AnswerSubmission is what a client sends for grading. CorrectAnswer is advisory only.
type AnswerSubmission struct {
	Answer        string `json:"answer"`
	Word          string `json:"word,omitempty"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
}

// Verdict is the outcome of grading a single answer.
type Verdict struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
	ResultMessage string `json:"result_message"`
}

// AttemptFields are the caller-supplied parts of an Attempt; the store assigns ID and Timestamp.
type AttemptFields struct {
	User            string
	Word            string
	SubmittedAnswer string
	CorrectAnswer   string
	IsCorrect       bool
}

// Attempt is one graded submission, immutable once recorded.
type Attempt struct {
	ID              string    `json:"id"`
	User            string    `json:"user"`
	Word            string    `json:"word"`
	SubmittedAnswer string    `json:"submitted_answer"`
	CorrectAnswer   string    `json:"correct_answer"`
	IsCorrect       bool      `json:"is_correct"`
	Timestamp       time.Time `json:"timestamp"`
}

// AttemptFilter narrows a store query. Zero values mean "no constraint".
// From is inclusive, To is exclusive.
type AttemptFilter struct {
	User string
	From time.Time
	To   time.Time
}

// Match reports whether a matches the filter.
func (f AttemptFilter) Match(a Attempt) bool {
	if f.User != "" && a.User != f.User {
		return false
	}
	if !f.From.IsZero() && a.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !a.Timestamp.Before(f.To) {
		return false
	}
	return true
}

// IncorrectAnswerDetail describes a single miss.
type IncorrectAnswerDetail struct {
	Word          string `json:"word"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
}

// Summary totals a slice of attempts.
type Summary struct {
	TotalAnswers           int                     `json:"total_answers"`
	CorrectAnswers         int                     `json:"correct_answers"`
	IncorrectAnswers       int                     `json:"incorrect_answers"`
	IncorrectAnswerDetails []IncorrectAnswerDetail `json:"incorrect_answer_details"`
}

// DashboardPoint holds the per-day counts for one user.
type DashboardPoint struct {
	Date                string `json:"date"`
	User                string `json:"user"`
	TotalCorrectCount   int    `json:"total_correct_count"`
	TotalIncorrectCount int    `json:"total_incorrect_count"`
}

// DateLayout is the calendar-day format used by the dashboard.
const DateLayout = "2006-01-02"
