package app

import (
	"iter"
	"sort"
	"time"

	"vocab-quiz-service/internal/domain"
)

// Summarize totals the attempts in a single pass, keeping misses in attempt order.
func Summarize(attempts iter.Seq2[domain.Attempt, error]) (domain.Summary, error) {
	summary := domain.Summary{IncorrectAnswerDetails: []domain.IncorrectAnswerDetail{}}
	for attempt, err := range attempts {
		if err != nil {
			return domain.Summary{}, err
		}
		summary.TotalAnswers++
		if attempt.IsCorrect {
			summary.CorrectAnswers++
			continue
		}
		summary.IncorrectAnswers++
		summary.IncorrectAnswerDetails = append(summary.IncorrectAnswerDetails, domain.IncorrectAnswerDetail{
			Word:          attempt.Word,
			UserAnswer:    attempt.SubmittedAnswer,
			CorrectAnswer: attempt.CorrectAnswer,
		})
	}
	return summary, nil
}

type seriesKey struct {
	date string
	user string
}

// BuildSeries groups attempts by (user, calendar day in loc) and counts each day on its own.
// Days without attempts are omitted. Output is ordered by date, then user.
func BuildSeries(attempts iter.Seq2[domain.Attempt, error], loc *time.Location) ([]domain.DashboardPoint, error) {
	if loc == nil {
		loc = time.Local
	}
	index := make(map[seriesKey]int)
	points := []domain.DashboardPoint{}
	for attempt, err := range attempts {
		if err != nil {
			return nil, err
		}
		key := seriesKey{date: attempt.Timestamp.In(loc).Format(domain.DateLayout), user: attempt.User}
		i, ok := index[key]
		if !ok {
			i = len(points)
			index[key] = i
			points = append(points, domain.DashboardPoint{Date: key.date, User: key.user})
		}
		if attempt.IsCorrect {
			points[i].TotalCorrectCount++
		} else {
			points[i].TotalIncorrectCount++
		}
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Date != points[j].Date {
			return points[i].Date < points[j].Date
		}
		return points[i].User < points[j].User
	})
	return points, nil
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
