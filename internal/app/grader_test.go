package app_test

import (
	"errors"
	"testing"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

func TestGrade(t *testing.T) {
	cases := []struct {
		name      string
		submitted string
		correct   bool
	}{
		{"exact", "short-lived", true},
		{"case and padding", " Short-Lived ", true},
		{"inner whitespace", "short-lived\t", true},
		{"wrong", "eternal", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verdict, err := app.Grade("ephemeral", tc.submitted, "short-lived")
			if err != nil {
				t.Fatalf("grade: %v", err)
			}
			if verdict.IsCorrect != tc.correct {
				t.Fatalf("expected correct=%v, got %+v", tc.correct, verdict)
			}
			if verdict.CorrectAnswer != "short-lived" {
				t.Fatalf("unexpected correct answer %q", verdict.CorrectAnswer)
			}
			want := app.MessageIncorrect
			if tc.correct {
				want = app.MessageCorrect
			}
			if verdict.ResultMessage != want {
				t.Fatalf("expected %q, got %q", want, verdict.ResultMessage)
			}
		})
	}
}

func TestGradeIsIdempotent(t *testing.T) {
	first, _ := app.Grade("ephemeral", "eternal", "short-lived")
	second, _ := app.Grade("ephemeral", "eternal", "short-lived")
	if first != second {
		t.Fatalf("expected identical verdicts, got %+v and %+v", first, second)
	}
}

func TestGradeRejectsMissingFields(t *testing.T) {
	for _, args := range [][3]string{
		{"", "a", "a"},
		{"w", "  ", "a"},
		{"w", "a", ""},
	} {
		if _, err := app.Grade(args[0], args[1], args[2]); !errors.Is(err, domain.ErrInvalidSubmission) {
			t.Fatalf("expected invalid submission for %q, got %v", args, err)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := app.Normalize("  A   Brief\n Moment "); got != "a brief moment" {
		t.Fatalf("unexpected normalization %q", got)
	}
}
