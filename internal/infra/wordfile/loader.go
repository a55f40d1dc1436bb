package wordfile

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

type document struct {
	Words []entry `yaml:"words" validate:"required,min=1,dive"`
}

type entry struct {
	Word          string   `yaml:"word" validate:"required"`
	CorrectAnswer string   `yaml:"correct_answer" validate:"required"`
	Options       []string `yaml:"options" validate:"dive,required"`
}

var validate = validator.New()

// Loader reads the word bank from a YAML file on every call.
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) LoadWords(_ context.Context) ([]domain.Word, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read words file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML word document.
func Parse(data []byte) ([]domain.Word, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode words: %w", err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("validate words: %w", err)
	}

	words := make([]domain.Word, 0, len(doc.Words))
	seen := make(map[string]bool, len(doc.Words))
	for _, e := range doc.Words {
		w, err := buildWord(e)
		if err != nil {
			return nil, err
		}
		if seen[w.Word] {
			return nil, fmt.Errorf("duplicate word %q", w.Word)
		}
		seen[w.Word] = true
		words = append(words, w)
	}
	return words, nil
}

// buildWord puts the correct answer first, drops options that repeat it or each other,
// and requires at least one distractor.
func buildWord(e entry) (domain.Word, error) {
	w := domain.Word{
		Word:          strings.TrimSpace(e.Word),
		CorrectAnswer: strings.TrimSpace(e.CorrectAnswer),
	}
	w.Options = append(w.Options, w.CorrectAnswer)
	seen := map[string]bool{app.Normalize(w.CorrectAnswer): true}
	for _, opt := range e.Options {
		opt = strings.TrimSpace(opt)
		key := app.Normalize(opt)
		if seen[key] {
			continue
		}
		seen[key] = true
		w.Options = append(w.Options, opt)
	}
	if len(w.Options) < 2 {
		return domain.Word{}, fmt.Errorf("word %q needs at least one distractor", w.Word)
	}
	return w, nil
}
