package quiz

import (
	"html"
	"math/rand/v2"

	"github.com/abhisek/triviaz/internal/trivia"
)

// Question is a decoded multiple-choice question ready for display.
// Options are shuffled once at normalization time and never re-ordered.
type Question struct {
	Text    string   `json:"question"`
	Correct string   `json:"correct"`
	Options []string `json:"options"`
}

// HasOption reports whether o is one of the question's options.
func (q Question) HasOption(o string) bool {
	for _, opt := range q.Options {
		if opt == o {
			return true
		}
	}
	return false
}

// IsCorrect reports whether o is the correct answer.
func (q Question) IsCorrect(o string) bool {
	return o == q.Correct
}

// Normalize decodes HTML entities in every text field and builds the shuffled
// option list. A nil rng uses the global source.
func Normalize(raw trivia.RawQuestion, rng *rand.Rand) Question {
	correct := html.UnescapeString(raw.CorrectAnswer)

	options := make([]string, 0, 1+len(raw.IncorrectAnswers))
	options = append(options, correct)
	for _, inc := range raw.IncorrectAnswers {
		options = append(options, html.UnescapeString(inc))
	}

	swap := func(i, j int) { options[i], options[j] = options[j], options[i] }
	if rng != nil {
		rng.Shuffle(len(options), swap)
	} else {
		rand.Shuffle(len(options), swap)
	}

	return Question{
		Text:    html.UnescapeString(raw.Question),
		Correct: correct,
		Options: options,
	}
}

// NormalizeAll normalizes a fetched question set, preserving order.
func NormalizeAll(raws []trivia.RawQuestion, rng *rand.Rand) []Question {
	out := make([]Question, 0, len(raws))
	for _, r := range raws {
		out = append(out, Normalize(r, rng))
	}
	return out
}
