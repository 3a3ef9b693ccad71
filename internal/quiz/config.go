package quiz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/triviaz/internal/trivia"
)

// DefaultAmount is the question count pre-filled on the configure screen.
const DefaultAmount = 10

// Difficulty is the question difficulty requested from the API.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the selectable difficulties in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty maps user text onto a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	case "":
		return DifficultyEasy, nil
	default:
		return "", &ValidationError{Field: "difficulty", Message: fmt.Sprintf("unknown difficulty %q: must be easy, medium or hard", s)}
	}
}

// DisplayName returns the title-cased difficulty.
func (d Difficulty) DisplayName() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// Configuration is the immutable set of parameters a session is started with.
type Configuration struct {
	Amount     int
	Difficulty Difficulty
	// CategoryID is empty for "any category", which is only offered when
	// the category list could not be loaded.
	CategoryID string
}

// ParseConfiguration validates raw user input against the loaded categories.
// When categories are loaded categoryID must be one of them; when none are,
// the membership check is skipped.
func ParseConfiguration(amountText string, difficulty Difficulty, categoryID string, categories []trivia.Category) (Configuration, error) {
	amountText = strings.TrimSpace(amountText)
	amount, err := strconv.Atoi(amountText)
	if amountText == "" || err != nil || amount <= 0 {
		return Configuration{}, &ValidationError{
			Field:   "amount",
			Message: "Please enter a valid number of questions.",
		}
	}

	if _, err := ParseDifficulty(string(difficulty)); err != nil {
		return Configuration{}, err
	}
	if difficulty == "" {
		difficulty = DifficultyEasy
	}

	if len(categories) > 0 {
		found := false
		for _, c := range categories {
			if strconv.Itoa(c.ID) == categoryID {
				found = true
				break
			}
		}
		if !found {
			msg := fmt.Sprintf("unknown category %q", categoryID)
			if categoryID == "" {
				msg = "Please choose a category."
			}
			return Configuration{}, &ValidationError{Field: "category", Message: msg}
		}
	}

	return Configuration{
		Amount:     amount,
		Difficulty: difficulty,
		CategoryID: categoryID,
	}, nil
}

// QuestionsRequest converts the configuration into an API request.
func (c Configuration) QuestionsRequest(token string) trivia.QuestionsRequest {
	return trivia.QuestionsRequest{
		Amount:     c.Amount,
		Difficulty: string(c.Difficulty),
		Category:   c.CategoryID,
		Type:       trivia.TypeMultiple,
		Token:      token,
	}
}
