package trivia

import "context"

// TypeMultiple restricts questions to multiple choice.
const TypeMultiple = "multiple"

// Source is the abstraction over the Open Trivia DB API.
type Source interface {
	// Categories returns the category list.
	Categories(ctx context.Context) ([]Category, error)

	// RequestToken obtains a session token that prevents repeated questions.
	RequestToken(ctx context.Context) (string, error)

	// Questions fetches raw, still HTML-encoded questions.
	Questions(ctx context.Context, req QuestionsRequest) ([]RawQuestion, error)
}

// Category is a trivia category, verbatim from the API.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RawQuestion is one entry of the questions response. Text fields are
// HTML-entity encoded by the provider.
type RawQuestion struct {
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// QuestionsRequest describes a questions query. Empty fields are omitted.
type QuestionsRequest struct {
	Amount     int
	Difficulty string
	Category   string
	Type       string
	Token      string
}

// ResponseCode is the API-level status carried in token and question responses.
type ResponseCode int

const (
	CodeSuccess       ResponseCode = 0
	CodeNoResults     ResponseCode = 1
	CodeInvalidParam  ResponseCode = 2
	CodeTokenNotFound ResponseCode = 3
	CodeTokenEmpty    ResponseCode = 4
	CodeRateLimit     ResponseCode = 5
)

func (c ResponseCode) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeNoResults:
		return "no results"
	case CodeInvalidParam:
		return "invalid parameter"
	case CodeTokenNotFound:
		return "token not found"
	case CodeTokenEmpty:
		return "token empty"
	case CodeRateLimit:
		return "rate limit"
	default:
		return "unknown"
	}
}

type categoriesResponse struct {
	TriviaCategories []Category `json:"trivia_categories"`
}

type tokenResponse struct {
	ResponseCode    ResponseCode `json:"response_code"`
	ResponseMessage string       `json:"response_message"`
	Token           string       `json:"token"`
}

type questionsResponse struct {
	ResponseCode ResponseCode  `json:"response_code"`
	Results      []RawQuestion `json:"results"`
}
