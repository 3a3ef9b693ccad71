package trivia

import (
	"context"
	"sync"
)

// MockQuestions is a canned questions response for MockSource.
type MockQuestions struct {
	Questions []RawQuestion
	Err       error
}

// MockSource is a deterministic Source for testing. Questions responses are
// returned in FIFO order; all requests are recorded.
type MockSource struct {
	mu sync.Mutex

	CategoryList  []Category
	CategoriesErr error
	Token         string
	TokenErr      error

	questions []MockQuestions

	CategoryCalls int
	TokenCalls    int
	QuestionCalls []QuestionsRequest
}

var _ Source = (*MockSource)(nil)

// NewMockSource creates a MockSource with the given canned question responses.
func NewMockSource(responses ...MockQuestions) *MockSource {
	return &MockSource{Token: "mock-token", questions: responses}
}

func (m *MockSource) Categories(ctx context.Context) ([]Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CategoryCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.CategoriesErr != nil {
		return nil, m.CategoriesErr
	}
	return m.CategoryList, nil
}

func (m *MockSource) RequestToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TokenCalls++
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.TokenErr != nil {
		return "", m.TokenErr
	}
	return m.Token, nil
}

// Questions returns the next canned response or ErrUnavailable if the queue
// is empty.
func (m *MockSource) Questions(ctx context.Context, req QuestionsRequest) ([]RawQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QuestionCalls = append(m.QuestionCalls, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(m.questions) == 0 {
		return nil, &ErrUnavailable{}
	}
	resp := m.questions[0]
	m.questions = m.questions[1:]
	return resp.Questions, resp.Err
}

// AddQuestions appends a canned questions response to the queue.
func (m *MockSource) AddQuestions(resp MockQuestions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions = append(m.questions, resp)
}

// QuestionCallCount returns the number of Questions calls made.
func (m *MockSource) QuestionCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.QuestionCalls)
}
