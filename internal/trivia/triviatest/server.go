// Package triviatest provides an in-process fake of the Open Trivia DB API.
package triviatest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/triviaz/internal/trivia"
)

// Token is the token the fake hands out.
const Token = "fake-token-0123"

// Server is a fake trivia API backed by httptest.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	categories []trivia.Category
	questions  []trivia.RawQuestion
	codes      map[string]trivia.ResponseCode
	failures   map[string][]int
	bodies     map[string]string
	requests   map[string][]url.Values
}

// NewServer starts a fake API seeded with categories and questions. It is
// closed automatically when the test finishes.
func NewServer(t testing.TB, categories []trivia.Category, questions []trivia.RawQuestion) *Server {
	t.Helper()

	s := &Server{
		categories: categories,
		questions:  questions,
		codes:      make(map[string]trivia.ResponseCode),
		failures:   make(map[string][]int),
		bodies:     make(map[string]string),
		requests:   make(map[string][]url.Values),
	}

	r := chi.NewRouter()
	r.Get("/api_category.php", s.handle("api_category.php", s.categoriesBody))
	r.Get("/api_token.php", s.handle("api_token.php", s.tokenBody))
	r.Get("/api.php", s.handle("api.php", s.questionsBody))

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// FailNext makes the next len(statuses) calls to endpoint answer with the
// given HTTP statuses, in order.
func (s *Server) FailNext(endpoint string, statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[endpoint] = append(s.failures[endpoint], statuses...)
}

// SetResponseCode makes endpoint answer with code instead of success.
func (s *Server) SetResponseCode(endpoint string, code trivia.ResponseCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[endpoint] = code
}

// SetBody makes endpoint answer 200 with a literal body.
func (s *Server) SetBody(endpoint, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[endpoint] = body
}

// Requests returns the query parameters of every call to endpoint.
func (s *Server) Requests(endpoint string) []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]url.Values, len(s.requests[endpoint]))
	copy(out, s.requests[endpoint])
	return out
}

func (s *Server) handle(endpoint string, body func(url.Values) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		q := r.URL.Query()
		s.requests[endpoint] = append(s.requests[endpoint], q)

		if pending := s.failures[endpoint]; len(pending) > 0 {
			status := pending[0]
			s.failures[endpoint] = pending[1:]
			s.mu.Unlock()
			w.WriteHeader(status)
			return
		}
		if literal, ok := s.bodies[endpoint]; ok {
			s.mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(literal))
			return
		}
		payload := body(q)
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// The body builders run with s.mu held.

func (s *Server) categoriesBody(url.Values) any {
	return map[string]any{"trivia_categories": s.categories}
}

func (s *Server) tokenBody(url.Values) any {
	code := s.codes["api_token.php"]
	resp := map[string]any{"response_code": int(code)}
	if code == trivia.CodeSuccess {
		resp["response_message"] = "Token Generated Successfully!"
		resp["token"] = Token
	}
	return resp
}

func (s *Server) questionsBody(q url.Values) any {
	if code, ok := s.codes["api.php"]; ok && code != trivia.CodeSuccess {
		return map[string]any{"response_code": int(code), "results": []trivia.RawQuestion{}}
	}

	amount, _ := strconv.Atoi(q.Get("amount"))
	if amount > len(s.questions) {
		return map[string]any{"response_code": int(trivia.CodeNoResults), "results": []trivia.RawQuestion{}}
	}
	return map[string]any{"response_code": int(trivia.CodeSuccess), "results": s.questions[:amount]}
}
