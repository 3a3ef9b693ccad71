package trivia

import (
	"fmt"
	"time"
)

// ErrRateLimit indicates the API refused the request for sending too many
// (HTTP 429 or response code 5).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrUnavailable indicates the API is unreachable or returned a 5xx.
type ErrUnavailable struct {
	StatusCode int
	Err        error
}

func (e *ErrUnavailable) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("trivia API unavailable: %v", e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("trivia API unavailable: HTTP %d", e.StatusCode)
	default:
		return "trivia API unavailable"
	}
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrHTTPStatus indicates a non-retryable HTTP status.
type ErrHTTPStatus struct {
	StatusCode int
	URL        string
}

func (e *ErrHTTPStatus) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// ErrInvalidResponse indicates a body that is not JSON or does not match the
// expected shape.
type ErrInvalidResponse struct {
	Body []byte
	Err  error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid trivia API response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrResponseCode indicates a non-success response_code.
type ErrResponseCode struct {
	Code     ResponseCode
	Endpoint string
}

func (e *ErrResponseCode) Error() string {
	return fmt.Sprintf("%s: response code %d (%s)", e.Endpoint, int(e.Code), e.Code)
}
