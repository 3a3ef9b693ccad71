package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// apiRateWindow is the provider's documented per-IP request interval.
const apiRateWindow = 5 * time.Second

// Client talks to the Open Trivia DB HTTP API.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

var _ Source = (*Client)(nil)

// NewClient creates a Client from cfg.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: cfg.Timeout},
	}
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var resp categoriesResponse
	if err := c.get(ctx, "api_category.php", nil, categoriesSchema, &resp); err != nil {
		return nil, err
	}
	return resp.TriviaCategories, nil
}

func (c *Client) RequestToken(ctx context.Context) (string, error) {
	var resp tokenResponse
	params := url.Values{"command": {"request"}}
	if err := c.get(ctx, "api_token.php", params, tokenSchema, &resp); err != nil {
		return "", err
	}
	if err := checkCode("api_token.php", resp.ResponseCode); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &ErrInvalidResponse{Err: errors.New("empty token")}
	}
	return resp.Token, nil
}

func (c *Client) Questions(ctx context.Context, req QuestionsRequest) ([]RawQuestion, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", req.Amount)
	}

	params := url.Values{"amount": {strconv.Itoa(req.Amount)}}
	if req.Difficulty != "" {
		params.Set("difficulty", req.Difficulty)
	}
	if req.Category != "" {
		params.Set("category", req.Category)
	}
	if req.Type != "" {
		params.Set("type", req.Type)
	}
	if req.Token != "" {
		params.Set("token", req.Token)
	}

	var resp questionsResponse
	if err := c.get(ctx, "api.php", params, questionsSchema, &resp); err != nil {
		return nil, err
	}

	// "No results" means the query could not be satisfied; the caller runs
	// with whatever came back.
	if resp.ResponseCode == CodeNoResults {
		return resp.Results, nil
	}
	if err := checkCode("api.php", resp.ResponseCode); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func checkCode(endpoint string, code ResponseCode) error {
	switch code {
	case CodeSuccess:
		return nil
	case CodeRateLimit:
		return &ErrRateLimit{
			RetryAfter: apiRateWindow,
			Err:        &ErrResponseCode{Code: code, Endpoint: endpoint},
		}
	default:
		return &ErrResponseCode{Code: code, Endpoint: endpoint}
	}
}

// get fetches endpoint, validates the body against schema and decodes it into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, schema *responseSchema, out any) error {
	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &ErrUnavailable{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &ErrUnavailable{StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &ErrRateLimit{
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        &ErrHTTPStatus{StatusCode: resp.StatusCode, URL: u},
		}
	case resp.StatusCode >= 500:
		return &ErrUnavailable{StatusCode: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		return &ErrHTTPStatus{StatusCode: resp.StatusCode, URL: u}
	}

	if err := validateBody(schema, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ErrInvalidResponse{Body: body, Err: err}
	}
	return nil
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return apiRateWindow
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return apiRateWindow
	}
	return time.Duration(secs) * time.Second
}
