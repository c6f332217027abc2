package ragdex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 60 * time.Second

// Length is the summary size hint accepted by the API.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// Result is a single hybrid search hit.
type Result struct {
	Title          string  `json:"title"`
	Text           string  `json:"text"`
	Snippet        string  `json:"snippet"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ragdex: api error (status %d): %s", e.Status, e.Message)
}

// Client is the ragdex API client entry point.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SearchOption tunes a single search call.
type SearchOption func(*searchRequest)

// WithTopK caps the number of results. The server default is 5.
func WithTopK(k int) SearchOption {
	return func(r *searchRequest) { r.TopK = k }
}

// WithAlpha weighs the dense signal: 0 is pure lexical, 1 pure dense.
// The server default is 0.5.
func WithAlpha(alpha float64) SearchOption {
	return func(r *searchRequest) { r.Alpha = &alpha }
}

type searchRequest struct {
	Query string   `json:"query"`
	TopK  int      `json:"top_k,omitempty"`
	Alpha *float64 `json:"alpha,omitempty"`
}

type searchResponse struct {
	Results []Result `json:"results"`
	Message string   `json:"message"`
	Error   string   `json:"error"`
}

// Search runs a hybrid search. The message is non-empty when the
// service found nothing relevant.
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, string, error) {
	req := searchRequest{Query: query}
	for _, o := range opts {
		o(&req)
	}

	var resp searchResponse
	if err := c.post(ctx, "/search", req, &resp); err != nil {
		return nil, "", err
	}
	return resp.Results, resp.Message, nil
}

type suggestRequest struct {
	Query string `json:"query"`
}

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
	Error       string   `json:"error"`
}

// Suggest returns document titles related to the query. The list is
// empty when the query is blank or the service has no document vectors.
func (c *Client) Suggest(ctx context.Context, query string) ([]string, error) {
	var resp suggestResponse
	if err := c.post(ctx, "/suggest", suggestRequest{Query: query}, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

type summarizeRequest struct {
	Documents []string `json:"documents"`
	Length    Length   `json:"length,omitempty"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
	Error   string `json:"error"`
}

// Summarize condenses the document texts into one summary.
func (c *Client) Summarize(ctx context.Context, documents []string, length Length) (string, error) {
	var resp summarizeResponse
	if err := c.post(ctx, "/summarize", summarizeRequest{Documents: documents, Length: length}, &resp); err != nil {
		return "", err
	}
	return resp.Summary, nil
}

type answerRequest struct {
	Documents []string `json:"documents"`
	Question  string   `json:"question"`
}

type answerResponse struct {
	Answer string `json:"answer"`
	Error  string `json:"error"`
}

// Answer asks a question strictly over the given document texts.
func (c *Client) Answer(ctx context.Context, documents []string, question string) (string, error) {
	var resp answerResponse
	if err := c.post(ctx, "/answer", answerRequest{Documents: documents, Question: question}, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

// Health reports the aggregated service status string ("ok",
// "degraded" or "error").
func (c *Client) Health(ctx context.Context) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return "", fmt.Errorf("ragdex: build request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ragdex: health request: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("ragdex: decode health response: %w", err)
	}
	return body.Status, nil
}

// post sends a JSON body and decodes a JSON response. Error payloads
// from non-2xx responses become *APIError.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("ragdex: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("ragdex: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("ragdex: %s request: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Error == "" {
			errBody.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: errBody.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ragdex: decode %s response: %w", path, err)
	}
	return nil
}
