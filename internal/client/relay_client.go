package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cinematch-backend/internal/models"

	"github.com/goccy/go-json"
)

const (
	msgSuggestBackendFailed = "Failed to get suggestions from the backend."
	msgSearchBackendFailed  = "Failed to fetch from backend search"
	msgDetailsBackendFailed = "Failed to fetch movie details from backend"
	minSearchQueryLength    = 2
)

// Relay is the client's view of the relay server.
type Relay interface {
	Suggest(ctx context.Context, movies, exclude []string) ([]models.MovieCandidate, error)
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
	Details(ctx context.Context, title string, year int, includePoster bool) (*models.MovieDetails, error)
}

type RelayClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRelayClient(baseURL string, timeout time.Duration) *RelayClient {
	return &RelayClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type suggestBody struct {
	Movies  []string `json:"movies"`
	Exclude []string `json:"exclude"`
}

type detailsBody struct {
	Title         string `json:"title"`
	Year          int    `json:"year"`
	IncludePoster bool   `json:"includePoster"`
}

type relayErrorBody struct {
	Message string `json:"message"`
}

func (c *RelayClient) Suggest(ctx context.Context, movies, exclude []string) ([]models.MovieCandidate, error) {
	if exclude == nil {
		exclude = []string{}
	}
	return doJSON[[]models.MovieCandidate](ctx, c, http.MethodPost, "/suggest",
		suggestBody{Movies: movies, Exclude: exclude}, msgSuggestBackendFailed)
}

// Search returns no results without a request for queries shorter than two characters.
func (c *RelayClient) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	if len(strings.TrimSpace(query)) < minSearchQueryLength {
		return []models.SearchResult{}, nil
	}
	return doJSON[[]models.SearchResult](ctx, c, http.MethodGet, "/search?query="+url.QueryEscape(query),
		nil, msgSearchBackendFailed)
}

func (c *RelayClient) Details(ctx context.Context, title string, year int, includePoster bool) (*models.MovieDetails, error) {
	details, err := doJSON[models.MovieDetails](ctx, c, http.MethodPost, "/details",
		detailsBody{Title: title, Year: year, IncludePoster: includePoster}, msgDetailsBackendFailed)
	if err != nil {
		return nil, err
	}
	return &details, nil
}

// doJSON sends body (if any) as JSON and decodes a 2xx response into T. Any
// failure is returned as *UpstreamError carrying the relay's message when present.
func doJSON[T any](ctx context.Context, c *RelayClient, method, path string, body any, fallback string) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return zero, &UpstreamError{Message: fallback, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return zero, &UpstreamError{Message: fallback, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, &UpstreamError{Message: fallback, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, &UpstreamError{StatusCode: resp.StatusCode, Message: fallback, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := fallback
		var errBody relayErrorBody
		if json.Unmarshal(data, &errBody) == nil && errBody.Message != "" {
			message = errBody.Message
		}
		return zero, &UpstreamError{StatusCode: resp.StatusCode, Message: message}
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, &UpstreamError{StatusCode: resp.StatusCode, Message: fallback, Err: fmt.Errorf("decode response: %w", err)}
	}
	return out, nil
}
