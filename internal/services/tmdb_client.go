package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"cinematch-backend/internal/config"
	"cinematch-backend/internal/models"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// MovieSearcher looks movies up by title on the metadata provider.
type MovieSearcher interface {
	SearchMovies(ctx context.Context, query, year string) ([]models.TMDBMovieResponse, error)
}

type TMDBClient struct {
	config     config.TMDBConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]models.TMDBMovieResponse]
	logger     *logrus.Logger
}

func NewTMDBClient(cfg config.TMDBConfig, logger *logrus.Logger) *TMDBClient {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &TMDBClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		limiter: rate.NewLimiter(limit, burst),
		breaker: newBreaker[[]models.TMDBMovieResponse]("tmdb-api", logger),
		logger:  logger,
	}
}

// SearchMovies calls /search/movie. An empty year searches across all years.
func (c *TMDBClient) SearchMovies(ctx context.Context, query, year string) ([]models.TMDBMovieResponse, error) {
	results, err := c.breaker.Execute(func() ([]models.TMDBMovieResponse, error) {
		return c.searchMovies(ctx, query, year)
	})
	if err != nil {
		if isBreakerRejection(err) {
			c.logger.WithError(err).Warn("TMDB request rejected by circuit breaker")
		}
		return nil, fmt.Errorf("%w: %w", ErrMetadataProvider, err)
	}
	return results, nil
}

func (c *TMDBClient) searchMovies(ctx context.Context, query, year string) ([]models.TMDBMovieResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("api_key", c.config.APIKey)
	params.Set("query", query)
	if year = strings.TrimSpace(year); year != "" {
		params.Set("year", year)
	}
	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/search/movie?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from TMDB: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("TMDB API returned status %d: %s", resp.StatusCode, string(body))
	}

	var tmdbResponse models.TMDBSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&tmdbResponse); err != nil {
		return nil, fmt.Errorf("failed to decode TMDB response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"query":   query,
		"year":    year,
		"results": len(tmdbResponse.Results),
	}).Debug("TMDB search completed")

	return tmdbResponse.Results, nil
}

func posterURL(imageBaseURL, posterPath string) string {
	return strings.TrimRight(imageBaseURL, "/") + "/w500" + posterPath
}
