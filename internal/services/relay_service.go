package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cinematch-backend/internal/models"
	"cinematch-backend/internal/repository"

	"github.com/sirupsen/logrus"
)

const (
	maxSearchResults     = 10
	noDescriptionFound   = "No description found."
	defaultLogLimit      = 20
	maxLogLimit          = 100
	suggestionLogTimeout = 5 * time.Second
)

type RelayService interface {
	Suggest(ctx context.Context, movies, exclude []string) ([]models.MovieCandidate, error)
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
	Details(ctx context.Context, title, year string, includePoster bool) (*models.MovieDetails, error)
	RecentSuggestions(ctx context.Context, limit int) ([]models.SuggestionLog, error)
	SuggestionsConfigured() bool
}

type relayService struct {
	generator    CandidateGenerator
	searcher     MovieSearcher
	posters      PosterStore
	logRepo      repository.SuggestionLogRepository
	imageBaseURL string
	logger       *logrus.Logger
}

// NewRelayService wires the providers together. generator may be nil when no
// Gemini key is configured; posters may be nil when mirroring is disabled.
func NewRelayService(generator CandidateGenerator, searcher MovieSearcher, posters PosterStore, logRepo repository.SuggestionLogRepository, imageBaseURL string, logger *logrus.Logger) RelayService {
	if logRepo == nil {
		logRepo = repository.NopSuggestionLogRepository{}
	}
	return &relayService{
		generator:    generator,
		searcher:     searcher,
		posters:      posters,
		logRepo:      logRepo,
		imageBaseURL: imageBaseURL,
		logger:       logger,
	}
}

func (s *relayService) SuggestionsConfigured() bool {
	return s.generator != nil
}

func (s *relayService) Suggest(ctx context.Context, movies, exclude []string) ([]models.MovieCandidate, error) {
	if s.generator == nil {
		return nil, ErrProviderNotConfigured
	}

	prompt := buildSuggestionPrompt(movies, exclude)
	candidates, err := s.generator.GenerateCandidates(ctx, prompt)

	s.recordSuggestion(RequestIDFromContext(ctx), movies, exclude, candidates, err)

	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"movies":      len(movies),
		"exclude":     len(exclude),
		"suggestions": len(candidates),
	}).Info("Suggestions generated")

	return candidates, nil
}

// buildSuggestionPrompt embeds the liked titles and, when present, the titles
// already shown in this session.
func buildSuggestionPrompt(movies, exclude []string) string {
	prompt := fmt.Sprintf("You are a movie recommendation expert. Based on this list of movies: [%s], "+
		"suggest 5 other movies that a group of people who like these movies would enjoy watching together. "+
		"The suggestions should be a good mix and logical follow-ups.", quoteList(movies))

	if len(exclude) > 0 {
		prompt += fmt.Sprintf(" IMPORTANT: Do not suggest any of the following movies as they have already been suggested: [%s].",
			quoteList(exclude))
	}
	return prompt
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = `"` + item + `"`
	}
	return strings.Join(quoted, ", ")
}

func (s *relayService) recordSuggestion(requestID string, movies, exclude []string, candidates []models.MovieCandidate, err error) {
	entry := &models.SuggestionLog{
		RequestID: requestID,
		Movies:    movies,
		Exclude:   exclude,
		Suggested: candidates,
		Count:     len(candidates),
		Status:    models.SuggestionStatusSuccess,
	}
	if err != nil {
		entry.Status = models.SuggestionStatusFailed
		entry.ErrorMessage = err.Error()
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), suggestionLogTimeout)
		defer cancel()
		if err := s.logRepo.Create(ctx, entry); err != nil {
			s.logger.WithError(err).WithField("request_id", requestID).Warn("Failed to record suggestion log")
		}
	}()
}

func (s *relayService) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrBadRequest)
	}

	movies, err := s.searcher.SearchMovies(ctx, query, "")
	if err != nil {
		return nil, err
	}

	return projectSearchResults(movies), nil
}

// projectSearchResults keeps the first hit per title and caps the list.
func projectSearchResults(movies []models.TMDBMovieResponse) []models.SearchResult {
	seen := make(map[string]struct{}, len(movies))
	results := make([]models.SearchResult, 0, maxSearchResults)

	for _, movie := range movies {
		if _, ok := seen[movie.Title]; ok {
			continue
		}
		seen[movie.Title] = struct{}{}

		results = append(results, models.SearchResult{
			ID:    movie.ID,
			Title: movie.Title,
			Year:  movie.ReleaseYear(),
		})
		if len(results) == maxSearchResults {
			break
		}
	}
	return results
}

func (s *relayService) Details(ctx context.Context, title, year string, includePoster bool) (*models.MovieDetails, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrBadRequest)
	}

	movies, err := s.searcher.SearchMovies(ctx, title, year)
	if err != nil {
		return nil, err
	}

	if len(movies) == 0 {
		return &models.MovieDetails{Overview: noDescriptionFound}, nil
	}

	movie := movies[0]
	details := &models.MovieDetails{Overview: movie.Overview}

	if includePoster && movie.PosterPath != "" {
		url := s.resolvePoster(ctx, movie.PosterPath)
		details.PosterURL = &url
	}

	return details, nil
}

// resolvePoster falls back to the TMDb URL whenever mirroring is off or fails.
func (s *relayService) resolvePoster(ctx context.Context, posterPath string) string {
	url := posterURL(s.imageBaseURL, posterPath)
	if s.posters == nil {
		return url
	}

	mirrored, err := s.posters.Mirror(ctx, posterPath, url)
	if err != nil {
		s.logger.WithError(err).WithField("posterPath", posterPath).Warn("Failed to mirror poster, using TMDB URL")
		return url
	}
	return mirrored
}

func (s *relayService) RecentSuggestions(ctx context.Context, limit int) ([]models.SuggestionLog, error) {
	if limit < 1 {
		limit = defaultLogLimit
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}
	return s.logRepo.FindRecent(ctx, limit)
}
