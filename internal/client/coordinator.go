package client

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"cinematch-backend/internal/models"

	"github.com/sirupsen/logrus"
)

const (
	msgNoMovies          = "Please enter at least one movie."
	msgNoNewSuggestions  = "The AI couldn't find any new movies to suggest. Try a different set of inputs."
	msgNoDescription     = "No description available."
	featuredSuggestionIx = 0
)

// MovieSuggestion is a suggested movie after enrichment.
type MovieSuggestion struct {
	Title       string
	Year        int
	Description string
	PosterURL   *string
}

// Result of one suggestion cycle. When NoNewSuggestions is set, Suggestions is
// empty and Message holds the text to show instead.
type Result struct {
	Suggestions      []MovieSuggestion
	NoNewSuggestions bool
	Message          string
}

// Session is the per-user state carried across suggestion cycles.
type Session struct {
	Inputs  *VoterInputs
	History *SuggestionHistory
}

func NewSession() *Session {
	inputs, _ := NewVoterInputs(DefaultVoters)
	return &Session{
		Inputs:  inputs,
		History: NewSuggestionHistory(),
	}
}

// Coordinator runs suggestion cycles against the relay: one suggest call
// followed by a concurrent details lookup per suggested movie.
type Coordinator struct {
	relay  Relay
	logger *logrus.Logger
}

func NewCoordinator(relay Relay, logger *logrus.Logger) *Coordinator {
	return &Coordinator{relay: relay, logger: logger}
}

// Submit starts a fresh session: history is cleared and nothing is excluded.
func (c *Coordinator) Submit(ctx context.Context, session *Session) (*Result, error) {
	session.History.Reset()
	return c.RequestRecommendations(ctx, session.History, session.Inputs.Entries(), []string{})
}

// TryAgain asks for different movies, excluding every title shown so far.
func (c *Coordinator) TryAgain(ctx context.Context, session *Session) (*Result, error) {
	return c.RequestRecommendations(ctx, session.History, session.Inputs.Entries(), session.History.Titles())
}

// RequestRecommendations validates inputs, fetches suggestions and enriches
// them. Only the first suggestion asks the relay for a poster. Successful
// titles are added to history. Errors are *ValidationError or *UpstreamError.
func (c *Coordinator) RequestRecommendations(ctx context.Context, history *SuggestionHistory, inputs []VoterMovieInput, exclude []string) (*Result, error) {
	movies := movieLabels(inputs)
	if len(movies) == 0 {
		return nil, &ValidationError{Message: msgNoMovies}
	}

	candidates, err := c.relay.Suggest(ctx, movies, exclude)
	if err != nil {
		var upstream *UpstreamError
		if !errors.As(err, &upstream) {
			upstream = &UpstreamError{Message: msgSuggestBackendFailed, Err: err}
		}
		c.logger.WithError(err).WithField("movies", len(movies)).Error("Suggestion request failed")
		return nil, upstream
	}

	if len(candidates) == 0 {
		return &Result{
			Suggestions:      []MovieSuggestion{},
			NoNewSuggestions: true,
			Message:          msgNoNewSuggestions,
		}, nil
	}

	suggestions := make([]MovieSuggestion, len(candidates))
	var wg sync.WaitGroup
	for i, candidate := range candidates {
		i, candidate := i, candidate
		wg.Add(1)
		go func() {
			defer wg.Done()
			suggestions[i] = c.enrich(ctx, candidate, i == featuredSuggestionIx)
		}()
	}
	wg.Wait()

	titles := make([]string, len(suggestions))
	for i, s := range suggestions {
		titles[i] = s.Title
	}
	history.Add(titles...)

	return &Result{Suggestions: suggestions}, nil
}

// enrich never fails: a details error only costs the description and poster.
func (c *Coordinator) enrich(ctx context.Context, candidate models.MovieCandidate, includePoster bool) MovieSuggestion {
	suggestion := MovieSuggestion{
		Title:       candidate.Title,
		Year:        candidate.Year,
		Description: msgNoDescription,
	}

	details, err := c.relay.Details(ctx, candidate.Title, candidate.Year, includePoster)
	if err != nil || details == nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"title": candidate.Title,
			"year":  strconv.Itoa(candidate.Year),
		}).Warn("Movie details unavailable")
		return suggestion
	}

	suggestion.Description = details.Overview
	suggestion.PosterURL = details.PosterURL
	return suggestion
}

// movieLabels keeps non-blank inputs in order, formatted for the suggest call.
func movieLabels(inputs []VoterMovieInput) []string {
	labels := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if label := in.Label(); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}
