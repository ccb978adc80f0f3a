package client

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"

	"cinematch-backend/internal/models"

	"github.com/sirupsen/logrus"
)

type detailsCall struct {
	title         string
	year          int
	includePoster bool
}

type fakeRelay struct {
	mu sync.Mutex

	candidates  []models.MovieCandidate
	suggestErr  error
	suggestions int
	gotMovies   []string
	gotExclude  []string

	detailsErr   map[string]error
	detailsCalls []detailsCall

	searchQueries []string
	searchResults []models.SearchResult
	searchErr     error
}

func (f *fakeRelay) Suggest(_ context.Context, movies, exclude []string) ([]models.MovieCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suggestions++
	f.gotMovies = movies
	f.gotExclude = exclude
	return f.candidates, f.suggestErr
}

func (f *fakeRelay) Search(_ context.Context, query string) ([]models.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchQueries = append(f.searchQueries, query)
	return f.searchResults, f.searchErr
}

func (f *fakeRelay) Details(_ context.Context, title string, year int, includePoster bool) (*models.MovieDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailsCalls = append(f.detailsCalls, detailsCall{title, year, includePoster})
	if err := f.detailsErr[title]; err != nil {
		return nil, err
	}
	details := &models.MovieDetails{Overview: "About " + title}
	if includePoster {
		poster := "https://image.tmdb.org/t/p/w500/" + title + ".jpg"
		details.PosterURL = &poster
	}
	return details, nil
}

func (f *fakeRelay) queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searchQueries...)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func fiveCandidates() []models.MovieCandidate {
	return []models.MovieCandidate{
		{Title: "Coco", Year: 2017},
		{Title: "Heat", Year: 1995},
		{Title: "Alien", Year: 1979},
		{Title: "Arrival", Year: 2016},
		{Title: "Amelie", Year: 2001},
	}
}

func TestRequestRecommendationsRejectsEmptyInputs(t *testing.T) {
	relay := &fakeRelay{}
	c := NewCoordinator(relay, quietLogger())

	_, err := c.RequestRecommendations(context.Background(), NewSuggestionHistory(),
		[]VoterMovieInput{{Title: "  "}, {}}, nil)

	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Message != "Please enter at least one movie." {
		t.Fatalf("error = %v, want validation error", err)
	}
	if relay.suggestions != 0 {
		t.Errorf("suggest called %d times, want 0", relay.suggestions)
	}
}

func TestRequestRecommendationsIgnoresYearWithoutTitle(t *testing.T) {
	relay := &fakeRelay{}
	c := NewCoordinator(relay, quietLogger())

	_, err := c.RequestRecommendations(context.Background(), NewSuggestionHistory(),
		[]VoterMovieInput{{Title: "  ", Year: "2001"}}, nil)

	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Message != "Please enter at least one movie." {
		t.Fatalf("error = %v, want validation error", err)
	}
	if relay.suggestions != 0 {
		t.Errorf("suggest called %d times, want 0", relay.suggestions)
	}
}

func TestRequestRecommendationsKeepsUnknownYearLabel(t *testing.T) {
	relay := &fakeRelay{candidates: []models.MovieCandidate{}}
	c := NewCoordinator(relay, quietLogger())

	_, err := c.RequestRecommendations(context.Background(), NewSuggestionHistory(),
		[]VoterMovieInput{{Title: "Obscure", Year: "N/A"}, {Title: "   ", Year: "1999"}}, nil)
	if err != nil {
		t.Fatalf("RequestRecommendations: %v", err)
	}
	if got := relay.gotMovies; len(got) != 1 || got[0] != "Obscure (N/A)" {
		t.Errorf("movies sent = %q, want [\"Obscure (N/A)\"]", got)
	}
}

func TestRequestRecommendationsEnrichesConcurrently(t *testing.T) {
	relay := &fakeRelay{
		candidates: fiveCandidates(),
		detailsErr: map[string]error{"Alien": errors.New("tmdb down")},
	}
	c := NewCoordinator(relay, quietLogger())
	history := NewSuggestionHistory()

	result, err := c.RequestRecommendations(context.Background(), history,
		[]VoterMovieInput{{"Up", "2009"}, {"", ""}, {"Heat", ""}}, []string{})
	if err != nil {
		t.Fatalf("RequestRecommendations: %v", err)
	}

	if got := relay.gotMovies; len(got) != 2 || got[0] != "Up (2009)" || got[1] != "Heat" {
		t.Errorf("movies sent = %v", got)
	}
	if len(result.Suggestions) != 5 {
		t.Fatalf("got %d suggestions, want 5", len(result.Suggestions))
	}
	for i, s := range result.Suggestions {
		if s.Title != fiveCandidates()[i].Title {
			t.Errorf("suggestion %d = %q, order not preserved", i, s.Title)
		}
		if i == 0 && s.PosterURL == nil {
			t.Error("first suggestion should carry a poster")
		}
		if i > 0 && s.PosterURL != nil {
			t.Errorf("suggestion %d should not carry a poster", i)
		}
	}
	if got := result.Suggestions[2].Description; got != "No description available." {
		t.Errorf("failed enrichment description = %q", got)
	}
	if got := result.Suggestions[1].Description; got != "About Heat" {
		t.Errorf("description = %q", got)
	}

	posterCalls := 0
	for _, call := range relay.detailsCalls {
		if call.includePoster {
			posterCalls++
			if call.title != "Coco" {
				t.Errorf("poster requested for %q", call.title)
			}
		}
	}
	if len(relay.detailsCalls) != 5 || posterCalls != 1 {
		t.Errorf("details calls = %d, poster calls = %d", len(relay.detailsCalls), posterCalls)
	}
	if history.Len() != 5 {
		t.Errorf("history has %d titles, want 5", history.Len())
	}
}

func TestRequestRecommendationsNoNewSuggestions(t *testing.T) {
	relay := &fakeRelay{candidates: []models.MovieCandidate{}}
	c := NewCoordinator(relay, quietLogger())
	history := NewSuggestionHistory()
	history.Add("Coco")

	result, err := c.RequestRecommendations(context.Background(), history,
		[]VoterMovieInput{{Title: "Up"}}, history.Titles())
	if err != nil {
		t.Fatalf("RequestRecommendations: %v", err)
	}
	if !result.NoNewSuggestions || len(result.Suggestions) != 0 {
		t.Errorf("result = %+v, want no new suggestions", result)
	}
	if result.Message != "The AI couldn't find any new movies to suggest. Try a different set of inputs." {
		t.Errorf("message = %q", result.Message)
	}
	if len(relay.detailsCalls) != 0 {
		t.Error("details should not be requested for an empty list")
	}
	if history.Len() != 1 {
		t.Errorf("history changed to %d titles", history.Len())
	}
}

func TestRequestRecommendationsUpstreamError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"relay message", &UpstreamError{StatusCode: 500, Message: "Failed to get suggestion from AI."}, "Failed to get suggestion from AI."},
		{"plain error", errors.New("boom"), "Failed to get suggestions from the backend."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCoordinator(&fakeRelay{suggestErr: tt.err}, quietLogger())
			_, err := c.RequestRecommendations(context.Background(), NewSuggestionHistory(),
				[]VoterMovieInput{{Title: "Up"}}, nil)

			var uerr *UpstreamError
			if !errors.As(err, &uerr) {
				t.Fatalf("error = %v, want *UpstreamError", err)
			}
			if uerr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", uerr.Message, tt.wantMsg)
			}
		})
	}
}

func TestTryAgainExcludesHistoryAndSubmitResets(t *testing.T) {
	relay := &fakeRelay{candidates: fiveCandidates()}
	c := NewCoordinator(relay, quietLogger())
	session := NewSession()
	_ = session.Inputs.Commit(0, "Up", "2009")

	if _, err := c.Submit(context.Background(), session); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(relay.gotExclude) != 0 {
		t.Errorf("first submit excluded %v", relay.gotExclude)
	}

	relay.candidates = []models.MovieCandidate{{Title: "Paddington", Year: 2014}}
	if _, err := c.TryAgain(context.Background(), session); err != nil {
		t.Fatalf("TryAgain: %v", err)
	}
	excluded := append([]string(nil), relay.gotExclude...)
	sort.Strings(excluded)
	want := []string{"Alien", "Amelie", "Arrival", "Coco", "Heat"}
	if len(excluded) != len(want) {
		t.Fatalf("excluded = %v, want %v", excluded, want)
	}
	for i := range want {
		if excluded[i] != want[i] {
			t.Errorf("excluded = %v, want %v", excluded, want)
			break
		}
	}
	if !session.History.Contains("Paddington") || session.History.Len() != 6 {
		t.Errorf("history = %v", session.History.Titles())
	}

	if _, err := c.Submit(context.Background(), session); err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if len(relay.gotExclude) != 0 {
		t.Errorf("fresh submit excluded %v", relay.gotExclude)
	}
	if session.History.Len() != 1 {
		t.Errorf("history after fresh submit = %v", session.History.Titles())
	}
}
