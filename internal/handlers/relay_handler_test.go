package handlers_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cinematch-backend/internal/handlers"
	"cinematch-backend/internal/models"
	"cinematch-backend/internal/routes"
	"cinematch-backend/internal/services"
	"cinematch-backend/internal/utils"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
)

type detailsCall struct {
	title         string
	year          string
	includePoster bool
}

type stubRelayService struct {
	suggestErr    error
	candidates    []models.MovieCandidate
	gotExclude    []string
	gotRequestID  string
	searchErr     error
	searchResults []models.SearchResult
	detailsErr    error
	details       *models.MovieDetails
	detailsCalls  []detailsCall
	recentLimit   int
	configured    bool
}

func (s *stubRelayService) Suggest(ctx context.Context, movies, exclude []string) ([]models.MovieCandidate, error) {
	s.gotExclude = exclude
	s.gotRequestID = services.RequestIDFromContext(ctx)
	return s.candidates, s.suggestErr
}

func (s *stubRelayService) Search(_ context.Context, query string) ([]models.SearchResult, error) {
	if query == "" {
		return nil, services.ErrBadRequest
	}
	return s.searchResults, s.searchErr
}

func (s *stubRelayService) Details(_ context.Context, title, year string, includePoster bool) (*models.MovieDetails, error) {
	s.detailsCalls = append(s.detailsCalls, detailsCall{title, year, includePoster})
	return s.details, s.detailsErr
}

func (s *stubRelayService) RecentSuggestions(_ context.Context, limit int) ([]models.SuggestionLog, error) {
	s.recentLimit = limit
	return []models.SuggestionLog{}, nil
}

func (s *stubRelayService) SuggestionsConfigured() bool {
	return s.configured
}

func newTestApp(svc services.RelayService) *fiber.App {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app := fiber.New(fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	app.Use(requestid.New())
	routes.Setup(app, "", handlers.NewRelayHandler(svc, logger))
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test(%s %s) error = %v", method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func decodeError(t *testing.T, data []byte) utils.ErrorBody {
	t.Helper()
	var body utils.ErrorBody
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("decode error body %q: %v", data, err)
	}
	return body
}

func TestSuggestHandler(t *testing.T) {
	svc := &stubRelayService{configured: true, candidates: []models.MovieCandidate{{Title: "Coco", Year: 2017}}}
	app := newTestApp(svc)

	status, data := doRequest(t, app, http.MethodPost, "/suggest", `{"movies":["Up (2009)"]}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, data)
	}

	var got []models.MovieCandidate
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Coco" || got[0].Year != 2017 {
		t.Errorf("unexpected body %s", data)
	}
	if svc.gotExclude == nil || len(svc.gotExclude) != 0 {
		t.Errorf("missing exclude should become an empty list, got %#v", svc.gotExclude)
	}
	if svc.gotRequestID == "" {
		t.Error("request id should reach the service")
	}
}

func TestSuggestHandlerErrors(t *testing.T) {
	tests := []struct {
		name       string
		configured bool
		body       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"malformed body", true, `{"movies":`, nil, http.StatusBadRequest, "Invalid request body"},
		{"no movies", true, `{"movies":[]}`, nil, http.StatusBadRequest, "At least one movie is required."},
		{"not configured", false, `{"movies":["Up"]}`, nil, http.StatusInternalServerError, "Gemini AI client not initialized. Check API Key."},
		{"not configured with malformed body", false, `{"movies":`, nil, http.StatusInternalServerError, "Gemini AI client not initialized. Check API Key."},
		{"not configured with no movies", false, `{"movies":[]}`, nil, http.StatusInternalServerError, "Gemini AI client not initialized. Check API Key."},
		{"key rejected by service", true, `{"movies":["Up"]}`, services.ErrProviderNotConfigured, http.StatusInternalServerError, "Gemini AI client not initialized. Check API Key."},
		{"provider failure", true, `{"movies":["Up"]}`, fmt.Errorf("%w: quota", services.ErrProvider), http.StatusInternalServerError, "Failed to get suggestion from AI."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&stubRelayService{configured: tt.configured, suggestErr: tt.err})

			status, data := doRequest(t, app, http.MethodPost, "/suggest", tt.body)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", status, tt.wantStatus, data)
			}
			if got := decodeError(t, data); got.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", got.Message, tt.wantMsg)
			}
		})
	}
}

func TestSearchHandler(t *testing.T) {
	svc := &stubRelayService{searchResults: []models.SearchResult{{ID: 268, Title: "Batman", Year: "1989"}}}
	app := newTestApp(svc)

	status, data := doRequest(t, app, http.MethodGet, "/search?query=batman", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, data)
	}
	if !strings.Contains(string(data), `"year":"1989"`) {
		t.Errorf("unexpected body %s", data)
	}

	status, data = doRequest(t, app, http.MethodGet, "/search", "")
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if got := decodeError(t, data); got.Message != "Query parameter is required." {
		t.Errorf("message = %q", got.Message)
	}
}

func TestSearchHandlerProviderFailure(t *testing.T) {
	app := newTestApp(&stubRelayService{searchErr: services.ErrMetadataProvider})

	status, data := doRequest(t, app, http.MethodGet, "/search?query=up", "")
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", status)
	}
	if got := decodeError(t, data); got.Message != "Failed to search TMDb." {
		t.Errorf("message = %q", got.Message)
	}
}

func TestDetailsHandler(t *testing.T) {
	svc := &stubRelayService{details: &models.MovieDetails{Overview: "No description found."}}
	app := newTestApp(svc)

	status, data := doRequest(t, app, http.MethodPost, "/details", `{"title":"Nothing Like This","year":2001,"includePoster":true}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, data)
	}
	if string(data) != `{"overview":"No description found.","posterUrl":null}` {
		t.Errorf("body = %s", data)
	}
	if svc.detailsCalls[0] != (detailsCall{"Nothing Like This", "2001", true}) {
		t.Errorf("details call = %+v", svc.detailsCalls[0])
	}
}

func TestDetailsHandlerYearForms(t *testing.T) {
	tests := []struct {
		yearJSON string
		want     string
	}{
		{`2010`, "2010"},
		{`"2010"`, "2010"},
		{`null`, ""},
	}
	for _, tt := range tests {
		svc := &stubRelayService{details: &models.MovieDetails{Overview: "x"}}
		app := newTestApp(svc)

		status, data := doRequest(t, app, http.MethodPost, "/details", `{"title":"Inception","year":`+tt.yearJSON+`}`)
		if status != http.StatusOK {
			t.Fatalf("year %s: status = %d, body = %s", tt.yearJSON, status, data)
		}
		if got := svc.detailsCalls[0].year; got != tt.want {
			t.Errorf("year %s parsed as %q, want %q", tt.yearJSON, got, tt.want)
		}
	}
}

func TestDetailsHandlerRequiresTitle(t *testing.T) {
	svc := &stubRelayService{}
	app := newTestApp(svc)

	status, data := doRequest(t, app, http.MethodPost, "/details", `{"year":2010}`)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if got := decodeError(t, data); got.Message != "Title is required." {
		t.Errorf("message = %q", got.Message)
	}
	if len(svc.detailsCalls) != 0 {
		t.Error("service should not be called without a title")
	}
}

func TestSuggestLogsHandler(t *testing.T) {
	svc := &stubRelayService{}
	app := newTestApp(svc)

	status, data := doRequest(t, app, http.MethodGet, "/suggest/logs?limit=7", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, data)
	}
	if string(data) != "[]" {
		t.Errorf("body = %s, want []", data)
	}
	if svc.recentLimit != 7 {
		t.Errorf("limit = %d, want 7", svc.recentLimit)
	}
}
