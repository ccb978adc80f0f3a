package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"cinematch-backend/internal/config"
	"cinematch-backend/internal/models"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/sirupsen/logrus"
)

// CandidateGenerator asks the AI provider for movie candidates matching a prompt.
type CandidateGenerator interface {
	GenerateCandidates(ctx context.Context, prompt string) ([]models.MovieCandidate, error)
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiSchema struct {
	Type       string                   `json:"type"`
	Items      *geminiSchema            `json:"items,omitempty"`
	Properties map[string]*geminiSchema `json:"properties,omitempty"`
	Required   []string                 `json:"required,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string        `json:"responseMimeType"`
	ResponseSchema   *geminiSchema `json:"responseSchema"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type geminiResponse struct {
	Candidates     []geminiCandidate `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// candidateSchema constrains the model output to [{title, year}].
var candidateSchema = &geminiSchema{
	Type: "ARRAY",
	Items: &geminiSchema{
		Type: "OBJECT",
		Properties: map[string]*geminiSchema{
			"title": {Type: "STRING"},
			"year":  {Type: "NUMBER"},
		},
		Required: []string{"title", "year"},
	},
}

type GeminiClient struct {
	config     config.GeminiConfig
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]models.MovieCandidate]
	logger     *logrus.Logger
}

func NewGeminiClient(cfg config.GeminiConfig, logger *logrus.Logger) *GeminiClient {
	return &GeminiClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		breaker: newBreaker[[]models.MovieCandidate]("gemini-api", logger),
		logger:  logger,
	}
}

func (c *GeminiClient) GenerateCandidates(ctx context.Context, prompt string) ([]models.MovieCandidate, error) {
	candidates, err := c.breaker.Execute(func() ([]models.MovieCandidate, error) {
		return c.generate(ctx, prompt)
	})
	if err != nil {
		if isBreakerRejection(err) {
			c.logger.WithError(err).Warn("Gemini request rejected by circuit breaker")
		}
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	return candidates, nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) ([]models.MovieCandidate, error) {
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   candidateSchema,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(c.config.BaseURL, "/"), c.config.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Gemini: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr geminiErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("Gemini API returned status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("Gemini API returned status %d", resp.StatusCode)
	}

	var genResponse geminiResponse
	if err := json.Unmarshal(body, &genResponse); err != nil {
		return nil, fmt.Errorf("failed to decode Gemini response: %w", err)
	}

	text, err := genResponse.text()
	if err != nil {
		return nil, err
	}

	return parseCandidates(text)
}

func (r *geminiResponse) text() (string, error) {
	if len(r.Candidates) == 0 {
		if r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("prompt blocked: %s", r.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("Gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

// parseCandidates decodes the schema-constrained JSON text. The schema types year
// as NUMBER, so it is decoded as a float and rounded.
func parseCandidates(text string) ([]models.MovieCandidate, error) {
	var raw []struct {
		Title string  `json:"title"`
		Year  float64 `json:"year"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}

	candidates := make([]models.MovieCandidate, 0, len(raw))
	for _, r := range raw {
		candidates = append(candidates, models.MovieCandidate{
			Title: r.Title,
			Year:  int(math.Round(r.Year)),
		})
	}
	return candidates, nil
}
