package handlers

import (
	"context"
	"errors"

	"cinematch-backend/internal/services"
	"cinematch-backend/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	msgInvalidBody        = "Invalid request body"
	msgMoviesRequired     = "At least one movie is required."
	msgQueryRequired      = "Query parameter is required."
	msgTitleRequired      = "Title is required."
	msgAINotInitialized   = "Gemini AI client not initialized. Check API Key."
	msgSuggestFailed      = "Failed to get suggestion from AI."
	msgSearchFailed       = "Failed to search TMDb."
	msgDetailsFailed      = "Failed to get movie details."
	msgSuggestLogsFailed  = "Failed to retrieve suggestion logs"
	requestIDLocalsKey    = "requestid"
	defaultSuggestLogSize = 20
)

type RelayHandler struct {
	service  services.RelayService
	validate *validator.Validate
	logger   *logrus.Logger
}

func NewRelayHandler(service services.RelayService, logger *logrus.Logger) *RelayHandler {
	return &RelayHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// requestContext carries the request ID into the service layer.
func (h *RelayHandler) requestContext(c *fiber.Ctx) context.Context {
	id, _ := c.Locals(requestIDLocalsKey).(string)
	return services.WithRequestID(c.UserContext(), id)
}

// Suggest godoc
// @Summary Suggest movies for a group
// @Description Ask the AI provider for 5 movies the group would enjoy, skipping titles already shown
// @Tags relay
// @Accept json
// @Produce json
// @Param request body SuggestRequest true "Liked movies and titles to exclude"
// @Success 200 {array} models.MovieCandidate "Suggested movies"
// @Failure 400 {object} utils.ErrorBody "Invalid request"
// @Failure 500 {object} utils.ErrorBody "AI provider failure or missing API key"
// @Router /suggest [post]
func (h *RelayHandler) Suggest(c *fiber.Ctx) error {
	if !h.service.SuggestionsConfigured() {
		h.logger.Error("Suggest called without a Gemini API key")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, msgAINotInitialized)
	}

	var req SuggestRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if err := h.validate.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msgMoviesRequired)
	}
	if req.Exclude == nil {
		req.Exclude = []string{}
	}

	candidates, err := h.service.Suggest(h.requestContext(c), req.Movies, req.Exclude)
	if err != nil {
		if errors.Is(err, services.ErrProviderNotConfigured) {
			h.logger.Error("Suggest called without a Gemini API key")
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, msgAINotInitialized)
		}
		h.logger.WithError(err).WithField("movies", len(req.Movies)).Error("Failed to get suggestions")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, msgSuggestFailed)
	}

	return utils.JSONResponse(c, fiber.StatusOK, candidates)
}

// Search godoc
// @Summary Search movies by title
// @Description Search-as-you-type against TMDb, deduplicated by title and capped at 10 results
// @Tags relay
// @Produce json
// @Param query query string true "Title prefix"
// @Success 200 {array} models.SearchResult "Matching movies"
// @Failure 400 {object} utils.ErrorBody "Missing query"
// @Failure 500 {object} utils.ErrorBody "TMDb failure"
// @Router /search [get]
func (h *RelayHandler) Search(c *fiber.Ctx) error {
	query := c.Query("query")

	results, err := h.service.Search(h.requestContext(c), query)
	if err != nil {
		if errors.Is(err, services.ErrBadRequest) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, msgQueryRequired)
		}
		h.logger.WithError(err).WithField("query", query).Error("TMDb search failed")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, msgSearchFailed)
	}

	return utils.JSONResponse(c, fiber.StatusOK, results)
}

// Details godoc
// @Summary Get overview and poster for a movie
// @Description Looks the movie up on TMDb by title and year; the poster is only resolved when includePoster is true
// @Tags relay
// @Accept json
// @Produce json
// @Param request body DetailsRequest true "Movie to enrich"
// @Success 200 {object} models.MovieDetails "Overview and optional poster URL"
// @Failure 400 {object} utils.ErrorBody "Missing title"
// @Failure 500 {object} utils.ErrorBody "TMDb failure"
// @Router /details [post]
func (h *RelayHandler) Details(c *fiber.Ctx) error {
	var req DetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if err := h.validate.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msgTitleRequired)
	}

	details, err := h.service.Details(h.requestContext(c), req.Title, string(req.Year), req.IncludePoster)
	if err != nil {
		if errors.Is(err, services.ErrBadRequest) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, msgTitleRequired)
		}
		h.logger.WithError(err).WithFields(logrus.Fields{
			"title": req.Title,
			"year":  req.Year,
		}).Error("TMDb details lookup failed")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, msgDetailsFailed)
	}

	return utils.JSONResponse(c, fiber.StatusOK, details)
}

// SuggestLogs godoc
// @Summary Recent suggestion requests
// @Description Most recent AI suggestion calls recorded by the relay (empty when no database is configured)
// @Tags relay
// @Produce json
// @Param limit query int false "Number of rows (1-100)" default(20)
// @Success 200 {array} models.SuggestionLog "Recent suggestion logs"
// @Failure 500 {object} utils.ErrorBody "Database failure"
// @Router /suggest/logs [get]
func (h *RelayHandler) SuggestLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultSuggestLogSize)

	logs, err := h.service.RecentSuggestions(c.UserContext(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get suggestion logs")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, msgSuggestLogsFailed)
	}

	return utils.JSONResponse(c, fiber.StatusOK, logs)
}
