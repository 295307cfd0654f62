package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mcdlocator/backend/internal/domain"
	"github.com/mcdlocator/backend/internal/usecase"
	"github.com/rs/zerolog"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	chatbot *usecase.ChatbotService
	outlets *usecase.OutletService
	version string
	logger  zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	chatbot *usecase.ChatbotService,
	outlets *usecase.OutletService,
	version string,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		chatbot: chatbot,
		outlets: outlets,
		version: version,
		logger:  logger.With().Str("component", "http").Logger(),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "mcd-locator",
		"version": h.version,
	})
}

// ListOutlets handles GET /api/v1/outlets?limit=&offset=
func (h *Handler) ListOutlets(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		h.respondError(c, err)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		h.respondError(c, err)
		return
	}

	outlets, err := h.outlets.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"outlets": outlets,
		"count":   len(outlets),
		"limit":   limit,
		"offset":  offset,
	})
}

// GetOutlet handles GET /api/v1/outlets/:id
func (h *Handler) GetOutlet(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(c, fmt.Errorf("%w: id must be a positive integer", domain.ErrInvalidRequest))
		return
	}

	outlet, err := h.outlets.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, outlet)
}

// Chatbot handles POST /api/v1/chatbot
func (h *Handler) Chatbot(c *gin.Context) {
	var req domain.ChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON with a query field"})
		return
	}

	resp, err := h.chatbot.Search(c.Request.Context(), req.Query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrOutletNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidRequest, key)
	}
	return v, nil
}
