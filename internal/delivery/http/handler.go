package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/welfarelens/backend/internal/domain"
	"github.com/welfarelens/backend/internal/infrastructure/patterns"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// WelfareAnalyzer is the welfare pipeline as seen by the HTTP layer
type WelfareAnalyzer interface {
	Analyze(ctx context.Context, record *domain.ProductRecord) (*domain.WelfareAnalysis, error)
	AnalyzeBatch(ctx context.Context, records []*domain.ProductRecord) ([]domain.BatchResult, error)
	AnalyzeByCode(ctx context.Context, code string) (*domain.WelfareAnalysis, error)
	MaxBatchSize() int
}

// PatternSource supplies the pattern repository in effect
type PatternSource interface {
	Current() *patterns.Repository
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analyzer WelfareAnalyzer
	patterns PatternSource
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler. A nil analyzer makes the welfare
// endpoints answer 501.
func NewHandler(analyzer WelfareAnalyzer, source PatternSource, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		analyzer: analyzer,
		patterns: source,
		logger:   logger,
	}
}

// BatchRequest is the body of POST /api/v1/welfare/analyze/batch
type BatchRequest struct {
	Products []*domain.ProductRecord `json:"products"`
}

// BatchResponse is the response of POST /api/v1/welfare/analyze/batch
type BatchResponse struct {
	Results []domain.BatchResult `json:"results"`
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error         string `json:"error"`
	NotApplicable bool   `json:"not_applicable,omitempty"`
	RequestID     string `json:"request_id,omitempty"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	body := gin.H{
		"status":  "healthy",
		"service": "welfarelens-backend",
		"version": Version,
	}
	if h.patterns != nil {
		body["pattern_version"] = h.patterns.Current().Version()
	}
	c.JSON(http.StatusOK, body)
}

// PatternStats describes the keyword tables in effect
func (h *Handler) PatternStats(c *gin.Context) {
	if h.patterns == nil {
		h.notConfigured(c)
		return
	}
	repo := h.patterns.Current()
	c.JSON(http.StatusOK, gin.H{
		"version": repo.Version(),
		"animals": repo.Stats(),
	})
}

// Analyze classifies the product record in the request body
func (h *Handler) Analyze(c *gin.Context) {
	if h.analyzer == nil {
		h.notConfigured(c)
		return
	}

	var record domain.ProductRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	analysis, err := h.analyzer.Analyze(c.Request.Context(), &record)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// AnalyzeBatch classifies every product record in the request body
func (h *Handler) AnalyzeBatch(c *gin.Context) {
	if h.analyzer == nil {
		h.notConfigured(c)
		return
	}

	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Products) == 0 {
		h.respondError(c, http.StatusBadRequest, "products must not be empty")
		return
	}
	if limit := h.analyzer.MaxBatchSize(); len(req.Products) > limit {
		h.respondError(c, http.StatusRequestEntityTooLarge, "too many products in batch")
		return
	}

	results, err := h.analyzer.AnalyzeBatch(c.Request.Context(), req.Products)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, BatchResponse{Results: results})
}

// AnalyzeByCode fetches a product by barcode and classifies it
func (h *Handler) AnalyzeByCode(c *gin.Context) {
	if h.analyzer == nil {
		h.notConfigured(c)
		return
	}

	analysis, err := h.analyzer.AnalyzeByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// handleError maps domain errors to HTTP status codes
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		h.respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAnimalTypeNotFound):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:         err.Error(),
			NotApplicable: true,
			RequestID:     requestID(c),
		})
	case errors.Is(err, domain.ErrProductNotFound):
		h.respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrProviderFailure):
		h.logger.Warn("product provider failed", zap.String("request_id", requestID(c)), zap.Error(err))
		h.respondError(c, http.StatusBadGateway, "product provider unavailable")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.respondError(c, http.StatusServiceUnavailable, "request cancelled")
	default:
		h.logger.Error("analysis failed", zap.String("request_id", requestID(c)), zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message, RequestID: requestID(c)})
}

func (h *Handler) notConfigured(c *gin.Context) {
	h.respondError(c, http.StatusNotImplemented, "welfare analysis not configured")
}
