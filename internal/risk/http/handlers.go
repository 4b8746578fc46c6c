package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vendorwatch/risk-backend/internal/risk/domain"
	"github.com/vendorwatch/risk-backend/internal/risk/service"
)

const (
	// defaultOverallTimeout bounds the whole batch request, distinct
	// from (and larger than) the per-vendor deadline.
	defaultOverallTimeout = 120 * time.Second

	// previewTimeout keeps the inspection endpoint snappy.
	previewTimeout = 8 * time.Second
)

// RunStore loads previously persisted batch runs.
type RunStore interface {
	GetBatch(ctx context.Context, runID string) (*domain.BatchResult, error)
}

// Handler exposes the risk-detection operations over HTTP.
type Handler struct {
	svc            *service.DetectService
	runs           RunStore // optional
	overallTimeout time.Duration
}

func New(svc *service.DetectService, runs RunStore) *Handler {
	return &Handler{svc: svc, runs: runs, overallTimeout: defaultOverallTimeout}
}

// WithOverallTimeout overrides the request-level deadline (config/tests).
func (h *Handler) WithOverallTimeout(d time.Duration) *Handler {
	if d > 0 {
		h.overallTimeout = d
	}
	return h
}

// Register mounts the risk routes on a router group.
func (h *Handler) Register(rg gin.IRouter) {
	rg.POST("/risk/external/detect", h.DetectBatch)
	rg.POST("/risk/external/preview", h.Preview)
	if h.runs != nil {
		rg.GET("/risk/runs/:id", h.GetRun)
	}
}

// DetectBatch runs the batch detection pipeline. The overall deadline is
// reported as a timeout-class error; partial data is never returned for
// an expired request.
func (h *Handler) DetectBatch(c *gin.Context) {
	var body DetectBatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.overallTimeout)
	defer cancel()

	batch, err := h.svc.DetectBatch(ctx, body.ToServiceRequest())
	if ctx.Err() != nil {
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "batch detection timed out"})
		return
	}
	if err != nil {
		// DetectBatch only errors on malformed input.
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, batch)
}

// Preview returns raw collected documents for one vendor, with a short
// hard timeout. Inspection, not judgment.
func (h *Handler) Preview(c *gin.Context) {
	var body PreviewRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	cfg := domain.DefaultSearchConfig()
	if body.Search != nil {
		cfg = *body.Search
	}
	windowDays := body.TimeWindowDays
	if windowDays <= 0 {
		windowDays = 90
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), previewTimeout)
	defer cancel()

	docs, err := h.svc.Preview(ctx, body.Vendor, cfg, windowDays)
	if err != nil {
		if errors.Is(err, domain.ErrVendorNameRequired) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		code := opaqueCode()
		log.Printf("[risk] preview failed code=%s err=%v", code, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: code})
		return
	}

	c.JSON(http.StatusOK, PreviewResponse{
		Vendor:    body.Vendor,
		Used:      cfg.Enabled,
		DocsCount: len(docs),
		Documents: docs,
	})
}

// GetRun returns a persisted batch run.
func (h *Handler) GetRun(c *gin.Context) {
	runID := c.Param("id")

	batch, err := h.runs.GetBatch(c.Request.Context(), runID)
	if errors.Is(err, domain.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "run not found"})
		return
	}
	if err != nil {
		code := opaqueCode()
		log.Printf("[risk] get run failed run_id=%s code=%s err=%v", runID, code, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: code})
		return
	}

	c.JSON(http.StatusOK, batch)
}

// opaqueCode is an error correlation token: enough to find the log line,
// nothing about the failure itself.
func opaqueCode() string {
	return uuid.New().String()[:8]
}
