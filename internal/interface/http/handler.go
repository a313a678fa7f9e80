package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/digestly/internal/domain/summary"
	apperrors "github.com/yanqian/digestly/pkg/errors"
)

// SummaryHandler wires the HTTP transport to the summarization pipeline.
type SummaryHandler struct {
	svc      summary.Service
	registry summary.Registry
	logger   *slog.Logger
}

// NewSummaryHandler constructs the root HTTP handler.
func NewSummaryHandler(svc summary.Service, registry summary.Registry, logger *slog.Logger) *SummaryHandler {
	return &SummaryHandler{
		svc:      svc,
		registry: registry,
		logger:   logger.With("component", "http.handler"),
	}
}

// Summarize handles the summarization endpoint.
func (h *SummaryHandler) Summarize(c *gin.Context) {
	var req summary.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	res, err := h.svc.Summarize(c.Request.Context(), req)
	if err != nil {
		// 5xx messages stay generic; the wrapped chain can carry upstream
		// inference detail and the middleware already logs it in full.
		status := http.StatusInternalServerError
		code := "summarize_failed"
		message := "summarization failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_input"
			message = errMessage(err)
		case apperrors.IsCode(err, "model_unavailable"):
			status = http.StatusServiceUnavailable
			code = "model_unavailable"
			message = "no summarization model available"
		}
		abortWithError(c, NewHTTPError(status, code, message, err))
		return
	}

	c.JSON(http.StatusOK, res)
}

// Health reports liveness and the loaded model keys.
func (h *SummaryHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"models": h.registry.Keys(),
	})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
