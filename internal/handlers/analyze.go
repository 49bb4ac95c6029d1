package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hydroeval/hydroeval/internal/models"
	"github.com/hydroeval/hydroeval/internal/services"
)

// Analyze computes error metrics for one predicted/target pair
// POST /api/v1/analyze
func (h *Handler) Analyze(c *fiber.Ctx) error {
	var body models.AnalyzeRequest
	if ok, err := parseBody(c, &body); !ok {
		return err
	}

	result, err := h.analysisService.Analyze(c.UserContext(), &services.AnalyzeRequest{
		Name:      body.Name,
		Predicted: body.Predicted,
		Target:    body.Target,
		Notes:     body.Notes,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(models.AnalyzeResponse{
		Name:    result.Name,
		NPoints: result.NPoints,
		Cached:  result.Cached,
		Metrics: result.Metrics,
		Er:      result.Residuals,
	})
}

// MetricsInfo describes the available metrics
// GET /api/v1/metrics/info
func (h *Handler) MetricsInfo(c *fiber.Ctx) error {
	return c.JSON(h.analysisService.MetricsInfo())
}
