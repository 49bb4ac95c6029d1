package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hydroeval/hydroeval/internal/models"
	"github.com/hydroeval/hydroeval/internal/services"
)

// History lists the most recent analyses
// GET /api/v1/history?limit=50
func (h *Handler) History(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return h.respondError(c, services.NewServiceErrorWithDetails(services.CodeInvalidInput,
			"limit must be positive", map[string]interface{}{"field": "limit"}))
	}

	records, err := h.historyService.History(c.UserContext(), limit)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.HistoryResponse{Analyses: records, Count: len(records)})
}

// Stats summarizes recorded analyses
// GET /api/v1/stats
func (h *Handler) Stats(c *fiber.Ctx) error {
	stats, err := h.historyService.Stats(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(stats)
}
