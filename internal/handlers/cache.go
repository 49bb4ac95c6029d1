package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hydroeval/hydroeval/internal/models"
)

// CacheStats reports result cache statistics
// GET /api/v1/cache/stats
func (h *Handler) CacheStats(c *fiber.Ctx) error {
	stats, err := h.analysisService.CacheStats(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"backend":     stats.Backend,
		"entries":     stats.Entries,
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"hit_rate":    stats.HitRate(),
		"ttl_seconds": stats.TTLSeconds,
	})
}

// InvalidateCache removes cached results, optionally only those under prefix
// DELETE /api/v1/cache?prefix=compute_error_metrics
func (h *Handler) InvalidateCache(c *fiber.Ctx) error {
	prefix := c.Query("prefix")
	removed, err := h.analysisService.InvalidateCache(c.UserContext(), prefix)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.CacheInvalidateResponse{Prefix: prefix, Removed: removed})
}
