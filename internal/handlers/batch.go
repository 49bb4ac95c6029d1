package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hydroeval/hydroeval/internal/analytics/batch"
	"github.com/hydroeval/hydroeval/internal/models"
	"github.com/hydroeval/hydroeval/internal/services"
)

// ArchiveLocationHeader carries the archive location of an archived export
const ArchiveLocationHeader = "X-Archive-Location"

// BatchAnalyze evaluates many series at once
// POST /api/v1/batch/analyze
func (h *Handler) BatchAnalyze(c *fiber.Ctx) error {
	var body models.BatchAnalyzeRequest
	if ok, err := parseBody(c, &body); !ok {
		return err
	}

	results, err := h.batchService.Analyze(c.UserContext(), body.Series)
	if err != nil {
		return h.respondError(c, err)
	}

	succeeded, failed := batch.Counts(results)
	return c.JSON(models.BatchAnalyzeResponse{
		NumAnalyses:   len(results),
		NumSuccessful: succeeded,
		NumFailed:     failed,
		Results:       results,
	})
}

// BatchCompare ranks series per metric. Nothing to compare is reported
// in the body's error field, not as a failed request.
// POST /api/v1/batch/compare
func (h *Handler) BatchCompare(c *fiber.Ctx) error {
	var body models.CompareRequest
	if ok, err := parseBody(c, &body); !ok {
		return err
	}

	result, err := h.batchService.Compare(c.UserContext(), body.Series, body.Results, body.Metrics)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(result)
}

// BatchExport renders results as csv, json or a text report
// POST /api/v1/batch/export
func (h *Handler) BatchExport(c *fiber.Ctx) error {
	var body models.ExportRequest
	if ok, err := parseBody(c, &body); !ok {
		return err
	}

	out, err := h.batchService.Export(c.UserContext(), &services.ExportRequest{
		Inputs:  body.Series,
		Results: body.Results,
		Format:  body.Format,
		Pretty:  body.Pretty,
		Archive: body.Archive,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	c.Set("Content-Type", out.ContentType)
	c.Set("Content-Disposition", "attachment; filename=\""+out.Filename+"\"")
	if out.Location != "" {
		c.Set(ArchiveLocationHeader, out.Location)
	}
	return c.Send(out.Content)
}
