package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hydroeval/hydroeval/internal/analytics/transform"
	"github.com/hydroeval/hydroeval/internal/models"
	"github.com/hydroeval/hydroeval/internal/services"
)

// Request defaults for omitted fields
const (
	defaultInterpolationKind = string(transform.Cubic)
	defaultResampleKind      = string(transform.Linear)
	defaultSmoothMethod      = string(transform.MovingAverage)
	defaultFillMethod        = string(transform.FillLinear)
	defaultDecomposeModel    = string(transform.Additive)
	defaultDecomposePeriod   = 12
	defaultOutlierMethod     = string(transform.ZScore)
)

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Interpolate evaluates a spline through the series
// POST /api/v1/transform/interpolate
func (h *Handler) Interpolate(c *fiber.Ctx) error {
	var body models.InterpolateRequest
	if ok, err := parseBody(c, &body); !ok {
		return err
	}

	out, err := h.transformService.Interpolate(c.UserContext(), body.Values, body.Index,
		orDefault(body.Kind, defaultInterpolationKind), body.NumPoints)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.SeriesResponse{X: out.Index, Y: out.Values})
}

// Resample evaluates the series on an evenly spaced grid
// POST /api/v1/transform/resample
func (h *Handler) Resample(c *fiber.Ctx) error {
	var body models.ResampleRequest
	if ok, err := parseBody(c, &body); !ok {
		return err
	}

	out, err := h.transformService.Resample(c.UserContext(), body.Values, body.Index,
		body.TargetPoints, orDefault(body.Kind, defaultResampleKind))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.SeriesResponse{X: out.Index, Y: out.Values})
}

// Smooth applies a smoothing filter
// POST /api/v1/transform/smooth
func (h *Handler) Smooth(c *fiber.Ctx) error {
	var body models.SmoothRequest
	if ok, err := parseBody(c, &body); !ok {
		return err
	}

	method := orDefault(body.Method, defaultSmoothMethod)
	out, err := h.transformService.Smooth(c.UserContext(), body.Values, method, services.SmoothOptions{
		Window:    body.Window,
		PolyOrder: body.PolyOrder,
		Alpha:     body.Alpha,
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.ValuesResponse{Method: method, Values: out})
}

// Fill replaces missing values
// POST /api/v1/transform/fill
func (h *Handler) Fill(c *fiber.Ctx) error {
	var body models.FillRequest
	if ok, err := parseBody(c, &body); !ok {
		return err
	}

	method := orDefault(body.Method, defaultFillMethod)
	res, err := h.transformService.FillMissing(c.UserContext(), body.Values, method, body.Limit)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.FillResponse{
		Method:      method,
		Values:      res.Values,
		FilledMask:  res.Filled,
		FilledCount: res.Count(),
	})
}

// Decompose splits the series into trend, seasonal and residual parts
// POST /api/v1/transform/decompose
func (h *Handler) Decompose(c *fiber.Ctx) error {
	var body models.DecomposeRequest
	if ok, err := parseBody(c, &body); !ok {
		return err
	}

	period := body.Period
	if period == 0 {
		period = defaultDecomposePeriod
	}
	model := orDefault(body.Model, defaultDecomposeModel)

	res, err := h.transformService.Decompose(c.UserContext(), body.Values, period, model)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.DecomposeResponse{
		Model:    model,
		Period:   period,
		Trend:    res.Trend,
		Seasonal: res.Seasonal,
		Residual: res.Residual,
		Original: res.Original,
	})
}

// Outliers flags outlying values
// POST /api/v1/transform/outliers
func (h *Handler) Outliers(c *fiber.Ctx) error {
	var body models.OutliersRequest
	if ok, err := parseBody(c, &body); !ok {
		return err
	}

	method := orDefault(body.Method, defaultOutlierMethod)
	res, err := h.transformService.DetectOutliers(c.UserContext(), body.Values, method, body.Threshold)
	if err != nil {
		return h.respondError(c, err)
	}

	indices := res.Indices()
	return c.JSON(models.OutliersResponse{
		Method:    method,
		Threshold: res.Threshold,
		Mask:      res.Mask,
		Indices:   indices,
		Count:     len(indices),
	})
}
