package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/hydroeval/hydroeval/internal/models"
	"github.com/hydroeval/hydroeval/internal/services"
)

// statusFor maps a service error code to an HTTP status
func statusFor(code string) int {
	switch code {
	case services.CodeInvalidInput, services.CodeInvalidMethod:
		return fiber.StatusBadRequest
	case services.CodeInsufficientData:
		return fiber.StatusUnprocessableEntity
	case services.CodeHistoryUnavailable, services.CodeArchiveUnavailable:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err as an ErrorResponse
func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	var svcErr *services.ServiceError
	if !errors.As(err, &svcErr) {
		svcErr = services.NewServiceError(services.CodeInternal, err.Error())
	}

	status := statusFor(svcErr.Code)
	if status >= fiber.StatusInternalServerError {
		h.logger.Error("Request failed", "path", c.Path(), "code", svcErr.Code, "error", svcErr.Message)
	}

	return c.Status(status).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    svcErr.Code,
			Message: svcErr.Message,
			Details: svcErr.Details,
		},
	})
}

// parseBody decodes the JSON body into out, answering 400 on failure.
// ok is false when a response has already been written.
func parseBody(c *fiber.Ctx, out interface{}) (ok bool, err error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_JSON",
				Message: "Failed to parse JSON body",
				Details: map[string]interface{}{"error": err.Error()},
			},
		})
	}
	return true, nil
}
