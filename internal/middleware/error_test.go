package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/hydroeval/hydroeval/internal/logging"
	"github.com/hydroeval/hydroeval/internal/models"
)

func decode(t *testing.T, body io.Reader) models.ErrorResponse {
	t.Helper()
	data, _ := io.ReadAll(body)
	var errResp models.ErrorResponse
	if err := json.Unmarshal(data, &errResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	return errResp
}

func TestErrorHandler_FiberError(t *testing.T) {
	logger := logging.NewNop()

	tests := []struct {
		name           string
		fiberError     *fiber.Error
		expectedStatus int
		expectedCode   string
		expectedMsg    string
	}{
		{"BadRequest", fiber.ErrBadRequest, fiber.StatusBadRequest, "BAD_REQUEST", "Bad Request"},
		{"NotFound", fiber.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "Not Found"},
		{"MethodNotAllowed", fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method Not Allowed"},
		{"TooLarge", fiber.ErrRequestEntityTooLarge, fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request Entity Too Large"},
		{"ServiceUnavailable", fiber.ErrServiceUnavailable, fiber.StatusServiceUnavailable, "ERROR", "Service Unavailable"},
		{"Custom", fiber.NewError(fiber.StatusTeapot, "I'm a teapot"), fiber.StatusTeapot, "ERROR", "I'm a teapot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{
				ErrorHandler: ErrorHandler(logger),
			})
			app.Get("/test", func(c *fiber.Ctx) error {
				return tt.fiberError
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
			if err != nil {
				t.Fatalf("Failed to test request: %v", err)
			}
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, resp.StatusCode)
			}

			errResp := decode(t, resp.Body)
			if errResp.Error.Code != tt.expectedCode {
				t.Errorf("Expected code %q, got %q", tt.expectedCode, errResp.Error.Code)
			}
			if errResp.Error.Message != tt.expectedMsg {
				t.Errorf("Expected message %q, got %q", tt.expectedMsg, errResp.Error.Message)
			}
			if errResp.Error.Path != "/test" {
				t.Errorf("Expected path '/test', got %q", errResp.Error.Path)
			}
		})
	}
}

func TestErrorHandler_GenericError(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(logging.NewNop()),
	})
	app.Get("/test", func(c *fiber.Ctx) error {
		return errors.New("something went wrong")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	if err != nil {
		t.Fatalf("Failed to test request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", fiber.StatusInternalServerError, resp.StatusCode)
	}
	errResp := decode(t, resp.Body)
	if errResp.Error.Message != "Internal Server Error" {
		t.Errorf("Expected message 'Internal Server Error', got %q", errResp.Error.Message)
	}
	if errResp.Error.Code != "ERROR" {
		t.Errorf("Expected code 'ERROR', got %q", errResp.Error.Code)
	}
}
