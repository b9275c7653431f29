package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"dehusync/internal/dehu"
	"dehusync/internal/http/middleware"
	"dehusync/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "REMOTE_REJECTED")
// - message: human-readable safe message
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps a notification service error to a response. Sync failures keep their
// message so the caller sees the remote cause; anything unclassified stays opaque.
func writeServiceError(c *fiber.Ctx, err error) error {
	var (
		rejection *service.RemoteRejectionError
		fetchErr  *service.FetchError
		procErr   *service.ProcessingError
		rcptErr   *service.ReceiptDownloadError
		clientErr *dehu.ClientCreationError
		faultErr  *dehu.FaultError
	)
	switch {
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "notification not found")
	case errors.Is(err, service.ErrNoActiveConfiguration):
		return writeError(c, fiber.StatusConflict, "NO_ACTIVE_CONFIGURATION", err.Error())
	case errors.Is(err, service.ErrNoReceiptAvailable):
		return writeError(c, fiber.StatusConflict, "NO_RECEIPT_AVAILABLE", err.Error())
	case errors.Is(err, service.ErrReceiptNotArchived):
		return writeError(c, fiber.StatusConflict, "RECEIPT_NOT_ARCHIVED", err.Error())
	case errors.As(err, &rejection):
		return writeError(c, fiber.StatusBadGateway, "REMOTE_REJECTED", err.Error())
	case errors.As(err, &fetchErr):
		return writeError(c, fiber.StatusBadGateway, "FETCH_FAILED", err.Error())
	case errors.As(err, &procErr):
		return writeError(c, fiber.StatusBadGateway, "PROCESSING_FAILED", err.Error())
	case errors.As(err, &rcptErr):
		return writeError(c, fiber.StatusBadGateway, "RECEIPT_DOWNLOAD_FAILED", err.Error())
	case errors.As(err, &clientErr):
		return writeError(c, fiber.StatusBadGateway, "CLIENT_CREATION_FAILED", err.Error())
	case errors.As(err, &faultErr):
		return writeError(c, fiber.StatusBadGateway, "REMOTE_FAULT", err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
