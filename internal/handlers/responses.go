package handlers

import (
	"log/slog"
	"net/http"

	"expenses-api/internal/errors"

	"github.com/labstack/echo/v4"
)

// Handlers report failures exclusively through SendError (client and business
// errors) and SendSystemError (internal errors, generic message to the
// client). echo.NewHTTPError and raw c.JSON error bodies are off limits so
// every response carries the standard envelope and trace ID.

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// SuccessResponse is the envelope for successful API responses.
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError responds with the standard error envelope for the given code,
// tagged with the request's trace ID.
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	errorResponse := errors.NewErrorResponse(code, getTraceID(c), opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError logs the internal error and responds with a generic
// SYSTEM_001 body so details never leak to the client.
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)

	slog.Error("internal error",
		"trace_id", traceID,
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"error", err)

	errorResponse, _ := errors.WrapSystemError(err, traceID)
	return c.JSON(http.StatusInternalServerError, errorResponse)
}
