package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sergejsb/authgate/internal/common"
)

// problem is an RFC 7807-shaped error body.
type problem struct {
	Status   int    `json:"status"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
	TraceID  string `json:"traceId,omitempty"`
}

// errorHandler maps errors escaping the handlers onto HTTP statuses. Every
// authentication-shaped failure becomes the same 401 body; store failures
// fall through to 500 so callers can tell an outage from bad credentials.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	title := "Internal Server Error"
	detail := "An error occurred processing your request."

	var fiberErr *fiber.Error

	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		status = fiber.StatusUnauthorized
		title = "Authentication Failed"
		detail = "Invalid credentials or token."
	case errors.Is(err, common.ErrRateLimited):
		status = fiber.StatusTooManyRequests
		title = "Too Many Requests"
		detail = "Rate limit exceeded. Try again later."
	case errors.Is(err, common.ErrorNotFound):
		status = fiber.StatusNotFound
		title = "Not Found"
		detail = "The requested resource does not exist."
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
		title = fiberErr.Message
		detail = fiberErr.Message
	default:
		s.logger.Error(c.UserContext(), "unhandled error",
			"path", c.Path(), "error", err,
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID))
	}

	return c.Status(status).JSON(problem{
		Status:   status,
		Title:    title,
		Detail:   detail,
		Instance: c.Path(),
		TraceID:  c.GetRespHeader(fiber.HeaderXRequestID),
	}, "application/problem+json")
}
