package api

import (
	"errors"
	"strings"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"

	"github.com/VinniciusRRosario/PMCsoftware/domain/errs"
)

type errorStatus struct {
	status int
	code   string
}

var statusByKind = map[error]errorStatus{
	errs.ErrInvalidInput: {fiber.StatusBadRequest, "bad_request"},
	errs.ErrNotFound:     {fiber.StatusNotFound, "not_found"},
	errs.ErrConflict:     {fiber.StatusConflict, "conflict"},
	errs.ErrUnauthorized: {fiber.StatusUnauthorized, "unauthorized"},
	errs.ErrThrottled:    {fiber.StatusTooManyRequests, "too_many_requests"},
}

// writeError maps a module error to its HTTP status. Errors without a kind
// become a 500 with a generic message and are logged.
func writeError(c *fiber.Ctx, logger types.Logger, err error) error {
	kind := errs.Kind(err)
	st, ok := statusByKind[kind]
	if !ok {
		logger.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "server_error",
			Message: "Internal server error",
		})
	}
	return c.Status(st.status).JSON(ErrorResponse{
		Error:   st.code,
		Message: errorMessage(err, kind),
	})
}

// errorMessage drops the call-site wrapping and keeps "<kind>: <detail>".
func errorMessage(err, kind error) string {
	var remote *errs.RemoteError
	if errors.As(err, &remote) {
		return remote.Message
	}
	msg := err.Error()
	if i := strings.Index(msg, kind.Error()); i >= 0 {
		return msg[i:]
	}
	return msg
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

// customErrorHandler handles errors returned by fiber itself.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
