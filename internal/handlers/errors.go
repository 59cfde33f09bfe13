package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"yamdb/internal/apperr"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.NotFound:
		return fiber.StatusNotFound
	case apperr.PermissionDenied:
		return fiber.StatusForbidden
	default:
		return fiber.StatusBadRequest
	}
}

// respondError writes err as a field-keyed body. Errors that carry no
// field information are logged and answered with a bare 500.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	if kind, ok := apperr.KindOf(err); ok {
		return c.Status(statusFor(kind)).JSON(apperr.Fields(err))
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{apperr.DetailField: fiberErr.Message})
	}
	logger.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		apperr.DetailField: "Internal server error.",
	})
}

// parseBody decodes the request body into out.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed request body.")
	}
	return nil
}

// paramID reads a positive integer route parameter. A malformed id cannot
// name any row, so it answers like a missing one.
func paramID(c *fiber.Ctx, name, resource string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.NotFoundError(resource)
	}
	return uint(id), nil
}
