package handlers

import (
	"github.com/cardbinder/cardbinder/internal/types"
	"github.com/cardbinder/cardbinder/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// respondError serializes a typed AppError verbatim and collapses anything
// else to the generic 500. Service errors are already sanitized; this is the
// last stop before the wire.
func respondError(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*types.AppError); ok {
		return utils.AppErrorResponse(c, appErr)
	}
	return utils.InternalErrorResponse(c)
}

// invalidIDFilter builds the 400 for a malformed path id.
func invalidIDFilter(field string) *types.AppError {
	return types.FilterError("Invalid identifier", map[string]string{
		field: "must be a positive integer",
	})
}

// parseBody decodes a JSON body into out. Unknown fields are stripped by the
// decoder; a malformed body is a 400 validation error.
func parseBody(c *fiber.Ctx, out interface{}) *types.AppError {
	if err := c.BodyParser(out); err != nil {
		return types.ValidationError("Invalid request body", map[string]string{
			"body": "must be valid JSON",
		})
	}
	return nil
}
