package middleware

import (
	"strings"

	"github.com/cardbinder/cardbinder/internal/types"
	"github.com/cardbinder/cardbinder/internal/utils"
	"github.com/gofiber/fiber/v2"
)

const currentAPIVersion = "1.0.0"

// Version negotiates the X-Api-Version request header. Only the 1.x line
// exists; anything else is answered with 400 before routing does any work.
// The resolved version is echoed back so clients can log what they got.
func Version() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requested := c.Get("X-Api-Version", currentAPIVersion)
		if requested == "1.0" || requested == "1" {
			requested = currentAPIVersion
		}
		if !strings.HasPrefix(requested, "1.") {
			return utils.AppErrorResponse(c, types.NewAppError(
				types.CodeValidation, "Unsupported API version", 400))
		}

		c.Locals("apiVersion", requested)
		c.Set("X-Api-Version", requested)
		return c.Next()
	}
}

// RequestedVersion returns the version stored by Version, or the current one.
func RequestedVersion(c *fiber.Ctx) string {
	if v, ok := c.Locals("apiVersion").(string); ok {
		return v
	}
	return currentAPIVersion
}
