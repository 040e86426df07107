package middleware

import (
	"strings"

	"github.com/cardbinder/cardbinder/internal/identity"
	"github.com/cardbinder/cardbinder/internal/services"
	"github.com/cardbinder/cardbinder/internal/types"
	"github.com/cardbinder/cardbinder/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Context keys set by the auth middleware.
const (
	LocalsUser  = "user"
	LocalsToken = "token"
)

// BearerToken extracts the bearer token from the Authorization header.
// Returns an empty string when the header is absent or malformed.
func BearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthUser validates the bearer token against the identity provider and
// stores the resolved user in the request context.
func AuthUser(provider identity.Provider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			return utils.AppErrorResponse(c, types.NewAppError(types.CodeUnauthorized, "Missing or invalid bearer token", 401))
		}

		user, err := provider.GetUser(token)
		if err != nil {
			if appErr, ok := err.(*types.AppError); ok {
				return utils.AppErrorResponse(c, appErr)
			}
			return utils.AppErrorResponse(c, types.NewAppError(types.CodeUnauthorized, "Invalid or expired token", 401))
		}

		c.Locals(LocalsUser, user)
		c.Locals(LocalsToken, token)
		return c.Next()
	}
}

// AdminOnly runs after AuthUser and rejects subjects whose profile is not an
// admin.
func AdminOnly(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return utils.AppErrorResponse(c, types.NewAppError(types.CodeUnauthorized, "Missing or invalid bearer token", 401))
		}

		profile, err := services.GetOrCreateProfile(db, user)
		if err != nil {
			if appErr, ok := err.(*types.AppError); ok {
				return utils.AppErrorResponse(c, appErr)
			}
			return utils.InternalErrorResponse(c)
		}
		if !profile.IsAdmin {
			return utils.AppErrorResponse(c, types.NewAppError(types.CodeUnauthorized, "Admin access required", 401))
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user stored by AuthUser, or nil.
func CurrentUser(c *fiber.Ctx) *identity.User {
	if user, ok := c.Locals(LocalsUser).(*identity.User); ok {
		return user
	}
	return nil
}

// CurrentToken returns the bearer token stored by AuthUser.
func CurrentToken(c *fiber.Ctx) string {
	if token, ok := c.Locals(LocalsToken).(string); ok {
		return token
	}
	return ""
}
