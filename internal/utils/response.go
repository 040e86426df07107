package utils

import (
	"github.com/cardbinder/cardbinder/internal/types"
	"github.com/gofiber/fiber/v2"
)

// Catalog reads are publicly cacheable for a short interval; everything
// carrying session or user data is never stored.
const (
	CacheControlCatalog = "public, max-age=300"
	CacheControlPrivate = "no-store"
)

// ErrorBody is the uniform error envelope shape.
type ErrorBody struct {
	Error types.AppError `json:"error"`
}

// DataResponse sends { data, meta? } with the given status.
func DataResponse(c *fiber.Ctx, status int, data interface{}, meta interface{}) error {
	body := fiber.Map{"data": data}
	if meta != nil {
		body["meta"] = meta
	}
	return c.Status(status).JSON(body)
}

// CatalogResponse sends a public, cacheable { data, meta? }.
func CatalogResponse(c *fiber.Ctx, data interface{}, meta interface{}) error {
	c.Set(fiber.HeaderCacheControl, CacheControlCatalog)
	return DataResponse(c, fiber.StatusOK, data, meta)
}

// PrivateResponse sends a user-specific { data, meta? } with no-store.
func PrivateResponse(c *fiber.Ctx, status int, data interface{}, meta interface{}) error {
	c.Set(fiber.HeaderCacheControl, CacheControlPrivate)
	return DataResponse(c, status, data, meta)
}

// MessageResponse sends a private { data: { message } }.
func MessageResponse(c *fiber.Ctx, status int, message string) error {
	c.Set(fiber.HeaderCacheControl, CacheControlPrivate)
	return DataResponse(c, status, fiber.Map{"message": message}, nil)
}

// AppErrorResponse serializes a typed error verbatim.
func AppErrorResponse(c *fiber.Ctx, appErr *types.AppError) error {
	c.Set(fiber.HeaderCacheControl, CacheControlPrivate)
	return c.Status(appErr.Status).JSON(ErrorBody{Error: *appErr})
}

// InternalErrorResponse sends the generic 500; the cause stays in the logs.
func InternalErrorResponse(c *fiber.Ctx) error {
	return AppErrorResponse(c, types.NewAppError(types.CodeInternal, "Unexpected internal error", fiber.StatusInternalServerError))
}
