package handlers

import (
	"github.com/cardbinder/cardbinder/internal/middleware"
	"github.com/cardbinder/cardbinder/internal/services"
	"github.com/cardbinder/cardbinder/internal/utils"
	"github.com/cardbinder/cardbinder/internal/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CollectionHandler handles the authenticated collection routes
type CollectionHandler struct {
	DB *gorm.DB
}

// ListCollection handles GET /api/collection
// @Summary List the caller's collection, paginated, with totals
// @Tags Collection
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorBody
// @Router /collection [get]
func (h *CollectionHandler) ListCollection(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	page, appErr := validation.ParsePageRequest(c, validation.DefaultSetPageSize)
	if appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	entries, meta, totals, err := services.ListCollection(h.DB, user.ID, page)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderCacheControl, utils.CacheControlPrivate)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":   entries,
		"meta":   meta,
		"totals": totals,
	})
}

// CreateEntry handles POST /api/collection
// @Summary Add a card to the collection
// @Tags Collection
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Router /collection [post]
func (h *CollectionHandler) CreateEntry(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var body validation.EntryCreateBody
	if appErr := parseBody(c, &body); appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	cmd, appErr := validation.ValidateEntryCreate(&body)
	if appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	entry, err := services.CreateCollectionEntry(h.DB, user.ID, cmd)
	if err != nil {
		return respondError(c, err)
	}
	return utils.PrivateResponse(c, fiber.StatusCreated, entry, nil)
}

// UpdateEntry handles PATCH /api/collection/:entryId
// @Summary Update quantity, condition, grading, price or notes
// @Tags Collection
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorBody
// @Router /collection/{entryId} [patch]
func (h *CollectionHandler) UpdateEntry(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	entryID := c.Params("entryId")

	var body validation.EntryUpdateBody
	if appErr := parseBody(c, &body); appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	cmd, appErr := validation.ValidateEntryUpdate(&body)
	if appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	entry, err := services.UpdateCollectionEntry(h.DB, user.ID, entryID, cmd)
	if err != nil {
		return respondError(c, err)
	}
	return utils.PrivateResponse(c, fiber.StatusOK, entry, nil)
}

// DeleteEntry handles DELETE /api/collection/:entryId
// @Summary Remove an entry from the collection
// @Tags Collection
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorBody
// @Router /collection/{entryId} [delete]
func (h *CollectionHandler) DeleteEntry(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	if err := services.DeleteCollectionEntry(h.DB, user.ID, c.Params("entryId")); err != nil {
		return respondError(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Entry removed")
}

// ProfileHandler handles the profile routes
type ProfileHandler struct {
	DB *gorm.DB
}

type profileBody struct {
	DisplayName string `json:"displayName"`
}

// GetProfile handles GET /api/profile, creating the profile on first read.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	profile, err := services.GetOrCreateProfile(h.DB, user)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderCacheControl, utils.CacheControlPrivate)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"email":       user.Email,
			"displayName": profile.DisplayName,
			"isAdmin":     profile.IsAdmin,
			"createdAt":   profile.CreatedAt,
		},
	})
}

// UpdateProfile handles PATCH /api/profile.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var body profileBody
	if appErr := parseBody(c, &body); appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	name, appErr := validation.DisplayName(body.DisplayName)
	if appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	profile, err := services.UpdateDisplayName(h.DB, user.ID, name)
	if err != nil {
		return respondError(c, err)
	}
	return utils.PrivateResponse(c, fiber.StatusOK, profile, nil)
}
