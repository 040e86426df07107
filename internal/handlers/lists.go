package handlers

import (
	"github.com/cardbinder/cardbinder/internal/middleware"
	"github.com/cardbinder/cardbinder/internal/services"
	"github.com/cardbinder/cardbinder/internal/types"
	"github.com/cardbinder/cardbinder/internal/utils"
	"github.com/cardbinder/cardbinder/internal/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListsHandler handles the custom list routes
type ListsHandler struct {
	DB *gorm.DB
}

type listBody struct {
	Name string `json:"name"`
}

type listEntriesBody struct {
	EntryIDs types.FlexList[string] `json:"entryIds"`
}

// GetLists handles GET /api/lists.
func (h *ListsHandler) GetLists(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	lists, err := services.GetUserLists(h.DB, user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.PrivateResponse(c, fiber.StatusOK, lists, nil)
}

// GetList handles GET /api/lists/:listId, including entries.
func (h *ListsHandler) GetList(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	list, err := services.GetUserList(h.DB, user.ID, c.Params("listId"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.PrivateResponse(c, fiber.StatusOK, list, nil)
}

// CreateList handles POST /api/lists, capped at 10 lists per account.
func (h *ListsHandler) CreateList(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var body listBody
	if appErr := parseBody(c, &body); appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	name, appErr := validation.ListName(body.Name)
	if appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	list, err := services.CreateUserList(h.DB, user.ID, name)
	if err != nil {
		return respondError(c, err)
	}
	return utils.PrivateResponse(c, fiber.StatusCreated, list, nil)
}

// RenameList handles PATCH /api/lists/:listId.
func (h *ListsHandler) RenameList(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var body listBody
	if appErr := parseBody(c, &body); appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	name, appErr := validation.ListName(body.Name)
	if appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	list, err := services.RenameUserList(h.DB, user.ID, c.Params("listId"), name)
	if err != nil {
		return respondError(c, err)
	}
	return utils.PrivateResponse(c, fiber.StatusOK, list, nil)
}

// DeleteList handles DELETE /api/lists/:listId.
func (h *ListsHandler) DeleteList(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	if err := services.DeleteUserList(h.DB, user.ID, c.Params("listId")); err != nil {
		return respondError(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusOK, "List deleted")
}

// AddEntries handles POST /api/lists/:listId/entries. The body accepts a
// single entry id or an array.
func (h *ListsHandler) AddEntries(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var body listEntriesBody
	if appErr := parseBody(c, &body); appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	ids, appErr := validation.ListEntryIDs(body.EntryIDs.Slice())
	if appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	list, err := services.AddListEntries(h.DB, user.ID, c.Params("listId"), ids)
	if err != nil {
		return respondError(c, err)
	}
	return utils.PrivateResponse(c, fiber.StatusOK, list, nil)
}

// RemoveEntry handles DELETE /api/lists/:listId/entries/:entryId.
func (h *ListsHandler) RemoveEntry(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	if err := services.RemoveListEntry(h.DB, user.ID, c.Params("listId"), c.Params("entryId")); err != nil {
		return respondError(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Entry removed from list")
}
