package handlers

import (
	"strconv"
	"time"

	"github.com/cardbinder/cardbinder/internal/services"
	"github.com/cardbinder/cardbinder/internal/utils"
	"github.com/cardbinder/cardbinder/internal/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CatalogHandler handles the public catalog routes
type CatalogHandler struct {
	DB       *gorm.DB
	CacheTTL time.Duration
}

// SearchCards handles GET /api/cards
// @Summary Search the card catalog
// @Description Paginated card search with optional filters; attaches cache-freshness metadata
// @Tags Catalog
// @Produce json
// @Param q query string false "Name search, min 2 chars"
// @Param setId query int false "Set id (exclusive with setExternalId)"
// @Param setExternalId query string false "External set id (exclusive with setId)"
// @Param cardNumber query string false "Card number, normalized"
// @Param rarityId query int false "Rarity id"
// @Param type query string false "Card type membership"
// @Param page query int false "Page, default 1"
// @Param pageSize query int false "Page size 1-100, default 24"
// @Param sort query string false "set | name | number"
// @Param order query string false "asc | desc"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorBody
// @Failure 503 {object} utils.ErrorBody
// @Router /cards [get]
func (h *CatalogHandler) SearchCards(c *fiber.Ctx) error {
	cmd, appErr := validation.ParseCardSearch(c)
	if appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	results, meta, err := services.SearchCards(h.DB, cmd, h.CacheTTL)
	if err != nil {
		return respondError(c, err)
	}
	return utils.CatalogResponse(c, results, meta)
}

// GetCard handles GET /api/cards/:cardId
// @Summary Get a single card
// @Tags Catalog
// @Produce json
// @Param cardId path int true "Card id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorBody
// @Router /cards/{cardId} [get]
func (h *CatalogHandler) GetCard(c *fiber.Ctx) error {
	cardID, err := strconv.ParseUint(c.Params("cardId"), 10, 64)
	if err != nil || cardID == 0 {
		return utils.AppErrorResponse(c, invalidIDFilter("cardId"))
	}

	card, svcErr := services.GetCard(h.DB, cardID)
	if svcErr != nil {
		return respondError(c, svcErr)
	}
	return utils.CatalogResponse(c, card, nil)
}

// ListSets handles GET /api/sets
// @Summary List sets, paginated
// @Tags Catalog
// @Produce json
// @Param page query int false "Page, default 1"
// @Param pageSize query int false "Page size 1-100, default 20"
// @Success 200 {object} map[string]interface{}
// @Router /sets [get]
func (h *CatalogHandler) ListSets(c *fiber.Ctx) error {
	page, appErr := validation.ParsePageRequest(c, validation.DefaultSetPageSize)
	if appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	sets, meta, err := services.ListSets(h.DB, page)
	if err != nil {
		return respondError(c, err)
	}
	return utils.CatalogResponse(c, sets, meta)
}

// GetSet handles GET /api/sets/:setId
// @Summary Get a single set by internal or external id
// @Tags Catalog
// @Produce json
// @Param setId path string true "Set id or external catalog id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorBody
// @Router /sets/{setId} [get]
func (h *CatalogHandler) GetSet(c *fiber.Ctx) error {
	ref := c.Params("setId")
	if ref == "" {
		return utils.AppErrorResponse(c, invalidIDFilter("setId"))
	}

	set, err := services.GetSet(h.DB, ref)
	if err != nil {
		return respondError(c, err)
	}
	return utils.CatalogResponse(c, set, nil)
}

// GetLookups handles GET /api/lookups
// @Summary Reference data for form population
// @Tags Catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /lookups [get]
func (h *CatalogHandler) GetLookups(c *fiber.Ctx) error {
	lookups, err := services.GetLookups(h.DB)
	if err != nil {
		return respondError(c, err)
	}
	return utils.CatalogResponse(c, lookups, nil)
}

// ListImportJobs handles GET /api/import-jobs (admin only)
// @Summary Recent catalog sync runs
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorBody
// @Router /import-jobs [get]
func (h *CatalogHandler) ListImportJobs(c *fiber.Ctx) error {
	jobs, err := services.ListImportJobs(h.DB, 20)
	if err != nil {
		return respondError(c, err)
	}
	return utils.PrivateResponse(c, fiber.StatusOK, jobs, nil)
}
