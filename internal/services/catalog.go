package services

import (
	"math"
	"strings"
	"time"

	"github.com/cardbinder/cardbinder/internal/models"
	"github.com/cardbinder/cardbinder/internal/types"
	"github.com/cardbinder/cardbinder/internal/validation"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// PageMeta is the pagination envelope attached to list responses.
type PageMeta struct {
	Page           int        `json:"page"`
	PageSize       int        `json:"pageSize"`
	TotalItems     int64      `json:"totalItems"`
	TotalPages     int        `json:"totalPages"`
	CacheExpiresAt *time.Time `json:"cacheExpiresAt,omitempty"`
}

// CardResult is a catalog card mapped for the response, with its resolved
// current market price. A card without price rows has a null marketPrice.
type CardResult struct {
	models.Card
	MarketPrice *float64 `json:"marketPrice"`
}

// sortColumns is the fixed whitelist mapping sort keys to column
// expressions. Caller input never reaches the ORDER BY clause directly.
var sortColumns = map[string]string{
	validation.SortSet:    "card_sets.name",
	validation.SortName:   "cards.name",
	validation.SortNumber: "cards.number_sort",
}

var sortDirections = map[string]string{
	validation.OrderAsc:  "ASC",
	validation.OrderDesc: "DESC",
}

// SearchCards runs a validated catalog search and returns one page of
// results plus pagination and cache-freshness metadata.
func SearchCards(db *gorm.DB, cmd *validation.CardSearch, cacheTTL time.Duration) ([]CardResult, *PageMeta, error) {
	query := db.Model(&models.Card{}).
		Joins("JOIN card_sets ON card_sets.set_id = cards.set_id")

	if cmd.Query != "" {
		// MySQL benefits from being steered onto the name index for the
		// leading-wildcard match; other dialects reject the hint syntax.
		if db.Dialector.Name() == "mysql" {
			query = query.Clauses(hints.UseIndex("idx_card_name"))
		}
		query = query.Where("LOWER(cards.name) LIKE ?", "%"+strings.ToLower(cmd.Query)+"%")
	}
	if cmd.SetID != 0 {
		query = query.Where("cards.set_id = ?", cmd.SetID)
	}
	if cmd.SetExternalID != "" {
		query = query.Where("card_sets.external_id = ?", cmd.SetExternalID)
	}
	if cmd.CardNumber != "" {
		query = query.Where("UPPER(cards.number) = ?", cmd.CardNumber)
	}
	if cmd.RarityID != 0 {
		query = query.Where("cards.rarity_id = ?", cmd.RarityID)
	}
	if cmd.Type != "" {
		// Types is a JSON array of strings; a quoted LIKE match is the one
		// membership test all four dialects share.
		query = query.Where("cards.types LIKE ?", `%"`+cmd.Type+`"%`)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, catalogUnavailable(err)
	}

	var cards []models.Card
	order := sortColumns[cmd.Sort] + " " + sortDirections[cmd.Order] + ", cards.card_id ASC"
	err := query.Select("cards.*").
		Preload("Set").
		Preload("Rarity").
		Order(order).
		Offset((cmd.Page - 1) * cmd.PageSize).
		Limit(cmd.PageSize).
		Find(&cards).Error
	if err != nil {
		return nil, nil, catalogUnavailable(err)
	}

	results, err := attachMarketPrices(db, cards)
	if err != nil {
		return nil, nil, catalogUnavailable(err)
	}

	expiresAt := ResolveCacheExpiry(db, SearchFingerprint(cmd), cacheTTL)

	meta := &PageMeta{
		Page:           cmd.Page,
		PageSize:       cmd.PageSize,
		TotalItems:     total,
		TotalPages:     totalPages(total, cmd.PageSize),
		CacheExpiresAt: &expiresAt,
	}
	return results, meta, nil
}

// GetCard fetches a single card with its set, rarity and current price.
func GetCard(db *gorm.DB, cardID uint64) (*CardResult, error) {
	var card models.Card
	err := db.Preload("Set").Preload("Rarity").
		First(&card, "card_id = ?", cardID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.NewAppError(types.CodeCardNotFound, "Card not found", 404)
		}
		return nil, catalogUnavailable(err)
	}

	results, err := attachMarketPrices(db, []models.Card{card})
	if err != nil {
		return nil, catalogUnavailable(err)
	}
	return &results[0], nil
}

// ListSets returns one page of sets ordered by release date, newest first.
func ListSets(db *gorm.DB, page *validation.PageRequest) ([]models.Set, *PageMeta, error) {
	var total int64
	if err := db.Model(&models.Set{}).Count(&total).Error; err != nil {
		return nil, nil, catalogUnavailable(err)
	}

	var sets []models.Set
	err := db.Order("release_date DESC, set_id ASC").
		Offset((page.Page - 1) * page.PageSize).
		Limit(page.PageSize).
		Find(&sets).Error
	if err != nil {
		return nil, nil, catalogUnavailable(err)
	}

	meta := &PageMeta{
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: total,
		TotalPages: totalPages(total, page.PageSize),
	}
	return sets, meta, nil
}

// GetSet fetches a single set by internal id or external catalog id.
func GetSet(db *gorm.DB, ref string) (*models.Set, error) {
	var set models.Set

	query := db.Where("external_id = ?", ref)
	if isDigits(ref) {
		query = db.Where("set_id = ? OR external_id = ?", ref, ref)
	}

	if err := query.First(&set).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.NewAppError(types.CodeSetNotFound, "Set not found", 404)
		}
		return nil, catalogUnavailable(err)
	}
	return &set, nil
}

// Lookups bundles the reference data the client needs for form population.
type Lookups struct {
	Conditions       []models.Condition      `json:"conditions"`
	GradingCompanies []models.GradingCompany `json:"gradingCompanies"`
	Rarities         []models.Rarity         `json:"rarities"`
}

// GetLookups loads the lookup tables in one round of reads.
func GetLookups(db *gorm.DB) (*Lookups, error) {
	out := &Lookups{}
	if err := db.Order("sort_order ASC").Find(&out.Conditions).Error; err != nil {
		return nil, catalogUnavailable(err)
	}
	if err := db.Order("name ASC").Find(&out.GradingCompanies).Error; err != nil {
		return nil, catalogUnavailable(err)
	}
	if err := db.Order("name ASC").Find(&out.Rarities).Error; err != nil {
		return nil, catalogUnavailable(err)
	}
	return out, nil
}

// ListImportJobs returns the most recent catalog-sync runs, newest first.
func ListImportJobs(db *gorm.DB, limit int) ([]models.ImportJob, error) {
	if limit <= 0 {
		limit = 20
	}
	var jobs []models.ImportJob
	if err := db.Order("started_at DESC").Limit(limit).Find(&jobs).Error; err != nil {
		return nil, types.NewAppError(types.CodeStatusUnavailable, "Import status unavailable", 503)
	}
	return jobs, nil
}

// attachMarketPrices resolves the current price for each card on the page:
// the most recent observation from the highest-priority source. One batch
// query for the whole page, first matching row per card wins.
func attachMarketPrices(db *gorm.DB, cards []models.Card) ([]CardResult, error) {
	results := make([]CardResult, len(cards))
	if len(cards) == 0 {
		return results, nil
	}

	ids := make([]uint64, len(cards))
	for i, card := range cards {
		results[i] = CardResult{Card: card}
		ids[i] = card.CardID
	}

	var prices []models.CardPrice
	err := db.Model(&models.CardPrice{}).
		Joins("JOIN price_sources ON price_sources.source_id = card_prices.source_id").
		Where("card_prices.card_id IN ?", ids).
		Order("price_sources.priority ASC, card_prices.observed_at DESC, card_prices.price_id ASC").
		Select("card_prices.*").
		Find(&prices).Error
	if err != nil {
		return nil, err
	}

	current := make(map[uint64]*models.CardPrice, len(cards))
	for i := range prices {
		if _, seen := current[prices[i].CardID]; !seen {
			current[prices[i].CardID] = &prices[i]
		}
	}

	for i := range results {
		if price, ok := current[results[i].CardID]; ok {
			results[i].MarketPrice = price.Market
		}
	}
	return results, nil
}

func totalPages(total int64, pageSize int) int {
	return int(math.Ceil(float64(total) / float64(pageSize)))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// catalogUnavailable collapses any storage failure on the read path to the
// single 503 code; raw driver errors never reach the response.
func catalogUnavailable(err error) *types.AppError {
	logDBError("catalog", err)
	return types.NewAppError(types.CodeCatalogUnavailable, "Catalog temporarily unavailable", 503)
}
