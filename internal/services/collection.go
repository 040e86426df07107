package services

import (
	"time"

	"github.com/cardbinder/cardbinder/internal/models"
	"github.com/cardbinder/cardbinder/internal/types"
	"github.com/cardbinder/cardbinder/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CollectionTotals summarizes a user's collection alongside the page.
type CollectionTotals struct {
	EntryCount     int64    `json:"entryCount"`
	CardCount      int64    `json:"cardCount"`
	EstimatedValue *float64 `json:"estimatedValue"`
}

// ListCollection returns one page of the user's entries with joined card
// data, plus whole-collection totals computed independently of the page.
func ListCollection(db *gorm.DB, userID string, page *validation.PageRequest) ([]models.CollectionEntry, *PageMeta, *CollectionTotals, error) {
	scope := db.Where("user_id = ?", userID)

	var total int64
	if err := scope.Model(&models.CollectionEntry{}).Count(&total).Error; err != nil {
		return nil, nil, nil, storeError(err)
	}

	var entries []models.CollectionEntry
	err := db.Where("user_id = ?", userID).
		Preload("Card").
		Preload("Card.Set").
		Preload("Card.Rarity").
		Preload("Condition").
		Preload("GradingCompany").
		Order("created_at DESC, entry_id ASC").
		Offset((page.Page - 1) * page.PageSize).
		Limit(page.PageSize).
		Find(&entries).Error
	if err != nil {
		return nil, nil, nil, storeError(err)
	}

	totals, err := collectionTotals(db, userID, total)
	if err != nil {
		return nil, nil, nil, storeError(err)
	}

	meta := &PageMeta{
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: total,
		TotalPages: totalPages(total, page.PageSize),
	}
	return entries, meta, totals, nil
}

// CreateCollectionEntry adds a card to the user's collection. The card must
// exist; grade bounds are checked against the grading company scale.
func CreateCollectionEntry(db *gorm.DB, userID string, cmd *validation.EntryCreate) (*models.CollectionEntry, error) {
	var card models.Card
	if err := db.First(&card, "card_id = ?", cmd.CardID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.NewAppError(types.CodeCardNotFound, "Card not found", 404)
		}
		return nil, storeError(err)
	}

	if err := checkGrading(db, cmd.GradingCompanyID, cmd.Grade); err != nil {
		return nil, err
	}

	entry := models.CollectionEntry{
		EntryID:          uuid.New().String(),
		UserID:           userID,
		CardID:           cmd.CardID,
		Quantity:         cmd.Quantity,
		ConditionID:      cmd.ConditionID,
		GradingCompanyID: cmd.GradingCompanyID,
		Grade:            cmd.Grade,
		PurchasePrice:    cmd.PurchasePrice,
		Notes:            cmd.Notes,
	}
	if err := db.Create(&entry).Error; err != nil {
		return nil, storeError(err)
	}

	db.Preload("Card").Preload("Card.Set").Preload("Condition").Preload("GradingCompany").
		First(&entry, "entry_id = ?", entry.EntryID)
	return &entry, nil
}

// UpdateCollectionEntry patches an entry owned by the user.
func UpdateCollectionEntry(db *gorm.DB, userID, entryID string, cmd *validation.EntryUpdate) (*models.CollectionEntry, error) {
	entry, err := findOwnedEntry(db, userID, entryID)
	if err != nil {
		return nil, err
	}

	companyID := entry.GradingCompanyID
	if cmd.GradingCompanyID != nil {
		companyID = cmd.GradingCompanyID
	}
	grade := entry.Grade
	if cmd.Grade != nil {
		grade = cmd.Grade
	}
	if err := checkGrading(db, companyID, grade); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if cmd.Quantity != nil {
		updates["quantity"] = *cmd.Quantity
	}
	if cmd.ConditionID != nil {
		updates["condition_id"] = *cmd.ConditionID
	}
	if cmd.GradingCompanyID != nil {
		updates["grading_company_id"] = *cmd.GradingCompanyID
	}
	if cmd.Grade != nil {
		updates["grade"] = *cmd.Grade
	}
	if cmd.PurchasePrice != nil {
		updates["purchase_price"] = *cmd.PurchasePrice
	}
	if cmd.Notes != nil {
		updates["notes"] = *cmd.Notes
	}

	if err := db.Model(&models.CollectionEntry{}).
		Where("entry_id = ?", entryID).
		Updates(updates).Error; err != nil {
		return nil, storeError(err)
	}

	return findOwnedEntry(db, userID, entryID)
}

// DeleteCollectionEntry removes an entry owned by the user, detaching it
// from any lists first.
func DeleteCollectionEntry(db *gorm.DB, userID, entryID string) error {
	entry, err := findOwnedEntry(db, userID, entryID)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM list_entries WHERE entry_id = ?", entry.EntryID).Error; err != nil {
			return storeError(err)
		}
		if err := tx.Delete(&models.CollectionEntry{}, "entry_id = ?", entry.EntryID).Error; err != nil {
			return storeError(err)
		}
		return nil
	})
}

func findOwnedEntry(db *gorm.DB, userID, entryID string) (*models.CollectionEntry, error) {
	var entry models.CollectionEntry
	err := db.Preload("Card").Preload("Card.Set").Preload("Condition").Preload("GradingCompany").
		Where("entry_id = ? AND user_id = ?", entryID, userID).
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.NewAppError(types.CodeEntryNotFound, "Collection entry not found", 404)
		}
		return nil, storeError(err)
	}
	return &entry, nil
}

// checkGrading enforces the company/grade pairing and the company scale.
func checkGrading(db *gorm.DB, companyID *uint64, grade *float64) error {
	if grade != nil && companyID == nil {
		return types.ValidationError("Invalid collection entry", map[string]string{
			"grade": "requires a grading company",
		})
	}
	if companyID == nil {
		return nil
	}

	var company models.GradingCompany
	if err := db.First(&company, "company_id = ?", *companyID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return types.ValidationError("Invalid collection entry", map[string]string{
				"gradingCompanyId": "unknown grading company",
			})
		}
		return storeError(err)
	}

	if grade != nil {
		if appErr := validation.CheckGradeBounds(*grade, &company); appErr != nil {
			return appErr
		}
	}
	return nil
}

// collectionTotals sums quantities and estimated value over the whole
// collection. Value uses the resolved market price and skips cards with no
// price rows.
func collectionTotals(db *gorm.DB, userID string, entryCount int64) (*CollectionTotals, error) {
	totals := &CollectionTotals{EntryCount: entryCount}

	var cardCount *int64
	err := db.Model(&models.CollectionEntry{}).
		Where("user_id = ?", userID).
		Select("SUM(quantity)").
		Scan(&cardCount).Error
	if err != nil {
		return nil, err
	}
	if cardCount != nil {
		totals.CardCount = *cardCount
	}

	var entries []models.CollectionEntry
	if err := db.Where("user_id = ?", userID).Find(&entries).Error; err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return totals, nil
	}

	cards := make([]models.Card, len(entries))
	for i, e := range entries {
		cards[i] = models.Card{CardID: e.CardID}
	}
	priced, err := attachMarketPrices(db, cards)
	if err != nil {
		return nil, err
	}

	priceByCard := make(map[uint64]*float64, len(priced))
	for i := range priced {
		priceByCard[priced[i].CardID] = priced[i].MarketPrice
	}

	var value float64
	var anyPriced bool
	for _, e := range entries {
		if price := priceByCard[e.CardID]; price != nil {
			value += float64(e.Quantity) * *price
			anyPriced = true
		}
	}
	if anyPriced {
		totals.EstimatedValue = &value
	}
	return totals, nil
}

// storeError collapses write-path storage failures to the generic internal
// error; driver text stays in the logs.
func storeError(err error) *types.AppError {
	logDBError("collection", err)
	return types.NewAppError(types.CodeInternal, "Unexpected storage error", 500)
}
