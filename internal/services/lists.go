package services

import (
	"strings"
	"time"

	"github.com/cardbinder/cardbinder/internal/models"
	"github.com/cardbinder/cardbinder/internal/types"
	"github.com/cardbinder/cardbinder/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetUserLists returns the user's lists with their entry counts.
type ListSummary struct {
	models.UserList
	EntryCount int64 `json:"entryCount"`
}

// GetUserLists loads all lists owned by the user, oldest first.
func GetUserLists(db *gorm.DB, userID string) ([]ListSummary, error) {
	var lists []models.UserList
	if err := db.Where("user_id = ?", userID).Order("created_at ASC, list_id ASC").Find(&lists).Error; err != nil {
		return nil, storeError(err)
	}

	summaries := make([]ListSummary, len(lists))
	for i, list := range lists {
		summaries[i] = ListSummary{UserList: list}
		if err := db.Table("list_entries").
			Where("list_id = ?", list.ListID).
			Count(&summaries[i].EntryCount).Error; err != nil {
			return nil, storeError(err)
		}
	}
	return summaries, nil
}

// GetUserList loads one list with its entries and their card data.
func GetUserList(db *gorm.DB, userID, listID string) (*models.UserList, error) {
	var list models.UserList
	err := db.Where("list_id = ? AND user_id = ?", listID, userID).
		Preload("Entries").
		Preload("Entries.Card").
		Preload("Entries.Card.Set").
		Preload("Entries.Condition").
		First(&list).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.NewAppError(types.CodeListNotFound, "List not found", 404)
		}
		return nil, storeError(err)
	}
	return &list, nil
}

// CreateUserList creates a list, enforcing the per-user cap and unique name.
func CreateUserList(db *gorm.DB, userID, name string) (*models.UserList, error) {
	var count int64
	if err := db.Model(&models.UserList{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, storeError(err)
	}
	if count >= validation.MaxListsPerUser {
		return nil, types.NewAppError(types.CodeListLimitReached, "List limit reached (10 per account)", 400)
	}

	list := models.UserList{
		ListID: uuid.New().String(),
		UserID: userID,
		Name:   name,
	}
	if err := db.Create(&list).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, types.ValidationError("Invalid list name", map[string]string{
				"name": "a list with this name already exists",
			})
		}
		return nil, storeError(err)
	}
	return &list, nil
}

// RenameUserList updates a list's name.
func RenameUserList(db *gorm.DB, userID, listID, name string) (*models.UserList, error) {
	list, err := findOwnedList(db, userID, listID)
	if err != nil {
		return nil, err
	}

	err = db.Model(list).Updates(map[string]interface{}{
		"name":       name,
		"updated_at": time.Now().UTC(),
	}).Error
	if err != nil {
		if isDuplicateKey(err) {
			return nil, types.ValidationError("Invalid list name", map[string]string{
				"name": "a list with this name already exists",
			})
		}
		return nil, storeError(err)
	}
	return findOwnedList(db, userID, listID)
}

// DeleteUserList removes a list and its join rows; entries stay in the
// collection.
func DeleteUserList(db *gorm.DB, userID, listID string) error {
	list, err := findOwnedList(db, userID, listID)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM list_entries WHERE list_id = ?", list.ListID).Error; err != nil {
			return storeError(err)
		}
		if err := tx.Delete(&models.UserList{}, "list_id = ?", list.ListID).Error; err != nil {
			return storeError(err)
		}
		return nil
	})
}

// AddListEntries attaches collection entries to a list. Every entry must
// belong to the same user; entries already on the list are skipped.
func AddListEntries(db *gorm.DB, userID, listID string, entryIDs []string) (*models.UserList, error) {
	list, err := findOwnedList(db, userID, listID)
	if err != nil {
		return nil, err
	}

	var owned []models.CollectionEntry
	if err := db.Where("user_id = ? AND entry_id IN ?", userID, entryIDs).Find(&owned).Error; err != nil {
		return nil, storeError(err)
	}
	if len(owned) != len(entryIDs) {
		return nil, types.NewAppError(types.CodeEntryNotFound, "Collection entry not found", 404)
	}

	for i := range owned {
		var existing int64
		if err := db.Table("list_entries").
			Where("list_id = ? AND entry_id = ?", list.ListID, owned[i].EntryID).
			Count(&existing).Error; err != nil {
			return nil, storeError(err)
		}
		if existing > 0 {
			continue
		}
		if err := db.Model(list).Association("Entries").Append(&owned[i]); err != nil {
			return nil, storeError(err)
		}
	}

	return GetUserList(db, userID, listID)
}

// RemoveListEntry detaches one entry from a list.
func RemoveListEntry(db *gorm.DB, userID, listID, entryID string) error {
	list, err := findOwnedList(db, userID, listID)
	if err != nil {
		return err
	}

	res := db.Exec("DELETE FROM list_entries WHERE list_id = ? AND entry_id = ?", list.ListID, entryID)
	if res.Error != nil {
		return storeError(res.Error)
	}
	if res.RowsAffected == 0 {
		return types.NewAppError(types.CodeEntryNotFound, "Entry is not on this list", 404)
	}
	return nil
}

func findOwnedList(db *gorm.DB, userID, listID string) (*models.UserList, error) {
	var list models.UserList
	err := db.Where("list_id = ? AND user_id = ?", listID, userID).First(&list).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.NewAppError(types.CodeListNotFound, "List not found", 404)
		}
		return nil, storeError(err)
	}
	return &list, nil
}

// isDuplicateKey sniffs the dialect-specific unique violation without
// leaking it upward.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique failed")
}
