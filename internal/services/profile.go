package services

import (
	"strings"
	"time"

	"github.com/cardbinder/cardbinder/internal/identity"
	"github.com/cardbinder/cardbinder/internal/models"
	"github.com/cardbinder/cardbinder/internal/types"
	"gorm.io/gorm"
)

// GetOrCreateProfile loads the profile for the identity subject, creating it
// implicitly on first read. A soft-deleted profile reads as not found and is
// not resurrected.
func GetOrCreateProfile(db *gorm.DB, user *identity.User) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := db.First(&profile, "user_id = ?", user.ID).Error
	if err == nil {
		return &profile, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, storeError(err)
	}

	// The default scope hides soft-deleted rows; check before creating so a
	// deactivated account does not come back as a fresh profile.
	var deleted int64
	if err := db.Unscoped().Model(&models.UserProfile{}).
		Where("user_id = ? AND deleted_at IS NOT NULL", user.ID).
		Count(&deleted).Error; err != nil {
		return nil, storeError(err)
	}
	if deleted > 0 {
		return nil, types.NewAppError(types.CodeNotFound, "Profile not found", 404)
	}

	profile = models.UserProfile{
		UserID:      user.ID,
		DisplayName: defaultDisplayName(user.Email),
	}
	if err := db.Create(&profile).Error; err != nil {
		return nil, storeError(err)
	}
	return &profile, nil
}

// UpdateDisplayName updates the profile's display name.
func UpdateDisplayName(db *gorm.DB, userID, displayName string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := db.First(&profile, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.NewAppError(types.CodeNotFound, "Profile not found", 404)
		}
		return nil, storeError(err)
	}

	err := db.Model(&profile).Updates(map[string]interface{}{
		"display_name": displayName,
		"updated_at":   time.Now().UTC(),
	}).Error
	if err != nil {
		return nil, storeError(err)
	}
	profile.DisplayName = displayName
	return &profile, nil
}

// defaultDisplayName derives an initial display name from the email local
// part, trimmed to the profile bound.
func defaultDisplayName(email string) string {
	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	if len(name) > 50 {
		name = name[:50]
	}
	return name
}
