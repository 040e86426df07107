package services_test

import (
	"testing"

	"github.com/cardbinder/cardbinder/internal/identity"
	"github.com/cardbinder/cardbinder/internal/models"
	"github.com/cardbinder/cardbinder/internal/services"
	"github.com/cardbinder/cardbinder/internal/types"
	"github.com/google/uuid"
)

func TestGetOrCreateProfile(t *testing.T) {
	db := setupTestDB(t)
	user := &identity.User{ID: uuid.New().String(), Email: "holder@example.com"}

	profile, err := services.GetOrCreateProfile(db, user)
	if err != nil {
		t.Fatalf("GetOrCreateProfile failed: %v", err)
	}
	if profile.DisplayName != "holder" {
		t.Errorf("Expected display name from email local part, got %q", profile.DisplayName)
	}
	if profile.IsAdmin {
		t.Error("Expected fresh profiles to be non-admin")
	}

	// Second read returns the same row, not a new one
	again, err := services.GetOrCreateProfile(db, user)
	if err != nil {
		t.Fatalf("GetOrCreateProfile on reread failed: %v", err)
	}
	if !again.CreatedAt.Equal(profile.CreatedAt) {
		t.Error("Expected the same profile row on reread")
	}

	var count int64
	db.Model(&models.UserProfile{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 profile row, got %d", count)
	}
}

func TestGetOrCreateProfileSoftDeleted(t *testing.T) {
	db := setupTestDB(t)
	user := &identity.User{ID: uuid.New().String(), Email: "gone@example.com"}

	if _, err := services.GetOrCreateProfile(db, user); err != nil {
		t.Fatalf("GetOrCreateProfile failed: %v", err)
	}
	if err := db.Delete(&models.UserProfile{}, "user_id = ?", user.ID).Error; err != nil {
		t.Fatalf("Failed to soft delete profile: %v", err)
	}

	// A deactivated account must not resurrect as a fresh profile
	_, err := services.GetOrCreateProfile(db, user)
	appErr, ok := err.(*types.AppError)
	if !ok || appErr.Code != types.CodeNotFound || appErr.Status != 404 {
		t.Errorf("Expected NOT_FOUND for soft-deleted profile, got %v", err)
	}
}

func TestUpdateDisplayName(t *testing.T) {
	db := setupTestDB(t)
	user := &identity.User{ID: uuid.New().String(), Email: "holder@example.com"}

	if _, err := services.GetOrCreateProfile(db, user); err != nil {
		t.Fatalf("GetOrCreateProfile failed: %v", err)
	}

	updated, err := services.UpdateDisplayName(db, user.ID, "Card Shark")
	if err != nil {
		t.Fatalf("UpdateDisplayName failed: %v", err)
	}
	if updated.DisplayName != "Card Shark" {
		t.Errorf("Expected updated display name, got %q", updated.DisplayName)
	}

	_, err = services.UpdateDisplayName(db, uuid.New().String(), "Ghost")
	appErr, ok := err.(*types.AppError)
	if !ok || appErr.Code != types.CodeNotFound {
		t.Errorf("Expected NOT_FOUND for missing profile, got %v", err)
	}
}
