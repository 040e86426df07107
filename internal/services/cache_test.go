package services_test

import (
	"testing"
	"time"

	"github.com/cardbinder/cardbinder/internal/models"
	"github.com/cardbinder/cardbinder/internal/services"
	"github.com/cardbinder/cardbinder/internal/validation"
)

func TestSearchFingerprint(t *testing.T) {
	base := &validation.CardSearch{
		Query:    "Pikachu",
		Type:     "Lightning",
		Page:     1,
		PageSize: 24,
		Sort:     validation.SortName,
		Order:    validation.OrderAsc,
	}

	key := services.SearchFingerprint(base)
	if key == "" {
		t.Fatal("Expected a fingerprint")
	}

	// Pagination and sort do not participate
	paged := *base
	paged.Page = 7
	paged.PageSize = 100
	paged.Sort = validation.SortNumber
	paged.Order = validation.OrderDesc
	if services.SearchFingerprint(&paged) != key {
		t.Error("Expected fingerprint to ignore page, pageSize, sort and order")
	}

	// Query casing does not participate
	upper := *base
	upper.Query = "PIKACHU"
	if services.SearchFingerprint(&upper) != key {
		t.Error("Expected fingerprint to ignore query casing")
	}

	// Filters do participate
	filtered := *base
	filtered.SetID = 3
	if services.SearchFingerprint(&filtered) == key {
		t.Error("Expected a different fingerprint for a different set filter")
	}

	other := *base
	other.Type = "Fire"
	if services.SearchFingerprint(&other) == key {
		t.Error("Expected a different fingerprint for a different type filter")
	}
}

func TestResolveCacheExpiryReusesUnexpiredRow(t *testing.T) {
	db := setupTestDB(t)

	key := "cards:test-fingerprint"
	stored := time.Now().UTC().Add(10 * time.Hour).Truncate(time.Second)
	row := models.ApiCache{
		EndpointKey: key,
		FetchedAt:   time.Now().UTC().Add(-14 * time.Hour),
		ExpiresAt:   stored,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("Failed to seed cache row: %v", err)
	}

	got := services.ResolveCacheExpiry(db, key, 24*time.Hour)
	if !got.Equal(stored) {
		t.Errorf("Expected reused expiry %v, got %v", stored, got)
	}
}

func TestResolveCacheExpiryReplacesExpiredRow(t *testing.T) {
	db := setupTestDB(t)

	key := "cards:expired-fingerprint"
	row := models.ApiCache{
		EndpointKey: key,
		FetchedAt:   time.Now().UTC().Add(-48 * time.Hour),
		ExpiresAt:   time.Now().UTC().Add(-24 * time.Hour),
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("Failed to seed cache row: %v", err)
	}

	got := services.ResolveCacheExpiry(db, key, 24*time.Hour)
	if !got.After(time.Now()) {
		t.Errorf("Expected a fresh future expiry, got %v", got)
	}
}

func TestResolveCacheExpiryMissingRow(t *testing.T) {
	db := setupTestDB(t)

	ttl := time.Hour
	before := time.Now().UTC().Add(ttl)
	got := services.ResolveCacheExpiry(db, "cards:none", ttl)
	after := time.Now().UTC().Add(ttl)

	if got.Before(before.Truncate(time.Second)) || got.After(after) {
		t.Errorf("Expected expiry about now+ttl, got %v", got)
	}
}
