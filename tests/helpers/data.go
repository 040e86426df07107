package helpers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cardbinder/cardbinder/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateTestSet creates a card set fixture
func CreateTestSet(t *testing.T, db *gorm.DB, externalID, name string, released time.Time) *models.Set {
	t.Helper()
	set := &models.Set{
		ExternalID:  externalID,
		Name:        name,
		Series:      "Test Series",
		ReleaseDate: &released,
		TotalCards:  100,
	}
	if err := db.Create(set).Error; err != nil {
		t.Fatalf("Failed to create set %s: %v", name, err)
	}
	return set
}

// CreateTestCard creates a card fixture within a set
func CreateTestCard(t *testing.T, db *gorm.DB, set *models.Set, externalID, name, number string, numberSort int, cardTypes ...string) *models.Card {
	t.Helper()
	card := &models.Card{
		ExternalID: externalID,
		SetID:      set.SetID,
		Name:       name,
		Number:     number,
		NumberSort: numberSort,
		Supertype:  "Pokémon",
	}
	if len(cardTypes) > 0 {
		raw, err := json.Marshal(cardTypes)
		if err != nil {
			t.Fatalf("Failed to marshal card types: %v", err)
		}
		card.Types = models.JSON{JSON: datatypes.JSON(raw)}
	}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("Failed to create card %s: %v", name, err)
	}
	return card
}

// CreateTestPriceSource creates a price source with the given priority
func CreateTestPriceSource(t *testing.T, db *gorm.DB, code string, priority int) *models.PriceSource {
	t.Helper()
	source := &models.PriceSource{
		Code:     code,
		Name:     code,
		Priority: priority,
	}
	if err := db.Create(source).Error; err != nil {
		t.Fatalf("Failed to create price source %s: %v", code, err)
	}
	return source
}

// CreateTestPrice records a market price observation for a card
func CreateTestPrice(t *testing.T, db *gorm.DB, card *models.Card, source *models.PriceSource, market float64, observed time.Time) {
	t.Helper()
	price := &models.CardPrice{
		CardID:     card.CardID,
		SourceID:   source.SourceID,
		Market:     &market,
		Currency:   "USD",
		ObservedAt: observed,
	}
	if err := db.Create(price).Error; err != nil {
		t.Fatalf("Failed to create price for card %d: %v", card.CardID, err)
	}
}

// SeedLookups creates the condition and grading company reference rows
func SeedLookups(t *testing.T, db *gorm.DB) {
	t.Helper()
	conditions := []models.Condition{
		{Code: "MINT", Name: "Mint", Rank: 1},
		{Code: "NM", Name: "Near Mint", Rank: 2},
		{Code: "LP", Name: "Lightly Played", Rank: 3},
		{Code: "MP", Name: "Moderately Played", Rank: 4},
		{Code: "HP", Name: "Heavily Played", Rank: 5},
		{Code: "DMG", Name: "Damaged", Rank: 6},
	}
	for i := range conditions {
		if err := db.Create(&conditions[i]).Error; err != nil {
			t.Fatalf("Failed to seed condition %s: %v", conditions[i].Code, err)
		}
	}

	companies := []models.GradingCompany{
		{Code: "PSA", Name: "Professional Sports Authenticator", MinGrade: 1, MaxGrade: 10},
		{Code: "BGS", Name: "Beckett Grading Services", MinGrade: 1, MaxGrade: 10},
		{Code: "CGC", Name: "Certified Guaranty Company", MinGrade: 1, MaxGrade: 10},
	}
	for i := range companies {
		if err := db.Create(&companies[i]).Error; err != nil {
			t.Fatalf("Failed to seed grading company %s: %v", companies[i].Code, err)
		}
	}
}
