package zzdebug

import (
	"testing"
	"time"

	"github.com/cardbinder/cardbinder/internal/database"
	"github.com/cardbinder/cardbinder/internal/models"
	"github.com/cardbinder/cardbinder/tests/helpers"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDebug(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Info)})
	if err != nil {
		t.Fatal(err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatal(err)
	}
	released := time.Date(1999, 1, 9, 0, 0, 0, 0, time.UTC)
	set := helpers.CreateTestSet(t, db, "base1", "Base Set", released)
	t.Logf("set.SetID=%d", set.SetID)
	card := helpers.CreateTestCard(t, db, set, "base1-4", "Charizard", "4", 4)
	t.Logf("card.CardID=%d card.SetID=%d", card.CardID, card.SetID)
	var back models.Card
	if err := db.First(&back, "card_id = ?", card.CardID).Error; err != nil {
		t.Fatalf("lookup: %v", err)
	}
}
