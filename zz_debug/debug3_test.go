package zzdebug

import (
	"testing"

	"github.com/cardbinder/cardbinder/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDebug3(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&models.Set{}, &models.Rarity{}, &models.Card{}); err != nil {
		t.Fatal(err)
	}
	s := &models.Set{ExternalID: "x", Name: "X"}
	if err := db.Create(s).Error; err != nil {
		t.Fatal(err)
	}
	c := &models.Card{ExternalID: "x-1", SetID: s.SetID, Name: "C", Number: "1"}
	if err := db.Create(c).Error; err != nil {
		t.Fatal(err)
	}
	t.Logf("card id=%d", c.CardID)
}
