package main

import (
	"fmt"
	"log"

	"github.com/cardbinder/cardbinder/internal/database"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Prints the schema GORM derives from the models, using the pure-Go sqlite
// driver so it runs without cgo.
func main() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatal(err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	// Get the schema
	var tables []string
	db.Raw("SELECT name FROM sqlite_master WHERE type='table'").Scan(&tables)

	for _, table := range tables {
		fmt.Printf("\n=== Table: %s ===\n", table)
		var schema string
		db.Raw("SELECT sql FROM sqlite_master WHERE name = ?", table).Scan(&schema)
		fmt.Println(schema)
	}
}
