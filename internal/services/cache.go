package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cardbinder/cardbinder/internal/models"
	"github.com/cardbinder/cardbinder/internal/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SearchFingerprint derives the normalized cache key for a validated search.
// Only filter parameters participate; page and sort do not change which
// upstream payload the filters map to.
func SearchFingerprint(cmd *validation.CardSearch) string {
	parts := []string{
		"q=" + strings.ToLower(cmd.Query),
		fmt.Sprintf("set=%d", cmd.SetID),
		"setExt=" + cmd.SetExternalID,
		"number=" + cmd.CardNumber,
		fmt.Sprintf("rarity=%d", cmd.RarityID),
		"type=" + cmd.Type,
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "&")))
	return "cards:" + hex.EncodeToString(sum[:])
}

// ResolveCacheExpiry returns the freshness deadline for the fingerprint. An
// unexpired cache row keeps its expiry so repeated queries within the TTL
// observe the same cacheExpiresAt; otherwise a fresh deadline is computed
// and persisted best-effort off the request path.
func ResolveCacheExpiry(db *gorm.DB, key string, ttl time.Duration) time.Time {
	now := time.Now().UTC()

	var row models.ApiCache
	err := db.Where("endpoint_key = ?", key).First(&row).Error
	if err == nil && now.Before(row.ExpiresAt) {
		return row.ExpiresAt.UTC()
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		logDBError("cache lookup", err)
	}

	expiresAt := now.Add(ttl).Truncate(time.Second)
	Dispatch("cache write", func() {
		writeCacheRecord(db, key, now, expiresAt)
	})
	return expiresAt
}

// writeCacheRecord upserts the cache row. Failures are logged and dropped;
// a cache write must never fail the request that triggered it.
func writeCacheRecord(db *gorm.DB, key string, fetchedAt, expiresAt time.Time) {
	row := models.ApiCache{
		EndpointKey: key,
		Payload:     models.JSON{},
		FetchedAt:   fetchedAt,
		ExpiresAt:   expiresAt,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"fetched_at", "expires_at"}),
	}).Create(&row).Error
	if err != nil {
		logDBError("cache write", err)
	}
}

// Dispatch runs fn as a detached task. It exists so fire-and-forget side
// effects (cache writes, analytics) are explicit in the code structure and
// can never surface an error on the response path.
func Dispatch(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("detached task %q panicked: %v", name, r)
			}
		}()
		fn()
	}()
}

func logDBError(context string, err error) {
	log.Printf("database error (%s): %v", context, err)
}
