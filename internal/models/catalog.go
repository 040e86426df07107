package models

import (
	"time"
)

// Set represents a card expansion. Rows are created and refreshed by the
// external import process only.
type Set struct {
	SetID       uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ExternalID  string     `gorm:"uniqueIndex;size:64;not null" json:"externalId"`
	Name        string     `gorm:"size:255;not null;index" json:"name"`
	Series      string     `gorm:"size:255" json:"series"`
	ReleaseDate *time.Time `json:"releaseDate,omitempty"`
	TotalCards  int        `gorm:"not null;default:0" json:"totalCards"`
	SymbolURL   string     `gorm:"size:512" json:"symbolUrl,omitempty"`
	LogoURL     string     `gorm:"size:512" json:"logoUrl,omitempty"`
	SyncedAt    time.Time  `json:"-"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
	Cards       []Card     `gorm:"foreignKey:SetID" json:"-"`
}

// Rarity is a lookup entity scoped to a trading-card-game type.
type Rarity struct {
	RarityID  uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string    `gorm:"size:64;not null;index:idx_rarity_code_tcg,unique" json:"code"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	TCGType   string    `gorm:"column:tcg_type;size:32;not null;default:pokemon;index:idx_rarity_code_tcg,unique" json:"tcgType"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Card belongs to exactly one Set. (set_id, number) is unique within a set.
type Card struct {
	CardID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ExternalID    string    `gorm:"uniqueIndex;size:64;not null" json:"externalId"`
	SetID         uint64    `gorm:"not null;index:idx_card_set_number,unique" json:"setId"`
	Name          string    `gorm:"size:255;not null;index:idx_card_name" json:"name"`
	Number        string    `gorm:"size:32;not null;index:idx_card_set_number,unique" json:"number"`
	NumberSort    int       `gorm:"not null;default:0" json:"-"`
	Supertype     string    `gorm:"size:64" json:"supertype,omitempty"`
	Subtypes      JSON      `json:"subtypes,omitempty"`
	HP            *int      `json:"hp,omitempty"`
	Types         JSON      `json:"types,omitempty"`
	RarityID      *uint64   `gorm:"index" json:"rarityId,omitempty"`
	Abilities     JSON      `json:"abilities,omitempty"`
	Attacks       JSON      `json:"attacks,omitempty"`
	Weaknesses    JSON      `json:"weaknesses,omitempty"`
	Resistances   JSON      `json:"resistances,omitempty"`
	SmallImageURL string    `gorm:"size:512" json:"smallImageUrl,omitempty"`
	LargeImageURL string    `gorm:"size:512" json:"largeImageUrl,omitempty"`
	SyncedAt      time.Time `json:"-"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`

	Set    *Set    `gorm:"foreignKey:SetID" json:"set,omitempty"`
	Rarity *Rarity `gorm:"foreignKey:RarityID" json:"rarity,omitempty"`
}

// PriceSource identifies where a price observation came from. Lower priority
// value wins when resolving the current market price.
type PriceSource struct {
	SourceID  uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string    `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Priority  int       `gorm:"not null;default:100" json:"priority"`
	CreatedAt time.Time `json:"-"`
}

// CardPrice is a time-stamped price observation for a card. Multiple rows
// per card are expected; the current price is the most recent observation
// from the highest-priority source.
type CardPrice struct {
	PriceID    uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	CardID     uint64    `gorm:"not null;index:idx_price_card" json:"cardId"`
	SourceID   uint64    `gorm:"not null;index" json:"sourceId"`
	PriceType  string    `gorm:"size:64;not null;default:normal" json:"priceType"`
	Market     *float64  `json:"market,omitempty"`
	Low        *float64  `json:"low,omitempty"`
	Mid        *float64  `json:"mid,omitempty"`
	High       *float64  `json:"high,omitempty"`
	Currency   string    `gorm:"size:8;not null;default:USD" json:"currency"`
	ObservedAt time.Time `gorm:"not null;index:idx_price_card" json:"observedAt"`

	Source *PriceSource `gorm:"foreignKey:SourceID" json:"-"`
}

// ImportJob records a catalog-sync run. Written by the external import
// process, read-only here.
type ImportJob struct {
	JobID        uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Status       string     `gorm:"size:32;not null" json:"status"`
	SetsSynced   int        `gorm:"not null;default:0" json:"setsSynced"`
	CardsSynced  int        `gorm:"not null;default:0" json:"cardsSynced"`
	PricesSynced int        `gorm:"not null;default:0" json:"pricesSynced"`
	ErrorDetail  string     `gorm:"type:text" json:"errorDetail,omitempty"`
	StartedAt    time.Time  `json:"startedAt"`
	FinishedAt   *time.Time `json:"finishedAt,omitempty"`
}

// ApiCache stores a fetched payload and its expiry under a normalized query
// fingerprint. Rows are valid only while now < expires_at; expired rows are
// lazily replaced, never actively evicted here.
type ApiCache struct {
	CacheID     uint64    `gorm:"primaryKey;autoIncrement"`
	EndpointKey string    `gorm:"uniqueIndex;size:128;not null"`
	Payload     JSON      `gorm:"type:json"`
	FetchedAt   time.Time `gorm:"not null"`
	ExpiresAt   time.Time `gorm:"not null;index"`
}

// TableName overrides the table name for ApiCache
func (ApiCache) TableName() string {
	return "api_cache"
}

// TableName overrides the table name for Set to avoid the reserved word
func (Set) TableName() string {
	return "card_sets"
}
