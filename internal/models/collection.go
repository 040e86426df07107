package models

import (
	"time"

	"gorm.io/gorm"
)

// Condition is a lookup for physical card condition, ranked best-first.
type Condition struct {
	ConditionID uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string    `gorm:"uniqueIndex;size:32;not null" json:"code"`
	Name        string    `gorm:"size:64;not null" json:"name"`
	Rank        int       `gorm:"column:sort_order;not null;default:0" json:"rank"`
	CreatedAt   time.Time `json:"-"`
}

// GradingCompany is a lookup for grading services and their grade scales.
type GradingCompany struct {
	CompanyID uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string    `gorm:"uniqueIndex;size:32;not null" json:"code"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	MinGrade  float64   `gorm:"not null;default:1" json:"minGrade"`
	MaxGrade  float64   `gorm:"not null;default:10" json:"maxGrade"`
	CreatedAt time.Time `json:"-"`
}

// CollectionEntry asserts ownership of N copies of a card in a condition.
// Quantity is always > 0; Grade is only meaningful alongside a grading
// company and is bounded by that company's scale.
type CollectionEntry struct {
	EntryID          string    `gorm:"primaryKey;type:char(36)" json:"id"`
	UserID           string    `gorm:"type:char(36);not null;index:idx_entry_user" json:"-"`
	CardID           uint64    `gorm:"not null;index" json:"cardId"`
	Quantity         int       `gorm:"not null;default:1" json:"quantity"`
	ConditionID      *uint64   `json:"conditionId,omitempty"`
	GradingCompanyID *uint64   `json:"gradingCompanyId,omitempty"`
	Grade            *float64  `json:"grade,omitempty"`
	PurchasePrice    *float64  `json:"purchasePrice,omitempty"`
	Notes            string    `gorm:"size:500" json:"notes,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	Card           *Card           `gorm:"foreignKey:CardID" json:"card,omitempty"`
	Condition      *Condition      `gorm:"foreignKey:ConditionID" json:"condition,omitempty"`
	GradingCompany *GradingCompany `gorm:"foreignKey:GradingCompanyID" json:"gradingCompany,omitempty"`
}

// UserList is a named grouping of collection entries, max 10 per user.
type UserList struct {
	ListID    string    `gorm:"primaryKey;type:char(36)" json:"id"`
	UserID    string    `gorm:"type:char(36);not null;index:idx_list_user_name,unique" json:"-"`
	Name      string    `gorm:"size:50;not null;index:idx_list_user_name,unique" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Entries []CollectionEntry `gorm:"many2many:list_entries;foreignKey:ListID;joinForeignKey:list_id;References:EntryID;joinReferences:entry_id" json:"entries,omitempty"`
}

// UserProfile is 1:1 with the external identity subject. DeletedAt gives a
// soft-delete grace period before housekeeping removes the row.
type UserProfile struct {
	UserID      string         `gorm:"primaryKey;type:char(36)" json:"-"`
	DisplayName string         `gorm:"size:50" json:"displayName"`
	IsAdmin     bool           `gorm:"not null;default:false" json:"isAdmin"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
