package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MerchantRule remembers the last category a user assigned to a merchant.
// The merchant key is the first token of the transaction description; rules
// are upserted on explicit categorization and consulted during import.
type MerchantRule struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_merchant_rules_user_merchant" json:"user_id"`
	Merchant      string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_merchant_rules_user_merchant" json:"merchant"`
	CategoryID    uuid.UUID  `gorm:"type:uuid;not null" json:"category_id"`
	SubcategoryID *uuid.UUID `gorm:"type:uuid" json:"subcategory_id"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

func (m *MerchantRule) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}

	return m.Validate()
}

func (m *MerchantRule) Validate() error {
	if m.Merchant == "" {
		return errors.New("merchant is required")
	}
	if m.UserID == uuid.Nil {
		return errors.New("rule owner is required")
	}
	if m.CategoryID == uuid.Nil {
		return errors.New("rule category is required")
	}
	return nil
}

func (m *MerchantRule) TableName() string {
	return "merchant_rules"
}
