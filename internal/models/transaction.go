package models

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// Transaction type is derived from the amount sign, never stored.
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

var (
	ErrDescriptionRequired = errors.New("transaction description is required")
	ErrBankTypeRequired    = errors.New("transaction bank type is required")
	ErrDateRequired        = errors.New("transaction date is required")
)

// Transaction is a single bank-statement movement owned by a user. The
// (date, description, amount, bank type) tuple is the natural duplicate key;
// it is materialized as DedupHash with a per-user unique index so the store
// itself rejects re-imports.
type Transaction struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_transactions_user_dedup" json:"user_id"`
	BankType      string           `gorm:"type:varchar(40);not null;index" json:"bank_type"`
	Date          time.Time        `gorm:"not null;index" json:"date"`
	Description   string           `gorm:"type:text;not null" json:"description"`
	Amount        decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"amount"`
	Balance       *decimal.Decimal `gorm:"type:decimal(15,2)" json:"balance,omitempty"`
	CategoryID    *uuid.UUID       `gorm:"type:uuid;index" json:"category_id"`
	SubcategoryID *uuid.UUID       `gorm:"type:uuid" json:"subcategory_id"`
	DedupHash     string           `gorm:"type:varchar(64);not null;uniqueIndex:idx_transactions_user_dedup" json:"-"`
	CreatedAt     time.Time        `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"not null" json:"updated_at"`

	Category    *Category    `gorm:"foreignKey:CategoryID" json:"-"`
	Subcategory *Subcategory `gorm:"foreignKey:SubcategoryID" json:"-"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	if t.DedupHash == "" {
		t.DedupHash = ComputeDedupHash(t.Date, t.Description, t.Amount, t.BankType)
	}

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return t.Validate()
}

func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}
	t.UpdatedAt = time.Now()
	return t.Validate()
}

func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return errors.New("transaction owner is required")
	}
	if t.BankType == "" {
		return ErrBankTypeRequired
	}
	if t.Date.IsZero() {
		return ErrDateRequired
	}
	if t.Description == "" {
		return ErrDescriptionRequired
	}
	return nil
}

// Type classifies the transaction by amount sign: positive amounts are
// income, everything else expense.
func (t *Transaction) Type() string {
	if t.Amount.IsPositive() {
		return TransactionTypeIncome
	}
	return TransactionTypeExpense
}

// IsCategorized reports whether the transaction carries a category.
func (t *Transaction) IsCategorized() bool {
	return t.CategoryID != nil
}

func (t *Transaction) TableName() string {
	return "transactions"
}

// ComputeDedupHash derives the duplicate-detection key from the fields that
// identify a statement row. The amount is fixed to two decimal places so the
// comparison is exact, never tolerance-based.
func ComputeDedupHash(date time.Time, description string, amount decimal.Decimal, bankType string) string {
	payload := date.Format("2006-01-02") + "|" +
		NormalizeDescription(description) + "|" +
		amount.StringFixed(2) + "|" +
		bankType
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// NormalizeDescription trims and collapses internal whitespace. Description
// matching (dedup, auto-categorization, apply-to-all) is case-sensitive over
// this normalized form.
func NormalizeDescription(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// MerchantKey returns the first token of a normalized description, used as
// the lookup key for learned merchant rules.
func MerchantKey(description string) string {
	fields := strings.Fields(description)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
