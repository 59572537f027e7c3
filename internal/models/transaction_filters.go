package models

import (
	"time"

	"github.com/google/uuid"
)

// MinDescriptionFilterLength guards against accidental full-table scans from
// one or two character search terms; shorter values are ignored, not errors.
const MinDescriptionFilterLength = 3

// TransactionFilters narrows transaction listings. All criteria are optional
// and combine conjunctively; UserID is always required.
type TransactionFilters struct {
	UserID        uuid.UUID
	BankType      string
	CategoryID    *uuid.UUID
	Uncategorized bool
	Type          string
	Description   string
	StartDate     *time.Time
	EndDate       *time.Time
	Offset        int
	Limit         int
}
