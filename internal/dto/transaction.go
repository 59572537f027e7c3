package dto

import (
	"time"

	"expenses-api/internal/models"

	"github.com/shopspring/decimal"
)

// Transaction Request DTOs

// ListTransactionsQuery carries the query string filters for transaction
// listings. CategoryID accepts the literal "null" to select uncategorized
// transactions.
type ListTransactionsQuery struct {
	BankType    string `query:"bank_type"`
	CategoryID  string `query:"category_id"`
	Type        string `query:"transaction_type" validate:"omitempty,transaction_type"`
	Description string `query:"description"`
	StartDate   string `query:"start_date"`
	EndDate     string `query:"end_date"`
	Skip        int    `query:"skip" validate:"omitempty,min=0"`
	Limit       int    `query:"limit" validate:"omitempty,min=0,max=500"`
}

// UpdateTransactionRequest assigns or clears a transaction's category. When
// ApplyToAll is set the assignment propagates to every transaction with the
// same description and is remembered as a merchant rule.
type UpdateTransactionRequest struct {
	CategoryID    *string `json:"category_id" validate:"omitempty,entity_id"`
	SubcategoryID *string `json:"subcategory_id" validate:"omitempty,entity_id"`
	ApplyToAll    bool    `json:"apply_to_all"`
}

// BulkCategorizeRequest assigns one category to a set of transactions
type BulkCategorizeRequest struct {
	TransactionIDs []string `json:"transaction_ids" validate:"required,min=1,dive,entity_id"`
	CategoryID     *string  `json:"category_id" validate:"omitempty,entity_id"`
	SubcategoryID  *string  `json:"subcategory_id" validate:"omitempty,entity_id"`
}

// BulkDeleteRequest removes a set of transactions
type BulkDeleteRequest struct {
	TransactionIDs []string `json:"transaction_ids" validate:"required,min=1,dive,entity_id"`
}

// Transaction Response DTOs

// TransactionResponse represents a single transaction
type TransactionResponse struct {
	ID            string           `json:"id"`
	BankType      string           `json:"bank_type"`
	Date          time.Time        `json:"date"`
	Description   string           `json:"description"`
	Amount        decimal.Decimal  `json:"amount"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
	Type          string           `json:"type"`
	CategoryID    *string          `json:"category_id"`
	SubcategoryID *string          `json:"subcategory_id"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// TransactionListResponse is a paginated transaction listing
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	Skip         int                   `json:"skip"`
	Limit        int                   `json:"limit"`
}

// UpdateTransactionResponse reports the outcome of a categorization. Applied
// counts the transactions touched, 1 unless ApplyToAll was requested.
type UpdateTransactionResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Applied     int64               `json:"applied"`
}

// BulkCategorizeResponse reports how many transactions were recategorized
type BulkCategorizeResponse struct {
	Message      string `json:"message"`
	UpdatedCount int64  `json:"updated_count"`
}

// BulkDeleteResponse reports how many transactions were removed
type BulkDeleteResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}

// UncategorizedCountResponse reports the number of uncategorized transactions
type UncategorizedCountResponse struct {
	Count int64 `json:"count"`
}

// NewTransactionResponse maps a transaction model to its response shape
func NewTransactionResponse(t *models.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:          t.ID.String(),
		BankType:    t.BankType,
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount,
		Balance:     t.Balance,
		Type:        t.Type(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.CategoryID != nil {
		id := t.CategoryID.String()
		resp.CategoryID = &id
	}
	if t.SubcategoryID != nil {
		id := t.SubcategoryID.String()
		resp.SubcategoryID = &id
	}
	return resp
}

// NewTransactionListResponse maps a page of transactions
func NewTransactionListResponse(transactions []models.Transaction, total int64, skip, limit int) TransactionListResponse {
	items := make([]TransactionResponse, 0, len(transactions))
	for i := range transactions {
		items = append(items, NewTransactionResponse(&transactions[i]))
	}
	return TransactionListResponse{
		Transactions: items,
		Total:        total,
		Skip:         skip,
		Limit:        limit,
	}
}
