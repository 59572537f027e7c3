package repositories

import (
	"errors"
	"fmt"
	"time"

	"expenses-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction
func (r *transactionRepository) Create(transaction *models.Transaction) error {
	if err := r.db.Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a transaction owned by the user
func (r *transactionRepository) GetByID(userID, id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

// GetWithFilters retrieves transactions with multiple filters, newest first
func (r *transactionRepository) GetWithFilters(filters models.TransactionFilters) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	query := r.db.Model(&models.Transaction{}).
		Where("user_id = ?", filters.UserID)

	if filters.BankType != "" {
		query = query.Where("bank_type = ?", filters.BankType)
	}
	if filters.Uncategorized {
		query = query.Where("category_id IS NULL")
	} else if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	switch filters.Type {
	case models.TransactionTypeIncome:
		query = query.Where("amount > 0")
	case models.TransactionTypeExpense:
		query = query.Where("amount <= 0")
	}
	// Short search terms are ignored rather than rejected.
	if len(filters.Description) >= models.MinDescriptionFilterLength {
		// Lowering both sides keeps the match case-insensitive on postgres,
		// where plain LIKE is not.
		query = query.Where("LOWER(description) LIKE LOWER(?)", "%"+filters.Description+"%")
	}
	if filters.StartDate != nil {
		query = query.Where("date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("date <= ?", *filters.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count filtered transactions: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if err := query.Offset(filters.Offset).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get filtered transactions: %w", err)
	}

	return transactions, total, nil
}

// UpdateCategorization sets or clears the category assignment of a single
// transaction
func (r *transactionRepository) UpdateCategorization(userID, id uuid.UUID, categoryID, subcategoryID *uuid.UUID) error {
	result := r.db.Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"category_id":    categoryID,
			"subcategory_id": subcategoryID,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update transaction categorization: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// Delete removes a transaction owned by the user
func (r *transactionRepository) Delete(userID, id uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Transaction{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// ExistsByDedupHash reports whether the user already owns a transaction with
// the given duplicate-detection hash
func (r *transactionRepository) ExistsByDedupHash(userID uuid.UUID, hash string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Transaction{}).
		Where("user_id = ? AND dedup_hash = ?", userID, hash).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check dedup hash: %w", err)
	}
	return count > 0, nil
}

// CountUncategorized returns the number of transactions without a category
func (r *transactionRepository) CountUncategorized(userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Transaction{}).
		Where("user_id = ? AND category_id IS NULL", userID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count uncategorized transactions: %w", err)
	}
	return count, nil
}

// BulkCategorize assigns a category to the given transactions in a single
// database transaction. Foreign or missing IDs simply do not match the WHERE
// clause; the returned count reflects the rows actually updated.
func (r *transactionRepository) BulkCategorize(userID uuid.UUID, ids []uuid.UUID, categoryID, subcategoryID *uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Transaction{}).
			Where("user_id = ? AND id IN ?", userID, ids).
			Updates(map[string]interface{}{
				"category_id":    categoryID,
				"subcategory_id": subcategoryID,
				"updated_at":     time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to bulk categorize transactions: %w", result.Error)
		}
		affected = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// BulkDelete removes the given transactions in a single database transaction,
// skipping foreign or missing IDs.
func (r *transactionRepository) BulkDelete(userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND id IN ?", userID, ids).
			Delete(&models.Transaction{})
		if result.Error != nil {
			return fmt.Errorf("failed to bulk delete transactions: %w", result.Error)
		}
		affected = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// UpdateCategoryByDescription assigns a category to every owned transaction
// with the exact same description
func (r *transactionRepository) UpdateCategoryByDescription(userID uuid.UUID, description string, categoryID, subcategoryID *uuid.UUID) (int64, error) {
	result := r.db.Model(&models.Transaction{}).
		Where("user_id = ? AND description = ?", userID, description).
		Updates(map[string]interface{}{
			"category_id":    categoryID,
			"subcategory_id": subcategoryID,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to update transactions by description: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// LatestCategorizedByDescription returns the most recently categorized owned
// transaction with the exact same description, or ErrTransactionNotFound.
func (r *transactionRepository) LatestCategorizedByDescription(userID uuid.UUID, description string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.Where("user_id = ? AND description = ? AND category_id IS NOT NULL", userID, description).
		Order("updated_at DESC").
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get categorized transaction by description: %w", err)
	}
	return &transaction, nil
}

// CategoryTotals aggregates expenses per category name within the optional
// date range. Totals keep their negative sign; uncategorized expenses are
// not represented.
func (r *transactionRepository) CategoryTotals(userID uuid.UUID, start, end *time.Time) ([]models.CategoryTotal, error) {
	query := r.db.Model(&models.Transaction{}).
		Select("categories.name AS category_name, COALESCE(SUM(transactions.amount), 0) AS total, COUNT(transactions.id) AS count").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.amount < 0", userID)
	if start != nil {
		query = query.Where("transactions.date >= ?", *start)
	}
	if end != nil {
		query = query.Where("transactions.date <= ?", *end)
	}

	var totals []models.CategoryTotal
	if err := query.Group("categories.name").
		Order("total ASC").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate category totals: %w", err)
	}
	return totals, nil
}

// TopExpenses returns the largest expenses within the optional date range,
// biggest first.
func (r *transactionRepository) TopExpenses(userID uuid.UUID, limit int, start, end *time.Time) ([]models.Transaction, error) {
	query := r.db.Where("user_id = ? AND amount < 0", userID)
	if start != nil {
		query = query.Where("date >= ?", *start)
	}
	if end != nil {
		query = query.Where("date <= ?", *end)
	}

	var transactions []models.Transaction
	if err := query.Order("amount ASC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to list top expenses: %w", err)
	}
	return transactions, nil
}

// Stats aggregates whole-history counters in one query. TotalExpenses keeps
// its negative sign.
func (r *transactionRepository) Stats(userID uuid.UUID) (*models.TransactionStats, error) {
	var stats models.TransactionStats
	if err := r.db.Model(&models.Transaction{}).
		Select("COUNT(id) AS total_transactions, " +
			"COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0) AS total_income, " +
			"COALESCE(SUM(CASE WHEN amount < 0 THEN amount ELSE 0 END), 0) AS total_expenses, " +
			"COALESCE(SUM(CASE WHEN category_id IS NULL THEN 1 ELSE 0 END), 0) AS uncategorized").
		Where("user_id = ?", userID).
		Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate transaction stats: %w", err)
	}
	return &stats, nil
}

// ListAll retrieves every transaction of a user ordered by date, oldest
// first, for export.
func (r *transactionRepository) ListAll(userID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("user_id = ?", userID).
		Order("date ASC, created_at ASC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}
