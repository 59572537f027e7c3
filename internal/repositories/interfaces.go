package repositories

import (
	"time"

	"expenses-api/internal/models"

	"github.com/google/uuid"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	UpdateLastLogin(userID uuid.UUID) error
}

// CategoryRepositoryInterface defines the contract for category and
// subcategory repository operations. All lookups are scoped to the owning
// user.
type CategoryRepositoryInterface interface {
	Create(category *models.Category) error
	GetByID(userID, id uuid.UUID) (*models.Category, error)
	GetByName(userID uuid.UUID, name string) (*models.Category, error)
	ListByUser(userID uuid.UUID) ([]models.Category, error)
	Update(category *models.Category) error
	Delete(userID, id uuid.UUID) error
	SeedDefaults(userID uuid.UUID) (int, error)

	CreateSubcategory(subcategory *models.Subcategory) error
	GetSubcategoryByID(userID, id uuid.UUID) (*models.Subcategory, error)
	GetSubcategoryByName(userID, categoryID uuid.UUID, name string) (*models.Subcategory, error)
	ListSubcategories(userID, categoryID uuid.UUID) ([]models.Subcategory, error)
	UpdateSubcategory(subcategory *models.Subcategory) error
	DeleteSubcategory(userID, id uuid.UUID) error
}

// TransactionRepositoryInterface defines the contract for transaction
// repository operations. All lookups are scoped to the owning user.
type TransactionRepositoryInterface interface {
	Create(transaction *models.Transaction) error
	GetByID(userID, id uuid.UUID) (*models.Transaction, error)
	GetWithFilters(filters models.TransactionFilters) ([]models.Transaction, int64, error)
	UpdateCategorization(userID, id uuid.UUID, categoryID, subcategoryID *uuid.UUID) error
	Delete(userID, id uuid.UUID) error
	ExistsByDedupHash(userID uuid.UUID, hash string) (bool, error)
	CountUncategorized(userID uuid.UUID) (int64, error)

	// Bulk operations run in a single database transaction and return the
	// number of rows actually affected; IDs that do not exist or belong to
	// another user are skipped silently.
	BulkCategorize(userID uuid.UUID, ids []uuid.UUID, categoryID, subcategoryID *uuid.UUID) (int64, error)
	BulkDelete(userID uuid.UUID, ids []uuid.UUID) (int64, error)

	UpdateCategoryByDescription(userID uuid.UUID, description string, categoryID, subcategoryID *uuid.UUID) (int64, error)
	LatestCategorizedByDescription(userID uuid.UUID, description string) (*models.Transaction, error)
	ListAll(userID uuid.UUID) ([]models.Transaction, error)

	// Report aggregations. Expense totals keep their negative sign; the
	// service layer decides the presentation.
	CategoryTotals(userID uuid.UUID, start, end *time.Time) ([]models.CategoryTotal, error)
	TopExpenses(userID uuid.UUID, limit int, start, end *time.Time) ([]models.Transaction, error)
	Stats(userID uuid.UUID) (*models.TransactionStats, error)
}

// MerchantRuleRepositoryInterface defines the contract for learned merchant
// categorization rules.
type MerchantRuleRepositoryInterface interface {
	Upsert(rule *models.MerchantRule) error
	GetByMerchant(userID uuid.UUID, merchant string) (*models.MerchantRule, error)
	ListByUser(userID uuid.UUID) ([]models.MerchantRule, error)
}
