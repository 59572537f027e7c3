package services

import (
	"errors"
	"fmt"

	"expenses-api/internal/models"
	"expenses-api/internal/repositories"

	"github.com/google/uuid"
)

// CategorizeService suggests categories for incoming transactions and learns
// from manual assignments. Everything is per-user: one user's habits never
// leak into another's suggestions.
type CategorizeService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	merchantRepo    repositories.MerchantRuleRepositoryInterface
}

// NewCategorizeService creates a new categorization service
func NewCategorizeService(
	transactionRepo repositories.TransactionRepositoryInterface,
	merchantRepo repositories.MerchantRuleRepositoryInterface,
) CategorizeServiceInterface {
	return &CategorizeService{
		transactionRepo: transactionRepo,
		merchantRepo:    merchantRepo,
	}
}

// Suggest returns the category to assign to a transaction with the given
// description, or nil when nothing in the user's history matches. An exact
// description match wins over a merchant rule.
func (s *CategorizeService) Suggest(userID uuid.UUID, description string) (*uuid.UUID, *uuid.UUID, error) {
	previous, err := s.transactionRepo.LatestCategorizedByDescription(userID, description)
	if err == nil {
		return previous.CategoryID, previous.SubcategoryID, nil
	}
	if !errors.Is(err, repositories.ErrTransactionNotFound) {
		return nil, nil, fmt.Errorf("failed to look up description history: %w", err)
	}

	merchant := models.MerchantKey(description)
	if merchant == "" {
		return nil, nil, nil
	}

	rule, err := s.merchantRepo.GetByMerchant(userID, merchant)
	if err != nil {
		if errors.Is(err, repositories.ErrMerchantRuleNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to look up merchant rule: %w", err)
	}

	categoryID := rule.CategoryID
	return &categoryID, rule.SubcategoryID, nil
}

// LearnFromAssignment remembers a manual categorization as a merchant rule so
// future imports of the same merchant pick it up. Clearing a category is not
// learned.
func (s *CategorizeService) LearnFromAssignment(userID uuid.UUID, description string, categoryID, subcategoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}

	merchant := models.MerchantKey(description)
	if merchant == "" {
		return nil
	}

	rule := &models.MerchantRule{
		UserID:        userID,
		Merchant:      merchant,
		CategoryID:    *categoryID,
		SubcategoryID: subcategoryID,
	}
	if err := s.merchantRepo.Upsert(rule); err != nil {
		return fmt.Errorf("failed to save merchant rule: %w", err)
	}
	return nil
}

// ApplyToAll assigns the category to every transaction of the user with the
// exact same description and learns the assignment. Returns the number of
// transactions updated.
func (s *CategorizeService) ApplyToAll(userID uuid.UUID, description string, categoryID, subcategoryID *uuid.UUID) (int64, error) {
	affected, err := s.transactionRepo.UpdateCategoryByDescription(userID, description, categoryID, subcategoryID)
	if err != nil {
		return 0, err
	}

	if err := s.LearnFromAssignment(userID, description, categoryID, subcategoryID); err != nil {
		return affected, err
	}
	return affected, nil
}
