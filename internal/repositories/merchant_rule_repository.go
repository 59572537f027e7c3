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
	ErrMerchantRuleNotFound = errors.New("merchant rule not found")
)

// merchantRuleRepository implements MerchantRuleRepositoryInterface
type merchantRuleRepository struct {
	db *gorm.DB
}

// NewMerchantRuleRepository creates a new merchant rule repository
func NewMerchantRuleRepository(db *gorm.DB) MerchantRuleRepositoryInterface {
	return &merchantRuleRepository{
		db: db,
	}
}

// Upsert creates the rule or, when the user already has one for the merchant,
// repoints it at the new category. Last assignment wins.
func (r *merchantRuleRepository) Upsert(rule *models.MerchantRule) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.MerchantRule
		err := tx.Where("user_id = ? AND merchant = ?", rule.UserID, rule.Merchant).
			First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := tx.Create(rule).Error; err != nil {
					return fmt.Errorf("failed to create merchant rule: %w", err)
				}
				return nil
			}
			return fmt.Errorf("failed to get merchant rule: %w", err)
		}

		result := tx.Model(&models.MerchantRule{}).
			Where("id = ?", existing.ID).
			Updates(map[string]interface{}{
				"category_id":    rule.CategoryID,
				"subcategory_id": rule.SubcategoryID,
				"updated_at":     time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update merchant rule: %w", result.Error)
		}
		rule.ID = existing.ID
		return nil
	})
}

// GetByMerchant retrieves the rule for a merchant key
func (r *merchantRuleRepository) GetByMerchant(userID uuid.UUID, merchant string) (*models.MerchantRule, error) {
	var rule models.MerchantRule
	if err := r.db.Where("user_id = ? AND merchant = ?", userID, merchant).
		First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantRuleNotFound
		}
		return nil, fmt.Errorf("failed to get merchant rule: %w", err)
	}
	return &rule, nil
}

// ListByUser retrieves all rules of a user sorted by merchant
func (r *merchantRuleRepository) ListByUser(userID uuid.UUID) ([]models.MerchantRule, error) {
	var rules []models.MerchantRule
	if err := r.db.Where("user_id = ?", userID).
		Order("merchant ASC").
		Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to list merchant rules: %w", err)
	}
	return rules, nil
}
