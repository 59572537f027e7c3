package repositories

import (
	"errors"
	"fmt"

	"expenses-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound     = errors.New("category not found")
	ErrSubcategoryNotFound  = errors.New("subcategory not found")
	ErrDuplicateCategory    = errors.New("category name already exists for this user")
	ErrDuplicateSubcategory = errors.New("subcategory name already exists in this category")
)

// categoryRepository implements CategoryRepositoryInterface
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepositoryInterface {
	return &categoryRepository{
		db: db,
	}
}

// Create creates a new category
func (r *categoryRepository) Create(category *models.Category) error {
	var count int64
	if err := r.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ?", category.UserID, category.Name).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check category name: %w", err)
	}
	if count > 0 {
		return ErrDuplicateCategory
	}

	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetByID retrieves a category owned by the user, with its subcategories
func (r *categoryRepository) GetByID(userID, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.Preload("Subcategories").
		Where("id = ? AND user_id = ?", id, userID).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// GetByName retrieves a category by its exact name
func (r *categoryRepository) GetByName(userID uuid.UUID, name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("user_id = ? AND name = ?", userID, name).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by name: %w", err)
	}
	return &category, nil
}

// ListByUser retrieves all categories of a user sorted by name, with
// subcategories preloaded
func (r *categoryRepository) ListByUser(userID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Preload("Subcategories").
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Update persists changes to a category
func (r *categoryRepository) Update(category *models.Category) error {
	var count int64
	if err := r.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ? AND id <> ?", category.UserID, category.Name, category.ID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check category name: %w", err)
	}
	if count > 0 {
		return ErrDuplicateCategory
	}

	if err := r.db.Save(category).Error; err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

// Delete removes a category and everything hanging off it in one database
// transaction: its subcategories and merchant rules go away, transactions
// referencing it become uncategorized but are never deleted.
func (r *categoryRepository) Delete(userID, id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("failed to get category: %w", err)
		}

		if err := tx.Model(&models.Transaction{}).
			Where("user_id = ? AND category_id = ?", userID, id).
			Updates(map[string]interface{}{"category_id": nil, "subcategory_id": nil}).Error; err != nil {
			return fmt.Errorf("failed to uncategorize transactions: %w", err)
		}

		if err := tx.Where("user_id = ? AND category_id = ?", userID, id).
			Delete(&models.MerchantRule{}).Error; err != nil {
			return fmt.Errorf("failed to delete merchant rules: %w", err)
		}

		if err := tx.Where("category_id = ?", id).
			Delete(&models.Subcategory{}).Error; err != nil {
			return fmt.Errorf("failed to delete subcategories: %w", err)
		}

		if err := tx.Delete(&category).Error; err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
}

// SeedDefaults creates the default category taxonomy for a user, skipping
// names that already exist. Returns the number of categories created.
func (r *categoryRepository) SeedDefaults(userID uuid.UUID) (int, error) {
	created := 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing []models.Category
		if err := tx.Where("user_id = ?", userID).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to list existing categories: %w", err)
		}

		names := make(map[string]bool, len(existing))
		for _, c := range existing {
			names[c.Name] = true
		}

		for _, name := range models.DefaultCategoryNames {
			if names[name] {
				continue
			}
			category := &models.Category{UserID: userID, Name: name}
			if err := tx.Create(category).Error; err != nil {
				return fmt.Errorf("failed to seed category %q: %w", name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// CreateSubcategory creates a new subcategory
func (r *categoryRepository) CreateSubcategory(subcategory *models.Subcategory) error {
	var count int64
	if err := r.db.Model(&models.Subcategory{}).
		Where("category_id = ? AND name = ?", subcategory.CategoryID, subcategory.Name).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check subcategory name: %w", err)
	}
	if count > 0 {
		return ErrDuplicateSubcategory
	}

	if err := r.db.Create(subcategory).Error; err != nil {
		return fmt.Errorf("failed to create subcategory: %w", err)
	}
	return nil
}

// GetSubcategoryByID retrieves a subcategory owned by the user
func (r *categoryRepository) GetSubcategoryByID(userID, id uuid.UUID) (*models.Subcategory, error) {
	var subcategory models.Subcategory
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).
		First(&subcategory).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubcategoryNotFound
		}
		return nil, fmt.Errorf("failed to get subcategory: %w", err)
	}
	return &subcategory, nil
}

// GetSubcategoryByName retrieves a subcategory by its exact name within a category
func (r *categoryRepository) GetSubcategoryByName(userID, categoryID uuid.UUID, name string) (*models.Subcategory, error) {
	var subcategory models.Subcategory
	if err := r.db.Where("user_id = ? AND category_id = ? AND name = ?", userID, categoryID, name).
		First(&subcategory).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubcategoryNotFound
		}
		return nil, fmt.Errorf("failed to get subcategory by name: %w", err)
	}
	return &subcategory, nil
}

// ListSubcategories retrieves the subcategories of a category sorted by name
func (r *categoryRepository) ListSubcategories(userID, categoryID uuid.UUID) ([]models.Subcategory, error) {
	var subcategories []models.Subcategory
	if err := r.db.Where("user_id = ? AND category_id = ?", userID, categoryID).
		Order("name ASC").
		Find(&subcategories).Error; err != nil {
		return nil, fmt.Errorf("failed to list subcategories: %w", err)
	}
	return subcategories, nil
}

// UpdateSubcategory persists changes to a subcategory
func (r *categoryRepository) UpdateSubcategory(subcategory *models.Subcategory) error {
	var count int64
	if err := r.db.Model(&models.Subcategory{}).
		Where("category_id = ? AND name = ? AND id <> ?", subcategory.CategoryID, subcategory.Name, subcategory.ID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check subcategory name: %w", err)
	}
	if count > 0 {
		return ErrDuplicateSubcategory
	}

	if err := r.db.Save(subcategory).Error; err != nil {
		return fmt.Errorf("failed to update subcategory: %w", err)
	}
	return nil
}

// DeleteSubcategory removes a subcategory; transactions referencing it keep
// their category but lose the subcategory reference.
func (r *categoryRepository) DeleteSubcategory(userID, id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var subcategory models.Subcategory
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&subcategory).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubcategoryNotFound
			}
			return fmt.Errorf("failed to get subcategory: %w", err)
		}

		if err := tx.Model(&models.Transaction{}).
			Where("user_id = ? AND subcategory_id = ?", userID, id).
			Update("subcategory_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear transaction subcategories: %w", err)
		}

		if err := tx.Model(&models.MerchantRule{}).
			Where("user_id = ? AND subcategory_id = ?", userID, id).
			Update("subcategory_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear merchant rule subcategories: %w", err)
		}

		if err := tx.Delete(&subcategory).Error; err != nil {
			return fmt.Errorf("failed to delete subcategory: %w", err)
		}
		return nil
	})
}
