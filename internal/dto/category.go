package dto

import (
	"time"

	"expenses-api/internal/models"
)

// Category Request DTOs

// CreateCategoryRequest creates a new category
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,category_name"`
}

// UpdateCategoryRequest renames a category
type UpdateCategoryRequest struct {
	Name string `json:"name" validate:"required,category_name"`
}

// CreateSubcategoryRequest creates a new subcategory under a category
type CreateSubcategoryRequest struct {
	Name string `json:"name" validate:"required,category_name"`
}

// UpdateSubcategoryRequest renames a subcategory
type UpdateSubcategoryRequest struct {
	Name string `json:"name" validate:"required,category_name"`
}

// Category Response DTOs

// SubcategoryResponse represents a subcategory
type SubcategoryResponse struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"category_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CategoryResponse represents a category with its subcategories
type CategoryResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Subcategories []SubcategoryResponse `json:"subcategories"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// InitDefaultsResponse reports how many default categories were created
type InitDefaultsResponse struct {
	Created int `json:"created"`
}

// NewSubcategoryResponse maps a subcategory model to its response shape
func NewSubcategoryResponse(s *models.Subcategory) SubcategoryResponse {
	return SubcategoryResponse{
		ID:         s.ID.String(),
		CategoryID: s.CategoryID.String(),
		Name:       s.Name,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// NewCategoryResponse maps a category model to its response shape
func NewCategoryResponse(c *models.Category) CategoryResponse {
	subcategories := make([]SubcategoryResponse, 0, len(c.Subcategories))
	for i := range c.Subcategories {
		subcategories = append(subcategories, NewSubcategoryResponse(&c.Subcategories[i]))
	}
	return CategoryResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		Subcategories: subcategories,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// NewCategoryListResponse maps a list of categories
func NewCategoryListResponse(categories []models.Category) []CategoryResponse {
	items := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, NewCategoryResponse(&categories[i]))
	}
	return items
}
