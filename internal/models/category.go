package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCategoryNameRequired    = errors.New("category name is required")
	ErrSubcategoryNameRequired = errors.New("subcategory name is required")
)

// DefaultCategoryNames is the taxonomy seeded by the init-default operation.
var DefaultCategoryNames = []string{
	"Hipoteca", "Coche", "Gasolina", "Parking", "Comida",
	"Niños", "Cumpleaños", "Préstamos", "Suministros",
	"Colegio", "Salud", "IBI",
}

// Category is a user-owned transaction category. Names are unique per user
// (case-sensitive). Deleting a category removes its subcategories and
// un-categorizes every transaction referencing it.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name" json:"user_id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_user_name" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Subcategories []Subcategory `gorm:"foreignKey:CategoryID" json:"subcategories,omitempty"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	return c.Validate()
}

func (c *Category) Validate() error {
	if c.Name == "" {
		return ErrCategoryNameRequired
	}
	if c.UserID == uuid.Nil {
		return errors.New("category owner is required")
	}
	return nil
}

func (c *Category) TableName() string {
	return "categories"
}

// Subcategory is exclusively owned by its category and cannot outlive it.
// Deleting a subcategory nulls the reference on any transaction using it.
type Subcategory struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subcategories_category_name" json:"category_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_subcategories_category_name" json:"name"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (s *Subcategory) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}

	return s.Validate()
}

func (s *Subcategory) Validate() error {
	if s.Name == "" {
		return ErrSubcategoryNameRequired
	}
	if s.CategoryID == uuid.Nil {
		return errors.New("owning category is required")
	}
	return nil
}

func (s *Subcategory) TableName() string {
	return "subcategories"
}
