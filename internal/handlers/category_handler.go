package handlers

import (
	"net/http"

	"expenses-api/internal/dto"
	"expenses-api/internal/errors"
	"expenses-api/internal/models"
	"expenses-api/internal/repositories"

	"github.com/labstack/echo/v4"
)

// CategoryHandler handles category and subcategory management
type CategoryHandler struct {
	categoryRepo repositories.CategoryRepositoryInterface
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryRepo repositories.CategoryRepositoryInterface) *CategoryHandler {
	return &CategoryHandler{categoryRepo: categoryRepo}
}

// ListCategories returns the user's categories with their subcategories
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	categories, err := h.categoryRepo.ListByUser(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewCategoryListResponse(categories))
}

// CreateCategory creates a new category
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	category := &models.Category{
		UserID: userID,
		Name:   req.Name,
	}

	if err := h.categoryRepo.Create(category); err != nil {
		if err == repositories.ErrDuplicateCategory {
			return SendError(c, errors.CategoryAlreadyExists)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.NewCategoryResponse(category))
}

// UpdateCategory renames a category
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	categoryID, err := parseUUIDParam(c.Param("id"))
	if err != nil {
		return SendError(c, errors.CategoryInvalidID)
	}

	var req dto.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	category, err := h.categoryRepo.GetByID(userID, categoryID)
	if err != nil {
		if err == repositories.ErrCategoryNotFound {
			return SendError(c, errors.CategoryNotFound)
		}
		return SendSystemError(c, err)
	}

	category.Name = req.Name
	if err := h.categoryRepo.Update(category); err != nil {
		if err == repositories.ErrDuplicateCategory {
			return SendError(c, errors.CategoryAlreadyExists)
		}
		if err == repositories.ErrCategoryNotFound {
			return SendError(c, errors.CategoryNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewCategoryResponse(category))
}

// DeleteCategory removes a category, its subcategories, and clears the
// categorization of any transactions that referenced it
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	categoryID, err := parseUUIDParam(c.Param("id"))
	if err != nil {
		return SendError(c, errors.CategoryInvalidID)
	}

	if err := h.categoryRepo.Delete(userID, categoryID); err != nil {
		if err == repositories.ErrCategoryNotFound {
			return SendError(c, errors.CategoryNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListSubcategories returns the subcategories of a category
func (h *CategoryHandler) ListSubcategories(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	categoryID, err := parseUUIDParam(c.Param("id"))
	if err != nil {
		return SendError(c, errors.CategoryInvalidID)
	}

	if _, err := h.categoryRepo.GetByID(userID, categoryID); err != nil {
		if err == repositories.ErrCategoryNotFound {
			return SendError(c, errors.CategoryNotFound)
		}
		return SendSystemError(c, err)
	}

	subcategories, err := h.categoryRepo.ListSubcategories(userID, categoryID)
	if err != nil {
		return SendSystemError(c, err)
	}

	items := make([]dto.SubcategoryResponse, 0, len(subcategories))
	for i := range subcategories {
		items = append(items, dto.NewSubcategoryResponse(&subcategories[i]))
	}

	return c.JSON(http.StatusOK, items)
}

// CreateSubcategory creates a new subcategory under a category
func (h *CategoryHandler) CreateSubcategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	categoryID, err := parseUUIDParam(c.Param("id"))
	if err != nil {
		return SendError(c, errors.CategoryInvalidID)
	}

	var req dto.CreateSubcategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	if _, err := h.categoryRepo.GetByID(userID, categoryID); err != nil {
		if err == repositories.ErrCategoryNotFound {
			return SendError(c, errors.CategoryNotFound)
		}
		return SendSystemError(c, err)
	}

	subcategory := &models.Subcategory{
		UserID:     userID,
		CategoryID: categoryID,
		Name:       req.Name,
	}

	if err := h.categoryRepo.CreateSubcategory(subcategory); err != nil {
		if err == repositories.ErrDuplicateSubcategory {
			return SendError(c, errors.SubcategoryAlreadyExists)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.NewSubcategoryResponse(subcategory))
}

// UpdateSubcategory renames a subcategory
func (h *CategoryHandler) UpdateSubcategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	subcategoryID, err := parseUUIDParam(c.Param("id"))
	if err != nil {
		return SendError(c, errors.CategoryInvalidID)
	}

	var req dto.UpdateSubcategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	subcategory, err := h.categoryRepo.GetSubcategoryByID(userID, subcategoryID)
	if err != nil {
		if err == repositories.ErrSubcategoryNotFound {
			return SendError(c, errors.SubcategoryNotFound)
		}
		return SendSystemError(c, err)
	}

	subcategory.Name = req.Name
	if err := h.categoryRepo.UpdateSubcategory(subcategory); err != nil {
		if err == repositories.ErrDuplicateSubcategory {
			return SendError(c, errors.SubcategoryAlreadyExists)
		}
		if err == repositories.ErrSubcategoryNotFound {
			return SendError(c, errors.SubcategoryNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewSubcategoryResponse(subcategory))
}

// DeleteSubcategory removes a subcategory and clears it from any transactions
func (h *CategoryHandler) DeleteSubcategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	subcategoryID, err := parseUUIDParam(c.Param("id"))
	if err != nil {
		return SendError(c, errors.CategoryInvalidID)
	}

	if err := h.categoryRepo.DeleteSubcategory(userID, subcategoryID); err != nil {
		if err == repositories.ErrSubcategoryNotFound {
			return SendError(c, errors.SubcategoryNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// InitDefaults seeds the default category taxonomy, skipping names that
// already exist
func (h *CategoryHandler) InitDefaults(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	created, err := h.categoryRepo.SeedDefaults(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.InitDefaultsResponse{Created: created})
}
