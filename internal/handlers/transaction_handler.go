package handlers

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"expenses-api/internal/dto"
	"expenses-api/internal/errors"
	"expenses-api/internal/models"
	"expenses-api/internal/repositories"
	"expenses-api/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

// TransactionHandler handles transaction listing, categorization, bulk
// operations and the CSV backup round trip
type TransactionHandler struct {
	transactionRepo   repositories.TransactionRepositoryInterface
	categoryRepo      repositories.CategoryRepositoryInterface
	categorizeService services.CategorizeServiceInterface
	exportService     services.ExportServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(
	transactionRepo repositories.TransactionRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	categorizeService services.CategorizeServiceInterface,
	exportService services.ExportServiceInterface,
) *TransactionHandler {
	return &TransactionHandler{
		transactionRepo:   transactionRepo,
		categoryRepo:      categoryRepo,
		categorizeService: categorizeService,
		exportService:     exportService,
	}
}

// ListTransactions retrieves a filtered, paginated transaction listing
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.ListTransactionsQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.TransactionInvalidFilter, errors.WithDetails("Invalid query parameters"))
	}
	if err := c.Validate(query); err != nil {
		return err
	}

	filters, err := buildTransactionFilters(userID, &query)
	if err != nil {
		return SendError(c, errors.TransactionInvalidFilter, errors.WithDetails(err.Error()))
	}

	transactions, total, err := h.transactionRepo.GetWithFilters(filters)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewTransactionListResponse(transactions, total, filters.Offset, filters.Limit))
}

// GetTransaction retrieves a single transaction by ID
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := parseUUIDParam(c.Param("id"))
	if err != nil {
		return SendError(c, errors.TransactionInvalidID)
	}

	transaction, err := h.transactionRepo.GetByID(userID, transactionID)
	if err != nil {
		if err == repositories.ErrTransactionNotFound {
			return SendError(c, errors.TransactionNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewTransactionResponse(transaction))
}

// UpdateTransaction assigns or clears a transaction's category. With
// apply_to_all the assignment propagates to every transaction sharing the
// description and is learned as a merchant rule.
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := parseUUIDParam(c.Param("id"))
	if err != nil {
		return SendError(c, errors.TransactionInvalidID)
	}

	var req dto.UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	categoryID, err := parseOptionalUUID(req.CategoryID)
	if err != nil {
		return SendError(c, errors.CategoryInvalidID)
	}
	subcategoryID, err := parseOptionalUUID(req.SubcategoryID)
	if err != nil {
		return SendError(c, errors.CategoryInvalidID)
	}

	if err := h.validateCategorization(userID, categoryID, subcategoryID); err != nil {
		return SendError(c, errors.TransactionInvalidCategory, errors.WithDetails(err.Error()))
	}

	transaction, err := h.transactionRepo.GetByID(userID, transactionID)
	if err != nil {
		if err == repositories.ErrTransactionNotFound {
			return SendError(c, errors.TransactionNotFound)
		}
		return SendSystemError(c, err)
	}

	var applied int64
	if req.ApplyToAll {
		applied, err = h.categorizeService.ApplyToAll(userID, transaction.Description, categoryID, subcategoryID)
		if err != nil {
			return SendSystemError(c, err)
		}
	} else {
		if err := h.transactionRepo.UpdateCategorization(userID, transactionID, categoryID, subcategoryID); err != nil {
			return SendSystemError(c, err)
		}
		if err := h.categorizeService.LearnFromAssignment(userID, transaction.Description, categoryID, subcategoryID); err != nil {
			return SendSystemError(c, err)
		}
		applied = 1
	}

	updated, err := h.transactionRepo.GetByID(userID, transactionID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.UpdateTransactionResponse{
		Transaction: dto.NewTransactionResponse(updated),
		Applied:     applied,
	})
}

// DeleteTransaction removes a single transaction
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := parseUUIDParam(c.Param("id"))
	if err != nil {
		return SendError(c, errors.TransactionInvalidID)
	}

	if err := h.transactionRepo.Delete(userID, transactionID); err != nil {
		if err == repositories.ErrTransactionNotFound {
			return SendError(c, errors.TransactionNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// BulkCategorize assigns one category to a set of transactions. IDs that do
// not exist or belong to another user are skipped silently.
func (h *TransactionHandler) BulkCategorize(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.BulkCategorizeRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	ids, err := parseUUIDList(req.TransactionIDs)
	if err != nil {
		return SendError(c, errors.TransactionInvalidID)
	}

	categoryID, err := parseOptionalUUID(req.CategoryID)
	if err != nil {
		return SendError(c, errors.CategoryInvalidID)
	}
	subcategoryID, err := parseOptionalUUID(req.SubcategoryID)
	if err != nil {
		return SendError(c, errors.CategoryInvalidID)
	}

	if err := h.validateCategorization(userID, categoryID, subcategoryID); err != nil {
		return SendError(c, errors.TransactionInvalidCategory, errors.WithDetails(err.Error()))
	}

	updated, err := h.transactionRepo.BulkCategorize(userID, ids, categoryID, subcategoryID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.BulkCategorizeResponse{
		Message:      fmt.Sprintf("Updated %d transactions", updated),
		UpdatedCount: updated,
	})
}

// BulkDelete removes a set of transactions
func (h *TransactionHandler) BulkDelete(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.BulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	ids, err := parseUUIDList(req.TransactionIDs)
	if err != nil {
		return SendError(c, errors.TransactionInvalidID)
	}

	deleted, err := h.transactionRepo.BulkDelete(userID, ids)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.BulkDeleteResponse{
		Message:      fmt.Sprintf("Deleted %d transactions", deleted),
		DeletedCount: deleted,
	})
}

// UncategorizedCount reports how many transactions still lack a category
func (h *TransactionHandler) UncategorizedCount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	count, err := h.transactionRepo.CountUncategorized(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.UncategorizedCountResponse{Count: count})
}

// Export streams the user's full transaction history as a CSV backup
func (h *TransactionHandler) Export(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	content, err := h.exportService.ExportCSV(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="transactions.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", content)
}

// Import restores transactions from a previously exported CSV backup.
// Re-importing an unmodified export yields only duplicates.
func (h *TransactionHandler) Import(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return SendError(c, errors.UploadNoFiles)
	}

	content, err := readMultipartFile(fh)
	if err != nil {
		return SendSystemError(c, err)
	}

	if len(content) == 0 {
		return SendError(c, errors.UploadEmptyFile)
	}

	result, err := h.exportService.ImportCSV(userID, content)
	if err != nil {
		if stderrors.Is(err, services.ErrNotAnExport) {
			return SendError(c, errors.UploadUnknownFormat,
				errors.WithDetails("The file is not a transaction export"))
		}
		return SendSystemError(c, err)
	}
	result.Filename = fh.Filename

	return c.JSON(http.StatusOK, result)
}

// validateCategorization checks that the referenced category and subcategory
// exist, belong to the user, and belong to each other.
func (h *TransactionHandler) validateCategorization(userID uuid.UUID, categoryID, subcategoryID *uuid.UUID) error {
	if subcategoryID != nil && categoryID == nil {
		return stderrors.New("subcategory_id requires category_id")
	}

	if categoryID != nil {
		if _, err := h.categoryRepo.GetByID(userID, *categoryID); err != nil {
			return stderrors.New("category does not exist")
		}
	}

	if subcategoryID != nil {
		subcategory, err := h.categoryRepo.GetSubcategoryByID(userID, *subcategoryID)
		if err != nil {
			return stderrors.New("subcategory does not exist")
		}
		if subcategory.CategoryID != *categoryID {
			return stderrors.New("subcategory does not belong to the category")
		}
	}

	return nil
}

// buildTransactionFilters maps query parameters onto repository filters
func buildTransactionFilters(userID uuid.UUID, query *dto.ListTransactionsQuery) (models.TransactionFilters, error) {
	filters := models.TransactionFilters{
		UserID:      userID,
		BankType:    query.BankType,
		Type:        query.Type,
		Description: query.Description,
		Offset:      query.Skip,
		Limit:       query.Limit,
	}

	if filters.Limit <= 0 {
		filters.Limit = defaultPageLimit
	}
	if filters.Limit > maxPageLimit {
		filters.Limit = maxPageLimit
	}

	switch query.CategoryID {
	case "":
	case "null":
		filters.Uncategorized = true
	default:
		categoryID, err := uuid.Parse(query.CategoryID)
		if err != nil {
			return filters, stderrors.New("category_id must be a UUID or the literal \"null\"")
		}
		filters.CategoryID = &categoryID
	}

	if query.StartDate != "" {
		startDate, err := time.Parse("2006-01-02", query.StartDate)
		if err != nil {
			return filters, stderrors.New("invalid start_date format, use YYYY-MM-DD")
		}
		filters.StartDate = &startDate
	}

	if query.EndDate != "" {
		endDate, err := time.Parse("2006-01-02", query.EndDate)
		if err != nil {
			return filters, stderrors.New("invalid end_date format, use YYYY-MM-DD")
		}
		// Inclusive end of day
		endOfDay := endDate.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		filters.EndDate = &endOfDay
	}

	return filters, nil
}

func parseUUIDList(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, value := range values {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
