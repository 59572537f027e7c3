package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"expenses-api/internal/importer"
	"expenses-api/internal/models"
	"expenses-api/internal/repositories"

	"github.com/google/uuid"
)

// exportDateLayout matches the dd/mm/yyyy convention of the bank statements
const exportDateLayout = "02/01/2006"

var exportHeader = []string{"Fecha", "Concepto", "Importe", "Saldo", "Banco", "Categoria", "Subcategoria"}

// ErrNotAnExport is returned when an imported file does not carry the export
// header.
var ErrNotAnExport = errors.New("file is not a transaction export")

// ExportService implements the CSV backup round trip. Exports carry the bank
// type of every transaction so re-imports compute the same dedup hashes, and
// category names so a restore into an empty account rebuilds the taxonomy.
type ExportService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	categoryRepo    repositories.CategoryRepositoryInterface
}

// NewExportService creates a new export service
func NewExportService(
	transactionRepo repositories.TransactionRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
) ExportServiceInterface {
	return &ExportService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
	}
}

// ExportCSV writes every transaction of the user as semicolon-separated CSV,
// oldest first
func (s *ExportService) ExportCSV(userID uuid.UUID) ([]byte, error) {
	transactions, err := s.transactionRepo.ListAll(userID)
	if err != nil {
		return nil, err
	}

	categoryNames, subcategoryNames, err := s.loadTaxonomyNames(userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}

	for i := range transactions {
		t := &transactions[i]

		balance := ""
		if t.Balance != nil {
			balance = spanishAmount(t.Balance.StringFixed(2))
		}
		category, subcategory := "", ""
		if t.CategoryID != nil {
			category = categoryNames[*t.CategoryID]
		}
		if t.SubcategoryID != nil {
			subcategory = subcategoryNames[*t.SubcategoryID]
		}

		record := []string{
			t.Date.Format(exportDateLayout),
			t.Description,
			spanishAmount(t.Amount.StringFixed(2)),
			balance,
			t.BankType,
			category,
			subcategory,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write export row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush export: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportCSV restores transactions from an export file. Rows already present
// count as duplicates; unknown category names are recreated.
func (s *ExportService) ImportCSV(userID uuid.UUID, content []byte) (models.ImportResult, error) {
	result := models.ImportResult{BankType: "export", BankLabel: "Transaction export"}

	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return result, fmt.Errorf("failed to read export file: %w", err)
	}
	if len(records) == 0 || !isExportHeader(records[0]) {
		return result, ErrNotAnExport
	}

	categories := map[string]uuid.UUID{}
	subcategories := map[string]uuid.UUID{}

	for i, record := range records[1:] {
		line := i + 2
		result.TotalRows++

		if len(record) < len(exportHeader) {
			result.AddRowError(line, "wrong number of columns")
			continue
		}

		date, err := time.Parse(exportDateLayout, strings.TrimSpace(record[0]))
		if err != nil {
			result.AddRowError(line, "invalid date")
			continue
		}
		description := models.NormalizeDescription(record[1])
		amount, err := importer.ParseSpanishDecimal(record[2], "")
		if err != nil {
			result.AddRowError(line, "invalid amount")
			continue
		}
		bankType := strings.TrimSpace(record[4])
		if bankType == "" {
			bankType = "export"
		}

		hash := models.ComputeDedupHash(date, description, amount, bankType)
		exists, err := s.transactionRepo.ExistsByDedupHash(userID, hash)
		if err != nil {
			result.AddRowError(line, "failed to check for duplicates")
			continue
		}
		if exists {
			result.Duplicates++
			continue
		}

		transaction := &models.Transaction{
			UserID:      userID,
			BankType:    bankType,
			Date:        date,
			Description: description,
			Amount:      amount,
			DedupHash:   hash,
		}
		if balance, err := importer.ParseSpanishDecimal(record[3], ""); err == nil && strings.TrimSpace(record[3]) != "" {
			transaction.Balance = &balance
		}

		categoryID, subcategoryID, err := s.resolveTaxonomy(userID, record[5], record[6], categories, subcategories)
		if err != nil {
			result.AddRowError(line, "failed to restore category")
			continue
		}
		transaction.CategoryID = categoryID
		transaction.SubcategoryID = subcategoryID

		if err := s.transactionRepo.Create(transaction); err != nil {
			result.AddRowError(line, "failed to store transaction")
			continue
		}
		result.Imported++
	}

	return result, nil
}

func (s *ExportService) loadTaxonomyNames(userID uuid.UUID) (map[uuid.UUID]string, map[uuid.UUID]string, error) {
	categories, err := s.categoryRepo.ListByUser(userID)
	if err != nil {
		return nil, nil, err
	}

	categoryNames := make(map[uuid.UUID]string, len(categories))
	subcategoryNames := map[uuid.UUID]string{}
	for i := range categories {
		categoryNames[categories[i].ID] = categories[i].Name
		for j := range categories[i].Subcategories {
			subcategoryNames[categories[i].Subcategories[j].ID] = categories[i].Subcategories[j].Name
		}
	}
	return categoryNames, subcategoryNames, nil
}

// resolveTaxonomy maps exported category names back to IDs, creating missing
// entries so a restore into a fresh account keeps its categorization.
func (s *ExportService) resolveTaxonomy(userID uuid.UUID, categoryName, subcategoryName string, categories, subcategories map[string]uuid.UUID) (*uuid.UUID, *uuid.UUID, error) {
	categoryName = strings.TrimSpace(categoryName)
	if categoryName == "" {
		return nil, nil, nil
	}

	categoryID, ok := categories[categoryName]
	if !ok {
		category, err := s.categoryRepo.GetByName(userID, categoryName)
		switch {
		case err == nil:
			categoryID = category.ID
		case errors.Is(err, repositories.ErrCategoryNotFound):
			created := &models.Category{UserID: userID, Name: categoryName}
			if err := s.categoryRepo.Create(created); err != nil {
				return nil, nil, err
			}
			categoryID = created.ID
		default:
			return nil, nil, err
		}
		categories[categoryName] = categoryID
	}

	subcategoryName = strings.TrimSpace(subcategoryName)
	if subcategoryName == "" {
		return &categoryID, nil, nil
	}

	subKey := categoryID.String() + "|" + subcategoryName
	subcategoryID, ok := subcategories[subKey]
	if !ok {
		subcategory, err := s.categoryRepo.GetSubcategoryByName(userID, categoryID, subcategoryName)
		switch {
		case err == nil:
			subcategoryID = subcategory.ID
		case errors.Is(err, repositories.ErrSubcategoryNotFound):
			created := &models.Subcategory{UserID: userID, CategoryID: categoryID, Name: subcategoryName}
			if err := s.categoryRepo.CreateSubcategory(created); err != nil {
				return nil, nil, err
			}
			subcategoryID = created.ID
		default:
			return nil, nil, err
		}
		subcategories[subKey] = subcategoryID
	}

	return &categoryID, &subcategoryID, nil
}

func isExportHeader(record []string) bool {
	if len(record) < len(exportHeader) {
		return false
	}
	for i, want := range exportHeader {
		got := strings.TrimSpace(strings.TrimPrefix(record[i], "\ufeff"))
		if !strings.EqualFold(got, want) {
			return false
		}
	}
	return true
}

func spanishAmount(fixed string) string {
	return strings.ReplaceAll(fixed, ".", ",")
}
