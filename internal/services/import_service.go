package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"expenses-api/internal/importer"
	"expenses-api/internal/models"
	"expenses-api/internal/repositories"

	"github.com/google/uuid"
)

// ImportService turns uploaded statement files into stored transactions. Each
// file is detected, parsed, deduplicated and auto-categorized independently;
// one bad file never aborts the rest of the batch.
type ImportService struct {
	registry        *importer.Registry
	transactionRepo repositories.TransactionRepositoryInterface
	categorizer     CategorizeServiceInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
	maxFileSize     int64
}

// NewImportService creates a new statement import service
func NewImportService(
	registry *importer.Registry,
	transactionRepo repositories.TransactionRepositoryInterface,
	categorizer CategorizeServiceInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
	maxFileSize int64,
) ImportServiceInterface {
	return &ImportService{
		registry:        registry,
		transactionRepo: transactionRepo,
		categorizer:     categorizer,
		metrics:         metrics,
		logger:          logger,
		maxFileSize:     maxFileSize,
	}
}

// ImportFiles imports a batch of statement files, one result per file
func (s *ImportService) ImportFiles(userID uuid.UUID, files []UploadedFile) []models.ImportResult {
	results := make([]models.ImportResult, 0, len(files))
	for _, file := range files {
		results = append(results, s.importFile(userID, file))
	}
	return results
}

// DetectBank identifies the statement format of a file without importing it
func (s *ImportService) DetectBank(content []byte, filename string) (*importer.FormatDescriptor, bool) {
	return s.registry.Detect(content, filename)
}

// Formats lists the supported statement formats
func (s *ImportService) Formats() []*importer.FormatDescriptor {
	return s.registry.Formats()
}

func (s *ImportService) importFile(userID uuid.UUID, file UploadedFile) models.ImportResult {
	start := time.Now()
	result := models.ImportResult{Filename: file.Filename}

	if len(file.Content) == 0 {
		return s.fail(result, "file is empty")
	}
	if s.maxFileSize > 0 && int64(len(file.Content)) > s.maxFileSize {
		return s.fail(result, fmt.Sprintf("file exceeds the %d byte limit", s.maxFileSize))
	}

	format, err := s.resolveFormat(file)
	if err != nil {
		return s.fail(result, err.Error())
	}
	result.BankType = format.Tag
	result.BankLabel = format.Label
	s.metrics.IncrementCounter("import.bank.detected", map[string]string{"bank_type": format.Tag})

	parsed, err := format.Parse(file.Content)
	if err != nil {
		return s.fail(result, s.parseFailReason(format, err))
	}

	result.TotalRows = len(parsed.Rows) + len(parsed.Issues)
	for _, issue := range parsed.Issues {
		result.AddRowError(issue.Line, issue.Reason)
	}

	for i, row := range parsed.Rows {
		s.importRow(userID, format.Tag, i+1, row, &result)
	}

	s.logger.Info("statement imported",
		"filename", file.Filename,
		"bank_type", format.Tag,
		"imported", result.Imported,
		"duplicates", result.Duplicates,
		"errors", result.Errors)

	s.metrics.IncrementCounter("import.file.processed", map[string]string{
		"bank_type": format.Tag,
		"outcome":   "success",
	})
	s.metrics.RecordProcessingTime("statement.import", time.Since(start))

	return result
}

// resolveFormat honors an explicit bank type from the client and falls back
// to content detection.
func (s *ImportService) resolveFormat(file UploadedFile) (*importer.FormatDescriptor, error) {
	if file.ForcedType != "" {
		format := s.registry.Get(file.ForcedType)
		if format == nil {
			return nil, fmt.Errorf("unknown bank type %q", file.ForcedType)
		}
		return format, nil
	}

	format, ok := s.registry.Detect(file.Content, file.Filename)
	if !ok {
		return nil, errors.New("unknown bank format")
	}
	return format, nil
}

func (s *ImportService) importRow(userID uuid.UUID, bankType string, rowNumber int, row importer.Row, result *models.ImportResult) {
	hash := models.ComputeDedupHash(row.Date, row.Description, row.Amount, bankType)

	exists, err := s.transactionRepo.ExistsByDedupHash(userID, hash)
	if err != nil {
		result.AddRowError(rowNumber, "failed to check for duplicates")
		s.countRow(bankType, "error")
		return
	}
	if exists {
		result.Duplicates++
		s.countRow(bankType, "duplicate")
		return
	}

	categoryID, subcategoryID, err := s.categorizer.Suggest(userID, row.Description)
	if err != nil {
		// Non-critical: the row imports uncategorized
		s.logger.Warn("failed to suggest category",
			"error", err,
			"description", row.Description)
		categoryID, subcategoryID = nil, nil
	}

	transaction := &models.Transaction{
		UserID:        userID,
		BankType:      bankType,
		Date:          row.Date,
		Description:   row.Description,
		Amount:        row.Amount,
		Balance:       row.Balance,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		DedupHash:     hash,
	}
	if err := s.transactionRepo.Create(transaction); err != nil {
		result.AddRowError(rowNumber, "failed to store transaction")
		s.countRow(bankType, "error")
		return
	}

	result.Imported++
	s.countRow(bankType, "imported")
}

func (s *ImportService) fail(result models.ImportResult, reason string) models.ImportResult {
	result.Failed = true
	result.FailReason = reason
	s.metrics.IncrementCounter("import.file.processed", map[string]string{
		"bank_type": result.BankType,
		"outcome":   "failed",
	})
	return result
}

func (s *ImportService) countRow(bankType, outcome string) {
	s.metrics.IncrementCounter("import.row.processed", map[string]string{
		"bank_type": bankType,
		"outcome":   outcome,
	})
}

func (s *ImportService) parseFailReason(format *importer.FormatDescriptor, err error) string {
	switch {
	case errors.Is(err, importer.ErrUnsupportedContent):
		return fmt.Sprintf("%s statements in this file format are not supported", format.Label)
	case errors.Is(err, importer.ErrNoRows):
		return "no transaction rows found in the file"
	default:
		return "malformed statement file"
	}
}
