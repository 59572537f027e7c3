package services

import (
	"time"

	"expenses-api/internal/dto"
	"expenses-api/internal/importer"
	"expenses-api/internal/models"

	"github.com/google/uuid"
)

// AuthServiceInterface defines the contract for authentication operations
type AuthServiceInterface interface {
	Register(req *dto.RegisterRequest) (*models.User, error)
	Login(req *dto.LoginRequest) (*dto.TokenResponse, error)
}

// TokenServiceInterface defines the contract for JWT handling
type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
}

// PasswordServiceInterface defines the contract for password handling
type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
}

// CategorizeServiceInterface defines the contract for automatic transaction
// categorization. Suggestions come from the user's own history: an exact
// description match first, then a learned merchant rule.
type CategorizeServiceInterface interface {
	Suggest(userID uuid.UUID, description string) (categoryID, subcategoryID *uuid.UUID, err error)
	LearnFromAssignment(userID uuid.UUID, description string, categoryID, subcategoryID *uuid.UUID) error
	ApplyToAll(userID uuid.UUID, description string, categoryID, subcategoryID *uuid.UUID) (int64, error)
}

// UploadedFile is a statement file received from the client. ForcedType, when
// set, names a registered bank format and skips content detection.
type UploadedFile struct {
	Filename   string
	Content    []byte
	ForcedType string
}

// ImportServiceInterface defines the contract for statement imports
type ImportServiceInterface interface {
	// ImportFiles imports a batch of statement files. Each file yields one
	// result; a failing file never aborts its siblings.
	ImportFiles(userID uuid.UUID, files []UploadedFile) []models.ImportResult
	DetectBank(content []byte, filename string) (*importer.FormatDescriptor, bool)
	Formats() []*importer.FormatDescriptor
}

// ReportServiceInterface defines the contract for spending reports. Date
// bounds are optional; nil means unbounded.
type ReportServiceInterface interface {
	Monthly(userID uuid.UUID, months int) ([]dto.MonthlyReport, error)
	ByCategory(userID uuid.UUID, start, end *time.Time) ([]dto.CategoryReport, error)
	TopExpenses(userID uuid.UUID, limit int, start, end *time.Time) ([]dto.TransactionResponse, error)
	Summary(userID uuid.UUID, months int) (*dto.ReportSummary, error)
	Stats(userID uuid.UUID) (*dto.StatsResponse, error)
}

// ExportServiceInterface defines the contract for the CSV backup round trip.
// ImportCSV accepts exactly what ExportCSV produces; re-importing an export
// yields only duplicates.
type ExportServiceInterface interface {
	ExportCSV(userID uuid.UUID) ([]byte, error)
	ImportCSV(userID uuid.UUID, content []byte) (models.ImportResult, error)
}

// MetricsRecorderInterface abstracts the metrics backend so services stay
// testable without touching the process-global prometheus registry.
type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
}
