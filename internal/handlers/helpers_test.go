package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expenses-api/internal/database"
	"expenses-api/internal/models"
	"expenses-api/internal/repositories"
	"expenses-api/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// noopMetrics keeps handler tests away from the process-global prometheus
// registry.
type noopMetrics struct{}

func (noopMetrics) IncrementCounter(string, map[string]string) {}
func (noopMetrics) RecordProcessingTime(string, time.Duration) {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// handlerEnv wires real repositories and services over an in-memory database
// so handler tests exercise the full request path.
type handlerEnv struct {
	db   *database.DB
	echo *echo.Echo
	user *models.User

	userRepo        repositories.UserRepositoryInterface
	categoryRepo    repositories.CategoryRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	merchantRepo    repositories.MerchantRuleRepositoryInterface

	categorizeService services.CategorizeServiceInterface
	exportService     services.ExportServiceInterface
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()

	db := database.SetupTestDB(t)
	e := echo.New()
	e.Validator = NewValidator()

	env := &handlerEnv{
		db:              db,
		echo:            e,
		userRepo:        repositories.NewUserRepository(db.DB),
		categoryRepo:    repositories.NewCategoryRepository(db.DB),
		transactionRepo: repositories.NewTransactionRepository(db.DB),
		merchantRepo:    repositories.NewMerchantRuleRepository(db.DB),
	}
	env.categorizeService = services.NewCategorizeService(env.transactionRepo, env.merchantRepo)
	env.exportService = services.NewExportService(env.transactionRepo, env.categoryRepo)

	env.user = &models.User{
		Email:        "ana@example.com",
		PasswordHash: "$2a$12$not.a.real.hash.but.fine.for.tests",
		FirstName:    "Ana",
		LastName:     "García",
		Role:         models.RoleCustomer,
	}
	if err := env.userRepo.Create(env.user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return env
}

func (env *handlerEnv) cleanup(t *testing.T) {
	database.CleanupTestDB(t, env.db)
}

// jsonContext builds an authenticated echo context carrying a JSON body.
func (env *handlerEnv) jsonContext(method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.Set("user_id", env.user.ID)
	return c, rec
}

// multipartContext builds an authenticated echo context carrying file uploads
// under the given form field.
func (env *handlerEnv) multipartContext(target, field string, files map[string][]byte) (echo.Context, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, content := range files {
		part, _ := writer.CreateFormFile(field, name)
		_, _ = part.Write(content)
	}
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.Set("user_id", env.user.ID)
	return c, rec
}

func (env *handlerEnv) createCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	category := &models.Category{UserID: env.user.ID, Name: name}
	if err := env.categoryRepo.Create(category); err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	return category
}

func (env *handlerEnv) createTransaction(t *testing.T, description string, amount string, categoryID *uuid.UUID) *models.Transaction {
	t.Helper()
	transaction := &models.Transaction{
		UserID:      env.user.ID,
		BankType:    "imaginbank",
		Date:        time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Description: description,
		Amount:      mustDecimal(t, amount),
		CategoryID:  categoryID,
	}
	if err := env.transactionRepo.Create(transaction); err != nil {
		t.Fatalf("failed to create transaction: %v", err)
	}
	return transaction
}

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", value, err)
	}
	return d
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse error response: %v", err)
	}
	return resp.Error.Code
}
