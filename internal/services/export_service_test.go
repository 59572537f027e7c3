package services

import (
	"strings"
	"testing"
	"time"

	"expenses-api/internal/database"
	"expenses-api/internal/models"
	"expenses-api/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ExportServiceTestSuite struct {
	suite.Suite
	db           *database.DB
	txRepo       repositories.TransactionRepositoryInterface
	categoryRepo repositories.CategoryRepositoryInterface
	service      ExportServiceInterface
	user         *models.User
}

func (s *ExportServiceTestSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.txRepo = repositories.NewTransactionRepository(s.db.DB)
	s.categoryRepo = repositories.NewCategoryRepository(s.db.DB)
	s.service = NewExportService(s.txRepo, s.categoryRepo)
	s.user = database.CreateTestUser(s.T(), s.db, "test@example.com")
}

func (s *ExportServiceTestSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func TestExportServiceSuite(t *testing.T) {
	suite.Run(t, new(ExportServiceTestSuite))
}

func (s *ExportServiceTestSuite) seedTransactions() *models.Category {
	comida := database.CreateTestCategory(s.T(), s.db, s.user, "Comida")

	s.Require().NoError(s.txRepo.Create(&models.Transaction{
		UserID:      s.user.ID,
		BankType:    "imaginbank",
		Date:        time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Description: "COMPRA MERCADONA",
		Amount:      decimal.RequireFromString("-217.98"),
		CategoryID:  &comida.ID,
	}))
	s.Require().NoError(s.txRepo.Create(&models.Transaction{
		UserID:      s.user.ID,
		BankType:    "openbank",
		Date:        time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
		Description: "NOMINA EMPRESA",
		Amount:      decimal.RequireFromString("2100.50"),
	}))
	return comida
}

func (s *ExportServiceTestSuite) TestExportCSV() {
	s.seedTransactions()

	out, err := s.service.ExportCSV(s.user.ID)
	s.Require().NoError(err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	s.Require().Len(lines, 3)
	s.Equal("Fecha;Concepto;Importe;Saldo;Banco;Categoria;Subcategoria", lines[0])
	s.Equal("01/02/2024;COMPRA MERCADONA;-217,98;;imaginbank;Comida;", lines[1])
	s.Equal("28/02/2024;NOMINA EMPRESA;2100,50;;openbank;;", lines[2])
}

func (s *ExportServiceTestSuite) TestExportCSV_Empty() {
	out, err := s.service.ExportCSV(s.user.ID)
	s.Require().NoError(err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	s.Len(lines, 1)
}

func (s *ExportServiceTestSuite) TestImportCSV_ReimportIsAllDuplicates() {
	s.seedTransactions()

	out, err := s.service.ExportCSV(s.user.ID)
	s.Require().NoError(err)

	result, err := s.service.ImportCSV(s.user.ID, out)
	s.Require().NoError(err)
	s.Equal(2, result.TotalRows)
	s.Zero(result.Imported)
	s.Equal(2, result.Duplicates)
	s.Zero(result.Errors)
}

func (s *ExportServiceTestSuite) TestImportCSV_RestoresIntoFreshAccount() {
	s.seedTransactions()

	out, err := s.service.ExportCSV(s.user.ID)
	s.Require().NoError(err)

	other := database.CreateTestUser(s.T(), s.db, "other@example.com")
	result, err := s.service.ImportCSV(other.ID, out)
	s.Require().NoError(err)
	s.Equal(2, result.Imported)
	s.Zero(result.Duplicates)

	// The category taxonomy is rebuilt from the export
	restored, err := s.categoryRepo.GetByName(other.ID, "Comida")
	s.Require().NoError(err)

	transactions, err := s.txRepo.ListAll(other.ID)
	s.Require().NoError(err)
	s.Require().Len(transactions, 2)
	s.Require().NotNil(transactions[0].CategoryID)
	s.Equal(restored.ID, *transactions[0].CategoryID)
	s.Equal("imaginbank", transactions[0].BankType)
}

func (s *ExportServiceTestSuite) TestImportCSV_NotAnExport() {
	_, err := s.service.ImportCSV(s.user.ID, []byte("esto no es un export\n1;2;3\n"))
	s.Equal(ErrNotAnExport, err)
}

func (s *ExportServiceTestSuite) TestImportCSV_BadRowsAreCounted() {
	content := []byte("Fecha;Concepto;Importe;Saldo;Banco;Categoria;Subcategoria\n" +
		"01/02/2024;COMPRA UNO;-10,00;;imaginbank;;\n" +
		"no-es-fecha;COMPRA ROTA;-5,00;;imaginbank;;\n")

	result, err := s.service.ImportCSV(s.user.ID, content)
	s.Require().NoError(err)
	s.Equal(2, result.TotalRows)
	s.Equal(1, result.Imported)
	s.Equal(1, result.Errors)
	s.Require().Len(result.ErrorDetails, 1)
	s.Equal(3, result.ErrorDetails[0].Row)
	s.Equal("invalid date", result.ErrorDetails[0].Reason)
}
