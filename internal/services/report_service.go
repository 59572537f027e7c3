package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"expenses-api/internal/dto"
	"expenses-api/internal/models"
	"expenses-api/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultReportMonths  = 12
	defaultSummaryMonths = 6
	defaultTopExpenses   = 10
)

// ReportService aggregates transaction history into spending reports
type ReportService struct {
	transactionRepo repositories.TransactionRepositoryInterface
}

// NewReportService creates a new report service
func NewReportService(transactionRepo repositories.TransactionRepositoryInterface) ReportServiceInterface {
	return &ReportService{transactionRepo: transactionRepo}
}

// Monthly breaks the last months of history into per-month income, expenses
// and balance, oldest month first. The window is months * 30 days back from
// now, so a partial first month is expected.
func (s *ReportService) Monthly(userID uuid.UUID, months int) ([]dto.MonthlyReport, error) {
	if months <= 0 {
		months = defaultReportMonths
	}
	since := time.Now().UTC().AddDate(0, 0, -months*30)

	transactions, _, err := s.transactionRepo.GetWithFilters(models.TransactionFilters{
		UserID:    userID,
		StartDate: &since,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for monthly report: %w", err)
	}

	buckets := make(map[string]*dto.MonthlyReport)
	for i := range transactions {
		t := &transactions[i]
		month := t.Date.Format("2006-01")
		report, ok := buckets[month]
		if !ok {
			report = &dto.MonthlyReport{Month: month}
			buckets[month] = report
		}
		if t.Amount.IsPositive() {
			report.TotalIncome = report.TotalIncome.Add(t.Amount)
		} else {
			report.TotalExpenses = report.TotalExpenses.Add(t.Amount.Abs())
		}
	}

	reports := make([]dto.MonthlyReport, 0, len(buckets))
	for _, report := range buckets {
		report.Balance = report.TotalIncome.Sub(report.TotalExpenses)
		reports = append(reports, *report)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Month < reports[j].Month })
	return reports, nil
}

// ByCategory totals expenses per category within the optional date range,
// biggest spender first, with each category's share of the categorized total.
func (s *ReportService) ByCategory(userID uuid.UUID, start, end *time.Time) ([]dto.CategoryReport, error) {
	totals, err := s.transactionRepo.CategoryTotals(userID, start, end)
	if err != nil {
		return nil, err
	}

	grandTotal := decimal.Zero
	for _, total := range totals {
		grandTotal = grandTotal.Add(total.Total.Abs())
	}

	reports := make([]dto.CategoryReport, 0, len(totals))
	for _, total := range totals {
		report := dto.CategoryReport{
			CategoryName: total.CategoryName,
			Total:        total.Total.Abs(),
			Count:        total.Count,
		}
		if grandTotal.IsPositive() {
			share, _ := report.Total.Div(grandTotal).Mul(decimal.NewFromInt(100)).Float64()
			report.Percentage = math.Round(share*100) / 100
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// TopExpenses ranks the largest expenses within the optional date range
func (s *ReportService) TopExpenses(userID uuid.UUID, limit int, start, end *time.Time) ([]dto.TransactionResponse, error) {
	if limit <= 0 {
		limit = defaultTopExpenses
	}

	transactions, err := s.transactionRepo.TopExpenses(userID, limit, start, end)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TransactionResponse, 0, len(transactions))
	for i := range transactions {
		responses = append(responses, dto.NewTransactionResponse(&transactions[i]))
	}
	return responses, nil
}

// Summary bundles the monthly, category and top-expense reports over one
// shared window for the dashboard.
func (s *ReportService) Summary(userID uuid.UUID, months int) (*dto.ReportSummary, error) {
	if months <= 0 {
		months = defaultSummaryMonths
	}
	since := time.Now().UTC().AddDate(0, 0, -months*30)

	monthly, err := s.Monthly(userID, months)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.ByCategory(userID, &since, nil)
	if err != nil {
		return nil, err
	}
	topExpenses, err := s.TopExpenses(userID, defaultTopExpenses, &since, nil)
	if err != nil {
		return nil, err
	}

	return &dto.ReportSummary{
		MonthlyReports:  monthly,
		CategoryReports: byCategory,
		TopExpenses:     topExpenses,
	}, nil
}

// Stats reports whole-history counters
func (s *ReportService) Stats(userID uuid.UUID) (*dto.StatsResponse, error) {
	stats, err := s.transactionRepo.Stats(userID)
	if err != nil {
		return nil, err
	}

	return &dto.StatsResponse{
		TotalTransactions: stats.TotalTransactions,
		TotalIncome:       stats.TotalIncome,
		TotalExpenses:     stats.TotalExpenses.Abs(),
		Balance:           stats.TotalIncome.Add(stats.TotalExpenses),
		Uncategorized:     stats.Uncategorized,
	}, nil
}
