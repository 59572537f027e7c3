package dto

import "github.com/shopspring/decimal"

// Report Request DTOs

// MonthlyReportQuery selects how many months of history to aggregate
type MonthlyReportQuery struct {
	Months int `query:"months" validate:"omitempty,min=1,max=120"`
}

// CategoryReportQuery bounds the aggregation window. Dates use YYYY-MM-DD.
type CategoryReportQuery struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

// TopExpensesQuery bounds the ranking window and size
type TopExpensesQuery struct {
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=100"`
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

// Report Response DTOs

// MonthlyReport totals one calendar month. Expenses are reported as positive
// magnitudes; Balance is income minus expenses.
type MonthlyReport struct {
	Month         string          `json:"month"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Balance       decimal.Decimal `json:"balance"`
}

// CategoryReport totals the expenses of one category. Percentage is the
// category's share of all categorized expenses in the window, rounded to two
// decimals.
type CategoryReport struct {
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
	Count        int64           `json:"count"`
	Percentage   float64         `json:"percentage"`
}

// ReportSummary bundles the dashboard reports in one response
type ReportSummary struct {
	MonthlyReports  []MonthlyReport       `json:"monthly_reports"`
	CategoryReports []CategoryReport      `json:"category_reports"`
	TopExpenses     []TransactionResponse `json:"top_expenses"`
}

// StatsResponse carries whole-history counters. Expenses are reported as a
// positive magnitude.
type StatsResponse struct {
	TotalTransactions int64           `json:"total_transactions"`
	TotalIncome       decimal.Decimal `json:"total_income"`
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
	Balance           decimal.Decimal `json:"balance"`
	Uncategorized     int64           `json:"uncategorized"`
}
