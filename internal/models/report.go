package models

import "github.com/shopspring/decimal"

// CategoryTotal aggregates the expenses booked under one category name.
// Total carries the raw negative sum straight from the database.
type CategoryTotal struct {
	CategoryName string
	Total        decimal.Decimal
	Count        int64
}

// TransactionStats are whole-history counters for one user. TotalExpenses is
// the raw negative sum.
type TransactionStats struct {
	TotalTransactions int64
	TotalIncome       decimal.Decimal
	TotalExpenses     decimal.Decimal
	Uncategorized     int64
}
