package handlers

import (
	stderrors "errors"
	"net/http"
	"time"

	"expenses-api/internal/dto"
	"expenses-api/internal/errors"
	"expenses-api/internal/services"

	"github.com/labstack/echo/v4"
)

// ReportHandler serves spending reports over the transaction history
type ReportHandler struct {
	reportService services.ReportServiceInterface
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService services.ReportServiceInterface) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Monthly returns per-month income, expenses and balance
func (h *ReportHandler) Monthly(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.MonthlyReportQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.TransactionInvalidFilter, errors.WithDetails("Invalid query parameters"))
	}
	if err := c.Validate(query); err != nil {
		return err
	}

	reports, err := h.reportService.Monthly(userID, query.Months)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, reports)
}

// ByCategory returns expense totals per category within an optional window
func (h *ReportHandler) ByCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.CategoryReportQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.TransactionInvalidFilter, errors.WithDetails("Invalid query parameters"))
	}

	start, end, err := parseReportDateRange(query.StartDate, query.EndDate)
	if err != nil {
		return SendError(c, errors.TransactionInvalidFilter, errors.WithDetails(err.Error()))
	}

	reports, err := h.reportService.ByCategory(userID, start, end)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, reports)
}

// TopExpenses returns the largest expenses within an optional window
func (h *ReportHandler) TopExpenses(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.TopExpensesQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.TransactionInvalidFilter, errors.WithDetails("Invalid query parameters"))
	}
	if err := c.Validate(query); err != nil {
		return err
	}

	start, end, err := parseReportDateRange(query.StartDate, query.EndDate)
	if err != nil {
		return SendError(c, errors.TransactionInvalidFilter, errors.WithDetails(err.Error()))
	}

	expenses, err := h.reportService.TopExpenses(userID, query.Limit, start, end)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, expenses)
}

// Summary returns the bundled dashboard reports
func (h *ReportHandler) Summary(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.MonthlyReportQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.TransactionInvalidFilter, errors.WithDetails("Invalid query parameters"))
	}
	if err := c.Validate(query); err != nil {
		return err
	}

	summary, err := h.reportService.Summary(userID, query.Months)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

// Stats returns whole-history counters
func (h *ReportHandler) Stats(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	stats, err := h.reportService.Stats(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, stats)
}

// parseReportDateRange turns optional YYYY-MM-DD bounds into time values,
// stretching the end bound to the end of its day.
func parseReportDateRange(startValue, endValue string) (*time.Time, *time.Time, error) {
	var start, end *time.Time

	if startValue != "" {
		parsed, err := time.Parse("2006-01-02", startValue)
		if err != nil {
			return nil, nil, stderrors.New("invalid start_date format, use YYYY-MM-DD")
		}
		start = &parsed
	}
	if endValue != "" {
		parsed, err := time.Parse("2006-01-02", endValue)
		if err != nil {
			return nil, nil, stderrors.New("invalid end_date format, use YYYY-MM-DD")
		}
		endOfDay := parsed.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		end = &endOfDay
	}

	return start, end, nil
}
