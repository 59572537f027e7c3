package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// Row is one parsed statement movement in source order.
type Row struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Balance     *decimal.Decimal
}

// RowIssue records a data row that was recognized but could not be parsed.
// Line numbers are 1-based positions in the source file.
type RowIssue struct {
	Line   int
	Reason string
}

// ParseResult carries the parsed rows plus per-row failures. A bad row never
// aborts the file.
type ParseResult struct {
	Rows   []Row
	Issues []RowIssue
}

// Parse parses content as the format registered under tag.
func (r *Registry) Parse(content []byte, tag string) (*ParseResult, error) {
	d := r.Get(tag)
	if d == nil {
		return nil, ErrUnknownFormat
	}
	return d.Parse(content)
}

// Parse extracts statement rows using the descriptor's rules for the sniffed
// content kind. Legacy OLE2 spreadsheet payloads are not parseable.
func (d *FormatDescriptor) Parse(content []byte) (*ParseResult, error) {
	switch DetectContentKind(content) {
	case ContentHTML:
		if d.HTML != nil {
			return parseHTMLTable(content, d.HTML)
		}
	case ContentText:
		if d.CSV != nil {
			return parseCSV(content, d.CSV)
		}
	case ContentZIP:
		if d.XLSX != nil {
			grid, err := parseXLSXGrid(content)
			if err != nil {
				return nil, err
			}
			return parseGrid(grid, d.XLSX)
		}
	}
	return nil, ErrUnsupportedContent
}

func parseCSV(content []byte, rules *CSVRules) (*ParseResult, error) {
	reader := csv.NewReader(strings.NewReader(decodeText(content)))
	reader.Comma = rules.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read delimited statement: %w", err)
	}

	return parseGrid(records, rules)
}

// parseGrid maps a string grid to statement rows: find the header row by its
// keywords, then read every later row that starts with a parseable date.
func parseGrid(records [][]string, rules *CSVRules) (*ParseResult, error) {
	headerIdx := -1
	for i, rec := range records {
		joined := strings.ToLower(strings.Join(rec, " "))
		if containsAllStrings(joined, rules.HeaderKeywords) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, ErrNoRows
	}

	result := &ParseResult{}
	for i := headerIdx + 1; i < len(records); i++ {
		rec := records[i]
		line := i + 1

		if isBlankRecord(rec) {
			continue
		}

		// Rows without a parseable date are footers or summaries, not errors.
		if rules.DateCol >= len(rec) {
			continue
		}
		date, ok := parseStatementDate(rec[rules.DateCol], rules.DateLayout)
		if !ok {
			continue
		}

		if rules.DescriptionCol >= len(rec) {
			result.Issues = append(result.Issues, RowIssue{Line: line, Reason: "missing description column"})
			continue
		}
		description := strings.Join(strings.Fields(rec[rules.DescriptionCol]), " ")
		if description == "" {
			continue
		}

		amount, err := extractAmount(rec, rules)
		if err != nil {
			result.Issues = append(result.Issues, RowIssue{Line: line, Reason: err.Error()})
			continue
		}

		row := Row{Date: date, Description: description, Amount: amount}
		if rules.BalanceCol >= 0 && rules.BalanceCol < len(rec) {
			if balance, err := parseRuleDecimal(rec[rules.BalanceCol], rules); err == nil {
				row.Balance = &balance
			}
		}

		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

func extractAmount(rec []string, rules *CSVRules) (decimal.Decimal, error) {
	if rules.ChargeCol >= 0 && rules.CreditCol >= 0 {
		charge := decimal.Zero
		credit := decimal.Zero

		if rules.ChargeCol < len(rec) && strings.TrimSpace(rec[rules.ChargeCol]) != "" {
			v, err := parseRuleDecimal(rec[rules.ChargeCol], rules)
			if err != nil {
				return decimal.Zero, fmt.Errorf("invalid charge amount %q", rec[rules.ChargeCol])
			}
			charge = v
		}
		if rules.CreditCol < len(rec) && strings.TrimSpace(rec[rules.CreditCol]) != "" {
			v, err := parseRuleDecimal(rec[rules.CreditCol], rules)
			if err != nil {
				return decimal.Zero, fmt.Errorf("invalid credit amount %q", rec[rules.CreditCol])
			}
			credit = v
		}

		return credit.Sub(charge), nil
	}

	if rules.AmountCol < 0 || rules.AmountCol >= len(rec) {
		return decimal.Zero, fmt.Errorf("missing amount column")
	}
	amount, err := parseRuleDecimal(rec[rules.AmountCol], rules)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", rec[rules.AmountCol])
	}
	return amount, nil
}

func parseRuleDecimal(s string, rules *CSVRules) (decimal.Decimal, error) {
	if rules.PlainDecimals {
		return parsePlainDecimal(s, rules.TrimCurrency)
	}
	return ParseSpanishDecimal(s, rules.TrimCurrency)
}

// parsePlainDecimal parses dot-decimal amounts the way spreadsheet cells
// store them ("-217.98"). Thousands separators never appear in raw cells.
func parsePlainDecimal(s, trimCurrency string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if trimCurrency != "" {
		s = strings.TrimSpace(strings.ReplaceAll(s, trimCurrency, ""))
	}
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(s)
}

// parseStatementDate accepts the format's declared layout plus the two shapes
// spreadsheet cells store dates in: ISO datetimes and Excel serial numbers.
func parseStatementDate(value, layout string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(layout, value); err == nil {
		return t, true
	}
	for _, iso := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(iso, value); err == nil {
			return t, true
		}
	}
	return excelSerialDate(value)
}

// excelSerialDate converts an Excel day count (epoch 1899-12-30) to a date.
// Only serials between 1990 and 2090 qualify, so stray numeric cells in a
// statement never pass as dates.
func excelSerialDate(value string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil || serial < 32874 || serial > 69763 {
		return time.Time{}, false
	}
	epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	return epoch.AddDate(0, 0, int(serial)), true
}

// ParseSpanishDecimal parses amounts in the Spanish bank export format:
// dot as thousands separator, comma as decimal separator, optional currency
// suffix ("1.234,56 EUR" => 1234.56).
func ParseSpanishDecimal(s, trimCurrency string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if trimCurrency != "" {
		s = strings.ReplaceAll(s, trimCurrency, "")
	}
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(s)
}

func isBlankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func containsAllStrings(s string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(s, kw) {
			return false
		}
	}
	return true
}

// decodeText converts statement bytes to a UTF-8 string. Spanish bank exports
// are either UTF-8 or Latin-1; anything that is not valid UTF-8 is decoded as
// ISO 8859-1.
func decodeText(content []byte) string {
	content = bytes.TrimPrefix(content, []byte{0xef, 0xbb, 0xbf})
	if utf8.Valid(content) {
		return string(content)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return string(content)
	}
	return string(decoded)
}
