package models

// MaxImportErrorDetails bounds the per-file row error sample returned to the
// client; the full count is always reported.
const MaxImportErrorDetails = 10

// RowError describes a single statement row that could not be imported.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult summarizes the outcome of importing a single statement file.
// A batch upload returns one result per file; failures are per-file and never
// abort the sibling files.
type ImportResult struct {
	Filename     string     `json:"filename"`
	BankType     string     `json:"bank_type,omitempty"`
	BankLabel    string     `json:"bank_label,omitempty"`
	TotalRows    int        `json:"total_rows"`
	Imported     int        `json:"imported"`
	Duplicates   int        `json:"duplicates"`
	Errors       int        `json:"errors"`
	ErrorDetails []RowError `json:"error_details,omitempty"`
	Failed       bool       `json:"failed"`
	FailReason   string     `json:"fail_reason,omitempty"`
}

// AddRowError counts a row failure, keeping at most MaxImportErrorDetails
// samples.
func (r *ImportResult) AddRowError(row int, reason string) {
	r.Errors++
	if len(r.ErrorDetails) < MaxImportErrorDetails {
		r.ErrorDetails = append(r.ErrorDetails, RowError{Row: row, Reason: reason})
	}
}
