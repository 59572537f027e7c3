package importer

import (
	"bytes"
	"errors"
)

var (
	// ErrUnknownFormat is returned when no registered format matches a file.
	ErrUnknownFormat = errors.New("unknown bank statement format")
	// ErrUnsupportedContent is returned when the format is recognized but the
	// payload arrived in a content type the parser cannot read (legacy OLE2
	// .xls spreadsheets). The bank's CSV or xlsx export works instead.
	ErrUnsupportedContent = errors.New("statement content type is not parseable")
	// ErrNoRows is returned when a parseable file yields no header or data.
	ErrNoRows = errors.New("no statement rows found")
)

// ContentKind classifies raw file content by its leading bytes.
type ContentKind int

const (
	ContentUnknown ContentKind = iota
	ContentText
	ContentHTML
	ContentOLE2
	ContentZIP
)

var ole2Magic = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}

// DetectContentKind sniffs the content type. HTML disguised under an .xls
// extension is common among Spanish banks, so markup markers are checked
// before assuming plain text.
func DetectContentKind(content []byte) ContentKind {
	if len(content) == 0 {
		return ContentUnknown
	}
	if bytes.HasPrefix(content, ole2Magic) {
		return ContentOLE2
	}
	if bytes.HasPrefix(content, []byte("PK")) {
		return ContentZIP
	}

	sample := bytes.ToLower(head(content, 1000))
	if bytes.Contains(sample, []byte("<!doctype html")) || bytes.Contains(sample, []byte("<html")) {
		return ContentHTML
	}
	return ContentText
}

// head returns the first n bytes without copying past the content length.
func head(content []byte, n int) []byte {
	if len(content) < n {
		return content
	}
	return content[:n]
}

// Signature describes how a format is recognized. A format matches when the
// content kind is allowed and every keyword in at least one group appears in
// the scanned prefix. FilenameHintGroups work the same way over the lowercased
// filename and are only consulted when no content signature matched.
type Signature struct {
	Kinds              []ContentKind
	KeywordGroups      [][]string
	FilenameHintGroups [][]string
}

// CSVRules maps grid columns to transaction fields, for delimited text and
// for spreadsheet cell grids alike. Column indices are zero-based; -1 disables
// a field. When ChargeCol/CreditCol are set the signed amount is credit minus
// charge, otherwise AmountCol is read directly. PlainDecimals switches amount
// parsing from the Spanish display format ("1.234,56") to raw dot-decimal
// values, which is how xlsx cells store numbers.
type CSVRules struct {
	Delimiter      rune
	HeaderKeywords []string
	DateCol        int
	DescriptionCol int
	AmountCol      int
	BalanceCol     int
	ChargeCol      int
	CreditCol      int
	DateLayout     string
	TrimCurrency   string
	PlainDecimals  bool
}

// HTMLRules maps table cells to transaction fields. Rows whose first mapped
// cell is not a date in DateLayout are skipped as non-data rows.
type HTMLRules struct {
	DateCol        int
	DescriptionCol int
	AmountCol      int
	BalanceCol     int
	MinCells       int
	DateLayout     string
}

// FormatDescriptor is one entry of the bank format registry: identity,
// detection signature and parse rules per content kind. Descriptors with no
// rules at all are detectable but not parseable.
type FormatDescriptor struct {
	Tag       string
	Label     string
	Signature Signature
	CSV       *CSVRules
	XLSX      *CSVRules
	HTML      *HTMLRules
}

// Parseable reports whether the descriptor carries parse rules for any
// content kind.
func (d *FormatDescriptor) Parseable() bool {
	return d.CSV != nil || d.XLSX != nil || d.HTML != nil
}
