package importer

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Minimal xlsx reader for bank statement workbooks. Statements arrive as raw
// bytes, so everything works off a zip.Reader; only the pieces the parsers
// need are decoded: the shared string table and the cell grid of the first
// worksheet.

type xlsxSharedStrings struct {
	Items []xlsxRichText `xml:"si"`
}

// xlsxRichText is a string entry: either a plain <t> or a series of <r> runs.
type xlsxRichText struct {
	Text string    `xml:"t"`
	Runs []xlsxRun `xml:"r"`
}

type xlsxRun struct {
	Text string `xml:"t"`
}

func (rt *xlsxRichText) value() string {
	if len(rt.Runs) == 0 {
		return rt.Text
	}
	var b strings.Builder
	for _, run := range rt.Runs {
		b.WriteString(run.Text)
	}
	return b.String()
}

type xlsxWorksheet struct {
	SheetData struct {
		Rows []xlsxRow `xml:"row"`
	} `xml:"sheetData"`
}

type xlsxRow struct {
	Cells []xlsxCell `xml:"c"`
}

type xlsxCell struct {
	Ref    string        `xml:"r,attr"`
	Type   string        `xml:"t,attr"`
	Value  string        `xml:"v"`
	Inline *xlsxRichText `xml:"is"`
}

// parseXLSXGrid extracts the first worksheet of an xlsx workbook as a string
// grid in row order, with shared strings resolved and column gaps preserved.
func parseXLSXGrid(content []byte) ([][]string, error) {
	archive, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	shared, err := readSharedStrings(archive)
	if err != nil {
		return nil, err
	}

	sheet, err := firstWorksheet(archive)
	if err != nil {
		return nil, err
	}

	grid := make([][]string, 0, len(sheet.SheetData.Rows))
	for _, row := range sheet.SheetData.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			col := columnIndex(cell.Ref)
			if col < 0 {
				col = len(cells)
			}
			for len(cells) <= col {
				cells = append(cells, "")
			}
			cells[col] = cellValue(cell, shared)
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// readSharedStrings returns the workbook's shared string table, or nil when
// the workbook has none (inline-string exports).
func readSharedStrings(archive *zip.Reader) ([]string, error) {
	data, err := readZipFile(archive, "xl/sharedStrings.xml")
	if err != nil || data == nil {
		return nil, err
	}

	var sst xlsxSharedStrings
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil, fmt.Errorf("failed to decode shared strings: %w", err)
	}

	resolved := make([]string, len(sst.Items))
	for i := range sst.Items {
		resolved[i] = sst.Items[i].value()
	}
	return resolved, nil
}

func firstWorksheet(archive *zip.Reader) (*xlsxWorksheet, error) {
	names := make([]string, 0, 1)
	for _, f := range archive.File {
		if strings.HasPrefix(f.Name, "xl/worksheets/sheet") && strings.HasSuffix(f.Name, ".xml") {
			names = append(names, f.Name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("workbook has no worksheets")
	}
	sort.Strings(names)

	data, err := readZipFile(archive, names[0])
	if err != nil {
		return nil, err
	}

	var sheet xlsxWorksheet
	if err := xml.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("failed to decode worksheet: %w", err)
	}
	return &sheet, nil
}

// readZipFile reads one archive entry in full. A missing entry is not an
// error; it reports nil content.
func readZipFile(archive *zip.Reader, name string) ([]byte, error) {
	for _, f := range archive.File {
		if f.Name != name {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, nil
}

func cellValue(cell xlsxCell, shared []string) string {
	switch cell.Type {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(cell.Value))
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return shared[idx]
	case "inlineStr":
		if cell.Inline != nil {
			return cell.Inline.value()
		}
		return ""
	default:
		return cell.Value
	}
}

// columnIndex converts a cell reference like "C12" to a zero-based column
// index. References without a column letter report -1.
func columnIndex(ref string) int {
	col := 0
	seen := false
	for _, r := range ref {
		if r < 'A' || r > 'Z' {
			break
		}
		col = col*26 + int(r-'A') + 1
		seen = true
	}
	if !seen {
		return -1
	}
	return col - 1
}

// xlsxText flattens the first worksheet into a text blob for signature
// scanning. Keyword detection must look at cell values, never at the
// compressed archive bytes. Unreadable workbooks yield nil.
func xlsxText(content []byte, limit int) []byte {
	grid, err := parseXLSXGrid(content)
	if err != nil {
		return nil
	}

	var b bytes.Buffer
	for _, row := range grid {
		for _, cell := range row {
			if cell == "" {
				continue
			}
			b.WriteString(cell)
			b.WriteByte(' ')
		}
		if b.Len() >= limit {
			break
		}
	}
	return head(b.Bytes(), limit)
}
