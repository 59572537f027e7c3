package importer

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// XLSXTestSuite defines the test suite for xlsx statement workbooks
type XLSXTestSuite struct {
	suite.Suite
	registry *Registry
}

func (s *XLSXTestSuite) SetupTest() {
	s.registry = DefaultRegistry()
}

// TestXLSXTestSuite runs the test suite
func TestXLSXTestSuite(t *testing.T) {
	suite.Run(t, new(XLSXTestSuite))
}

// buildWorkbook assembles a minimal xlsx archive from a cell grid. Numeric
// cells are written as raw values, everything else through the shared string
// table, matching what the banks' exports look like.
func (s *XLSXTestSuite) buildWorkbook(rows [][]string) []byte {
	var shared []string
	sharedIdx := make(map[string]int)

	var sheet strings.Builder
	sheet.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>`)
	for i, row := range rows {
		fmt.Fprintf(&sheet, `<row r="%d">`, i+1)
		for j, cell := range row {
			if cell == "" {
				continue
			}
			ref := fmt.Sprintf("%s%d", columnName(j), i+1)
			if _, err := strconv.ParseFloat(cell, 64); err == nil {
				fmt.Fprintf(&sheet, `<c r="%s"><v>%s</v></c>`, ref, cell)
				continue
			}
			idx, seen := sharedIdx[cell]
			if !seen {
				idx = len(shared)
				sharedIdx[cell] = idx
				shared = append(shared, cell)
			}
			fmt.Fprintf(&sheet, `<c r="%s" t="s"><v>%d</v></c>`, ref, idx)
		}
		sheet.WriteString(`</row>`)
	}
	sheet.WriteString(`</sheetData></worksheet>`)

	var sst strings.Builder
	sst.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">`)
	for _, v := range shared {
		sst.WriteString("<si><t>")
		sst.WriteString(escapeXML(v))
		sst.WriteString("</t></si>")
	}
	sst.WriteString(`</sst>`)

	return s.buildArchive(map[string]string{
		"xl/sharedStrings.xml":     sst.String(),
		"xl/worksheets/sheet1.xml": sheet.String(),
	})
}

func (s *XLSXTestSuite) buildArchive(files map[string]string) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		s.Require().NoError(err)
		_, err = w.Write([]byte(data))
		s.Require().NoError(err)
	}
	s.Require().NoError(zw.Close())
	return buf.Bytes()
}

func escapeXML(v string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(v))
	return buf.String()
}

func columnName(idx int) string {
	name := ""
	for idx >= 0 {
		name = string(rune('A'+idx%26)) + name
		idx = idx/26 - 1
	}
	return name
}

// Workbooks carry no usable filename hints when pasted through the browser,
// so detection has to work from the decompressed sheet text alone.
func (s *XLSXTestSuite) TestDetect_KutxabankAccountWorkbookByContent() {
	content := s.buildWorkbook([][]string{
		{"Movimientos de cuenta"},
		{"Fecha", "Concepto", "Fecha valor", "Importe", "Saldo"},
		{"01/02/2024", "COMPRA MERCADONA", "01/02/2024", "-217.98", "1500"},
	})

	format, ok := s.registry.Detect(content, "")
	s.Require().True(ok)
	s.Equal(TagKutxabankAccount, format.Tag)
}

func (s *XLSXTestSuite) TestDetect_KutxabankCardWorkbookByContent() {
	content := s.buildWorkbook([][]string{
		{"Información de movimientos de tarjetas"},
		{"Fecha", "Concepto", "Fecha valor", "Importe"},
	})

	format, ok := s.registry.Detect(content, "")
	s.Require().True(ok)
	s.Equal(TagKutxabankCard, format.Tag)
}

func (s *XLSXTestSuite) TestDetect_BBVAWorkbookByContent() {
	content := s.buildWorkbook([][]string{
		{"Últimos movimientos"},
		{"Fecha", "F.Valor", "Concepto", "Importe", "Disponible"},
	})

	format, ok := s.registry.Detect(content, "descarga.xlsx")
	s.Require().True(ok)
	s.Equal(TagBBVA, format.Tag)
}

func (s *XLSXTestSuite) TestParse_KutxabankAccountWorkbook() {
	// 45323 and 45350 are the Excel serials for 01/02/2024 and 28/02/2024;
	// real exports mix serial and text dates depending on cell formatting.
	content := s.buildWorkbook([][]string{
		{"Movimientos de cuenta"},
		{"Fecha", "Concepto", "Fecha valor", "Importe", "Saldo"},
		{"45323", "COMPRA MERCADONA", "45323", "-217.98", "1500"},
		{"28/02/2024", "NOMINA EMPRESA", "28/02/2024", "2100.5", "3600.52"},
	})

	result, err := s.registry.Parse(content, TagKutxabankAccount)
	s.Require().NoError(err)
	s.Require().Len(result.Rows, 2)
	s.Empty(result.Issues)

	first := result.Rows[0]
	s.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), first.Date)
	s.Equal("COMPRA MERCADONA", first.Description)
	s.True(first.Amount.Equal(decimal.RequireFromString("-217.98")))
	s.Require().NotNil(first.Balance)
	s.True(first.Balance.Equal(decimal.RequireFromString("1500")))

	second := result.Rows[1]
	s.Equal(time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), second.Date)
	s.True(second.Amount.Equal(decimal.RequireFromString("2100.5")))
}

func (s *XLSXTestSuite) TestParse_KutxabankCardWorkbook() {
	content := s.buildWorkbook([][]string{
		{"Información de movimientos de tarjetas"},
		{"Fecha", "Concepto", "Fecha valor", "Importe"},
		{"10/04/2024", "GASOLINERA REPSOL", "10/04/2024", "-45"},
	})

	result, err := s.registry.Parse(content, TagKutxabankCard)
	s.Require().NoError(err)
	s.Require().Len(result.Rows, 1)
	s.Equal("GASOLINERA REPSOL", result.Rows[0].Description)
	s.True(result.Rows[0].Amount.Equal(decimal.RequireFromString("-45")))
	s.Nil(result.Rows[0].Balance)
}

func (s *XLSXTestSuite) TestParse_WorkbookFooterRowsSkipped() {
	content := s.buildWorkbook([][]string{
		{"Movimientos de cuenta"},
		{"Fecha", "Concepto", "Fecha valor", "Importe", "Saldo"},
		{"05/03/2024", "RECIBO LUZ", "05/03/2024", "-84.2", "915.8"},
		{"Saldo final", "", "", "", "915.8"},
	})

	result, err := s.registry.Parse(content, TagKutxabankAccount)
	s.Require().NoError(err)
	s.Len(result.Rows, 1)
	s.Empty(result.Issues)
}

func (s *XLSXTestSuite) TestParse_BBVAWorkbookUnsupported() {
	content := s.buildWorkbook([][]string{
		{"Últimos movimientos"},
		{"Fecha", "F.Valor", "Concepto", "Importe", "Disponible"},
		{"01/02/2024", "01/02/2024", "COMPRA", "-10", "990"},
	})

	_, err := s.registry.Parse(content, TagBBVA)
	s.ErrorIs(err, ErrUnsupportedContent)
}

func (s *XLSXTestSuite) TestParse_CorruptArchive() {
	content := []byte("PK\x03\x04this is not a zip archive")

	_, err := s.registry.Parse(content, TagKutxabankAccount)
	s.Error(err)
}

func (s *XLSXTestSuite) TestParseXLSXGrid_InlineStringsAndGaps() {
	// Inline-string workbooks carry no shared string table; the C1 reference
	// leaves a hole at column B that must stay addressable.
	sheet := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>` +
		`<row r="1"><c r="A1" t="inlineStr"><is><t>Fecha</t></is></c>` +
		`<c r="C1" t="inlineStr"><is><t>Importe</t></is></c></row>` +
		`<row r="2"><c r="A2" t="inlineStr"><is><t>01/02/2024</t></is></c><c r="C2"><v>-5</v></c></row>` +
		`</sheetData></worksheet>`
	content := s.buildArchive(map[string]string{"xl/worksheets/sheet1.xml": sheet})

	grid, err := parseXLSXGrid(content)
	s.Require().NoError(err)
	s.Require().Len(grid, 2)
	s.Equal([]string{"Fecha", "", "Importe"}, grid[0])
	s.Equal([]string{"01/02/2024", "", "-5"}, grid[1])
}

func (s *XLSXTestSuite) TestParseStatementDate() {
	testCases := []struct {
		name     string
		input    string
		expected time.Time
		ok       bool
	}{
		{"layout", "01/02/2024", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{"iso datetime", "2024-02-01T00:00:00", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{"excel serial", "45323", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{"serial out of range", "100", time.Time{}, false},
		{"garbage", "saldo", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			got, ok := parseStatementDate(tc.input, spanishDateLayout)
			s.Equal(tc.ok, ok)
			if tc.ok {
				s.Equal(tc.expected, got)
			}
		})
	}
}
