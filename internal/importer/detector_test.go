package importer

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// DetectorTestSuite defines the test suite for format detection
type DetectorTestSuite struct {
	suite.Suite
	registry *Registry
}

func (s *DetectorTestSuite) SetupTest() {
	s.registry = DefaultRegistry()
}

// TestDetectorTestSuite runs the test suite
func TestDetectorTestSuite(t *testing.T) {
	suite.Run(t, new(DetectorTestSuite))
}

func (s *DetectorTestSuite) TestDetect_OpenbankHTML() {
	content := []byte(`<html><body><table>
<tr><td>Fecha Operación</td><td>Fecha Valor</td><td>Concepto</td><td>Importe</td><td>Saldo</td></tr>
<tr><td>01/02/2024</td><td>01/02/2024</td><td>COMPRA SUPERMERCADO</td><td>-12,50</td><td>1.000,00</td></tr>
</table></body></html>`)

	format, ok := s.registry.Detect(content, "movimientos.xls")
	s.True(ok)
	s.Equal(TagOpenbank, format.Tag)
}

func (s *DetectorTestSuite) TestDetect_OpenbankByBrandName() {
	content := []byte(`<!DOCTYPE html><html><head><title>Openbank</title></head><body></body></html>`)

	format, ok := s.registry.Detect(content, "")
	s.True(ok)
	s.Equal(TagOpenbank, format.Tag)
}

func (s *DetectorTestSuite) TestDetect_ImaginbankCSV() {
	content := []byte("Concepto;Fecha;Importe;Saldo\nCOMPRA;01/02/2024;-217,98 EUR;1.500,00 EUR\n")

	format, ok := s.registry.Detect(content, "export.csv")
	s.True(ok)
	s.Equal(TagImaginbank, format.Tag)
}

func (s *DetectorTestSuite) TestDetect_KutxabankAccountCSV() {
	content := []byte("Movimientos de cuenta\nFecha;Concepto;Fecha valor;Importe;Saldo\n01/02/2024;NOMINA;01/02/2024;1.200,00;2.000,00\n")

	format, ok := s.registry.Detect(content, "")
	s.True(ok)
	s.Equal(TagKutxabankAccount, format.Tag)
}

func (s *DetectorTestSuite) TestDetect_KutxabankCardCSV() {
	content := []byte("Información de movimientos de tarjetas\nFecha;Concepto;Fecha valor;Importe\n01/02/2024;COMPRA;01/02/2024;-30,00\n")

	format, ok := s.registry.Detect(content, "")
	s.True(ok)
	s.Equal(TagKutxabankCard, format.Tag)
}

func (s *DetectorTestSuite) TestDetect_BinaryXLSByFilename() {
	// OLE2 magic with opaque content: only the filename identifies the bank.
	content := append([]byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}, make([]byte, 64)...)

	testCases := []struct {
		filename string
		expected string
	}{
		{"kutxabank_cuenta.xls", TagKutxabankAccount},
		{"kutxa_tarjeta_enero.xls", TagKutxabankCard},
		{"bbva_movimientos.xlsx", TagBBVA},
		{"extracto_ing.xls", TagING},
	}

	for _, tc := range testCases {
		s.Run(tc.filename, func() {
			format, ok := s.registry.Detect(content, tc.filename)
			s.True(ok)
			s.Equal(tc.expected, format.Tag)
		})
	}
}

func (s *DetectorTestSuite) TestDetect_CardHintWinsOverAccount() {
	content := append([]byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}, make([]byte, 16)...)

	format, ok := s.registry.Detect(content, "kutxabank_card.xls")
	s.True(ok)
	s.Equal(TagKutxabankCard, format.Tag)
}

func (s *DetectorTestSuite) TestDetect_UnknownContent() {
	content := []byte("some,unrelated,csv\n1,2,3\n")

	_, ok := s.registry.Detect(content, "random.csv")
	s.False(ok)
}

func (s *DetectorTestSuite) TestDetect_EmptyContent() {
	_, ok := s.registry.Detect(nil, "")
	s.False(ok)
}

func (s *DetectorTestSuite) TestDetect_FirstMatchWins() {
	// HTML content naming both Openbank headers and an ING keyword resolves
	// to the earlier registration.
	content := []byte(`<html><table><tr><td>fecha operación</td><td>fecha valor</td><td>concepto</td></tr></table>ventajas ing</html>`)

	format, ok := s.registry.Detect(content, "")
	s.True(ok)
	s.Equal(TagOpenbank, format.Tag)
}

func (s *DetectorTestSuite) TestDetectContentKind() {
	testCases := []struct {
		name     string
		content  []byte
		expected ContentKind
	}{
		{"OLE2", []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1, 0x00}, ContentOLE2},
		{"ZIP", []byte("PK\x03\x04rest"), ContentZIP},
		{"HTML doctype", []byte("<!DOCTYPE html><html></html>"), ContentHTML},
		{"HTML tag", []byte("  <HTML><body></body></HTML>"), ContentHTML},
		{"plain text", []byte("Fecha;Concepto;Importe"), ContentText},
		{"empty", nil, ContentUnknown},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, DetectContentKind(tc.content))
		})
	}
}

func (s *DetectorTestSuite) TestRegister_DuplicateTagPanics() {
	r := NewRegistry()
	r.Register(&FormatDescriptor{Tag: "dup", Label: "Dup"})
	s.Panics(func() {
		r.Register(&FormatDescriptor{Tag: "dup", Label: "Dup Again"})
	})
}

func (s *DetectorTestSuite) TestFormats_SortedByLabel() {
	formats := s.registry.Formats()
	s.Len(formats, 6)
	for i := 1; i < len(formats); i++ {
		s.LessOrEqual(formats[i-1].Label, formats[i].Label)
	}
}
