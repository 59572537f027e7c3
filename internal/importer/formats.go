package importer

// Built-in Spanish bank statement formats. Registration order matters:
// detection walks the list front to back and HTML/Excel signatures are more
// specific than the delimited-text ones.
//
// BBVA and ING exports are binary spreadsheets only; they are registered so
// detection can name them, but they carry no parse rules until those banks
// offer a delimited or xlsx export with a stable column layout.

const (
	TagKutxabankAccount = "kutxabank_account"
	TagKutxabankCard    = "kutxabank_card"
	TagOpenbank         = "openbank"
	TagImaginbank       = "imaginbank"
	TagBBVA             = "bbva"
	TagING              = "ing"
)

const spanishDateLayout = "02/01/2006"

// DefaultRegistry returns a registry with all built-in formats.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(&FormatDescriptor{
		Tag:   TagOpenbank,
		Label: "Openbank",
		Signature: Signature{
			Kinds: []ContentKind{ContentHTML},
			KeywordGroups: [][]string{
				{"openbank"},
				{"open bank"},
				{"cuenta corriente open"},
				{"fecha operaci", "fecha valor", "concepto"},
			},
			FilenameHintGroups: [][]string{{"openbank"}},
		},
		HTML: &HTMLRules{
			DateCol:        0,
			DescriptionCol: 2,
			AmountCol:      3,
			BalanceCol:     4,
			MinCells:       4,
			DateLayout:     spanishDateLayout,
		},
		// Some Openbank exports arrive as semicolon CSV with separate
		// charge and credit columns.
		CSV: &CSVRules{
			Delimiter:      ';',
			HeaderKeywords: []string{"fecha", "concepto"},
			DateCol:        0,
			DescriptionCol: 1,
			AmountCol:      -1,
			ChargeCol:      2,
			CreditCol:      3,
			BalanceCol:     4,
			DateLayout:     spanishDateLayout,
		},
	})

	r.Register(&FormatDescriptor{
		Tag:   TagBBVA,
		Label: "BBVA",
		Signature: Signature{
			Kinds: []ContentKind{ContentOLE2, ContentZIP},
			KeywordGroups: [][]string{
				{"últimos movimientos"},
				{"ultimos movimientos"},
				{"f.valor", "disponible"},
				{"bbva"},
			},
			FilenameHintGroups: [][]string{{"bbva"}},
		},
	})

	r.Register(&FormatDescriptor{
		Tag:   TagING,
		Label: "ING Direct",
		Signature: Signature{
			Kinds: []ContentKind{ContentOLE2, ContentZIP},
			KeywordGroups: [][]string{
				{"movimientos de la cuenta"},
				{"ventajas ing"},
				{"f. valor", "categoría", "subcategoría"},
				{"f. valor", "categoria", "subcategoria"},
			},
			FilenameHintGroups: [][]string{{"ing"}},
		},
	})

	r.Register(&FormatDescriptor{
		Tag:   TagKutxabankCard,
		Label: "Kutxabank - Tarjeta de Crédito",
		Signature: Signature{
			Kinds: []ContentKind{ContentOLE2, ContentZIP, ContentText},
			KeywordGroups: [][]string{
				{"movimientos de tarjetas"},
				{"importe de la operación"},
				{"importe de la operacion"},
			},
			FilenameHintGroups: [][]string{
				{"kutxa", "tarjeta"},
				{"kutxa", "card"},
			},
		},
		CSV: &CSVRules{
			Delimiter:      ';',
			HeaderKeywords: []string{"fecha", "concepto"},
			DateCol:        0,
			DescriptionCol: 1,
			AmountCol:      3,
			BalanceCol:     -1,
			ChargeCol:      -1,
			CreditCol:      -1,
			DateLayout:     spanishDateLayout,
		},
		// The bank's native download is an xlsx workbook with the same column
		// layout; cells hold raw dot-decimal numbers.
		XLSX: &CSVRules{
			HeaderKeywords: []string{"fecha", "concepto"},
			DateCol:        0,
			DescriptionCol: 1,
			AmountCol:      3,
			BalanceCol:     -1,
			ChargeCol:      -1,
			CreditCol:      -1,
			DateLayout:     spanishDateLayout,
			PlainDecimals:  true,
		},
	})

	r.Register(&FormatDescriptor{
		Tag:   TagKutxabankAccount,
		Label: "Kutxabank - Cuenta Corriente",
		Signature: Signature{
			Kinds: []ContentKind{ContentOLE2, ContentZIP, ContentText},
			KeywordGroups: [][]string{
				{"movimientos de cuenta"},
			},
			FilenameHintGroups: [][]string{{"kutxa"}},
		},
		CSV: &CSVRules{
			Delimiter:      ';',
			HeaderKeywords: []string{"fecha", "concepto", "importe"},
			DateCol:        0,
			DescriptionCol: 1,
			AmountCol:      3,
			BalanceCol:     4,
			ChargeCol:      -1,
			CreditCol:      -1,
			DateLayout:     spanishDateLayout,
		},
		XLSX: &CSVRules{
			HeaderKeywords: []string{"fecha", "concepto", "importe"},
			DateCol:        0,
			DescriptionCol: 1,
			AmountCol:      3,
			BalanceCol:     4,
			ChargeCol:      -1,
			CreditCol:      -1,
			DateLayout:     spanishDateLayout,
			PlainDecimals:  true,
		},
	})

	r.Register(&FormatDescriptor{
		Tag:   TagImaginbank,
		Label: "Imaginbank",
		Signature: Signature{
			Kinds: []ContentKind{ContentText},
			KeywordGroups: [][]string{
				{"concepto", "fecha", "importe", "eur"},
			},
			FilenameHintGroups: [][]string{{"imagin"}},
		},
		CSV: &CSVRules{
			Delimiter:      ';',
			HeaderKeywords: []string{"concepto", "fecha", "importe"},
			DateCol:        1,
			DescriptionCol: 0,
			AmountCol:      2,
			BalanceCol:     3,
			ChargeCol:      -1,
			CreditCol:      -1,
			DateLayout:     spanishDateLayout,
			TrimCurrency:   "EUR",
		},
	})

	return r
}
