package importer

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
)

var htmlDatePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)

// parseHTMLTable extracts statement rows from an HTML document (Openbank
// exports markup under an .xls extension). Every table row whose first mapped
// cell looks like a date is treated as a movement.
func parseHTMLTable(content []byte, rules *HTMLRules) (*ParseResult, error) {
	doc, err := html.Parse(strings.NewReader(decodeText(content)))
	if err != nil {
		return nil, ErrNoRows
	}

	result := &ParseResult{}
	line := 0
	walkElements(doc, "tr", func(tr *html.Node) {
		line++
		cells := cellTexts(tr)
		if len(cells) < rules.MinCells {
			return
		}

		dateStr := cells[rules.DateCol]
		if !htmlDatePattern.MatchString(dateStr) {
			return
		}
		date, err := time.Parse(rules.DateLayout, dateStr[:10])
		if err != nil {
			return
		}

		if rules.DescriptionCol >= len(cells) || rules.AmountCol >= len(cells) {
			result.Issues = append(result.Issues, RowIssue{Line: line, Reason: "row has too few cells"})
			return
		}

		description := strings.Join(strings.Fields(cells[rules.DescriptionCol]), " ")
		if description == "" {
			return
		}

		amount, err := ParseSpanishDecimal(cells[rules.AmountCol], "")
		if err != nil {
			result.Issues = append(result.Issues, RowIssue{Line: line, Reason: "invalid amount " + cells[rules.AmountCol]})
			return
		}

		row := Row{Date: date, Description: description, Amount: amount}
		if rules.BalanceCol >= 0 && rules.BalanceCol < len(cells) {
			if balance, err := ParseSpanishDecimal(cells[rules.BalanceCol], ""); err == nil {
				row.Balance = &balance
			}
		}

		result.Rows = append(result.Rows, row)
	})

	if len(result.Rows) == 0 && len(result.Issues) == 0 {
		return nil, ErrNoRows
	}
	return result, nil
}

// walkElements calls fn for every element node named tag, depth-first.
func walkElements(n *html.Node, tag string, fn func(*html.Node)) {
	if n.Type == html.ElementNode && n.Data == tag {
		fn(n)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, tag, fn)
	}
}

// cellTexts returns the trimmed text content of each td in a row, dropping
// empty cells the way the bank pads its layout tables.
func cellTexts(tr *html.Node) []string {
	var cells []string
	walkElements(tr, "td", func(td *html.Node) {
		text := strings.TrimSpace(collectText(td))
		if text != "" {
			cells = append(cells, text)
		}
	})
	return cells
}

func collectText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(collectText(c))
	}
	return sb.String()
}
