package lint

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// placeholderRule flags unresolved {{...}} template markers. Guides are
// assembled from templates now and then; a marker that survives into
// the published corpus means a render step was skipped.
type placeholderRule struct{}

func (placeholderRule) ID() string          { return "content/placeholder" }
func (placeholderRule) Description() string { return "unresolved template placeholder in guide text" }
func (placeholderRule) Severity() Severity  { return SeverityWarning }

func (placeholderRule) Check(ctx *Context) []Finding {
	var findings []Finding
	for _, t := range ctx.Targets {
		for _, p := range t.Doc.Placeholders {
			findings = append(findings, Finding{
				File:    t.Guide.Path,
				Line:    p.Line,
				Message: fmt.Sprintf("unresolved placeholder %s", p.Text),
			})
		}
	}
	return findings
}

// arithmeticTolerance absorbs float formatting noise in guide tables
// (values are written with one decimal place at most).
const arithmeticTolerance = 0.001

// tableArithmeticRule audits scoring tables: when the last column names
// a total, each row's total must equal the sum of the row's other
// numeric cells. The hunger/saturation and drop-rate tables follow this
// convention. Discrepancies are flagged with both values — the rule
// never decides which side is wrong.
type tableArithmeticRule struct{}

func (tableArithmeticRule) ID() string { return "content/table-arithmetic" }
func (tableArithmeticRule) Description() string {
	return "total column does not equal the sum of the row's numeric cells"
}
func (tableArithmeticRule) Severity() Severity { return SeverityWarning }

func (tableArithmeticRule) Check(ctx *Context) []Finding {
	var findings []Finding
	for _, t := range ctx.Targets {
		for _, tbl := range t.Doc.Tables {
			totalCol := totalColumn(tbl.Header)
			if totalCol < 0 {
				continue
			}
			for _, row := range tbl.Rows {
				if totalCol >= len(row.Cells) {
					continue // malformed rows are another rule's problem
				}
				total, ok := parseNumber(row.Cells[totalCol])
				if !ok {
					continue
				}
				sum, contributors := sumNumericCells(row.Cells, totalCol)
				if contributors < 2 {
					continue // a "sum" of one number proves nothing
				}
				if math.Abs(sum-total) <= arithmeticTolerance {
					continue
				}
				findings = append(findings, Finding{
					File: t.Guide.Path,
					Line: row.Line,
					Message: fmt.Sprintf("row %q: total is %s but cells sum to %s",
						rowLabel(row.Cells), formatNumber(total), formatNumber(sum)),
				})
			}
		}
	}
	return findings
}

// totalColumn returns the index of the rightmost header cell naming a
// total, or -1 when the table has no total column.
func totalColumn(header []string) int {
	for i := len(header) - 1; i >= 0; i-- {
		if strings.Contains(strings.ToLower(header[i]), "total") {
			return i
		}
	}
	return -1
}

// sumNumericCells adds every numeric cell except the total column.
// Label cells (item names) parse as non-numeric and are skipped.
func sumNumericCells(cells []string, totalCol int) (sum float64, contributors int) {
	for i, cell := range cells {
		if i == totalCol {
			continue
		}
		if v, ok := parseNumber(cell); ok {
			sum += v
			contributors++
		}
	}
	return sum, contributors
}

// parseNumber parses a table cell as a float, tolerating surrounding
// emphasis markers and thousands separators.
func parseNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	s = strings.Trim(s, "*_` ")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// rowLabel picks the first non-numeric cell as the row's name, falling
// back to the first cell.
func rowLabel(cells []string) string {
	for _, c := range cells {
		if _, ok := parseNumber(c); !ok && strings.TrimSpace(c) != "" {
			return strings.TrimSpace(c)
		}
	}
	if len(cells) > 0 {
		return strings.TrimSpace(cells[0])
	}
	return ""
}

// formatNumber renders a float the way guides write them: no trailing
// zeros, at most three decimals.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
