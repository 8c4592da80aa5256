package report

import (
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatEuro renders an amount as "€1,234.56": thousands separators, two
// decimals, rounded half away from zero. Negative amounts read "€-5.00".
func FormatEuro(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	grouped := whole
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		grouped = humanize.Comma(n)
	}

	sign := ""
	if d.Round(2).IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("€%s%s.%s", sign, grouped, frac)
}

// MethodLines returns one "<method>: €amount" line per payment method.
func (d *Daily) MethodLines() []string {
	lines := make([]string, 0, len(d.Methods))
	for _, m := range d.Methods {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Method, FormatEuro(m.Amount)))
	}
	return lines
}

// AverageLabel is the per-transaction mean annotation.
func (d *Daily) AverageLabel() string {
	return "Average: " + FormatEuro(d.Average)
}

// TotalLabel is the daily total annotation.
func (d *Daily) TotalLabel() string {
	return "Total: " + FormatEuro(d.Total)
}

// DisplayDate formats a date as DD.MM.YYYY.
func DisplayDate(date civil.Date) string {
	return fmt.Sprintf("%02d.%02d.%04d", date.Day, int(date.Month), date.Year)
}
