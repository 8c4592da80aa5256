package payments

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Column names expected in the header row of every input file.
const (
	ColCreationDate  = "creationDate"
	ColCapturingTime = "capturingTime"
	ColMethodCode    = "methodCode"
	ColAmountCents   = "amountIncludingTipInCents"
)

// RequiredColumns lists the columns a payments file must carry.
var RequiredColumns = []string{ColCreationDate, ColCapturingTime, ColMethodCode, ColAmountCents}

// Record is one captured payment after normalization.
//
// CreationDate and CapturingDateTime are zero (IsValid() == false) when the
// source value could not be parsed. The amounts are invalid when the cents
// cell could not be read as a number.
type Record struct {
	Row               int // 1-based row in the source sheet, header is row 1
	CreationDate      civil.Date
	CapturingTime     string
	CapturingDateTime civil.DateTime
	MethodCode        string
	AmountCents       decimal.NullDecimal
	AmountInEuros     decimal.NullDecimal
}

// Table holds every record of one input file in source order.
type Table struct {
	Source  string
	Records []Record
}

// Dates returns the distinct valid creation dates in ascending order.
func (t *Table) Dates() []civil.Date {
	seen := make(map[civil.Date]struct{})
	var dates []civil.Date
	for _, rec := range t.Records {
		if !rec.CreationDate.IsValid() {
			continue
		}
		if _, ok := seen[rec.CreationDate]; ok {
			continue
		}
		seen[rec.CreationDate] = struct{}{}
		dates = append(dates, rec.CreationDate)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// OnDate returns the records whose creation date equals date.
func (t *Table) OnDate(date civil.Date) []Record {
	var out []Record
	for _, rec := range t.Records {
		if rec.CreationDate == date {
			out = append(out, rec)
		}
	}
	return out
}
