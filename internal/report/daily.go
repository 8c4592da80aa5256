package report

import (
	"sort"

	"demand-graphs/internal/payments"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// HourTotal is one bar: the summed euros captured during Hour (0-23).
type HourTotal struct {
	Hour   int
	Amount decimal.Decimal
}

// MethodTotal is the summed euros for one payment method code.
type MethodTotal struct {
	Method string
	Amount decimal.Decimal
}

// Daily is the aggregate behind one chart.
//
// Only records with a valid capturing date-time and a valid amount take part
// in the sums; the rest are counted in Excluded. Records with a blank method
// code count toward the hourly bars and the total but have no method line.
type Daily struct {
	Date         civil.Date
	Hourly       []HourTotal   // ascending by hour, only hours with data
	Methods      []MethodTotal // ascending by method code
	Total        decimal.Decimal
	Average      decimal.Decimal // mean per transaction
	Transactions int
	Excluded     int
}

// Empty reports whether no record survived filtering.
func (d *Daily) Empty() bool { return d.Transactions == 0 }

// Build aggregates the records created on date. Records for other dates are
// ignored, so callers may pass a whole table.
func Build(date civil.Date, records []payments.Record) *Daily {
	d := &Daily{Date: date}

	byHour := make(map[int]decimal.Decimal)
	byMethod := make(map[string]decimal.Decimal)

	for _, rec := range records {
		if rec.CreationDate != date {
			continue
		}
		if !rec.CapturingDateTime.IsValid() || !rec.AmountInEuros.Valid {
			d.Excluded++
			continue
		}

		amount := rec.AmountInEuros.Decimal
		hour := rec.CapturingDateTime.Time.Hour
		byHour[hour] = byHour[hour].Add(amount)
		if rec.MethodCode != "" {
			byMethod[rec.MethodCode] = byMethod[rec.MethodCode].Add(amount)
		}
		d.Transactions++
	}

	for hour, amount := range byHour {
		d.Hourly = append(d.Hourly, HourTotal{Hour: hour, Amount: amount})
		d.Total = d.Total.Add(amount)
	}
	sort.Slice(d.Hourly, func(i, j int) bool { return d.Hourly[i].Hour < d.Hourly[j].Hour })

	for method, amount := range byMethod {
		d.Methods = append(d.Methods, MethodTotal{Method: method, Amount: amount})
	}
	sort.Slice(d.Methods, func(i, j int) bool { return d.Methods[i].Method < d.Methods[j].Method })

	if d.Transactions > 0 {
		d.Average = d.Total.Div(decimal.NewFromInt(int64(d.Transactions)))
	}
	return d
}

// MaxHourly returns the tallest bar, zero for an empty report.
func (d *Daily) MaxHourly() decimal.Decimal {
	max := decimal.Zero
	for _, h := range d.Hourly {
		if h.Amount.GreaterThan(max) {
			max = h.Amount
		}
	}
	return max
}

// MinHourly returns the lowest bar, zero when no bar is negative.
func (d *Daily) MinHourly() decimal.Decimal {
	min := decimal.Zero
	for _, h := range d.Hourly {
		if h.Amount.LessThan(min) {
			min = h.Amount
		}
	}
	return min
}
