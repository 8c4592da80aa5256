package report

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatEuro(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "€0.00"},
		{"10.5", "€10.50"},
		{"999.999", "€1,000.00"},
		{"1234.56", "€1,234.56"},
		{"1234567.891", "€1,234,567.89"},
		{"0.005", "€0.01"},
		{"-5", "€-5.00"},
		{"-1234.5", "€-1,234.50"},
		{"-0.001", "€0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatEuro(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "01.02.2024", DisplayDate(civil.Date{Year: 2024, Month: 2, Day: 1}))
	assert.Equal(t, "31.12.1999", DisplayDate(civil.Date{Year: 1999, Month: 12, Day: 31}))
}
