package payments

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"09:15:30", "09:15:30.000"},
		{" 09:15:30 ", "09:15:30.000"},
		{"09:15:30.250", "09:15:30.250"},
		{"9:15:30", "9:15:30"},
		{"09:15", "09:15"},
		{"", ""},
		{"garbage", "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTime(tt.in))
		})
	}
}

func TestNormalizeTime_Idempotent(t *testing.T) {
	for _, in := range []string{"09:15:30", "23:59:59.999", "bad"} {
		once := NormalizeTime(in)
		assert.Equal(t, once, NormalizeTime(once))
	}
}

func TestStripQuotes(t *testing.T) {
	assert.Equal(t, "01/02/2024", StripQuotes("'01/02/2024'"))
	assert.Equal(t, "01/02/2024", StripQuotes(` "01/02/2024" `))
	assert.Equal(t, "01/02/2024", StripQuotes("01/02/2024"))
	assert.Equal(t, "", StripQuotes("''"))
}

func TestParseDate(t *testing.T) {
	n := NewNormalizer(nil)
	feb1 := civil.Date{Year: 2024, Month: 2, Day: 1}

	tests := []struct {
		name       string
		raw        string
		want       civil.Date
		wantLayout string
	}{
		{"quoted day first", "'01/02/2024'", feb1, "2/1/2006"},
		{"unpadded", "1/2/2024", feb1, "2/1/2006"},
		{"dotted", "01.02.2024", feb1, "2.1.2006"},
		{"iso", "2024-02-01", feb1, "2006-1-2"},
		{"excel serial", "45323", feb1, "2006-1-2"},
		{"timestamp", "2024-02-01 00:00:00", feb1, "2006-1-2"},
		{"timestamp with fraction", "'2024-02-01 17:30:12.5'", feb1, "2006-1-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, layout, ok := n.ParseDate(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantLayout, layout)
		})
	}
}

func TestParseDate_TimestampReducedToDate(t *testing.T) {
	n := NewNormalizer(nil)

	date, cleaned, layout, ok := n.ParseDate("2024-02-01 00:00:00")
	require.True(t, ok)
	assert.Equal(t, "2024-02-01", cleaned)

	dt, ok := CombineDateTime(cleaned, "09:15:30.000", layout)
	require.True(t, ok)
	assert.Equal(t, date, dt.Date)
	assert.Equal(t, 9, dt.Time.Hour)
}

func TestParseDate_Invalid(t *testing.T) {
	n := NewNormalizer(nil)
	for _, raw := range []string{"", "''", "not a date", "32/13/2024"} {
		_, _, _, ok := n.ParseDate(raw)
		assert.False(t, ok, raw)
	}
}

func TestNewNormalizer_CustomLayoutsKeepISO(t *testing.T) {
	n := NewNormalizer([]string{"1/2/2006"})

	got, _, _, ok := n.ParseDate("02/01/2024")
	require.True(t, ok)
	assert.Equal(t, civil.Date{Year: 2024, Month: 2, Day: 1}, got)

	got, _, _, ok = n.ParseDate("2024-03-05")
	require.True(t, ok)
	assert.Equal(t, civil.Date{Year: 2024, Month: 3, Day: 5}, got)
}

func TestCleanTime(t *testing.T) {
	assert.Equal(t, "09:15:30.000", CleanTime("09:15:30"))
	assert.Equal(t, "12:00:00.000", CleanTime("0.5"))
	// 09:15:30 as a fraction of a day
	assert.Equal(t, "09:15:30.000", CleanTime("0.385763888888889"))
	assert.Equal(t, "", CleanTime("  "))
	assert.Equal(t, "soon", CleanTime("soon"))
}

func TestCombineDateTime(t *testing.T) {
	dt, ok := CombineDateTime("01/02/2024", "09:15:30.000", "2/1/2006")
	require.True(t, ok)
	assert.Equal(t, civil.DateTime{
		Date: civil.Date{Year: 2024, Month: 2, Day: 1},
		Time: civil.Time{Hour: 9, Minute: 15, Second: 30},
	}, dt)

	dt, ok = CombineDateTime("2024-02-01", "23:59:59.250", "2006-1-2")
	require.True(t, ok)
	assert.Equal(t, 23, dt.Time.Hour)
	assert.Equal(t, 250000000, dt.Time.Nanosecond)

	_, ok = CombineDateTime("01/02/2024", "25:00:00.000", "2/1/2006")
	assert.False(t, ok)
	_, ok = CombineDateTime("01/02/2024", "", "2/1/2006")
	assert.False(t, ok)
	_, ok = CombineDateTime("", "09:15:30.000", "2/1/2006")
	assert.False(t, ok)
}

func TestParseCents(t *testing.T) {
	cents, euros := ParseCents("1050")
	require.True(t, cents.Valid)
	require.True(t, euros.Valid)
	assert.Equal(t, "1050", cents.Decimal.String())
	assert.Equal(t, "10.5", euros.Decimal.String())
	assert.True(t, euros.Decimal.Shift(2).Equal(cents.Decimal))

	_, euros = ParseCents("1")
	assert.Equal(t, "0.01", euros.Decimal.String())

	for _, raw := range []string{"", "  ", "ten", "12,50"} {
		cents, euros := ParseCents(raw)
		assert.False(t, cents.Valid, raw)
		assert.False(t, euros.Valid, raw)
	}
}
