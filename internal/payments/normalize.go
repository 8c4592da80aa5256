package payments

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// DefaultDateLayouts are tried in order against creationDate. Day comes first.
var DefaultDateLayouts = []string{
	"2/1/2006",
	"2.1.2006",
	"2006-1-2",
	"2006-1-2 15:04:05",
}

const isoDateLayout = "2006-1-2"

var secondsOnly = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)

// NormalizeTime appends ".000" to times given as exactly HH:MM:SS so every row
// carries millisecond precision. Anything else is returned trimmed but unchanged.
func NormalizeTime(s string) string {
	s = strings.TrimSpace(s)
	if secondsOnly.MatchString(s) {
		return s + ".000"
	}
	return s
}

// StripQuotes removes surrounding whitespace and stray quote characters.
func StripQuotes(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `'"`))
}

// Normalizer turns raw cell strings into typed record fields.
type Normalizer struct {
	layouts []string
}

// NewNormalizer returns a Normalizer trying layouts in order. An empty list
// selects DefaultDateLayouts. The ISO layout is always tried last.
func NewNormalizer(layouts []string) *Normalizer {
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	out := make([]string, 0, len(layouts)+1)
	hasISO := false
	for _, l := range layouts {
		if l = strings.TrimSpace(l); l == "" {
			continue
		}
		if l == isoDateLayout {
			hasISO = true
		}
		out = append(out, l)
	}
	if !hasISO {
		out = append(out, isoDateLayout)
	}
	return &Normalizer{layouts: out}
}

// ParseDate returns the calendar date of a creationDate cell together with the
// cleaned text and the layout that matched. Excel serial numbers are accepted.
// A value carrying its own clock is reduced to the ISO date so it can be
// joined with capturingTime.
func (n *Normalizer) ParseDate(raw string) (civil.Date, string, string, bool) {
	s := StripQuotes(raw)
	if s == "" {
		return civil.Date{}, "", "", false
	}
	for _, layout := range n.layouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if hasClock(layout) {
			return civil.DateOf(t), t.Format("2006-01-02"), isoDateLayout, true
		}
		return civil.DateOf(t), s, layout, true
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			iso := t.Format("2006-01-02")
			return civil.DateOf(t), iso, isoDateLayout, true
		}
	}
	return civil.Date{}, s, "", false
}

func hasClock(layout string) bool {
	return strings.Contains(layout, "15") || strings.Contains(layout, "03") || strings.Contains(layout, "04")
}

// CleanTime converts an Excel day fraction to HH:MM:SS[.mmm] when needed and
// then applies NormalizeTime.
func CleanTime(raw string) string {
	s := strings.TrimSpace(raw)
	if s != "" && !strings.Contains(s, ":") {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
			s = clockFromDayFraction(f)
		}
	}
	return NormalizeTime(s)
}

func clockFromDayFraction(f float64) string {
	_, frac := math.Modf(f)
	ms := int64(math.Round(frac * 24 * 60 * 60 * 1000))
	if ms >= 24*60*60*1000 {
		ms = 24*60*60*1000 - 1
	}
	h := ms / 3600000
	m := ms / 60000 % 60
	sec := ms / 1000 % 60
	rest := ms % 1000
	if rest == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, sec, rest)
}

// CombineDateTime joins the cleaned date and the normalized time with one space
// and parses them as a single value. ok is false when either half is unusable.
func CombineDateTime(date, clock, layout string) (civil.DateTime, bool) {
	if date == "" || clock == "" || layout == "" {
		return civil.DateTime{}, false
	}
	// time.Parse accepts a fractional second right after the seconds field.
	t, err := time.Parse(layout+" 15:04:05", date+" "+clock)
	if err != nil {
		return civil.DateTime{}, false
	}
	return civil.DateTimeOf(t), true
}

// ParseCents reads amountIncludingTipInCents and derives the euro amount
// (cents / 100, exact). Both are invalid when the cell is not a number.
func ParseCents(raw string) (cents, euros decimal.NullDecimal) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return cents, euros
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return cents, euros
	}
	return decimal.NewNullDecimal(d), decimal.NewNullDecimal(d.Shift(-2))
}
