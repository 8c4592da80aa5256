package payments

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logging "demand-graphs/internal/infra/log"

	"go.uber.org/zap"
)

// Options configures a Loader.
type Options struct {
	Sheet       string   // xlsx worksheet, empty selects the first one
	DateLayouts []string // creationDate layouts, empty selects DefaultDateLayouts
}

// Loader reads payments files into normalized Tables.
type Loader struct {
	readers    map[string]SheetReader
	normalizer *Normalizer
}

// NewLoader returns a Loader that understands .xlsx and .csv files.
func NewLoader(opts Options) *Loader {
	l := &Loader{
		readers:    make(map[string]SheetReader),
		normalizer: NewNormalizer(opts.DateLayouts),
	}
	l.Register(&XLSXReader{Sheet: opts.Sheet})
	l.Register(&CSVReader{})
	return l
}

// Register adds or replaces the reader for its extension.
func (l *Loader) Register(r SheetReader) {
	l.readers[strings.ToLower(r.Extension())] = r
}

// Load reads path and returns its records. Unparseable dates and times become
// missing values; only an unreadable file or missing columns fail the load.
func (l *Loader) Load(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open payments file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	reader, ok := l.readers[ext]
	if !ok {
		return nil, &FileFormatError{Path: path, Reason: fmt.Sprintf("unsupported file extension %q", ext)}
	}

	rows, err := reader.ReadRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &FileFormatError{Path: path, Reason: "no header row"}
	}

	index, err := headerIndex(path, rows[0])
	if err != nil {
		return nil, err
	}

	table := &Table{Source: path}
	var badDates, badDateTimes, badAmounts int
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rec := l.normalize(i+2, row, index)
		if !rec.CreationDate.IsValid() {
			badDates++
		}
		if !rec.CapturingDateTime.IsValid() {
			badDateTimes++
		}
		if !rec.AmountInEuros.Valid {
			badAmounts++
		}
		table.Records = append(table.Records, rec)
	}

	logging.LogInfo("Payments file loaded",
		zap.String("path", path),
		zap.Int("records", len(table.Records)),
		zap.Int("invalid_creation_dates", badDates),
		zap.Int("invalid_capturing_datetimes", badDateTimes),
		zap.Int("invalid_amounts", badAmounts))

	return table, nil
}

func (l *Loader) normalize(rowNum int, row []string, index map[string]int) Record {
	rawDate := cell(row, index[ColCreationDate])
	clock := CleanTime(cell(row, index[ColCapturingTime]))

	date, cleanDate, layout, ok := l.normalizer.ParseDate(rawDate)
	rec := Record{
		Row:           rowNum,
		CapturingTime: clock,
		MethodCode:    strings.TrimSpace(cell(row, index[ColMethodCode])),
	}
	if ok {
		rec.CreationDate = date
		if dt, ok := CombineDateTime(cleanDate, clock, layout); ok {
			rec.CapturingDateTime = dt
		}
	}
	rec.AmountCents, rec.AmountInEuros = ParseCents(cell(row, index[ColAmountCents]))
	return rec
}

func headerIndex(path string, header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &FileFormatError{Path: path, Missing: missing}
	}
	return index, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
