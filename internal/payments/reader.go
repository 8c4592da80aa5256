package payments

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetReader reads a tabular file into rows of cell strings, header first.
type SheetReader interface {
	ReadRows(path string) ([][]string, error)
	Extension() string
}

// XLSXReader reads one worksheet of an Excel workbook. Cells are returned
// unformatted, so typed dates and times arrive as Excel serial numbers.
type XLSXReader struct {
	Sheet string // empty selects the first sheet
}

// Extension returns ".xlsx".
func (r *XLSXReader) Extension() string { return ".xlsx" }

// ReadRows returns every row of the selected sheet.
func (r *XLSXReader) ReadRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := r.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &FileFormatError{Path: path, Reason: "workbook has no sheets"}
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// CSVReader reads a delimited text export of the same table.
type CSVReader struct {
	Comma rune // zero selects ','
}

// Extension returns ".csv".
func (r *CSVReader) Extension() string { return ".csv" }

// ReadRows returns every record of the file. Ragged rows are allowed.
func (r *CSVReader) ReadRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer file.Close()

	cr := csv.NewReader(file)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if r.Comma != 0 {
		cr.Comma = r.Comma
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}
