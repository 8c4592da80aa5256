package payments

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}

	path := filepath.Join(t.TempDir(), "payments_captured.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func header() []interface{} {
	return []interface{}{"id", ColCreationDate, ColCapturingTime, ColMethodCode, ColAmountCents}
}

func TestLoad_XLSX(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		header(),
		{"a", "'01/02/2024'", "09:15:30", "CARD", 1050},
		{"b", "01/02/2024", "09:45:00.500", "CASH", 200},
		{"c", "02/02/2024", "bad", "CARD", 300},
		{"d", "nonsense", "10:00:00", "CARD", 400},
		{},
		{"e", "03/02/2024", "11:00:00", "", "n/a"},
	})

	table, err := NewLoader(Options{}).Load(path)
	require.NoError(t, err)
	require.Len(t, table.Records, 5)
	assert.Equal(t, path, table.Source)

	first := table.Records[0]
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, civil.Date{Year: 2024, Month: 2, Day: 1}, first.CreationDate)
	assert.Equal(t, "09:15:30.000", first.CapturingTime)
	assert.Equal(t, 9, first.CapturingDateTime.Time.Hour)
	assert.Equal(t, "CARD", first.MethodCode)
	require.True(t, first.AmountInEuros.Valid)
	assert.Equal(t, "10.5", first.AmountInEuros.Decimal.String())

	bad := table.Records[2]
	assert.True(t, bad.CreationDate.IsValid())
	assert.False(t, bad.CapturingDateTime.IsValid())
	assert.True(t, bad.AmountInEuros.Valid)

	assert.False(t, table.Records[3].CreationDate.IsValid())
	assert.False(t, table.Records[3].CapturingDateTime.IsValid())

	last := table.Records[4]
	assert.Equal(t, "", last.MethodCode)
	assert.False(t, last.AmountInEuros.Valid)

	assert.Equal(t, []civil.Date{
		{Year: 2024, Month: 2, Day: 1},
		{Year: 2024, Month: 2, Day: 2},
		{Year: 2024, Month: 2, Day: 3},
	}, table.Dates())
}

func TestLoad_XLSXSerialValues(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		header(),
		{"a", 45323, 0.5, "CARD", 999},
	})

	table, err := NewLoader(Options{}).Load(path)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)

	rec := table.Records[0]
	assert.Equal(t, civil.Date{Year: 2024, Month: 2, Day: 1}, rec.CreationDate)
	assert.Equal(t, "12:00:00.000", rec.CapturingTime)
	assert.Equal(t, civil.DateTime{
		Date: civil.Date{Year: 2024, Month: 2, Day: 1},
		Time: civil.Time{Hour: 12},
	}, rec.CapturingDateTime)
	assert.Equal(t, "9.99", rec.AmountInEuros.Decimal.String())
}

func TestLoad_CSV(t *testing.T) {
	content := "\ufeffcreationDate,capturingTime,methodCode,amountIncludingTipInCents\n" +
		"'01/02/2024',14:00:00,CARD,1000\n" +
		"'01/02/2024',14:30:00,CASH,2000\n"
	path := filepath.Join(t.TempDir(), "payments_captured.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := NewLoader(Options{}).Load(path)
	require.NoError(t, err)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "CASH", table.Records[1].MethodCode)
	assert.Equal(t, "20", table.Records[1].AmountInEuros.Decimal.String())
	assert.Equal(t, 14, table.Records[1].CapturingDateTime.Time.Hour)
}

func TestLoad_CSVTimestampDates(t *testing.T) {
	content := "creationDate,capturingTime,methodCode,amountIncludingTipInCents\n" +
		"2024-02-01 00:00:00,09:15:30,CARD,1050\n" +
		"2024-02-01 00:00:00,14:00:00,CASH,2000\n"
	path := filepath.Join(t.TempDir(), "payments_captured.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := NewLoader(Options{}).Load(path)
	require.NoError(t, err)
	require.Len(t, table.Records, 2)

	feb1 := civil.Date{Year: 2024, Month: 2, Day: 1}
	assert.Equal(t, []civil.Date{feb1}, table.Dates())
	for _, rec := range table.Records {
		assert.True(t, rec.CapturingDateTime.IsValid())
		assert.Equal(t, feb1, rec.CapturingDateTime.Date)
	}
	assert.Equal(t, 9, table.Records[0].CapturingDateTime.Time.Hour)
	assert.Equal(t, 14, table.Records[1].CapturingDateTime.Time.Hour)
}

func TestLoad_MissingColumns(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{ColCreationDate, ColMethodCode},
		{"01/02/2024", "CARD"},
	})

	_, err := NewLoader(Options{}).Load(path)
	require.Error(t, err)

	var ffe *FileFormatError
	require.True(t, errors.As(err, &ffe))
	assert.Equal(t, []string{ColCapturingTime, ColAmountCents}, ffe.Missing)
	assert.Contains(t, err.Error(), "missing columns capturingTime, amountIncludingTipInCents")
}

func TestLoad_EmptySheet(t *testing.T) {
	path := writeWorkbook(t, nil)

	_, err := NewLoader(Options{}).Load(path)
	var ffe *FileFormatError
	require.True(t, errors.As(err, &ffe))
	assert.Equal(t, "no header row", ffe.Reason)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payments.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	_, err := NewLoader(Options{}).Load(path)
	var ffe *FileFormatError
	require.True(t, errors.As(err, &ffe))
	assert.Contains(t, ffe.Reason, ".json")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewLoader(Options{}).Load(filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

type stubReader struct {
	rows [][]string
}

func (s stubReader) Extension() string                    { return ".TXT" }
func (s stubReader) ReadRows(string) ([][]string, error) { return s.rows, nil }

func TestLoader_Register(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payments.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	l := NewLoader(Options{DateLayouts: []string{"1/2/2006"}})
	l.Register(stubReader{rows: [][]string{
		{ColAmountCents, ColMethodCode, ColCapturingTime, ColCreationDate},
		{"150", "CARD", "08:00:00", "02/01/2024"},
	}})

	table, err := l.Load(path)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, civil.Date{Year: 2024, Month: 2, Day: 1}, table.Records[0].CreationDate)
	assert.Equal(t, "1.5", table.Records[0].AmountInEuros.Decimal.String())
}

func TestTable_OnDate(t *testing.T) {
	d1 := civil.Date{Year: 2024, Month: 2, Day: 1}
	d2 := civil.Date{Year: 2024, Month: 1, Day: 31}
	table := &Table{Records: []Record{
		{Row: 2, CreationDate: d1},
		{Row: 3, CreationDate: d2},
		{Row: 4},
		{Row: 5, CreationDate: d1},
	}}

	assert.Equal(t, []civil.Date{d2, d1}, table.Dates())

	var rows []int
	for _, rec := range table.OnDate(d1) {
		rows = append(rows, rec.Row)
	}
	assert.Equal(t, []int{2, 5}, rows)
	assert.Empty(t, table.OnDate(civil.Date{Year: 2020, Month: 1, Day: 1}))
}

func TestFileFormatError_Reason(t *testing.T) {
	err := &FileFormatError{Path: "x.xlsx", Reason: "workbook has no sheets"}
	assert.Equal(t, fmt.Sprintf("file format error in %s: %s", "x.xlsx", "workbook has no sheets"), err.Error())
}
