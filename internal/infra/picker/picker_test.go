package picker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	path, err := Static{Path: "payments_captured.xlsx"}.Pick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "payments_captured.xlsx", path)

	_, err = Static{Path: "  "}.Pick(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestFunc(t *testing.T) {
	var src Source = Func(func(context.Context) (string, error) { return "x.xlsx", nil })
	path, err := src.Pick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x.xlsx", path)
}

func TestFilterName(t *testing.T) {
	assert.Equal(t, "Excel files", filterName(".XLSX"))
	assert.Equal(t, "CSV files", filterName(".csv"))
	assert.Equal(t, "ODS files", filterName(".ods"))
}
