package eccc

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "station.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFetchHistorical(t *testing.T) {
	path := writeCSV(t, "Date/Time,Max Temp (°C),Min Temp (°C),Total Precip (mm)\n"+
		"2025-09-26,20.1,6.2,0.0\n"+
		"2025-09-27,21.6,7.9,0.0\n")

	records, err := NewReader(path, discardLogger()).FetchHistorical(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "2025-09-26", records[0].Date)
	assert.Equal(t, 20.1, *records[0].TmaxC)
	assert.Equal(t, 6.2, *records[0].TminC)
	assert.Equal(t, 0.0, *records[0].PrecipMM)
	assert.Equal(t, "2025-09-27", records[1].Date)
	assert.Equal(t, 21.6, *records[1].TmaxC)
}

func TestFetchHistorical_AlternateHeaders(t *testing.T) {
	path := writeCSV(t, "LOCAL_DATE,MAX_TEMPERATURE,MIN_TEMPERATURE,TOTAL_PRECIP\n"+
		"2025-09-27 00:00,21.6,7.9,0.0\n")

	records, err := NewReader(path, discardLogger()).FetchHistorical(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "2025-09-27 00:00", records[0].Date)
	assert.Equal(t, 21.6, *records[0].TmaxC)
}

func TestFetchHistorical_MissingCells(t *testing.T) {
	path := writeCSV(t, "Date/Time,Max Temp (°C),Min Temp (°C),Total Precip (mm)\n"+
		"2025-09-26,,6.2,M\n"+
		"2025-09-27,21.6,7.9,0.0\n")

	records, err := NewReader(path, discardLogger()).FetchHistorical(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Nil(t, records[0].TmaxC, "empty cell becomes nil")
	assert.Equal(t, 6.2, *records[0].TminC)
	assert.Nil(t, records[0].PrecipMM, `"M" sentinel becomes nil`)
	assert.Equal(t, 0.0, *records[1].PrecipMM)
}

func TestFetchHistorical_RaggedRows(t *testing.T) {
	path := writeCSV(t, "Date/Time,Max Temp (°C),Min Temp (°C),Total Precip (mm)\n"+
		"2025-09-26,20.1\n")

	records, err := NewReader(path, discardLogger()).FetchHistorical(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, 20.1, *records[0].TmaxC)
	assert.Nil(t, records[0].TminC, "short row leaves trailing columns nil")
	assert.Nil(t, records[0].PrecipMM)
}

func TestFetchHistorical_ExtraColumnsIgnored(t *testing.T) {
	path := writeCSV(t, `Station Name,Date/Time,Max Temp (°C),Min Temp (°C),Total Precip (mm),Snow on Grnd (cm)`+"\n"+
		"TORONTO CITY,2025-09-27,21.6,7.9,0.0,\n")

	records, err := NewReader(path, discardLogger()).FetchHistorical(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "2025-09-27", records[0].Date)
	assert.Equal(t, 21.6, *records[0].TmaxC)
}

func TestFetchHistorical_EmptyFile(t *testing.T) {
	path := writeCSV(t, "")

	records, err := NewReader(path, discardLogger()).FetchHistorical(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchHistorical_HeaderOnly(t *testing.T) {
	path := writeCSV(t, "Date/Time,Max Temp (°C),Min Temp (°C),Total Precip (mm)\n")

	records, err := NewReader(path, discardLogger()).FetchHistorical(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchHistorical_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")

	_, err := NewReader(path, discardLogger()).FetchHistorical(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open eccc csv")
}

func TestFetchHistorical_UnrecognizedHeader(t *testing.T) {
	path := writeCSV(t, "When,Hot,Cold,Wet\n2025-09-27,21.6,7.9,0.0\n")

	_, err := NewReader(path, discardLogger()).FetchHistorical(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no column matching")
}

func TestResolveColumns_TrimsWhitespace(t *testing.T) {
	idx, err := resolveColumns([]string{" Date/Time ", "Max Temp (°C)", "Min Temp (°C)", "Total Precip (mm)"})
	require.NoError(t, err)
	assert.Equal(t, 0, idx.date)
	assert.Equal(t, 3, idx.precip)
}
