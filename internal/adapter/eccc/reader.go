// Package eccc reads Environment and Climate Change Canada daily station
// CSV exports.
package eccc

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/weather-flat-etl/internal/domain"
)

// columnCandidates lists known header spellings per logical column. ECCC
// headers vary by station and locale, so each column is resolved from its
// candidate list in order.
var columnCandidates = map[string][]string{
	"date":   {"Date", "Date/Time", "LOCAL_DATE", "date"},
	"tmax":   {"Max Temp (°C)", "Maximum Temperature (°C)", "Max Temp (C)", "MAX_TEMPERATURE", "Max Temp"},
	"tmin":   {"Min Temp (°C)", "Minimum Temperature (°C)", "Min Temp (C)", "MIN_TEMPERATURE", "Min Temp"},
	"precip": {"Total Precip (mm)", "Total Rain (mm)", "Total Precipitation (mm)", "TOTAL_PRECIP", "Precipitation"},
}

// Reader loads an ECCC daily CSV from a local path.
// It implements pipeline.HistoricalSource.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for the CSV at path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// FetchHistorical reads the CSV and returns one raw observation per data
// row. An empty file or a header-only file yields zero records, which is a
// valid (historical-empty) input. An unreadable file or an unrecognizable
// header is an error.
func (r *Reader) FetchHistorical(_ context.Context) ([]domain.RawObservation, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open eccc csv: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	// ECCC exports sometimes carry ragged trailing columns.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read eccc csv header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var records []domain.RawObservation
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read eccc csv: %w", err)
		}
		records = append(records, domain.RawObservation{
			Date:     field(rec, cols.date),
			TmaxC:    parseMetric(field(rec, cols.tmax)),
			TminC:    parseMetric(field(rec, cols.tmin)),
			PrecipMM: parseMetric(field(rec, cols.precip)),
		})
	}

	r.logger.Debug("eccc csv read", "path", r.path, "rows", len(records))
	return records, nil
}

type columnIndex struct {
	date, tmax, tmin, precip int
}

// resolveColumns maps the header row to column positions using the
// candidate lists.
func resolveColumns(header []string) (columnIndex, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[strings.TrimSpace(name)] = i
	}

	idx := columnIndex{}
	for col, target := range map[string]*int{
		"date":   &idx.date,
		"tmax":   &idx.tmax,
		"tmin":   &idx.tmin,
		"precip": &idx.precip,
	} {
		i, err := firstMatch(byName, columnCandidates[col])
		if err != nil {
			return columnIndex{}, err
		}
		*target = i
	}
	return idx, nil
}

func firstMatch(byName map[string]int, candidates []string) (int, error) {
	for _, name := range candidates {
		if i, ok := byName[name]; ok {
			return i, nil
		}
	}
	return 0, fmt.Errorf("eccc csv: no column matching any of %v", candidates)
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return rec[i]
}

// parseMetric converts a CSV cell to an optional metric. Empty cells and
// non-numeric sentinels (ECCC uses "M" for missing) become nil, never zero.
func parseMetric(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
