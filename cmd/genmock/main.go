// Command genmock generates fixture data for local runs and downstream test
// suites: an ECCC-style daily CSV and the flat table the pipeline produces
// from it merged with a synthetic forecast window. It uses the actual domain
// package under a fixed clock so the fixture matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock -csv-out data/mock/eccc_station.csv -flat-out data/mock/flat_weather.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-flat-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/weather-flat-etl/internal/domain"
)

var baseDate = time.Date(2025, time.September, 20, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvOut := flag.String("csv-out", "", "output path for the ECCC CSV fixture")
	flatOut := flag.String("flat-out", "", "output path for the expected flat table")
	flag.Parse()

	if *csvOut == "" || *flatOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv-out, -flat-out")
	}

	// Fix the clock for reproducible ingested_at timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2025, time.October, 1, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	observations := mockObservations()
	forecasts := mockForecasts()

	if err := writeECCCFixture(*csvOut, observations); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hist, _ := domain.NormalizeHistorical(observations, logger)
	fc, _ := domain.NormalizeForecast(forecasts, logger)
	flat := domain.Merge(hist, fc)

	path, err := csvfile.NewWriter(*flatOut, logger).WriteTable(flat)
	if err != nil {
		return err
	}

	fmt.Printf("wrote %d observations to %s\n", len(observations), *csvOut)
	fmt.Printf("wrote %d flat rows to %s\n", len(flat), path)
	return nil
}

// mockObservations covers ten historical days, including one day with a
// missing precipitation cell.
func mockObservations() []domain.RawObservation {
	obs := make([]domain.RawObservation, 0, 10)
	for i := 0; i < 10; i++ {
		day := baseDate.AddDate(0, 0, i)
		rec := domain.RawObservation{
			Date:     day.Format("2006-01-02"),
			TmaxC:    domain.Float(18.5 + float64(i)*0.3),
			TminC:    domain.Float(7.0 + float64(i)*0.2),
			PrecipMM: domain.Float(float64(i%3) * 1.2),
		}
		if i == 4 {
			rec.PrecipMM = nil
		}
		obs = append(obs, rec)
	}
	return obs
}

// mockForecasts covers a window overlapping the last three historical days
// and extending a week past them.
func mockForecasts() []domain.RawForecast {
	fcs := make([]domain.RawForecast, 0, 10)
	for i := 7; i < 17; i++ {
		day := baseDate.AddDate(0, 0, i)
		fcs = append(fcs, domain.RawForecast{
			Date:     day.Format("2006-01-02"),
			TmaxC:    domain.Float(17.0 + float64(i)*0.25),
			TminC:    domain.Float(6.0 + float64(i)*0.15),
			PrecipMM: domain.Float(float64(i%4) * 0.8),
		})
	}
	return fcs
}

func writeECCCFixture(path string, obs []domain.RawObservation) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create fixture directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create fixture file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Date/Time", "Max Temp (°C)", "Min Temp (°C)", "Total Precip (mm)"}); err != nil {
		return err
	}
	for _, o := range obs {
		if err := w.Write([]string{o.Date, cell(o.TmaxC), cell(o.TminC), cell(o.PrecipMM)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func cell(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.1f", *v)
}
