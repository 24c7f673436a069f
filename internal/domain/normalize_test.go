package domain

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var frozenNow = time.Date(2025, time.October, 1, 6, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func freezeClock(t *testing.T) {
	t.Helper()
	SetClock(clockwork.NewFakeClockAt(frozenNow))
	t.Cleanup(func() { SetClock(nil) })
}

func TestNormalizeHistorical(t *testing.T) {
	freezeClock(t)

	t.Run("maps metrics and tags", func(t *testing.T) {
		records := []RawObservation{
			{Date: "2025-09-27", TmaxC: Float(21.6), TminC: Float(7.9), PrecipMM: Float(0.0)},
		}

		rows, stats := NormalizeHistorical(records, discardLogger())

		require.Len(t, rows, 1)
		row := rows[0]
		assert.Equal(t, Date{2025, time.September, 27}, row.Date)
		assert.Equal(t, DataTypeHistorical, row.DataType)
		assert.Equal(t, SourceECCC, row.Source)
		assert.Equal(t, frozenNow.In(torontoTZ), row.IngestedAt)
		assert.Equal(t, 21.6, *row.ObsTmaxC)
		assert.Equal(t, 7.9, *row.ObsTminC)
		assert.Equal(t, 0.0, *row.ObsPrecipMM)
		assert.Nil(t, row.FcTmaxC)
		assert.Nil(t, row.FcTminC)
		assert.Nil(t, row.FcPrecipMM)
		assert.Equal(t, NormalizeStats{Input: 1}, stats)
	})

	t.Run("missing metric stays nil", func(t *testing.T) {
		records := []RawObservation{
			{Date: "2025-09-27", TmaxC: Float(21.6)},
		}

		rows, _ := NormalizeHistorical(records, discardLogger())

		require.Len(t, rows, 1)
		assert.Equal(t, 21.6, *rows[0].ObsTmaxC)
		assert.Nil(t, rows[0].ObsTminC)
		assert.Nil(t, rows[0].ObsPrecipMM)
	})

	t.Run("malformed date dropped", func(t *testing.T) {
		records := []RawObservation{
			{Date: "garbage", TmaxC: Float(10)},
			{Date: "2025-09-27", TmaxC: Float(21.6)},
		}

		rows, stats := NormalizeHistorical(records, discardLogger())

		require.Len(t, rows, 1)
		assert.Equal(t, Date{2025, time.September, 27}, rows[0].Date)
		assert.Equal(t, 1, stats.Dropped)
	})

	t.Run("duplicate date keeps latest record", func(t *testing.T) {
		records := []RawObservation{
			{Date: "2025-09-27", TmaxC: Float(20.0), TminC: Float(8.0), PrecipMM: Float(1.0)},
			{Date: "2025-09-27", TmaxC: Float(21.6), TminC: Float(7.9), PrecipMM: Float(0.0)},
		}

		rows, stats := NormalizeHistorical(records, discardLogger())

		require.Len(t, rows, 1)
		assert.Equal(t, 21.6, *rows[0].ObsTmaxC)
		assert.Equal(t, 0.0, *rows[0].ObsPrecipMM)
		assert.Equal(t, 1, stats.Duplicates)
	})

	t.Run("empty input", func(t *testing.T) {
		rows, stats := NormalizeHistorical(nil, discardLogger())
		assert.Empty(t, rows)
		assert.Equal(t, NormalizeStats{}, stats)
	})
}

func TestNormalizeForecast(t *testing.T) {
	freezeClock(t)

	t.Run("maps metrics and tags", func(t *testing.T) {
		records := []RawForecast{
			{Date: "2025-10-01", TmaxC: Float(16.5), TminC: Float(1.5), PrecipMM: Float(0.0)},
		}

		rows, stats := NormalizeForecast(records, discardLogger())

		require.Len(t, rows, 1)
		row := rows[0]
		assert.Equal(t, Date{2025, time.October, 1}, row.Date)
		assert.Equal(t, DataTypeForecast, row.DataType)
		assert.Equal(t, SourceOpenMeteo, row.Source)
		assert.Equal(t, 16.5, *row.FcTmaxC)
		assert.Equal(t, 1.5, *row.FcTminC)
		assert.Equal(t, 0.0, *row.FcPrecipMM)
		assert.Nil(t, row.ObsTmaxC)
		assert.Nil(t, row.ObsTminC)
		assert.Nil(t, row.ObsPrecipMM)
		assert.Equal(t, NormalizeStats{Input: 1}, stats)
	})

	t.Run("missing precip drops the date", func(t *testing.T) {
		records := []RawForecast{
			{Date: "2025-10-01", TmaxC: Float(16.5), TminC: Float(1.5)},
			{Date: "2025-10-02", TmaxC: Float(15.0), TminC: Float(2.0), PrecipMM: Float(3.2)},
		}

		rows, stats := NormalizeForecast(records, discardLogger())

		require.Len(t, rows, 1)
		assert.Equal(t, Date{2025, time.October, 2}, rows[0].Date)
		assert.Equal(t, 1, stats.Dropped)
	})

	t.Run("missing tmax and tmin drop the date", func(t *testing.T) {
		records := []RawForecast{
			{Date: "2025-10-01", TminC: Float(1.5), PrecipMM: Float(0.0)},
			{Date: "2025-10-02", TmaxC: Float(15.0), PrecipMM: Float(0.0)},
		}

		rows, stats := NormalizeForecast(records, discardLogger())

		assert.Empty(t, rows)
		assert.Equal(t, 2, stats.Dropped)
	})

	t.Run("malformed date dropped", func(t *testing.T) {
		records := []RawForecast{
			{Date: "soon", TmaxC: Float(1), TminC: Float(0), PrecipMM: Float(0)},
		}

		rows, stats := NormalizeForecast(records, discardLogger())

		assert.Empty(t, rows)
		assert.Equal(t, 1, stats.Dropped)
	})

	t.Run("duplicate date keeps latest record", func(t *testing.T) {
		records := []RawForecast{
			{Date: "2025-10-01", TmaxC: Float(15.0), TminC: Float(1.0), PrecipMM: Float(0.5)},
			{Date: "2025-10-01", TmaxC: Float(16.5), TminC: Float(1.5), PrecipMM: Float(0.0)},
		}

		rows, stats := NormalizeForecast(records, discardLogger())

		require.Len(t, rows, 1)
		assert.Equal(t, 16.5, *rows[0].FcTmaxC)
		assert.Equal(t, 1, stats.Duplicates)
	})
}
