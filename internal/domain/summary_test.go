package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	hist := []CanonicalRow{
		mkHist(t, "2025-09-25", ingestedEarly, Float(19.0), Float(5.5), Float(2.4)),
		mkHist(t, "2025-09-26", ingestedEarly, Float(20.1), Float(6.2), Float(0.0)),
		mkHist(t, "2025-09-27", ingestedEarly, Float(21.6), Float(7.9), Float(0.0)),
	}
	fc := []CanonicalRow{
		mkFc(t, "2025-09-26", ingestedLate, Float(19.8), Float(6.5), Float(0.1)),
		mkFc(t, "2025-09-27", ingestedLate, Float(21.2), Float(9.1), Float(0.0)),
		mkFc(t, "2025-09-28", ingestedLate, Float(18.0), Float(8.0), Float(4.2)),
	}
	rows := Merge(hist, fc)

	s := Summarize(rows, 5)

	assert.Equal(t, 4, s.TotalRows)
	assert.Equal(t, 4, s.DistinctDates)
	assert.Equal(t, 3, s.ForecastRows)
	require.Len(t, s.OverlapSample, 2)
	assert.Equal(t, "2025-09-26", s.OverlapSample[0].Date.String())
	assert.Equal(t, "2025-09-27", s.OverlapSample[1].Date.String())
}

func TestSummarize_SampleCapped(t *testing.T) {
	var hist, fc []CanonicalRow
	for _, d := range []string{"2025-09-21", "2025-09-22", "2025-09-23", "2025-09-24"} {
		hist = append(hist, mkHist(t, d, ingestedEarly, Float(20), Float(10), Float(0)))
		fc = append(fc, mkFc(t, d, ingestedLate, Float(19), Float(9), Float(0)))
	}

	s := Summarize(Merge(hist, fc), 2)

	assert.Len(t, s.OverlapSample, 2)
	assert.Equal(t, 4, s.ForecastRows)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, 5)

	assert.Equal(t, Summary{}, s)
}
