package domain

// Summary is the diagnostics report produced after a merge, used to confirm
// forecast coverage and to eyeball overlap rows.
type Summary struct {
	TotalRows     int
	DistinctDates int
	// ForecastRows counts rows with a non-nil fc_tmax_c. The forecast
	// normalizer requires all three fc metrics, so this is the number of
	// dates the forecast side contributed to.
	ForecastRows int
	// OverlapSample holds up to sampleSize rows where both sides supplied
	// data, for manual inspection.
	OverlapSample []FlatRow
}

// Summarize computes the diagnostics summary for a merged table. sampleSize
// caps the overlap sample; values below zero are treated as zero.
func Summarize(rows []FlatRow, sampleSize int) Summary {
	s := Summary{TotalRows: len(rows)}
	dates := make(map[Date]struct{}, len(rows))

	for _, row := range rows {
		dates[row.Date] = struct{}{}
		if row.FcTmaxC == nil {
			continue
		}
		s.ForecastRows++
		// A historical data_type with forecast metrics present means the
		// date existed on both sides.
		if row.DataType == DataTypeHistorical && len(s.OverlapSample) < sampleSize {
			s.OverlapSample = append(s.OverlapSample, row)
		}
	}
	s.DistinctDates = len(dates)
	return s
}
