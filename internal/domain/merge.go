package domain

import "sort"

// Merge performs a full outer join of historical and forecast canonical rows
// on date. It is a pure function: it never touches the clock or any other
// state, so identical inputs always produce identical output, including row
// order.
//
// For each date in the union the merged row carries the obs_* triple from
// the historical side and the fc_* triple from the forecast side, nil where
// that side has no row. ingested_at is the later of the two sides.
// data_type/source are historical/ECCC whenever a historical row exists for
// the date, forecast/OpenMeteo otherwise. Metric nils are preserved as-is.
//
// Should the same date appear twice within one input, the later entry wins,
// matching the normalizers' tie-break. Normal callers pass normalizer output
// where dates are already unique.
func Merge(hist, fc []CanonicalRow) []FlatRow {
	histByDate := make(map[Date]CanonicalRow, len(hist))
	for _, row := range hist {
		histByDate[row.Date] = row
	}
	fcByDate := make(map[Date]CanonicalRow, len(fc))
	for _, row := range fc {
		fcByDate[row.Date] = row
	}

	dates := make([]Date, 0, len(histByDate)+len(fcByDate))
	for d := range histByDate {
		dates = append(dates, d)
	}
	for d := range fcByDate {
		if _, ok := histByDate[d]; !ok {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	rows := make([]FlatRow, 0, len(dates))
	for _, d := range dates {
		h, hasHist := histByDate[d]
		f, hasFc := fcByDate[d]

		row := FlatRow{Date: d}
		if hasHist {
			// Historical wins the descriptive fields even when a forecast
			// row exists for the same date.
			row.DataType = DataTypeHistorical
			row.Source = SourceECCC
			row.IngestedAt = h.IngestedAt
			row.ObsTmaxC = h.ObsTmaxC
			row.ObsTminC = h.ObsTminC
			row.ObsPrecipMM = h.ObsPrecipMM
		} else {
			row.DataType = DataTypeForecast
			row.Source = SourceOpenMeteo
		}
		if hasFc {
			if !hasHist || f.IngestedAt.After(h.IngestedAt) {
				row.IngestedAt = f.IngestedAt
			}
			row.FcTmaxC = f.FcTmaxC
			row.FcTminC = f.FcTminC
			row.FcPrecipMM = f.FcPrecipMM
		}
		rows = append(rows, row)
	}
	return rows
}
