package domain

import "log/slog"

// NormalizeStats counts what a normalizer did with its raw input. The
// pipeline feeds these into metrics.
type NormalizeStats struct {
	Input      int
	Dropped    int
	Duplicates int
}

// NormalizeHistorical converts raw ECCC observation records into canonical
// rows, one per distinct date. Records with unparseable dates are dropped
// with a diagnostic. Duplicate dates resolve last-write-wins: the source is
// append-only and chronological, so the latest-seen record is kept along
// with its later ingested_at stamp.
func NormalizeHistorical(records []RawObservation, logger *slog.Logger) ([]CanonicalRow, NormalizeStats) {
	stats := NormalizeStats{Input: len(records)}
	byDate := make(map[Date]CanonicalRow, len(records))
	order := make([]Date, 0, len(records))

	for _, rec := range records {
		date, err := ParseDate(rec.Date)
		if err != nil {
			stats.Dropped++
			logger.Warn("dropping historical record",
				"reason", "unparseable date", "date", rec.Date, "error", err)
			continue
		}
		if _, ok := byDate[date]; ok {
			stats.Duplicates++
			logger.Warn("duplicate historical date, keeping latest record", "date", date.String())
		} else {
			order = append(order, date)
		}
		byDate[date] = CanonicalRow{
			Date:        date,
			DataType:    DataTypeHistorical,
			Source:      SourceECCC,
			IngestedAt:  clock.Now().In(torontoTZ),
			ObsTmaxC:    rec.TmaxC,
			ObsTminC:    rec.TminC,
			ObsPrecipMM: rec.PrecipMM,
		}
	}

	rows := make([]CanonicalRow, 0, len(byDate))
	for _, d := range order {
		rows = append(rows, byDate[d])
	}
	return rows, stats
}

// NormalizeForecast converts raw Open-Meteo daily records into canonical
// rows, one per distinct date. A record missing any of the three metrics is
// rejected and its date dropped from the output: a partial forecast is not
// actionable. Unparseable dates drop the same way. Duplicate dates resolve
// last-write-wins, matching the historical normalizer.
func NormalizeForecast(records []RawForecast, logger *slog.Logger) ([]CanonicalRow, NormalizeStats) {
	stats := NormalizeStats{Input: len(records)}
	byDate := make(map[Date]CanonicalRow, len(records))
	order := make([]Date, 0, len(records))

	for _, rec := range records {
		date, err := ParseDate(rec.Date)
		if err != nil {
			stats.Dropped++
			logger.Warn("dropping forecast record",
				"reason", "unparseable date", "date", rec.Date, "error", err)
			continue
		}
		if rec.TmaxC == nil || rec.TminC == nil || rec.PrecipMM == nil {
			stats.Dropped++
			logger.Warn("dropping forecast record",
				"reason", "missing required metric", "date", rec.Date)
			continue
		}
		if _, ok := byDate[date]; ok {
			stats.Duplicates++
			logger.Warn("duplicate forecast date, keeping latest record", "date", date.String())
		} else {
			order = append(order, date)
		}
		byDate[date] = CanonicalRow{
			Date:       date,
			DataType:   DataTypeForecast,
			Source:     SourceOpenMeteo,
			IngestedAt: clock.Now().In(torontoTZ),
			FcTmaxC:    rec.TmaxC,
			FcTminC:    rec.TminC,
			FcPrecipMM: rec.PrecipMM,
		}
	}

	rows := make([]CanonicalRow, 0, len(byDate))
	for _, d := range order {
		rows = append(rows, byDate[d])
	}
	return rows, stats
}
