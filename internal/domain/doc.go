// Package domain models the daily flat weather table and the merge that
// produces it from two heterogeneous sources.
//
// # Data Sources
//
// Historical observations come from Environment and Climate Change Canada
// (ECCC) daily station CSV exports. Column headers vary by station and
// locale ("Date/Time" vs "LOCAL_DATE", "Max Temp (°C)" vs "MAX_TEMPERATURE"),
// so the CSV adapter resolves each logical column from a candidate list.
// Missing observations appear as empty cells or the "M" sentinel; both are
// carried as nil metrics, never as zero.
//
// Forecasts come from the Open-Meteo daily API
// (https://api.open-meteo.com/v1/forecast), requested with
// daily=temperature_2m_max,temperature_2m_min,precipitation_sum for a
// configurable horizon plus a past-days overlap window. The API returns
// parallel arrays indexed by the "time" axis; missing values are JSON nulls.
//
// # Dates
//
// Both feeds are daily, so every record is keyed by a calendar [Date] with
// no time-of-day component, interpreted in America/Toronto. Rows whose date
// cannot be parsed are dropped with a diagnostic, never fatal.
//
// # Canonical Rows
//
// Each normalizer emits one [CanonicalRow] per distinct date. A canonical
// row carries exactly one populated metric triple: obs_* for historical
// rows, fc_* for forecast rows, the other triple stays nil. Individual
// metrics inside the populated triple may still be nil when the source cell
// was missing (historical side only; forecast records missing any of the
// three metrics are rejected outright because a partial forecast is not
// actionable).
//
// Duplicate dates within one source resolve last-write-wins: the sources are
// append-only and chronological, so the latest-seen record is the freshest.
//
// # Merge
//
// [Merge] performs a full outer join on date. For every date in
// dates(H) ∪ dates(F) exactly one [FlatRow] is produced:
//
//   - ingested_at is the later of the two sides' timestamps.
//   - data_type and source are "historical"/"ECCC" whenever a historical row
//     exists for the date, even if a forecast row exists too; only dates with
//     no historical row are tagged "forecast"/"OpenMeteo".
//   - The six metric fields are copied verbatim from whichever side supplied
//     them. Nils are preserved; the merge never imputes or blends.
//
// Output is sorted ascending by date with unique dates. Merge is a pure
// function of its inputs: identical inputs yield byte-identical output.
package domain
