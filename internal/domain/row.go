package domain

import (
	"strconv"
	"time"
)

// DataType tags which side of the pipeline a row came from. After the merge
// it reflects the precedence decision: historical wins over forecast.
type DataType string

const (
	DataTypeHistorical DataType = "historical"
	DataTypeForecast   DataType = "forecast"
)

// Source identifies the upstream system that supplied a row.
type Source string

const (
	SourceECCC      Source = "ECCC"
	SourceOpenMeteo Source = "OpenMeteo"
)

// ingestedAtLayout is the wire format for ingested_at in the flat CSV.
const ingestedAtLayout = "2006-01-02 15:04:05"

// RawObservation is one row of an ECCC daily CSV as read by the adapter,
// before date parsing and deduplication. Metric pointers are nil when the
// source cell was empty or non-numeric.
type RawObservation struct {
	Date     string
	TmaxC    *float64
	TminC    *float64
	PrecipMM *float64
}

// RawForecast is one day of an Open-Meteo daily response as read by the
// adapter. Metric pointers are nil when the API returned null for the day.
type RawForecast struct {
	Date     string
	TmaxC    *float64
	TminC    *float64
	PrecipMM *float64
}

// CanonicalRow is the normalized per-source representation before the merge.
// Exactly one metric triple belongs to the row's side; the other stays nil.
type CanonicalRow struct {
	Date       Date
	DataType   DataType
	Source     Source
	IngestedAt time.Time

	ObsTmaxC    *float64
	ObsTminC    *float64
	ObsPrecipMM *float64

	FcTmaxC    *float64
	FcTminC    *float64
	FcPrecipMM *float64
}

// FlatRow is one row of the merged 10-field table, the pipeline's output
// contract.
type FlatRow struct {
	Date       Date      `json:"date"`
	DataType   DataType  `json:"data_type"`
	Source     Source    `json:"source"`
	IngestedAt time.Time `json:"ingested_at"`

	ObsTmaxC    *float64 `json:"obs_tmax_c"`
	ObsTminC    *float64 `json:"obs_tmin_c"`
	ObsPrecipMM *float64 `json:"obs_precip_mm"`

	FcTmaxC    *float64 `json:"fc_tmax_c"`
	FcTminC    *float64 `json:"fc_tmin_c"`
	FcPrecipMM *float64 `json:"fc_precip_mm"`
}

// FlatColumns is the flat table header, in output order. The serialized
// header row must match these names verbatim.
var FlatColumns = []string{
	"date", "data_type", "source", "ingested_at",
	"obs_tmax_c", "obs_tmin_c", "obs_precip_mm",
	"fc_tmax_c", "fc_tmin_c", "fc_precip_mm",
}

// Record renders the row as CSV fields in FlatColumns order. Nil metrics
// become empty cells.
func (r FlatRow) Record() []string {
	return []string{
		r.Date.String(),
		string(r.DataType),
		string(r.Source),
		r.IngestedAt.Format(ingestedAtLayout),
		formatMetric(r.ObsTmaxC),
		formatMetric(r.ObsTminC),
		formatMetric(r.ObsPrecipMM),
		formatMetric(r.FcTmaxC),
		formatMetric(r.FcTminC),
		formatMetric(r.FcPrecipMM),
	}
}

func formatMetric(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Float returns a pointer to v. Convenience for building rows with optional
// metrics.
func Float(v float64) *float64 {
	return &v
}
