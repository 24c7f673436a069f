package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// torontoTZ is the canonical zone for calendar dates. Both feeds report
// daily values local to the station, so raw timestamps are interpreted in
// America/Toronto before the time-of-day component is discarded.
var torontoTZ = mustLoadLocation("America/Toronto")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("load location %s: %v", name, err))
	}
	return loc
}

// Date is a calendar date with no time-of-day component. It is comparable
// and usable as a map key, which is what the merge join needs.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// dateLayouts are tried in order when parsing raw date strings. ECCC exports
// carry plain dates or date-plus-time depending on the station, and the
// Open-Meteo daily axis uses plain ISO dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
}

// ParseDate parses a raw date string into a Date in America/Toronto.
func ParseDate(s string) (Date, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, torontoTZ); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("unparseable date %q", s)
}

// DateOf truncates t to its calendar date in America/Toronto.
func DateOf(t time.Time) Date {
	y, m, d := t.In(torontoTZ).Date()
	return Date{Year: y, Month: m, Day: d}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
