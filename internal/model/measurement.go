// Package model provides data models for the landscape monitor.
package model

import (
	"fmt"
	"time"
)

// Period identifies one monthly reporting cycle.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// ParsePeriod parses a period string in "YYYY-MM" format.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q (expected YYYY-MM): %w", s, err)
	}
	return Period{Year: t.Year(), Month: int(t.Month())}, nil
}

// PeriodOf returns the period containing the given time.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// String returns the period in "YYYY-MM" format.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// FileSuffix returns the period in "YYYY_MM" format, as used in GEE export filenames.
func (p Period) FileSuffix() string {
	return fmt.Sprintf("%04d_%02d", p.Year, p.Month)
}

// DisplayName returns the period as a human-readable month name (e.g. "July 2025").
func (p Period) DisplayName() string {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// MeasurementRecord is the atomic unit consumed by the analysis pipeline:
// one zone, one indicator, one reporting period. Current and Baseline are
// nil when the satellite value could not be derived (cloud gaps, missing
// history) — never silently zero.
type MeasurementRecord struct {
	Zone      string   `json:"zone"`               // Zone key (e.g. "zone_1_ihefu")
	Indicator string   `json:"indicator"`          // Indicator name (e.g. "ndvi")
	Period    Period   `json:"period"`             // Reporting period
	Current   *float64 `json:"current,omitempty"`  // Current monthly value, nil on sensor/cloud gap
	Baseline  *float64 `json:"baseline,omitempty"` // Long-run baseline for the same calendar month
	Dataset   string   `json:"dataset,omitempty"`  // Source export dataset (e.g. "ndvi_evi")
}

// HasCurrent reports whether a current value was measured.
func (r *MeasurementRecord) HasCurrent() bool {
	return r.Current != nil
}

// HasBaseline reports whether a baseline value is available.
func (r *MeasurementRecord) HasBaseline() bool {
	return r.Baseline != nil
}

// Identity returns a stable string identity for the record, used for
// deterministic run fingerprints.
func (r *MeasurementRecord) Identity() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s",
		r.Period, r.Zone, r.Indicator, floatIdentity(r.Current), floatIdentity(r.Baseline))
}

func floatIdentity(v *float64) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%g", *v)
}

// DeviationState distinguishes a computed deviation from the two
// cannot-compute outcomes.
type DeviationState string

const (
	DeviationKnown     DeviationState = "known"     // Numeric deviation computed
	DeviationUnknown   DeviationState = "unknown"   // Current or baseline missing
	DeviationUndefined DeviationState = "undefined" // Baseline is exactly zero
)

// Deviation is the outcome of comparing a current value against its
// baseline. It is a sum type: the percentage is meaningful only when
// State is DeviationKnown. Full precision is retained for threshold
// comparisons; Display rounds to one decimal for presentation.
type Deviation struct {
	State DeviationState `json:"state"`
	Pct   float64        `json:"pct,omitempty"` // (current-baseline)/baseline*100, valid only when known
}

// KnownDeviation wraps a computed percentage deviation.
func KnownDeviation(pct float64) Deviation {
	return Deviation{State: DeviationKnown, Pct: pct}
}

// UnknownDeviation marks a record whose deviation could not be computed
// because the current value or baseline is missing.
func UnknownDeviation() Deviation {
	return Deviation{State: DeviationUnknown}
}

// UndefinedDeviation marks a record whose baseline is exactly zero.
func UndefinedDeviation() Deviation {
	return Deviation{State: DeviationUndefined}
}

// IsKnown reports whether a numeric deviation is available.
func (d Deviation) IsKnown() bool {
	return d.State == DeviationKnown
}

// Value returns the deviation percentage and whether it is valid.
func (d Deviation) Value() (float64, bool) {
	if d.State != DeviationKnown {
		return 0, false
	}
	return d.Pct, true
}

// Display formats the deviation for presentation: signed, one decimal
// place for known values, "n/a" otherwise.
func (d Deviation) Display() string {
	switch d.State {
	case DeviationKnown:
		return fmt.Sprintf("%+.1f%%", d.Pct)
	case DeviationUndefined:
		return "undefined"
	default:
		return "n/a"
	}
}

// Float64 is a convenience constructor for optional measurement values.
func Float64(v float64) *float64 {
	return &v
}
