// Package model provides data models for the landscape monitor.
package model

import "time"

// QualityStatus represents the outcome of a data-quality check.
type QualityStatus string

const (
	QualityPass    QualityStatus = "PASS"
	QualityWarning QualityStatus = "WARNING"
)

// QualityFinding is the result of one data-quality check on an ingested
// dataset. Findings are informational: the run continues, operators read
// them in the report.
type QualityFinding struct {
	Dataset string        `json:"dataset"`            // Export dataset name
	Status  QualityStatus `json:"status"`             // PASS or WARNING
	Records int           `json:"records"`            // Records ingested from the dataset
	NullPct float64       `json:"null_pct"`           // Fraction of missing current values, percent
	Note    string        `json:"note,omitempty"`     // Explanation when status is WARNING
}

// SkippedRecord tracks a measurement record excluded from aggregation.
type SkippedRecord struct {
	Zone      string `json:"zone"`
	Indicator string `json:"indicator"`
	Reason    string `json:"reason"`
}

// IndicatorRow is one row of a per-zone assessment table: the current and
// baseline values, the deviation outcome and the assigned severity for a
// single indicator.
type IndicatorRow struct {
	Indicator   string    `json:"indicator"`          // Canonical name
	DisplayName string    `json:"display_name"`       // Human-readable name
	Unit        string    `json:"unit,omitempty"`     // Native unit
	Current     *float64  `json:"current,omitempty"`  // Current value, nil on gap
	Baseline    *float64  `json:"baseline,omitempty"` // Baseline value, nil when missing
	Deviation   Deviation `json:"deviation"`          // Deviation outcome
	Severity    Severity  `json:"severity"`           // Assigned severity
	Detail      string    `json:"detail"`             // Classification detail
}

// ZoneAssessment aggregates one zone's classified indicators for the
// reporting period. Rows follow the caller-specified indicator order, not
// classification order.
type ZoneAssessment struct {
	ZoneKey        string          `json:"zone_key"`
	ZoneName       string          `json:"zone_name"`
	Authority      string          `json:"authority,omitempty"`
	Designation    string          `json:"designation,omitempty"`
	AreaKm2        float64         `json:"area_km2,omitempty"`
	BoundaryStatus BoundaryStatus  `json:"boundary_status"`
	Status         Severity        `json:"status"` // Worst severity across the zone's rows
	Rows           []*IndicatorRow `json:"rows"`
	Alerts         []*Alert        `json:"alerts,omitempty"`
}

// HasAlerts reports whether this zone raised any alerts.
func (z *ZoneAssessment) HasAlerts() bool {
	return len(z.Alerts) > 0
}

// LandscapeSummary provides landscape-level aggregate facts.
type LandscapeSummary struct {
	TotalZones       int     `json:"total_zones"`
	TotalIndicators  int     `json:"total_indicators"`
	TotalAreaKm2     float64 `json:"total_area_km2"`
	HighCount        int     `json:"high_count"`
	ModerateCount    int     `json:"moderate_count"`
	SkippedRecords   int     `json:"skipped_records"`
	NoActiveAlerts   bool    `json:"no_active_alerts"`  // Explicit marker: zero alerts this cycle
	VegetationStatus string  `json:"vegetation_status"` // "stable" or "showing vegetation stress"
}

// AssessmentReport is the immutable output of one monthly analysis run:
// landscape counts, per-zone tables, the combined alert list sorted HIGH
// before MODERATE, and recommendation stubs for every HIGH alert.
type AssessmentReport struct {
	// Run metadata
	Period         Period         `json:"period"`
	GeneratedAt    time.Time      `json:"generated_at"`
	Duration       time.Duration  `json:"duration"`
	RunID          string         `json:"run_id"`            // Deterministic fingerprint of the input
	Version        string         `json:"version,omitempty"` // Tool version
	PreparedBy     string         `json:"prepared_by,omitempty"`
	CRS            string         `json:"crs,omitempty"`             // Analysis coordinate reference system
	BoundaryStatus BoundaryStatus `json:"boundary_status,omitempty"` // Weakest boundary status across zones

	// Narrative
	ExecutiveSummary string `json:"executive_summary"`

	// Aggregates
	Summary      *LandscapeSummary `json:"summary"`
	AlertSummary *AlertSummary     `json:"alert_summary"`

	// Detail
	Zones           []*ZoneAssessment `json:"zones"`
	Alerts          []*Alert          `json:"alerts"` // Stable-sorted HIGH before MODERATE
	Recommendations []*Recommendation `json:"recommendations,omitempty"`
	Quality         []*QualityFinding `json:"data_quality,omitempty"`
	Skipped         []SkippedRecord   `json:"skipped,omitempty"`
}

// HasHigh reports whether the run produced any HIGH alert.
func (r *AssessmentReport) HasHigh() bool {
	return r.AlertSummary != nil && r.AlertSummary.HighCount > 0
}

// HasModerate reports whether the run produced any MODERATE alert.
func (r *AssessmentReport) HasModerate() bool {
	return r.AlertSummary != nil && r.AlertSummary.ModerateCount > 0
}

// HighAlerts returns the HIGH-severity alerts in report order.
func (r *AssessmentReport) HighAlerts() []*Alert {
	var high []*Alert
	for _, a := range r.Alerts {
		if a != nil && a.IsHigh() {
			high = append(high, a)
		}
	}
	return high
}

// ZoneByKey finds a zone assessment by zone key.
func (r *AssessmentReport) ZoneByKey(key string) *ZoneAssessment {
	for _, z := range r.Zones {
		if z != nil && z.ZoneKey == key {
			return z
		}
	}
	return nil
}
