// Package service provides the analysis pipeline for the landscape monitor.
package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"landscape-monitor/internal/model"
)

// vegetationStressPct is the mean NDVI deviation below which the landscape
// narrative reports vegetation stress.
const vegetationStressPct = -15.0

// vegetationIndicator is the indicator driving the landscape narrative.
const vegetationIndicator = "ndvi"

// Assembler aggregates classified records into the immutable per-period
// assessment report: landscape counts, per-zone indicator tables in the
// configured indicator order, the combined alert list stable-sorted HIGH
// before MODERATE, and recommendation stubs for every HIGH alert.
type Assembler struct {
	zones      *model.ZoneRegistry
	indicators []*model.IndicatorDefinition // Caller-specified row order
	clock      clockwork.Clock
	timezone   *time.Location
	version    string
	preparedBy string
	logger     zerolog.Logger
}

// AssemblerOption is a functional option for configuring an Assembler.
type AssemblerOption func(*Assembler)

// WithVersion sets the tool version stamped into reports.
func WithVersion(version string) AssemblerOption {
	return func(a *Assembler) {
		a.version = version
	}
}

// WithClock overrides the report clock, used by tests to pin GeneratedAt.
func WithClock(clock clockwork.Clock) AssemblerOption {
	return func(a *Assembler) {
		a.clock = clock
	}
}

// WithPreparedBy sets the prepared-by attribution in report metadata.
func WithPreparedBy(preparedBy string) AssemblerOption {
	return func(a *Assembler) {
		a.preparedBy = preparedBy
	}
}

// WithTimezone sets the timezone used for report timestamps.
func WithTimezone(tz *time.Location) AssemblerOption {
	return func(a *Assembler) {
		if tz != nil {
			a.timezone = tz
		}
	}
}

// NewAssembler creates a new Assembler.
func NewAssembler(zones *model.ZoneRegistry, indicators []*model.IndicatorDefinition, logger zerolog.Logger, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		zones:      zones,
		indicators: indicators,
		clock:      clockwork.NewRealClock(),
		timezone:   time.UTC,
		version:    "dev",
		logger:     logger.With().Str("component", "assembler").Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble builds the assessment report for one reporting period. Empty
// input still yields a valid report with zero counts and the explicit
// no-active-alerts marker, never nil.
func (a *Assembler) Assemble(period model.Period, cls *ClassificationResult, quality []*model.QualityFinding, startedAt time.Time) *model.AssessmentReport {
	if cls == nil {
		cls = &ClassificationResult{}
	}

	generatedAt := a.clock.Now().In(a.timezone)

	alerts := sortAlerts(cls.Alerts)
	alertSummary := model.NewAlertSummary(alerts)

	report := &model.AssessmentReport{
		Period:         period,
		GeneratedAt:    generatedAt,
		Duration:       generatedAt.Sub(startedAt),
		RunID:          runFingerprint(period, cls.Records),
		Version:        a.version,
		PreparedBy:     a.preparedBy,
		CRS:            a.zones.CRS,
		BoundaryStatus: a.zones.AggregateBoundaryStatus(),
		AlertSummary:   alertSummary,
		Zones:          a.buildZoneAssessments(cls.Records, alerts),
		Alerts:         alerts,
		Quality:        quality,
		Skipped:        cls.Skipped,
	}

	report.Summary = &model.LandscapeSummary{
		TotalZones:       len(a.zones.Zones),
		TotalIndicators:  activeIndicatorCount(a.indicators),
		TotalAreaKm2:     a.zones.TotalAreaKm2(),
		HighCount:        alertSummary.HighCount,
		ModerateCount:    alertSummary.ModerateCount,
		SkippedRecords:   len(cls.Skipped),
		NoActiveAlerts:   len(alerts) == 0,
		VegetationStatus: a.vegetationStatus(cls.Records),
	}

	report.ExecutiveSummary = a.buildExecutiveSummary(report)
	report.Recommendations = a.buildRecommendations(alerts)

	a.logger.Info().
		Str("period", period.String()).
		Str("run_id", report.RunID).
		Int("zones", len(report.Zones)).
		Int("alerts", alertSummary.TotalAlerts).
		Int("high", alertSummary.HighCount).
		Int("recommendations", len(report.Recommendations)).
		Msg("report assembled")

	return report
}

// sortAlerts orders the combined alert list HIGH before MODERATE. The sort
// is stable: entries of equal severity keep their input order, which keeps
// report fixtures reproducible.
func sortAlerts(alerts []*model.Alert) []*model.Alert {
	sorted := make([]*model.Alert, len(alerts))
	copy(sorted, alerts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.Rank() < sorted[j].Severity.Rank()
	})
	return sorted
}

// buildZoneAssessments builds one assessment per registry zone, rows in
// the configured indicator order regardless of classification order.
func (a *Assembler) buildZoneAssessments(records []*ClassifiedRecord, alerts []*model.Alert) []*model.ZoneAssessment {
	// Index classified records by zone and indicator for row lookup.
	byZone := make(map[string]map[string]*ClassifiedRecord)
	for _, cr := range records {
		if cr == nil || cr.Record == nil {
			continue
		}
		zone := cr.Record.Zone
		if byZone[zone] == nil {
			byZone[zone] = make(map[string]*ClassifiedRecord)
		}
		byZone[zone][cr.Record.Indicator] = cr
	}

	alertsByZone := make(map[string][]*model.Alert)
	for _, alert := range alerts {
		alertsByZone[alert.Zone] = append(alertsByZone[alert.Zone], alert)
	}

	assessments := make([]*model.ZoneAssessment, 0, len(a.zones.Zones))
	for _, zone := range a.zones.Zones {
		assessment := &model.ZoneAssessment{
			ZoneKey:        zone.Key,
			ZoneName:       zone.Name,
			Authority:      zone.Authority,
			Designation:    zone.Designation,
			AreaKm2:        zone.AreaKm2,
			BoundaryStatus: zone.BoundaryStatus,
			Status:         model.SeverityNormal,
			Rows:           make([]*model.IndicatorRow, 0, len(a.indicators)),
			Alerts:         alertsByZone[zone.Key],
		}

		for _, def := range a.indicators {
			if def.IsPending() {
				continue
			}
			row := &model.IndicatorRow{
				Indicator:   def.Name,
				DisplayName: def.DisplayName,
				Unit:        def.Unit,
				Deviation:   model.UnknownDeviation(),
				Severity:    model.SeverityNormal,
				Detail:      "no measurement received this period",
			}
			if cr, ok := byZone[zone.Key][def.Name]; ok {
				row.Current = cr.Record.Current
				row.Baseline = cr.Record.Baseline
				row.Deviation = cr.Deviation
				row.Severity = cr.Severity
				row.Detail = cr.Detail
			}
			if row.Severity.MoreSevere(assessment.Status) {
				assessment.Status = row.Severity
			}
			assessment.Rows = append(assessment.Rows, row)
		}

		assessments = append(assessments, assessment)
	}

	return assessments
}

// vegetationStatus derives the landscape narrative from the mean of known
// NDVI deviations across zones.
func (a *Assembler) vegetationStatus(records []*ClassifiedRecord) string {
	var sum float64
	var n int
	for _, cr := range records {
		if cr == nil || cr.Record == nil || cr.Record.Indicator != vegetationIndicator {
			continue
		}
		if pct, ok := cr.Deviation.Value(); ok {
			sum += pct
			n++
		}
	}
	if n > 0 && sum/float64(n) < vegetationStressPct {
		return "showing vegetation stress"
	}
	return "stable"
}

// buildExecutiveSummary writes the narrative lead for the report.
func (a *Assembler) buildExecutiveSummary(report *model.AssessmentReport) string {
	high := report.HighAlerts()

	var lead string
	if len(high) > 0 {
		const maxListed = 3
		parts := make([]string, 0, maxListed)
		for i, alert := range high {
			if i == maxListed {
				break
			}
			parts = append(parts, fmt.Sprintf("%s in %s", alert.IndicatorDisplay, alert.ZoneName))
		}
		lead = fmt.Sprintf("%d HIGH-severity alert(s) detected: %s", len(high), strings.Join(parts, "; "))
		if extra := len(high) - maxListed; extra > 0 {
			lead += fmt.Sprintf(" (+%d additional)", extra)
		}
		lead += "."
	} else {
		lead = "No HIGH-severity alerts this reporting cycle."
	}

	summary := fmt.Sprintf(
		"%s Landscape conditions across the monitored area are %s.",
		lead, report.Summary.VegetationStatus)

	if report.Summary.SkippedRecords > 0 {
		summary += fmt.Sprintf(" %d record(s) referencing unregistered zones were excluded.", report.Summary.SkippedRecords)
	}
	if report.BoundaryStatus == model.BoundaryPlaceholder {
		summary += " Zone boundaries are indicative placeholders; spatial attribution is approximate pending verified shapefiles."
	}

	return summary
}

// buildRecommendations generates exactly three audience-targeted actions
// per HIGH alert: field verification, formal authority notification, and
// donor reporting. Authority text references the zone's heritage
// obligation when the alert carries one.
func (a *Assembler) buildRecommendations(alerts []*model.Alert) []*model.Recommendation {
	var recs []*model.Recommendation
	for _, alert := range alerts {
		if !alert.IsHigh() {
			continue
		}

		zone, _ := a.zones.Get(alert.Zone)
		authority := "the zone authority"
		if zone != nil && zone.Authority != "" {
			authority = zone.Authority
		}

		indicator := strings.ToLower(alert.IndicatorDisplay)

		government := fmt.Sprintf("Send formal written notification of the %s anomaly in %s to %s.",
			indicator, alert.ZoneName, authority)
		if alert.ObligationNote != "" {
			government += fmt.Sprintf(" Reference %s.", alert.ObligationNote)
		}

		recs = append(recs,
			&model.Recommendation{
				Zone: alert.Zone, ZoneName: alert.ZoneName, Indicator: alert.IndicatorDisplay,
				Audience: model.AudienceFieldTeam,
				Action: fmt.Sprintf("Deploy field teams for ground-truth verification of the %s signal in %s.",
					indicator, alert.ZoneName),
			},
			&model.Recommendation{
				Zone: alert.Zone, ZoneName: alert.ZoneName, Indicator: alert.IndicatorDisplay,
				Audience: model.AudienceGovernment,
				Action:   government,
			},
			&model.Recommendation{
				Zone: alert.Zone, ZoneName: alert.ZoneName, Indicator: alert.IndicatorDisplay,
				Audience: model.AudienceDonor,
				Action: fmt.Sprintf("Document the %s evidence, with supporting imagery, in the next donor report for adaptive management.",
					indicator),
			},
		)
	}
	return recs
}

// runFingerprint derives a deterministic run id from the period and the
// classified record identities: identical input yields an identical id, so
// rerunning a period reproduces the report byte for byte.
func runFingerprint(period model.Period, records []*ClassifiedRecord) string {
	h := sha256.New()
	fmt.Fprintln(h, period.String())
	for _, cr := range records {
		if cr != nil && cr.Record != nil {
			fmt.Fprintln(h, cr.Record.Identity())
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}

// activeIndicatorCount counts non-pending indicator definitions.
func activeIndicatorCount(defs []*model.IndicatorDefinition) int {
	n := 0
	for _, d := range defs {
		if !d.IsPending() {
			n++
		}
	}
	return n
}
