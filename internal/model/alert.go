// Package model provides data models for the landscape monitor.
package model

// Severity represents the severity tier assigned by the classifier.
type Severity string

const (
	SeverityNormal   Severity = "NORMAL"   // Within normal range (or insufficient data)
	SeverityModerate Severity = "MODERATE" // Threshold breached, monitor closely
	SeverityHigh     Severity = "HIGH"     // Immediate attention required
)

// severityRank orders severities from most to least severe.
var severityRank = map[Severity]int{
	SeverityHigh:     0,
	SeverityModerate: 1,
	SeverityNormal:   2,
}

// Rank returns the sort rank of the severity: HIGH sorts before MODERATE,
// MODERATE before NORMAL.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return len(severityRank)
}

// MoreSevere reports whether s outranks other.
func (s Severity) MoreSevere(other Severity) bool {
	return s.Rank() < other.Rank()
}

// Alert is a threshold violation for one zone/indicator in one reporting
// run. Alerts are created fresh each run and never mutated afterwards.
type Alert struct {
	Zone             string   `json:"zone"`                        // Zone key
	ZoneName         string   `json:"zone_name"`                   // Zone display name
	Indicator        string   `json:"indicator"`                   // Indicator canonical name
	IndicatorDisplay string   `json:"indicator_display"`           // Indicator display name
	Severity         Severity `json:"severity"`                    // MODERATE or HIGH
	TriggerValue     float64  `json:"trigger_value"`               // Value that breached the threshold
	Deviation        *float64 `json:"deviation_pct,omitempty"`     // Percent deviation, when the rule is deviation-based
	Detail           string   `json:"detail"`                      // Human-readable explanation
	Escalated        bool     `json:"escalated,omitempty"`         // MODERATE upgraded to HIGH by zone sensitivity
	ObligationNote   string   `json:"obligation_note,omitempty"`   // Heritage obligation to reference in formal communications
}

// IsHigh reports whether this alert is at HIGH severity.
func (a *Alert) IsHigh() bool {
	return a.Severity == SeverityHigh
}

// IsModerate reports whether this alert is at MODERATE severity.
func (a *Alert) IsModerate() bool {
	return a.Severity == SeverityModerate
}

// AlertSummary provides aggregated alert statistics.
type AlertSummary struct {
	TotalAlerts    int `json:"total_alerts"`
	HighCount      int `json:"high_count"`
	ModerateCount  int `json:"moderate_count"`
	EscalatedCount int `json:"escalated_count"`
}

// NewAlertSummary creates a new AlertSummary from a list of alerts.
func NewAlertSummary(alerts []*Alert) *AlertSummary {
	summary := &AlertSummary{}
	for _, alert := range alerts {
		if alert == nil {
			continue
		}
		summary.TotalAlerts++
		switch alert.Severity {
		case SeverityHigh:
			summary.HighCount++
		case SeverityModerate:
			summary.ModerateCount++
		}
		if alert.Escalated {
			summary.EscalatedCount++
		}
	}
	return summary
}

// Audience identifies the target of a recommendation.
type Audience string

const (
	AudienceFieldTeam  Audience = "field_team" // SRA ground teams
	AudienceGovernment Audience = "government" // Zone managing authority
	AudienceDonor      Audience = "donor"      // Funders and adaptive-management reporting
)

// Recommendation is one audience-targeted action generated for a HIGH
// alert. Every HIGH alert produces exactly three: field team, government
// authority and donor reporting.
type Recommendation struct {
	Zone      string   `json:"zone"`      // Zone key
	ZoneName  string   `json:"zone_name"` // Zone display name
	Indicator string   `json:"indicator"` // Indicator display name
	Audience  Audience `json:"audience"`  // Target audience
	Action    string   `json:"action"`    // Action text
}
