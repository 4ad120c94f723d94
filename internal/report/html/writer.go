// Package html provides HTML report generation for the landscape monitor.
// It implements the report.ReportWriter interface to generate .html briefs
// with the executive summary, per-zone indicator tables, alerts and
// recommendations.
package html

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"landscape-monitor/internal/model"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Mode mirrors report.Mode without importing the parent package.
type Mode string

const (
	ModeFull  Mode = "full"
	ModeDonor Mode = "donor"
	ModeAlert Mode = "alert"
)

// Writer implements report.ReportWriter for HTML format.
type Writer struct {
	timezone     *time.Location
	templatePath string // User-defined template path (optional)
	mode         Mode
}

// TemplateData holds all data passed to the HTML template.
type TemplateData struct {
	Title            string
	Period           string
	GeneratedAt      string
	Duration         string
	RunID            string
	Version          string
	PreparedBy       string
	CRS              string
	BoundaryStatus   string
	ExecutiveSummary string
	Summary          *model.LandscapeSummary
	AlertSummary     *model.AlertSummary
	Zones            []*ZoneData
	Alerts           []*AlertData
	Recommendations  []*RecommendationData
	Quality          []*QualityData
	ShowZones        bool
	ShowSummary      bool
	ShowQuality      bool
}

// ZoneData represents a zone assessment formatted for template rendering.
type ZoneData struct {
	Name        string
	Authority   string
	AreaKm2     float64
	Status      string
	StatusClass string
	Rows        []*RowData
}

// RowData represents one indicator row formatted for template rendering.
type RowData struct {
	Indicator     string
	Current       string
	Baseline      string
	Deviation     string
	Severity      string
	SeverityClass string
	Detail        string
}

// AlertData represents alert data formatted for template rendering.
type AlertData struct {
	Zone           string
	Indicator      string
	Severity       string
	SeverityClass  string
	Deviation      string
	Detail         string
	ObligationNote string
	Escalated      bool
}

// RecommendationData represents a recommendation formatted for rendering.
type RecommendationData struct {
	Zone     string
	Audience string
	Action   string
}

// QualityData represents a data-quality finding formatted for rendering.
type QualityData struct {
	Dataset     string
	Status      string
	StatusClass string
	Records     int
	Note        string
}

// NewWriter creates a new HTML report writer.
// If timezone is nil, it defaults to Africa/Dar_es_Salaam.
// If templatePath is empty, the embedded default template will be used.
func NewWriter(timezone *time.Location, templatePath string, mode Mode) *Writer {
	if timezone == nil {
		timezone, _ = time.LoadLocation("Africa/Dar_es_Salaam")
	}
	if mode == "" {
		mode = ModeFull
	}
	return &Writer{
		timezone:     timezone,
		templatePath: templatePath,
		mode:         mode,
	}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "html"
}

// Write generates an HTML brief from the assessment report.
func (w *Writer) Write(report *model.AssessmentReport, outputPath string) error {
	if report == nil {
		return fmt.Errorf("assessment report is nil")
	}

	// Ensure output path has .html extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".html") {
		outputPath = outputPath + ".html"
	}

	// Load template
	tmpl, err := w.loadTemplate()
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	// Prepare template data
	data := w.prepareTemplateData(report)

	// Create output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	// Execute template
	if err := tmpl.Execute(file, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}

// loadTemplate loads the HTML template.
// It first tries to load a user-defined template, then falls back to the embedded default.
func (w *Writer) loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"formatArea": formatArea,
	}

	// Try user-defined template first
	if w.templatePath != "" {
		if _, err := os.Stat(w.templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(w.templatePath)).Funcs(funcMap).ParseFiles(w.templatePath)
			if err != nil {
				return nil, fmt.Errorf("failed to parse user template: %w", err)
			}
			return tmpl, nil
		}
		// User template not found, fall through to default
	}

	// Load embedded default template
	tmpl, err := template.New("report.html").Funcs(funcMap).ParseFS(embeddedTemplates, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}

// prepareTemplateData converts an AssessmentReport to TemplateData for
// template rendering, flattening the nested model into display strings.
func (w *Writer) prepareTemplateData(report *model.AssessmentReport) *TemplateData {
	zones := make([]*ZoneData, 0, len(report.Zones))
	for _, zone := range report.Zones {
		zones = append(zones, w.convertZoneData(zone))
	}

	alerts := make([]*AlertData, 0, len(report.Alerts))
	for _, alert := range report.Alerts {
		alerts = append(alerts, convertAlertData(alert))
	}

	recs := make([]*RecommendationData, 0, len(report.Recommendations))
	for _, rec := range report.Recommendations {
		recs = append(recs, &RecommendationData{
			Zone:     rec.ZoneName,
			Audience: audienceText(rec.Audience),
			Action:   rec.Action,
		})
	}

	quality := make([]*QualityData, 0, len(report.Quality))
	for _, finding := range report.Quality {
		quality = append(quality, &QualityData{
			Dataset:     finding.Dataset,
			Status:      string(finding.Status),
			StatusClass: qualityClass(finding.Status),
			Records:     finding.Records,
			Note:        finding.Note,
		})
	}

	return &TemplateData{
		Title:            "Landscape Health Assessment — " + report.Period.DisplayName(),
		Period:           report.Period.String(),
		GeneratedAt:      report.GeneratedAt.In(w.timezone).Format("2006-01-02 15:04:05"),
		Duration:         formatDuration(report.Duration),
		RunID:            report.RunID,
		Version:          report.Version,
		PreparedBy:       report.PreparedBy,
		CRS:              report.CRS,
		BoundaryStatus:   string(report.BoundaryStatus),
		ExecutiveSummary: report.ExecutiveSummary,
		Summary:          report.Summary,
		AlertSummary:     report.AlertSummary,
		Zones:            zones,
		Alerts:           alerts,
		Recommendations:  recs,
		Quality:          quality,
		ShowZones:        w.mode == ModeFull,
		ShowSummary:      w.mode != ModeAlert,
		ShowQuality:      w.mode == ModeFull,
	}
}

// convertZoneData converts a ZoneAssessment to ZoneData for template rendering.
func (w *Writer) convertZoneData(zone *model.ZoneAssessment) *ZoneData {
	rows := make([]*RowData, 0, len(zone.Rows))
	for _, r := range zone.Rows {
		rows = append(rows, &RowData{
			Indicator:     r.DisplayName,
			Current:       formatOptional(r.Current),
			Baseline:      formatOptional(r.Baseline),
			Deviation:     r.Deviation.Display(),
			Severity:      string(r.Severity),
			SeverityClass: severityClass(r.Severity),
			Detail:        r.Detail,
		})
	}

	return &ZoneData{
		Name:        zone.ZoneName,
		Authority:   zone.Authority,
		AreaKm2:     zone.AreaKm2,
		Status:      string(zone.Status),
		StatusClass: severityClass(zone.Status),
		Rows:        rows,
	}
}

// convertAlertData converts an Alert to AlertData for template rendering.
func convertAlertData(alert *model.Alert) *AlertData {
	deviation := ""
	if alert.Deviation != nil {
		deviation = model.KnownDeviation(*alert.Deviation).Display()
	}

	return &AlertData{
		Zone:           alert.ZoneName,
		Indicator:      alert.IndicatorDisplay,
		Severity:       string(alert.Severity),
		SeverityClass:  severityClass(alert.Severity),
		Deviation:      deviation,
		Detail:         alert.Detail,
		ObligationNote: alert.ObligationNote,
		Escalated:      alert.Escalated,
	}
}

// Helper functions

// formatDuration formats a duration in a human-readable format.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}

// formatArea formats an area in square kilometers.
func formatArea(km2 float64) string {
	return fmt.Sprintf("%.0f km²", km2)
}

// formatOptional renders an optional measurement value.
func formatOptional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4g", *v)
}

// severityClass returns the CSS class for a severity tier.
func severityClass(severity model.Severity) string {
	switch severity {
	case model.SeverityHigh:
		return "severity-high"
	case model.SeverityModerate:
		return "severity-moderate"
	case model.SeverityNormal:
		return "severity-normal"
	default:
		return ""
	}
}

// qualityClass returns the CSS class for a data-quality status.
func qualityClass(status model.QualityStatus) string {
	if status == model.QualityWarning {
		return "quality-warning"
	}
	return "quality-pass"
}

// audienceText renders the recommendation audience for display.
func audienceText(audience model.Audience) string {
	switch audience {
	case model.AudienceFieldTeam:
		return "Field Team"
	case model.AudienceGovernment:
		return "Government"
	case model.AudienceDonor:
		return "Donor"
	default:
		return string(audience)
	}
}
