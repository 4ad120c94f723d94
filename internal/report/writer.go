// Package report provides report generation for the landscape monitor.
// It defines the ReportWriter interface and provides implementations for
// different output formats including JSON, Excel and HTML.
package report

import (
	"landscape-monitor/internal/model"
)

// Mode selects how much of the assessment a writer renders.
type Mode string

const (
	// ModeFull renders the complete report: summary, per-zone tables,
	// alerts, recommendations and data-quality findings.
	ModeFull Mode = "full"
	// ModeDonor renders the funder brief: executive summary, landscape
	// counts, alerts and recommendations, without per-indicator tables or
	// data-quality detail.
	ModeDonor Mode = "donor"
	// ModeAlert renders only the alert list and recommendations.
	ModeAlert Mode = "alert"
)

// ReportWriter defines the interface for generating assessment reports.
// Implementations should be able to write an assembled report to a file
// in their specific format (JSON, Excel, HTML, etc.).
type ReportWriter interface {
	// Write renders the assessment report and saves it to the specified
	// output path. The path should include the file extension appropriate
	// for the format.
	//
	// Returns an error if the report generation or file writing fails.
	Write(report *model.AssessmentReport, outputPath string) error

	// Format returns the format identifier for this writer.
	// Common values are "json", "excel" and "html".
	Format() string
}
