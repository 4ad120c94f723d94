// Package jsonw provides JSON report generation for the landscape monitor.
// The monthly JSON dataset is the machine-readable artifact downstream
// dashboards and archives consume; it always carries the full report.
package jsonw

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"landscape-monitor/internal/model"
)

// Writer implements report.ReportWriter for JSON format.
type Writer struct {
	timezone *time.Location
}

// NewWriter creates a new JSON report writer.
// If timezone is nil, it defaults to Africa/Dar_es_Salaam.
func NewWriter(timezone *time.Location) *Writer {
	if timezone == nil {
		timezone, _ = time.LoadLocation("Africa/Dar_es_Salaam")
	}
	return &Writer{
		timezone: timezone,
	}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "json"
}

// Write serializes the assessment report as an indented JSON document.
func (w *Writer) Write(report *model.AssessmentReport, outputPath string) error {
	if report == nil {
		return fmt.Errorf("assessment report is nil")
	}

	// Ensure output path has .json extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".json") {
		outputPath = outputPath + ".json"
	}

	// Normalize the timestamp to the report timezone so the artifact is
	// independent of the machine the run happened on.
	normalized := *report
	normalized.GeneratedAt = report.GeneratedAt.In(w.timezone)

	data, err := json.MarshalIndent(&normalized, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}

	return nil
}
