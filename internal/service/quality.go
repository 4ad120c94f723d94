// Package service provides the analysis pipeline for the landscape monitor.
package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"landscape-monitor/internal/model"
)

// nullWarningPct is the missing-current fraction above which a dataset is
// flagged as likely cloud-contaminated.
const nullWarningPct = 30.0

// QualityChecker runs per-dataset data-quality checks on ingested records.
// Findings are informational: they ride along in the report so operators
// can judge how much weight to give the cycle's numbers.
type QualityChecker struct {
	zones  *model.ZoneRegistry
	logger zerolog.Logger
}

// NewQualityChecker creates a new QualityChecker.
func NewQualityChecker(zones *model.ZoneRegistry, logger zerolog.Logger) *QualityChecker {
	return &QualityChecker{
		zones:  zones,
		logger: logger.With().Str("component", "quality").Logger(),
	}
}

// Check produces one finding per ingested dataset plus one per missing
// dataset. Checks per dataset: missing-current fraction above the cloud
// threshold, expected zones absent, and zero baselines present.
func (q *QualityChecker) Check(datasets map[string][]*model.MeasurementRecord, missing []string) []*model.QualityFinding {
	findings := make([]*model.QualityFinding, 0, len(datasets)+len(missing))

	names := make([]string, 0, len(datasets))
	for name := range datasets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		findings = append(findings, q.checkDataset(name, datasets[name]))
	}

	for _, name := range missing {
		findings = append(findings, &model.QualityFinding{
			Dataset: name,
			Status:  model.QualityWarning,
			Note:    "export missing for this period",
		})
	}

	warnings := 0
	for _, f := range findings {
		if f.Status == model.QualityWarning {
			warnings++
		}
	}
	q.logger.Info().
		Int("datasets", len(datasets)).
		Int("missing", len(missing)).
		Int("warnings", warnings).
		Msg("data quality review completed")

	return findings
}

// checkDataset runs the quality checks for a single dataset.
func (q *QualityChecker) checkDataset(name string, records []*model.MeasurementRecord) *model.QualityFinding {
	finding := &model.QualityFinding{
		Dataset: name,
		Status:  model.QualityPass,
		Records: len(records),
	}

	if len(records) == 0 {
		finding.Status = model.QualityWarning
		finding.Note = "export contains no records"
		return finding
	}

	var notes []string

	// Missing current values point at cloud cover or sensor gaps.
	nullCount := 0
	zeroBaselines := 0
	present := make(map[string]bool)
	for _, r := range records {
		if r.Current == nil {
			nullCount++
		}
		if r.Baseline != nil && *r.Baseline == 0 {
			zeroBaselines++
		}
		present[r.Zone] = true
	}
	finding.NullPct = float64(nullCount) / float64(len(records)) * 100

	if finding.NullPct > nullWarningPct {
		notes = append(notes, fmt.Sprintf("high null rate (%.1f%%), likely cloud cover", finding.NullPct))
	}

	// Every registry zone should appear in every dataset.
	var absent []string
	for _, key := range q.zones.Keys() {
		if !present[key] {
			absent = append(absent, key)
		}
	}
	if len(absent) > 0 {
		notes = append(notes, fmt.Sprintf("missing zones: %s", strings.Join(absent, ", ")))
	}

	if zeroBaselines > 0 {
		notes = append(notes, fmt.Sprintf("%d record(s) with zero baseline", zeroBaselines))
	}

	if len(notes) > 0 {
		finding.Status = model.QualityWarning
		finding.Note = strings.Join(notes, "; ")
		q.logger.Warn().
			Str("dataset", name).
			Str("note", finding.Note).
			Msg("data quality warning")
	}

	return finding
}
