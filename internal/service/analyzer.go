// Package service provides the analysis pipeline for the landscape monitor.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"landscape-monitor/internal/ingest"
	"landscape-monitor/internal/model"
)

const defaultTimezone = "Africa/Dar_es_Salaam"

// Analyzer orchestrates the monthly analysis workflow, coordinating export
// ingestion, data-quality review, deviation computation, classification
// and report assembly. Each run is a pure transformation over one period's
// dataset; the analyzer holds no per-run state.
type Analyzer struct {
	loader     *ingest.Loader
	quality    *QualityChecker
	calculator *Calculator
	classifier *Classifier
	assembler  *Assembler
	timezone   *time.Location
	clock      clockwork.Clock
	logger     zerolog.Logger
}

// AnalyzerOption is a functional option for configuring an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithAnalyzerClock overrides the run clock, used by tests.
func WithAnalyzerClock(clock clockwork.Clock) AnalyzerOption {
	return func(a *Analyzer) {
		a.clock = clock
	}
}

// NewAnalyzer creates a new Analyzer with the given pipeline components.
func NewAnalyzer(
	timezoneName string,
	loader *ingest.Loader,
	quality *QualityChecker,
	calculator *Calculator,
	classifier *Classifier,
	assembler *Assembler,
	logger zerolog.Logger,
	opts ...AnalyzerOption,
) (*Analyzer, error) {
	tzName := defaultTimezone
	if timezoneName != "" {
		tzName = timezoneName
	}

	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", tzName, err)
	}

	a := &Analyzer{
		loader:     loader,
		quality:    quality,
		calculator: calculator,
		classifier: classifier,
		assembler:  assembler,
		timezone:   loc,
		clock:      clockwork.NewRealClock(),
		logger:     logger.With().Str("component", "analyzer").Logger(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Run executes the complete analysis workflow for one reporting period:
//  1. Loads the period's exports
//  2. Reviews data quality
//  3. Computes deviations against baselines
//  4. Classifies records into severity tiers
//  5. Assembles the assessment report
func (a *Analyzer) Run(ctx context.Context, period model.Period) (*model.AssessmentReport, error) {
	startTime := a.clock.Now().In(a.timezone)
	a.logger.Info().
		Str("period", period.String()).
		Time("start_time", startTime).
		Str("timezone", a.timezone.String()).
		Msg("starting analysis run")

	// Step 1: Load exports
	a.logger.Debug().Msg("step 1: loading exports")
	loaded, err := a.loader.LoadPeriod(ctx, period)
	if err != nil {
		a.logger.Error().Err(err).Msg("export load failed")
		return nil, fmt.Errorf("export load failed: %w", err)
	}

	// Step 2: Data-quality review (non-fatal, rides along in the report)
	a.logger.Debug().Msg("step 2: reviewing data quality")
	findings := a.quality.Check(loaded.Datasets, loaded.Missing)

	// Step 3: Compute deviations
	a.logger.Debug().
		Int("records", len(loaded.Records)).
		Msg("step 3: computing deviations")
	computed := a.calculator.ComputeAll(loaded.Records)

	// Step 4: Classify
	a.logger.Debug().Msg("step 4: classifying records")
	classified, err := a.classifier.ClassifyAll(computed)
	if err != nil {
		a.logger.Error().Err(err).Msg("classification failed")
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	// Step 5: Assemble report
	a.logger.Debug().Msg("step 5: assembling report")
	report := a.assembler.Assemble(period, classified, findings, startTime)

	a.logger.Info().
		Str("period", period.String()).
		Str("run_id", report.RunID).
		Int("zones", report.Summary.TotalZones).
		Int("high_alerts", report.Summary.HighCount).
		Int("moderate_alerts", report.Summary.ModerateCount).
		Int("skipped_records", report.Summary.SkippedRecords).
		Dur("duration", report.Duration).
		Msg("analysis run completed")

	return report, nil
}

// GetTimezone returns the configured timezone.
func (a *Analyzer) GetTimezone() *time.Location {
	return a.timezone
}

// DefaultPeriod returns the previous calendar month in the report
// timezone, the period a scheduled monthly run reports on.
func (a *Analyzer) DefaultPeriod() model.Period {
	now := a.clock.Now().In(a.timezone)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, a.timezone)
	return model.PeriodOf(firstOfMonth.AddDate(0, 0, -1))
}
