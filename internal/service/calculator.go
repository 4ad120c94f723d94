// Package service provides the analysis pipeline for the landscape monitor.
package service

import (
	"github.com/rs/zerolog"

	"landscape-monitor/internal/model"
)

// Computed pairs a measurement record with its deviation outcome.
type Computed struct {
	Record    *model.MeasurementRecord
	Deviation model.Deviation
}

// Calculator computes percentage deviations of current values against
// their baselines. It is a pure transformation: no record can make it
// panic or emit NaN/Inf, and zero baselines are flagged as undefined
// rather than divided through.
type Calculator struct {
	logger zerolog.Logger
}

// NewCalculator creates a new Calculator.
func NewCalculator(logger zerolog.Logger) *Calculator {
	return &Calculator{
		logger: logger.With().Str("component", "calculator").Logger(),
	}
}

// Compute derives the deviation outcome for a single record:
//   - current missing          -> UNKNOWN
//   - baseline missing         -> UNKNOWN
//   - baseline exactly zero    -> UNDEFINED
//   - otherwise                -> (current-baseline)/baseline*100, full precision
func (c *Calculator) Compute(rec *model.MeasurementRecord) model.Deviation {
	if rec.Current == nil {
		return model.UnknownDeviation()
	}
	if rec.Baseline == nil {
		// MissingBaseline: no comparison reference, non-fatal.
		return model.UnknownDeviation()
	}
	if *rec.Baseline == 0 {
		// ZeroBaseline: logged distinctly from a missing baseline because it
		// points at an upstream data-quality issue worth flagging to operators.
		c.logger.Warn().
			Str("zone", rec.Zone).
			Str("indicator", rec.Indicator).
			Str("period", rec.Period.String()).
			Msg("baseline is zero, deviation undefined")
		return model.UndefinedDeviation()
	}

	pct := (*rec.Current - *rec.Baseline) / *rec.Baseline * 100
	return model.KnownDeviation(pct)
}

// ComputeAll computes deviations for a batch of records, preserving input order.
func (c *Calculator) ComputeAll(records []*model.MeasurementRecord) []*Computed {
	computed := make([]*Computed, 0, len(records))
	known, unknown, undefined := 0, 0, 0

	for _, rec := range records {
		if rec == nil {
			continue
		}
		dev := c.Compute(rec)
		switch dev.State {
		case model.DeviationKnown:
			known++
		case model.DeviationUndefined:
			undefined++
		default:
			unknown++
		}
		computed = append(computed, &Computed{Record: rec, Deviation: dev})
	}

	c.logger.Info().
		Int("records", len(computed)).
		Int("known", known).
		Int("unknown", unknown).
		Int("undefined", undefined).
		Msg("deviation computation completed")

	return computed
}
