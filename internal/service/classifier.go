// Package service provides the analysis pipeline for the landscape monitor.
package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"landscape-monitor/internal/model"
)

// ClassifiedRecord is one measurement record after threshold evaluation.
type ClassifiedRecord struct {
	Record    *model.MeasurementRecord
	Deviation model.Deviation
	Severity  model.Severity
	Detail    string
	Escalated bool // MODERATE upgraded to HIGH by zone sensitivity
}

// ClassificationResult contains the classified records and derived alerts
// for one reporting period.
type ClassificationResult struct {
	Records []*ClassifiedRecord
	Alerts  []*model.Alert        // MODERATE/HIGH records, input order
	Skipped []model.SkippedRecord // Records referencing unknown zones
}

// Classifier maps (indicator, deviation, zone) to a severity tier using
// the configured threshold rules. Rules are compiled once at construction;
// a record referencing an indicator without a rule fails the run loudly.
type Classifier struct {
	zones      *model.ZoneRegistry
	indicators map[string]*model.IndicatorDefinition
	rules      map[string]model.Rule
	logger     zerolog.Logger
}

// NewClassifier creates a Classifier, compiling every indicator's rule spec.
func NewClassifier(zones *model.ZoneRegistry, indicators []*model.IndicatorDefinition, logger zerolog.Logger) (*Classifier, error) {
	defs := make(map[string]*model.IndicatorDefinition, len(indicators))
	rules := make(map[string]model.Rule, len(indicators))
	for _, d := range indicators {
		rule, err := d.Rule.Compile()
		if err != nil {
			return nil, fmt.Errorf("indicator %q: %w", d.Name, err)
		}
		defs[d.Name] = d
		rules[d.Name] = rule
	}

	return &Classifier{
		zones:      zones,
		indicators: defs,
		rules:      rules,
		logger:     logger.With().Str("component", "classifier").Logger(),
	}, nil
}

// Classify evaluates a single record against its indicator's rule and
// applies the zone business rules: sensitivity escalation after all
// threshold evaluation, then the heritage-obligation tag on HIGH alerts.
func (c *Classifier) Classify(rec *model.MeasurementRecord, dev model.Deviation) (*ClassifiedRecord, *model.Alert, error) {
	def, ok := c.indicators[rec.Indicator]
	if !ok {
		// Silent defaulting to NORMAL here could hide a real alert.
		return nil, nil, &model.UnknownIndicatorError{Indicator: rec.Indicator}
	}

	zone, ok := c.zones.Get(rec.Zone)
	if !ok {
		return nil, nil, &model.UnknownZoneError{Zone: rec.Zone}
	}

	rule := c.rules[rec.Indicator]
	severity, detail := rule.Evaluate(rec, dev)

	// Escalation: unconditional, applied after all threshold evaluation.
	escalated := false
	if zone.IsEscalating() && severity == model.SeverityModerate {
		severity = model.SeverityHigh
		escalated = true
		detail = fmt.Sprintf("%s (Escalated: MODERATE in %s -> HIGH)", detail, zone.Name)
		c.logger.Info().
			Str("zone", zone.Key).
			Str("indicator", rec.Indicator).
			Msg("moderate alert escalated by zone sensitivity")
	}

	classified := &ClassifiedRecord{
		Record:    rec,
		Deviation: dev,
		Severity:  severity,
		Detail:    detail,
		Escalated: escalated,
	}

	if severity == model.SeverityNormal {
		return classified, nil, nil
	}

	alert := &model.Alert{
		Zone:             zone.Key,
		ZoneName:         zone.Name,
		Indicator:        def.Name,
		IndicatorDisplay: def.DisplayName,
		Severity:         severity,
		Detail:           detail,
		Escalated:        escalated,
	}
	if rec.Current != nil {
		alert.TriggerValue = *rec.Current
	}
	if pct, ok := dev.Value(); ok {
		alert.Deviation = &pct
	}

	// Heritage obligation: HIGH alerts in obligated zones must carry the
	// note so recommendation text can reference it downstream.
	if severity == model.SeverityHigh && zone.HeritageObligation {
		alert.ObligationNote = zone.ObligationNote
	}

	return classified, alert, nil
}

// ClassifyAll classifies a batch of computed records in input order.
// Unknown indicators abort the run; unknown zones skip the record and
// surface the skip to the caller.
func (c *Classifier) ClassifyAll(computed []*Computed) (*ClassificationResult, error) {
	result := &ClassificationResult{
		Records: make([]*ClassifiedRecord, 0, len(computed)),
	}

	for _, cp := range computed {
		if cp == nil || cp.Record == nil {
			continue
		}
		classified, alert, err := c.Classify(cp.Record, cp.Deviation)
		if err != nil {
			var zoneErr *model.UnknownZoneError
			if errors.As(err, &zoneErr) {
				c.logger.Warn().
					Str("zone", cp.Record.Zone).
					Str("indicator", cp.Record.Indicator).
					Msg("record references unknown zone, skipping")
				result.Skipped = append(result.Skipped, model.SkippedRecord{
					Zone:      cp.Record.Zone,
					Indicator: cp.Record.Indicator,
					Reason:    zoneErr.Error(),
				})
				continue
			}
			return nil, err
		}

		result.Records = append(result.Records, classified)
		if alert != nil {
			result.Alerts = append(result.Alerts, alert)
		}
	}

	summary := model.NewAlertSummary(result.Alerts)
	c.logger.Info().
		Int("records", len(result.Records)).
		Int("skipped", len(result.Skipped)).
		Int("alerts", summary.TotalAlerts).
		Int("high", summary.HighCount).
		Int("moderate", summary.ModerateCount).
		Msg("classification completed")

	return result, nil
}
