// Package model provides data models for the landscape monitor.
package model

import (
	"fmt"
	"math"
)

// RuleKind discriminates the threshold rule union.
type RuleKind string

const (
	RuleKindPercent  RuleKind = "percent"  // Thresholds on percentage deviation from baseline
	RuleKindAbsolute RuleKind = "absolute" // Thresholds on a raw value in native units
	RuleKindPresence RuleKind = "presence" // Any positive current value fires a fixed severity
)

// PercentDirection selects how a percent rule compares the deviation.
type PercentDirection string

const (
	DirectionDrop      PercentDirection = "drop"      // Fires at deviation <= bound (bounds are negative)
	DirectionDeficit   PercentDirection = "deficit"   // Fires at deviation < bound, strict
	DirectionMagnitude PercentDirection = "magnitude" // Fires at |deviation| > bound, strict
)

// AbsoluteBasis selects the value an absolute rule compares.
type AbsoluteBasis string

const (
	BasisValue   AbsoluteBasis = "value"   // Raw current value (e.g. burn area in km2)
	BasisAnomaly AbsoluteBasis = "anomaly" // current - baseline in native units (e.g. LST degC)
)

// RuleSpec is the YAML form of a threshold rule from indicators.yaml.
// Compile validates the spec and produces the typed Rule.
type RuleSpec struct {
	Kind      RuleKind         `yaml:"kind" json:"kind"`
	Direction PercentDirection `yaml:"direction,omitempty" json:"direction,omitempty"` // percent rules only
	Basis     AbsoluteBasis    `yaml:"basis,omitempty" json:"basis,omitempty"`         // absolute rules only
	Moderate  *float64         `yaml:"moderate,omitempty" json:"moderate,omitempty"`   // MODERATE bound
	High      *float64         `yaml:"high,omitempty" json:"high,omitempty"`           // HIGH bound
	Severity  Severity         `yaml:"severity,omitempty" json:"severity,omitempty"`   // presence rules only
}

// Compile validates the spec and builds the corresponding Rule.
func (s *RuleSpec) Compile() (Rule, error) {
	switch s.Kind {
	case RuleKindPercent:
		switch s.Direction {
		case DirectionDrop, DirectionDeficit, DirectionMagnitude:
		default:
			return nil, fmt.Errorf("percent rule requires direction drop, deficit or magnitude, got %q", s.Direction)
		}
		if s.Moderate == nil && s.High == nil {
			return nil, fmt.Errorf("percent rule requires at least one of moderate/high bounds")
		}
		if s.Moderate != nil && s.High != nil {
			// For drop/deficit the bounds are negative and HIGH is further below
			// zero; for magnitude both are positive and HIGH is larger.
			if s.Direction == DirectionMagnitude && *s.High <= *s.Moderate {
				return nil, fmt.Errorf("magnitude rule: high bound (%g) must exceed moderate bound (%g)", *s.High, *s.Moderate)
			}
			if s.Direction != DirectionMagnitude && *s.High >= *s.Moderate {
				return nil, fmt.Errorf("%s rule: high bound (%g) must be below moderate bound (%g)", s.Direction, *s.High, *s.Moderate)
			}
		}
		return &PercentRule{Direction: s.Direction, Moderate: s.Moderate, High: s.High}, nil

	case RuleKindAbsolute:
		switch s.Basis {
		case BasisValue, BasisAnomaly:
		default:
			return nil, fmt.Errorf("absolute rule requires basis value or anomaly, got %q", s.Basis)
		}
		if s.Moderate == nil && s.High == nil {
			return nil, fmt.Errorf("absolute rule requires at least one of moderate/high bounds")
		}
		if s.Moderate != nil && s.High != nil && *s.High <= *s.Moderate {
			return nil, fmt.Errorf("absolute rule: high bound (%g) must exceed moderate bound (%g)", *s.High, *s.Moderate)
		}
		return &AbsoluteRule{Basis: s.Basis, Moderate: s.Moderate, High: s.High}, nil

	case RuleKindPresence:
		if s.Severity != SeverityModerate && s.Severity != SeverityHigh {
			return nil, fmt.Errorf("presence rule requires severity moderate or high, got %q", s.Severity)
		}
		return &PresenceRule{Severity: s.Severity}, nil

	default:
		return nil, fmt.Errorf("unknown rule kind %q", s.Kind)
	}
}

// Rule classifies one measurement record. Implementations must be pure:
// no state, no side effects, never panic on missing values.
type Rule interface {
	// Evaluate returns the severity for the record together with a detail
	// string. A NORMAL result always distinguishes "within normal range"
	// from "insufficient data" in the detail.
	Evaluate(rec *MeasurementRecord, dev Deviation) (Severity, string)
}

// PercentRule fires on percentage deviation from baseline. HIGH is always
// checked before MODERATE so the more severe tier wins when both match.
type PercentRule struct {
	Direction PercentDirection
	Moderate  *float64
	High      *float64
}

// Evaluate implements Rule.
func (r *PercentRule) Evaluate(rec *MeasurementRecord, dev Deviation) (Severity, string) {
	pct, ok := dev.Value()
	if !ok {
		return SeverityNormal, noSignalDetail(rec, dev)
	}

	switch r.Direction {
	case DirectionDrop:
		if r.High != nil && pct <= *r.High {
			return SeverityHigh, fmt.Sprintf("deviation %s at or below HIGH threshold (%g%%)", dev.Display(), *r.High)
		}
		if r.Moderate != nil && pct <= *r.Moderate {
			return SeverityModerate, fmt.Sprintf("deviation %s at or below MODERATE threshold (%g%%)", dev.Display(), *r.Moderate)
		}
	case DirectionDeficit:
		if r.High != nil && pct < *r.High {
			return SeverityHigh, fmt.Sprintf("deficit %s exceeds HIGH threshold (%g%%)", dev.Display(), *r.High)
		}
		if r.Moderate != nil && pct < *r.Moderate {
			return SeverityModerate, fmt.Sprintf("deficit %s exceeds MODERATE threshold (%g%%)", dev.Display(), *r.Moderate)
		}
	case DirectionMagnitude:
		mag := math.Abs(pct)
		if r.High != nil && mag > *r.High {
			return SeverityHigh, fmt.Sprintf("deviation %s beyond HIGH band (±%g%%)", dev.Display(), *r.High)
		}
		if r.Moderate != nil && mag > *r.Moderate {
			return SeverityModerate, fmt.Sprintf("deviation %s beyond MODERATE band (±%g%%)", dev.Display(), *r.Moderate)
		}
	}

	return SeverityNormal, fmt.Sprintf("deviation %s within normal range", dev.Display())
}

// AbsoluteRule fires on a raw value or a current-minus-baseline anomaly in
// the indicator's native units, strict greater-than comparison.
type AbsoluteRule struct {
	Basis    AbsoluteBasis
	Moderate *float64
	High     *float64
}

// Evaluate implements Rule.
func (r *AbsoluteRule) Evaluate(rec *MeasurementRecord, dev Deviation) (Severity, string) {
	if rec.Current == nil {
		return SeverityNormal, "insufficient data: no current value (sensor or cloud gap)"
	}

	value := *rec.Current
	label := "value"
	if r.Basis == BasisAnomaly {
		if rec.Baseline == nil {
			return SeverityNormal, "insufficient data: no baseline to compute anomaly"
		}
		value = *rec.Current - *rec.Baseline
		label = "anomaly"
	}

	if r.High != nil && value > *r.High {
		return SeverityHigh, fmt.Sprintf("%s %+.2f exceeds HIGH threshold (%g)", label, value, *r.High)
	}
	if r.Moderate != nil && value > *r.Moderate {
		return SeverityModerate, fmt.Sprintf("%s %+.2f exceeds MODERATE threshold (%g)", label, value, *r.Moderate)
	}
	return SeverityNormal, fmt.Sprintf("%s %+.2f within normal range", label, value)
}

// PresenceRule fires its configured severity on any positive current value,
// e.g. a single active-fire detection.
type PresenceRule struct {
	Severity Severity
}

// Evaluate implements Rule.
func (r *PresenceRule) Evaluate(rec *MeasurementRecord, dev Deviation) (Severity, string) {
	if rec.Current == nil {
		return SeverityNormal, "insufficient data: no current value (sensor or cloud gap)"
	}
	if *rec.Current > 0 {
		return r.Severity, fmt.Sprintf("detections: %d", int64(math.Round(*rec.Current)))
	}
	return SeverityNormal, "no detections"
}

// noSignalDetail explains a NORMAL classification that stems from missing
// data rather than a healthy measurement. Field teams must not conflate
// "looks fine" with "couldn't measure".
func noSignalDetail(rec *MeasurementRecord, dev Deviation) string {
	switch {
	case rec.Current == nil:
		return "insufficient data: no current value (sensor or cloud gap)"
	case dev.State == DeviationUndefined:
		return "deviation undefined: baseline is zero (data quality issue)"
	default:
		return "insufficient data: no baseline value"
	}
}

// IndicatorDefinition defines a satellite-derived metric, loaded from
// indicators.yaml.
type IndicatorDefinition struct {
	Name        string   `yaml:"name" json:"name"`                           // Canonical name (e.g. "ndvi")
	DisplayName string   `yaml:"display_name" json:"display_name"`           // Human-readable name
	Dataset     string   `yaml:"dataset" json:"dataset"`                     // GEE export dataset carrying this indicator
	Source      string   `yaml:"source,omitempty" json:"source,omitempty"`   // Upstream collection (e.g. "COPERNICUS/S2_SR")
	Unit        string   `yaml:"unit,omitempty" json:"unit,omitempty"`       // Native unit ("index", "mm", "degC", "km2", "count")
	Status      string   `yaml:"status,omitempty" json:"status,omitempty"`   // pending = export not yet wired
	Note        string   `yaml:"note,omitempty" json:"note,omitempty"`       // Free-form note
	Rule        RuleSpec `yaml:"rule" json:"rule"`                           // Threshold rule spec
}

// IsPending reports whether this indicator is defined but not yet exported.
func (d *IndicatorDefinition) IsPending() bool {
	return d.Status == "pending"
}

// IndicatorsConfig is the root structure of indicators.yaml.
type IndicatorsConfig struct {
	Indicators []*IndicatorDefinition `yaml:"indicators" json:"indicators"`
}
