package model

import (
	"strings"
	"testing"
)

// ============================================================================
// Test Helpers
// ============================================================================

func createTestRecord(current, baseline *float64) *MeasurementRecord {
	return &MeasurementRecord{
		Zone:      "zone_1",
		Indicator: "ndvi",
		Period:    Period{Year: 2025, Month: 7},
		Current:   current,
		Baseline:  baseline,
	}
}

// ============================================================================
// RuleSpec Compile Tests
// ============================================================================

func TestRuleSpec_Compile_Percent(t *testing.T) {
	spec := &RuleSpec{
		Kind:      RuleKindPercent,
		Direction: DirectionDrop,
		Moderate:  Float64(-15),
		High:      Float64(-25),
	}
	rule, err := spec.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if _, ok := rule.(*PercentRule); !ok {
		t.Errorf("Compile() = %T, want *PercentRule", rule)
	}
}

func TestRuleSpec_Compile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		spec RuleSpec
	}{
		{"unknown kind", RuleSpec{Kind: "ratio"}},
		{"percent without direction", RuleSpec{Kind: RuleKindPercent, Moderate: Float64(-15)}},
		{"percent without bounds", RuleSpec{Kind: RuleKindPercent, Direction: DirectionDrop}},
		{"drop high above moderate", RuleSpec{Kind: RuleKindPercent, Direction: DirectionDrop, Moderate: Float64(-25), High: Float64(-15)}},
		{"magnitude high below moderate", RuleSpec{Kind: RuleKindPercent, Direction: DirectionMagnitude, Moderate: Float64(25), High: Float64(10)}},
		{"absolute without basis", RuleSpec{Kind: RuleKindAbsolute, Moderate: Float64(0.5)}},
		{"absolute high below moderate", RuleSpec{Kind: RuleKindAbsolute, Basis: BasisValue, Moderate: Float64(2.0), High: Float64(0.5)}},
		{"presence without severity", RuleSpec{Kind: RuleKindPresence}},
		{"presence with normal severity", RuleSpec{Kind: RuleKindPresence, Severity: SeverityNormal}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.spec.Compile(); err == nil {
				t.Error("Compile() should return error")
			}
		})
	}
}

// ============================================================================
// PercentRule Tests
// ============================================================================

func TestPercentRule_Drop(t *testing.T) {
	rule := &PercentRule{Direction: DirectionDrop, Moderate: Float64(-15), High: Float64(-25)}

	tests := []struct {
		name string
		pct  float64
		want Severity
	}{
		{"vegetation drop moderate", -17.6, SeverityModerate},
		{"vegetation drop high", -26.0, SeverityHigh},
		{"exactly at moderate bound", -15.0, SeverityModerate},
		{"exactly at high bound", -25.0, SeverityHigh},
		{"mild drop", -14.9, SeverityNormal},
		{"growth", 8.2, SeverityNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := createTestRecord(Float64(0.42), Float64(0.51))
			sev, detail := rule.Evaluate(rec, KnownDeviation(tt.pct))
			if sev != tt.want {
				t.Errorf("Evaluate(%v) = %v, want %v", tt.pct, sev, tt.want)
			}
			if detail == "" {
				t.Error("detail must not be empty")
			}
		})
	}
}

func TestPercentRule_Deficit_BoundaryAdjacent(t *testing.T) {
	// Rainfall: deficit > 40% is HIGH, strict comparison. A 39.3% deficit
	// must stay NORMAL.
	rule := &PercentRule{Direction: DirectionDeficit, High: Float64(-40)}

	rec := createTestRecord(Float64(68), Float64(112))
	dev := KnownDeviation((68.0 - 112.0) / 112.0 * 100) // ≈ -39.3

	sev, _ := rule.Evaluate(rec, dev)
	if sev != SeverityNormal {
		t.Errorf("deficit of 39.3%% should be NORMAL, got %v", sev)
	}

	sev, _ = rule.Evaluate(rec, KnownDeviation(-40.0))
	if sev != SeverityNormal {
		t.Errorf("deficit of exactly 40%% should be NORMAL (strict), got %v", sev)
	}

	sev, _ = rule.Evaluate(rec, KnownDeviation(-40.1))
	if sev != SeverityHigh {
		t.Errorf("deficit of 40.1%% should be HIGH, got %v", sev)
	}
}

func TestPercentRule_Magnitude(t *testing.T) {
	rule := &PercentRule{Direction: DirectionMagnitude, Moderate: Float64(25)}

	for _, pct := range []float64{30, -30} {
		sev, _ := rule.Evaluate(createTestRecord(Float64(1), Float64(1)), KnownDeviation(pct))
		if sev != SeverityModerate {
			t.Errorf("magnitude %v should be MODERATE, got %v", pct, sev)
		}
	}
	sev, _ := rule.Evaluate(createTestRecord(Float64(1), Float64(1)), KnownDeviation(25))
	if sev != SeverityNormal {
		t.Errorf("magnitude exactly 25 should be NORMAL (strict), got %v", sev)
	}
}

func TestPercentRule_NoSignal(t *testing.T) {
	rule := &PercentRule{Direction: DirectionDrop, Moderate: Float64(-15)}

	// Missing data must never read like "looks fine".
	rec := createTestRecord(nil, Float64(0.5))
	sev, detail := rule.Evaluate(rec, UnknownDeviation())
	if sev != SeverityNormal {
		t.Errorf("missing current should be NORMAL, got %v", sev)
	}
	if !strings.Contains(detail, "insufficient data") {
		t.Errorf("detail should mark insufficient data, got %q", detail)
	}

	rec = createTestRecord(Float64(0.4), Float64(0))
	_, detail = rule.Evaluate(rec, UndefinedDeviation())
	if !strings.Contains(detail, "baseline is zero") {
		t.Errorf("detail should flag the zero baseline, got %q", detail)
	}

	rec = createTestRecord(Float64(0.4), nil)
	_, detail = rule.Evaluate(rec, UnknownDeviation())
	if !strings.Contains(detail, "no baseline") {
		t.Errorf("detail should flag the missing baseline, got %q", detail)
	}
}

// ============================================================================
// AbsoluteRule Tests
// ============================================================================

func TestAbsoluteRule_Value(t *testing.T) {
	rule := &AbsoluteRule{Basis: BasisValue, Moderate: Float64(0.5), High: Float64(2.0)}

	tests := []struct {
		value float64
		want  Severity
	}{
		{0.3, SeverityNormal},
		{0.5, SeverityNormal}, // strict >
		{0.8, SeverityModerate},
		{2.0, SeverityModerate}, // strict >
		{2.5, SeverityHigh},
	}
	for _, tt := range tests {
		rec := createTestRecord(Float64(tt.value), nil)
		sev, _ := rule.Evaluate(rec, UnknownDeviation())
		if sev != tt.want {
			t.Errorf("Evaluate(value=%v) = %v, want %v", tt.value, sev, tt.want)
		}
	}
}

func TestAbsoluteRule_Anomaly(t *testing.T) {
	// LST: anomaly > +3°C vs monthly baseline is MODERATE.
	rule := &AbsoluteRule{Basis: BasisAnomaly, Moderate: Float64(3.0)}

	rec := createTestRecord(Float64(36.2), Float64(32.5))
	sev, detail := rule.Evaluate(rec, KnownDeviation(11.4))
	if sev != SeverityModerate {
		t.Errorf("anomaly +3.7 should be MODERATE, got %v", sev)
	}
	if !strings.Contains(detail, "anomaly") {
		t.Errorf("detail should mention anomaly, got %q", detail)
	}

	rec = createTestRecord(Float64(34.0), Float64(32.5))
	sev, _ = rule.Evaluate(rec, KnownDeviation(4.6))
	if sev != SeverityNormal {
		t.Errorf("anomaly +1.5 should be NORMAL, got %v", sev)
	}

	rec = createTestRecord(Float64(36.2), nil)
	sev, detail = rule.Evaluate(rec, UnknownDeviation())
	if sev != SeverityNormal || !strings.Contains(detail, "no baseline") {
		t.Errorf("missing baseline should be NORMAL with explanation, got %v %q", sev, detail)
	}
}

// ============================================================================
// PresenceRule Tests
// ============================================================================

func TestPresenceRule(t *testing.T) {
	rule := &PresenceRule{Severity: SeverityHigh}

	sev, detail := rule.Evaluate(createTestRecord(Float64(3), nil), UnknownDeviation())
	if sev != SeverityHigh {
		t.Errorf("3 detections should be HIGH, got %v", sev)
	}
	if detail != "detections: 3" {
		t.Errorf("detail = %q, want detections: 3", detail)
	}

	sev, detail = rule.Evaluate(createTestRecord(Float64(0), nil), UnknownDeviation())
	if sev != SeverityNormal || detail != "no detections" {
		t.Errorf("zero detections = %v %q, want NORMAL, no detections", sev, detail)
	}

	sev, detail = rule.Evaluate(createTestRecord(nil, nil), UnknownDeviation())
	if sev != SeverityNormal || !strings.Contains(detail, "insufficient data") {
		t.Errorf("nil count = %v %q, want NORMAL with insufficient data", sev, detail)
	}
}
