package jsonw

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"landscape-monitor/internal/model"
)

func createTestReport() *model.AssessmentReport {
	dev := -17.6
	alerts := []*model.Alert{
		{
			Zone: "zone_2", ZoneName: "Nyerere National Park",
			Indicator: "active_fires", IndicatorDisplay: "Active Fire Detections",
			Severity: model.SeverityHigh, TriggerValue: 3,
			Detail:         "detections: 3",
			ObligationNote: "UNESCO World Heritage reporting obligations",
		},
		{
			Zone: "zone_1", ZoneName: "Usangu Game Reserve",
			Indicator: "ndvi", IndicatorDisplay: "NDVI",
			Severity: model.SeverityModerate, TriggerValue: 0.42, Deviation: &dev,
			Detail: "deviation -17.6% breaches MODERATE threshold",
		},
	}

	return &model.AssessmentReport{
		Period:           model.Period{Year: 2025, Month: 7},
		GeneratedAt:      time.Date(2025, 8, 5, 6, 30, 0, 0, time.UTC),
		Duration:         12 * time.Second,
		RunID:            "abc123def456",
		Version:          "1.2.3",
		PreparedBy:       "Monitoring Unit",
		CRS:              "EPSG:32736",
		BoundaryStatus:   model.BoundaryPlaceholder,
		ExecutiveSummary: "1 HIGH-severity alert(s) detected.",
		Summary: &model.LandscapeSummary{
			TotalZones:       3,
			TotalIndicators:  9,
			TotalAreaKm2:     33393,
			HighCount:        1,
			ModerateCount:    1,
			VegetationStatus: "stable",
		},
		AlertSummary: model.NewAlertSummary(alerts),
		Alerts:       alerts,
		Zones: []*model.ZoneAssessment{
			{
				ZoneKey: "zone_1", ZoneName: "Usangu Game Reserve",
				Authority: "TAWA", AreaKm2: 2500,
				Status: model.SeverityModerate,
				Rows: []*model.IndicatorRow{
					{
						Indicator: "ndvi", DisplayName: "NDVI",
						Current: model.Float64(0.42), Baseline: model.Float64(0.51),
						Deviation: model.KnownDeviation(-17.6),
						Severity:  model.SeverityModerate,
					},
				},
			},
		},
		Quality: []*model.QualityFinding{
			{Dataset: "ndvi_evi", Status: model.QualityPass, Records: 3},
		},
	}
}

func TestWriter_Write(t *testing.T) {
	writer := NewWriter(time.UTC)
	path := filepath.Join(t.TempDir(), "report.json")

	if err := writer.Write(createTestReport(), path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	var parsed model.AssessmentReport
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if parsed.RunID != "abc123def456" {
		t.Errorf("run_id = %v", parsed.RunID)
	}
	if parsed.Period != (model.Period{Year: 2025, Month: 7}) {
		t.Errorf("period = %v", parsed.Period)
	}
	if len(parsed.Alerts) != 2 || parsed.Alerts[0].Severity != model.SeverityHigh {
		t.Errorf("alerts did not round-trip: %+v", parsed.Alerts)
	}
	if parsed.Alerts[0].ObligationNote == "" {
		t.Error("obligation note lost in serialization")
	}
	if parsed.Summary == nil || parsed.Summary.VegetationStatus != "stable" {
		t.Errorf("summary did not round-trip: %+v", parsed.Summary)
	}
	if len(parsed.Zones) != 1 || len(parsed.Zones[0].Rows) != 1 {
		t.Errorf("zones did not round-trip")
	}
}

func TestWriter_Write_AddsExtension(t *testing.T) {
	writer := NewWriter(time.UTC)
	base := filepath.Join(t.TempDir(), "report")

	if err := writer.Write(createTestReport(), base); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := os.Stat(base + ".json"); err != nil {
		t.Errorf(".json extension not appended: %v", err)
	}
}

func TestWriter_Write_TimezoneNormalized(t *testing.T) {
	tz, err := time.LoadLocation("Africa/Dar_es_Salaam")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	writer := NewWriter(tz)
	path := filepath.Join(t.TempDir(), "report.json")

	if err := writer.Write(createTestReport(), path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	data, _ := os.ReadFile(path)
	// 06:30 UTC is 09:30 in Dar es Salaam (UTC+3, no DST)
	if !strings.Contains(string(data), "09:30:00+03:00") {
		t.Error("generated_at not normalized to the report timezone")
	}
}

func TestWriter_Write_NilReport(t *testing.T) {
	writer := NewWriter(time.UTC)
	if err := writer.Write(nil, filepath.Join(t.TempDir(), "report.json")); err == nil {
		t.Error("Write() should reject a nil report")
	}
}

func TestWriter_Format(t *testing.T) {
	if got := NewWriter(time.UTC).Format(); got != "json" {
		t.Errorf("Format() = %v, want json", got)
	}
}
