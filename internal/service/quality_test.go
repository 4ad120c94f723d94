package service

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"landscape-monitor/internal/model"
)

func newTestQualityChecker() *QualityChecker {
	return NewQualityChecker(createTestZones(), zerolog.Nop())
}

// allZonesRecords returns one record per registry zone so the coverage
// check passes unless a test removes entries.
func allZonesRecords(indicator string) []*model.MeasurementRecord {
	return []*model.MeasurementRecord{
		record("zone_1", indicator, model.Float64(0.42), model.Float64(0.51)),
		record("zone_1_ihefu", indicator, model.Float64(0.40), model.Float64(0.48)),
		record("zone_2", indicator, model.Float64(0.55), model.Float64(0.53)),
	}
}

func TestQualityChecker_Pass(t *testing.T) {
	q := newTestQualityChecker()

	findings := q.Check(map[string][]*model.MeasurementRecord{
		"ndvi_evi": allZonesRecords("ndvi"),
	}, nil)

	if len(findings) != 1 {
		t.Fatalf("Check() returned %d findings, want 1", len(findings))
	}
	f := findings[0]
	if f.Status != model.QualityPass {
		t.Errorf("status = %v (%q), want pass", f.Status, f.Note)
	}
	if f.Records != 3 {
		t.Errorf("records = %d, want 3", f.Records)
	}
	if f.NullPct != 0 {
		t.Errorf("null pct = %v, want 0", f.NullPct)
	}
}

func TestQualityChecker_HighNullRate(t *testing.T) {
	q := newTestQualityChecker()

	// 2 of 3 currents missing: 66.7% is well past the cloud threshold
	records := allZonesRecords("ndvi")
	records[0].Current = nil
	records[1].Current = nil

	findings := q.Check(map[string][]*model.MeasurementRecord{"ndvi_evi": records}, nil)
	f := findings[0]
	if f.Status != model.QualityWarning {
		t.Fatal("high null rate should warn")
	}
	if !strings.Contains(f.Note, "high null rate") || !strings.Contains(f.Note, "cloud cover") {
		t.Errorf("note = %q, want cloud-cover wording", f.Note)
	}
}

func TestQualityChecker_NullRateAtThresholdPasses(t *testing.T) {
	q := newTestQualityChecker()

	// Exactly 30% null is not a warning; the threshold is strict
	records := []*model.MeasurementRecord{
		record("zone_1", "ndvi", nil, model.Float64(0.5)),
		record("zone_1", "ndvi", model.Float64(0.4), model.Float64(0.5)),
		record("zone_1", "ndvi", model.Float64(0.4), model.Float64(0.5)),
		record("zone_1", "ndvi", nil, model.Float64(0.5)),
		record("zone_1", "ndvi", model.Float64(0.4), model.Float64(0.5)),
		record("zone_1", "ndvi", model.Float64(0.4), model.Float64(0.5)),
		record("zone_1", "ndvi", model.Float64(0.4), model.Float64(0.5)),
		record("zone_1", "ndvi", model.Float64(0.4), model.Float64(0.5)),
		record("zone_1", "ndvi", model.Float64(0.4), model.Float64(0.5)),
		record("zone_1", "ndvi", nil, model.Float64(0.5)),
	}

	findings := q.Check(map[string][]*model.MeasurementRecord{"ndvi_evi": records}, nil)
	if strings.Contains(findings[0].Note, "null rate") {
		t.Errorf("30%% null rate should not trip the warning, note = %q", findings[0].Note)
	}
}

func TestQualityChecker_MissingZones(t *testing.T) {
	q := newTestQualityChecker()

	// zone_2 never reported in this dataset
	records := allZonesRecords("ndvi")[:2]

	findings := q.Check(map[string][]*model.MeasurementRecord{"ndvi_evi": records}, nil)
	f := findings[0]
	if f.Status != model.QualityWarning {
		t.Fatal("absent zone should warn")
	}
	if !strings.Contains(f.Note, "missing zones: zone_2") {
		t.Errorf("note = %q, want missing-zones listing", f.Note)
	}
}

func TestQualityChecker_ZeroBaselines(t *testing.T) {
	q := newTestQualityChecker()

	records := allZonesRecords("ndvi")
	records[0].Baseline = model.Float64(0)

	findings := q.Check(map[string][]*model.MeasurementRecord{"ndvi_evi": records}, nil)
	f := findings[0]
	if f.Status != model.QualityWarning {
		t.Fatal("zero baseline should warn")
	}
	if !strings.Contains(f.Note, "1 record(s) with zero baseline") {
		t.Errorf("note = %q, want zero-baseline count", f.Note)
	}
}

func TestQualityChecker_EmptyDataset(t *testing.T) {
	q := newTestQualityChecker()

	findings := q.Check(map[string][]*model.MeasurementRecord{"fire_burn": {}}, nil)
	f := findings[0]
	if f.Status != model.QualityWarning {
		t.Fatal("empty export should warn")
	}
	if f.Note != "export contains no records" {
		t.Errorf("note = %q", f.Note)
	}
}

func TestQualityChecker_MissingDataset(t *testing.T) {
	q := newTestQualityChecker()

	findings := q.Check(map[string][]*model.MeasurementRecord{
		"ndvi_evi": allZonesRecords("ndvi"),
	}, []string{"climate"})

	if len(findings) != 2 {
		t.Fatalf("Check() returned %d findings, want 2", len(findings))
	}
	f := findings[1]
	if f.Dataset != "climate" || f.Status != model.QualityWarning {
		t.Errorf("missing dataset finding = %+v", f)
	}
	if f.Note != "export missing for this period" {
		t.Errorf("note = %q", f.Note)
	}
}

func TestQualityChecker_FindingsSortedByDataset(t *testing.T) {
	q := newTestQualityChecker()

	findings := q.Check(map[string][]*model.MeasurementRecord{
		"water_ndwi": allZonesRecords("ndwi"),
		"fire_burn":  allZonesRecords("active_fires"),
		"ndvi_evi":   allZonesRecords("ndvi"),
	}, nil)

	want := []string{"fire_burn", "ndvi_evi", "water_ndwi"}
	for i, name := range want {
		if findings[i].Dataset != name {
			t.Errorf("findings[%d].Dataset = %v, want %v", i, findings[i].Dataset, name)
		}
	}
}
