package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"landscape-monitor/internal/model"
)

// ============================================================================
// ParseCSV Tests
// ============================================================================

func TestParseCSV_Success(t *testing.T) {
	csv := `zone,indicator,year,month,current,baseline
zone_1,ndvi,2025,7,0.42,0.51
zone_1_ihefu,ndvi,2025,7,,0.48
zone_2,ndvi,2025,7,0.55,
`
	records, err := ParseCSV(strings.NewReader(csv), "ndvi_evi")
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("parsed %d records, want 3", len(records))
	}

	r := records[0]
	if r.Zone != "zone_1" || r.Indicator != "ndvi" {
		t.Errorf("record = %+v, want zone_1/ndvi", r)
	}
	if r.Period != (model.Period{Year: 2025, Month: 7}) {
		t.Errorf("period = %v, want 2025-07", r.Period)
	}
	if r.Current == nil || *r.Current != 0.42 {
		t.Errorf("current = %v, want 0.42", r.Current)
	}
	if r.Dataset != "ndvi_evi" {
		t.Errorf("dataset = %v, want ndvi_evi", r.Dataset)
	}

	// Empty cells must parse to nil, never zero
	if records[1].Current != nil {
		t.Error("empty current cell should be nil")
	}
	if records[2].Baseline != nil {
		t.Error("empty baseline cell should be nil")
	}
}

func TestParseCSV_NullMarkers(t *testing.T) {
	csv := `zone,indicator,year,month,current,baseline
zone_1,ndvi,2025,7,null,NA
zone_1,evi,2025,7,NaN,na
`
	records, err := ParseCSV(strings.NewReader(csv), "ndvi_evi")
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	for _, r := range records {
		if r.Current != nil || r.Baseline != nil {
			t.Errorf("null markers should parse to nil, got %+v", r)
		}
	}
}

func TestParseCSV_ExtraColumnsIgnored(t *testing.T) {
	csv := `zone,indicator,year,month,current,baseline,notes
zone_1,ndvi,2025,7,0.42,0.51,cloudy
`
	records, err := ParseCSV(strings.NewReader(csv), "ndvi_evi")
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("parsed %d records, want 1", len(records))
	}
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty file", ""},
		{"missing columns", "zone,indicator,year\nzone_1,ndvi,2025\n"},
		{"bad year", "zone,indicator,year,month,current,baseline\nzone_1,ndvi,twenty,7,0.4,0.5\n"},
		{"bad month", "zone,indicator,year,month,current,baseline\nzone_1,ndvi,2025,13,0.4,0.5\n"},
		{"bad value", "zone,indicator,year,month,current,baseline\nzone_1,ndvi,2025,7,abc,0.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCSV(strings.NewReader(tt.csv), "test"); err == nil {
				t.Error("ParseCSV() should return error")
			}
		})
	}
}

// ============================================================================
// Loader Tests
// ============================================================================

func writeExport(t *testing.T, dir, dataset string, period model.Period, content string) {
	t.Helper()
	filename := filepath.Join(dir, dataset+"_"+period.FileSuffix()+".csv")
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write export: %v", err)
	}
}

func TestLoader_LoadPeriod(t *testing.T) {
	dir := t.TempDir()
	period := model.Period{Year: 2025, Month: 7}

	writeExport(t, dir, "ndvi_evi", period, `zone,indicator,year,month,current,baseline
zone_1,ndvi,2025,7,0.42,0.51
zone_1,evi,2025,7,0.31,0.33
`)
	writeExport(t, dir, "fire_burn", period, `zone,indicator,year,month,current,baseline
zone_1,active_fires,2025,7,3,
`)

	loader := NewLoader(dir, nil, []string{"ndvi_evi", "fire_burn", "climate"}, 2, zerolog.Nop())
	result, err := loader.LoadPeriod(context.Background(), period)
	if err != nil {
		t.Fatalf("LoadPeriod() error = %v", err)
	}

	if len(result.Records) != 3 {
		t.Errorf("loaded %d records, want 3", len(result.Records))
	}

	// Missing dataset surfaces in Missing, not as an error
	if len(result.Missing) != 1 || result.Missing[0] != "climate" {
		t.Errorf("Missing = %v, want [climate]", result.Missing)
	}

	// Flattened records follow configured dataset order
	if result.Records[0].Dataset != "ndvi_evi" || result.Records[2].Dataset != "fire_burn" {
		t.Errorf("records not in dataset order: %v, %v",
			result.Records[0].Dataset, result.Records[2].Dataset)
	}
}

func TestLoader_LoadPeriod_FiltersOtherPeriods(t *testing.T) {
	dir := t.TempDir()
	period := model.Period{Year: 2025, Month: 7}

	// Export carries a trailing month that must be dropped
	writeExport(t, dir, "ndvi_evi", period, `zone,indicator,year,month,current,baseline
zone_1,ndvi,2025,7,0.42,0.51
zone_1,ndvi,2025,8,0.44,0.51
`)

	loader := NewLoader(dir, nil, []string{"ndvi_evi"}, 1, zerolog.Nop())
	result, err := loader.LoadPeriod(context.Background(), period)
	if err != nil {
		t.Fatalf("LoadPeriod() error = %v", err)
	}
	if len(result.Records) != 1 {
		t.Errorf("loaded %d records, want 1 (other periods filtered)", len(result.Records))
	}
}

func TestLoader_LoadPeriod_MalformedExportFails(t *testing.T) {
	dir := t.TempDir()
	period := model.Period{Year: 2025, Month: 7}

	writeExport(t, dir, "ndvi_evi", period, "zone,indicator\nzone_1,ndvi\n")

	loader := NewLoader(dir, nil, []string{"ndvi_evi"}, 1, zerolog.Nop())
	if _, err := loader.LoadPeriod(context.Background(), period); err == nil {
		t.Error("LoadPeriod() should fail on malformed export")
	}
}
