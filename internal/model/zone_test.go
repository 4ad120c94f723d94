package model

import (
	"math"
	"testing"
)

// ============================================================================
// Test Helpers
// ============================================================================

func createTestRegistry() *ZoneRegistry {
	return NewZoneRegistry("EPSG:32736", []*Zone{
		{Key: "zone_1", Name: "Usangu Game Reserve", Authority: "TAWA", AreaKm2: 2500, BoundaryStatus: BoundaryPlaceholder},
		{Key: "zone_1_ihefu", Name: "Ihefu Core", Authority: "TAWA", AreaKm2: 350, Parent: "zone_1", Sensitivity: SensitivityEscalating, BoundaryStatus: BoundaryPlaceholder},
		{Key: "zone_2", Name: "Nyerere National Park", Authority: "TANAPA", AreaKm2: 30893, HeritageObligation: true, ObligationNote: "UNESCO World Heritage reporting obligations", BoundaryStatus: BoundaryAuthoritative},
	})
}

// ============================================================================
// ZoneRegistry Tests
// ============================================================================

func TestZoneRegistry_Get(t *testing.T) {
	r := createTestRegistry()

	zone, ok := r.Get("zone_1_ihefu")
	if !ok {
		t.Fatal("Get() should find zone_1_ihefu")
	}
	if !zone.IsEscalating() {
		t.Error("zone_1_ihefu should be escalating")
	}

	if _, ok := r.Get("zone_99"); ok {
		t.Error("Get() should not find unregistered zone")
	}
}

func TestZoneRegistry_Keys_Order(t *testing.T) {
	r := createTestRegistry()
	keys := r.Keys()
	want := []string{"zone_1", "zone_1_ihefu", "zone_2"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %v, want %v", i, keys[i], want[i])
		}
	}
}

func TestZoneRegistry_TotalAreaKm2_ExcludesNestedZones(t *testing.T) {
	r := createTestRegistry()

	// Ihefu Core is geographically inside Usangu; counting it would
	// double-count 350 km².
	want := 2500.0 + 30893.0
	if got := r.TotalAreaKm2(); math.Abs(got-want) > 1e-9 {
		t.Errorf("TotalAreaKm2() = %v, want %v", got, want)
	}
}

func TestZoneRegistry_AggregateBoundaryStatus(t *testing.T) {
	r := createTestRegistry()
	if got := r.AggregateBoundaryStatus(); got != BoundaryPlaceholder {
		t.Errorf("AggregateBoundaryStatus() = %v, want placeholder (weakest wins)", got)
	}

	authoritative := NewZoneRegistry("EPSG:32736", []*Zone{
		{Key: "a", Name: "A", BoundaryStatus: BoundaryAuthoritative},
		{Key: "b", Name: "B", BoundaryStatus: BoundaryPending},
	})
	if got := authoritative.AggregateBoundaryStatus(); got != BoundaryPending {
		t.Errorf("AggregateBoundaryStatus() = %v, want pending", got)
	}
}

func TestZoneRegistry_PlaceholderZones(t *testing.T) {
	r := createTestRegistry()
	placeholders := r.PlaceholderZones()
	if len(placeholders) != 2 {
		t.Fatalf("PlaceholderZones() returned %d zones, want 2", len(placeholders))
	}
	for _, z := range placeholders {
		if z.BoundaryStatus != BoundaryPlaceholder {
			t.Errorf("zone %s has status %v, want placeholder", z.Key, z.BoundaryStatus)
		}
	}
}

// ============================================================================
// Severity Tests
// ============================================================================

func TestSeverity_Ordering(t *testing.T) {
	if !SeverityHigh.MoreSevere(SeverityModerate) {
		t.Error("HIGH should outrank MODERATE")
	}
	if !SeverityModerate.MoreSevere(SeverityNormal) {
		t.Error("MODERATE should outrank NORMAL")
	}
	if SeverityNormal.MoreSevere(SeverityHigh) {
		t.Error("NORMAL should not outrank HIGH")
	}
}

// ============================================================================
// AlertSummary Tests
// ============================================================================

func TestNewAlertSummary(t *testing.T) {
	alerts := []*Alert{
		{Severity: SeverityHigh},
		{Severity: SeverityHigh, Escalated: true},
		{Severity: SeverityModerate},
		nil,
	}
	summary := NewAlertSummary(alerts)
	if summary.TotalAlerts != 3 {
		t.Errorf("TotalAlerts = %v, want 3", summary.TotalAlerts)
	}
	if summary.HighCount != 2 {
		t.Errorf("HighCount = %v, want 2", summary.HighCount)
	}
	if summary.ModerateCount != 1 {
		t.Errorf("ModerateCount = %v, want 1", summary.ModerateCount)
	}
	if summary.EscalatedCount != 1 {
		t.Errorf("EscalatedCount = %v, want 1", summary.EscalatedCount)
	}
}
