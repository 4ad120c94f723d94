// Package model provides data models for the landscape monitor.
package model

// Sensitivity represents a zone's sensitivity tier.
type Sensitivity string

const (
	SensitivityStandard   Sensitivity = "standard"   // Normal threshold handling
	SensitivityEscalating Sensitivity = "escalating" // MODERATE alerts are force-upgraded to HIGH
)

// BoundaryStatus represents the provenance of a zone's boundary geometry.
type BoundaryStatus string

const (
	BoundaryPlaceholder   BoundaryStatus = "placeholder"   // Indicative boundary from published descriptions
	BoundaryPending       BoundaryStatus = "pending"       // Verified boundary requested, not yet received
	BoundaryAuthoritative BoundaryStatus = "authoritative" // Verified boundary from the managing authority
)

// boundaryRank orders boundary statuses from least to most trustworthy.
var boundaryRank = map[BoundaryStatus]int{
	BoundaryPlaceholder:   0,
	BoundaryPending:       1,
	BoundaryAuthoritative: 2,
}

// Zone is a monitored protected area, loaded from zones.yaml. Sensitivity
// and the heritage obligation are business rules expressed as data so the
// classifier consumes them uniformly instead of hard-coding zone names.
type Zone struct {
	Key                string         `yaml:"key" json:"key"`                                             // Stable identifier (e.g. "zone_1_ihefu")
	Name               string         `yaml:"name" json:"name"`                                           // Display name (e.g. "Ihefu Core")
	Authority          string         `yaml:"authority" json:"authority"`                                 // Managing authority (TAWA, TANAPA)
	AreaKm2            float64        `yaml:"area_km2" json:"area_km2"`                                   // Indicative area
	Designation        string         `yaml:"designation,omitempty" json:"designation,omitempty"`         // Protection designation
	WDPAID             int            `yaml:"wdpa_id,omitempty" json:"wdpa_id,omitempty"`                 // World Database on Protected Areas id
	Parent             string         `yaml:"parent,omitempty" json:"parent,omitempty"`                   // Geographic parent zone, narrative only
	Sensitivity        Sensitivity    `yaml:"sensitivity,omitempty" json:"sensitivity"`                   // standard or escalating
	HeritageObligation bool           `yaml:"heritage_obligation,omitempty" json:"heritage_obligation"`   // HIGH alerts must reference the obligation
	ObligationNote     string         `yaml:"obligation_note,omitempty" json:"obligation_note,omitempty"` // Obligation wording for recommendations
	BoundaryStatus     BoundaryStatus `yaml:"boundary_status,omitempty" json:"boundary_status"`           // Boundary provenance
}

// IsEscalating reports whether MODERATE alerts in this zone must be
// upgraded to HIGH.
func (z *Zone) IsEscalating() bool {
	return z.Sensitivity == SensitivityEscalating
}

// ZoneRegistry is the set of monitored zones for one landscape.
type ZoneRegistry struct {
	CRS   string  // Analysis coordinate reference system (e.g. "EPSG:32736")
	Zones []*Zone // Zones in registry order

	byKey map[string]*Zone
}

// NewZoneRegistry builds a registry from a zone list.
func NewZoneRegistry(crs string, zones []*Zone) *ZoneRegistry {
	r := &ZoneRegistry{
		CRS:   crs,
		Zones: zones,
		byKey: make(map[string]*Zone, len(zones)),
	}
	for _, z := range zones {
		if z != nil {
			r.byKey[z.Key] = z
		}
	}
	return r
}

// Get returns the zone with the given key.
func (r *ZoneRegistry) Get(key string) (*Zone, bool) {
	z, ok := r.byKey[key]
	return z, ok
}

// Keys returns the zone keys in registry order.
func (r *ZoneRegistry) Keys() []string {
	keys := make([]string, 0, len(r.Zones))
	for _, z := range r.Zones {
		keys = append(keys, z.Key)
	}
	return keys
}

// TotalAreaKm2 returns the summed indicative area of top-level zones.
// Nested zones (those with a parent) are excluded to avoid double counting.
func (r *ZoneRegistry) TotalAreaKm2() float64 {
	var total float64
	for _, z := range r.Zones {
		if z.Parent == "" {
			total += z.AreaKm2
		}
	}
	return total
}

// AggregateBoundaryStatus returns the weakest boundary status across all
// zones: one placeholder boundary makes the whole analysis placeholder-grade.
func (r *ZoneRegistry) AggregateBoundaryStatus() BoundaryStatus {
	status := BoundaryAuthoritative
	for _, z := range r.Zones {
		s := z.BoundaryStatus
		if s == "" {
			s = BoundaryPlaceholder
		}
		if boundaryRank[s] < boundaryRank[status] {
			status = s
		}
	}
	if len(r.Zones) == 0 {
		return BoundaryPlaceholder
	}
	return status
}

// PlaceholderZones returns the zones whose boundary is still a placeholder.
func (r *ZoneRegistry) PlaceholderZones() []*Zone {
	var out []*Zone
	for _, z := range r.Zones {
		if z.BoundaryStatus == BoundaryPlaceholder || z.BoundaryStatus == "" {
			out = append(out, z)
		}
	}
	return out
}
