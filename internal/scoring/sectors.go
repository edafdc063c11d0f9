package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// SectorProfile carries the external-context constants for one sector.
type SectorProfile struct {
	Name   string  `json:"name"`
	Base   float64 `json:"base"`
	Timing float64 `json:"timing"`
	AvgVR  float64 `json:"avg_vr"`
}

// SectorTable is an immutable, case-insensitive sector lookup with a fallback
// profile for sectors it does not know.
type SectorTable struct {
	byKey    map[string]SectorProfile
	fallback SectorProfile
}

// DefaultSectorTable returns the documented sector constants.
func DefaultSectorTable() *SectorTable {
	t, _ := NewSectorTable([]SectorProfile{
		{Name: "Technology", Base: 84, Timing: 1.20, AvgVR: 50},
		{Name: "Financial Services", Base: 68, Timing: 1.05, AvgVR: 45},
		{Name: "Retail", Base: 55, Timing: 1.00, AvgVR: 40},
		{Name: "Manufacturing", Base: 52, Timing: 1.00, AvgVR: 40},
	}, SectorProfile{Name: "Unclassified", Base: 50, Timing: 1.00, AvgVR: 50})
	return t
}

// NewSectorTable validates and indexes the given profiles.
func NewSectorTable(profiles []SectorProfile, fallback SectorProfile) (*SectorTable, error) {
	t := &SectorTable{byKey: make(map[string]SectorProfile, len(profiles)), fallback: fallback}
	if err := fallback.validate(); err != nil {
		return nil, fmt.Errorf("fallback %w", err)
	}
	for _, p := range profiles {
		if err := p.validate(); err != nil {
			return nil, err
		}
		key := sectorKey(p.Name)
		if _, dup := t.byKey[key]; dup {
			return nil, fmt.Errorf("duplicate sector %q", p.Name)
		}
		t.byKey[key] = p
	}
	return t, nil
}

func (p SectorProfile) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("sector name required")
	}
	if !finite(p.Base) || !finite(p.Timing) || !finite(p.AvgVR) {
		return fmt.Errorf("sector %s: profile values must be finite numbers", p.Name)
	}
	if p.Base < 0 {
		return fmt.Errorf("sector %s: base %f must be >= 0", p.Name, p.Base)
	}
	if p.Timing <= 0 {
		return fmt.Errorf("sector %s: timing %f must be > 0", p.Name, p.Timing)
	}
	if p.AvgVR < 0 || p.AvgVR > 100 {
		return fmt.Errorf("sector %s: avg_vr %f must be in [0, 100]", p.Name, p.AvgVR)
	}
	return nil
}

// Lookup returns the profile for a sector and whether it was found. Unknown
// sectors resolve to the fallback profile; that is not an error.
func (t *SectorTable) Lookup(name string) (SectorProfile, bool) {
	if p, ok := t.byKey[sectorKey(name)]; ok {
		return p, true
	}
	return t.fallback, false
}

// Fallback returns the profile used for unknown sectors.
func (t *SectorTable) Fallback() SectorProfile {
	return t.fallback
}

// Profiles returns all configured profiles sorted by name.
func (t *SectorTable) Profiles() []SectorProfile {
	out := make([]SectorProfile, 0, len(t.byKey))
	for _, p := range t.byKey {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sectorKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
