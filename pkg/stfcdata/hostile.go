package stfcdata

import (
	"fmt"

	"github.com/pggpgg/stfc-optimizer/pkg/combat"
)

// HostileRecord is one entry in the hostile catalog.
type HostileRecord struct {
	ID               string  `json:"id"`
	Name             string  `json:"hostile_name"`
	Level            int     `json:"level"`
	ShipClass        string  `json:"ship_class"`
	Armor            float64 `json:"armor"`
	ShieldDeflection float64 `json:"shield_deflection"`
	Dodge            float64 `json:"dodge"`
	HullHealth       float64 `json:"hull_health"`
	ShieldHealth     float64 `json:"shield_health"`
	ShieldMitigation float64 `json:"shield_mitigation,omitempty"`
	ApexBarrier      float64 `json:"apex_barrier,omitempty"`
}

// ToDefenderStats projects the hostile record onto the mitigation formula's
// defender inputs.
func (h HostileRecord) ToDefenderStats() combat.DefenderStats {
	return combat.DefenderStats{
		Armor:            h.Armor,
		ShieldDeflection: h.ShieldDeflection,
		Dodge:            h.Dodge,
	}
}

// ShipType maps the record's ship_class string to the mitigation ship type.
func (h HostileRecord) ShipType() combat.ShipType {
	return ShipClassToType(h.ShipClass)
}

// HostileIndex is the loaded, searchable hostile catalog.
type HostileIndex struct {
	byID   map[string]HostileRecord
	byName map[string][]HostileRecord // multiple levels may share a name
}

// NewHostileIndex builds an index from a flat list of records.
func NewHostileIndex(records []HostileRecord) *HostileIndex {
	idx := &HostileIndex{byID: map[string]HostileRecord{}, byName: map[string][]HostileRecord{}}
	for _, r := range records {
		idx.byID[normalizeLookup(r.ID)] = r
		key := normalizeLookup(r.Name)
		idx.byName[key] = append(idx.byName[key], r)
	}
	return idx
}

// Resolve matches id, then "name_level"/"name level" compound forms, then
// falls back to a unique-name-only match.
func (idx *HostileIndex) Resolve(key string) (HostileRecord, bool) {
	norm := normalizeLookup(key)
	if r, ok := idx.byID[norm]; ok {
		return r, true
	}
	if name, level, ok := splitCompound(norm); ok {
		if rows, ok := idx.byName[name]; ok {
			for _, r := range rows {
				if r.Level == level {
					return r, true
				}
			}
		}
	}
	if rows, ok := idx.byName[norm]; ok && len(rows) == 1 {
		return rows[0], true
	}
	return HostileRecord{}, false
}

// splitCompound tries to split a normalized "name_level" key into its name
// and integer level parts, matching both "name_level" and "name level"
// compound forms (both normalize to underscore-joined by normalizeLookup).
func splitCompound(norm string) (string, int, bool) {
	idx := -1
	for i := len(norm) - 1; i >= 0; i-- {
		if norm[i] == '_' {
			idx = i
			break
		}
	}
	if idx < 0 || idx == len(norm)-1 {
		return "", 0, false
	}
	namePart := norm[:idx]
	levelPart := norm[idx+1:]
	var level int
	if _, err := fmt.Sscanf(levelPart, "%d", &level); err != nil {
		return "", 0, false
	}
	return namePart, level, true
}
