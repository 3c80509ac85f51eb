// Package stfcdata holds the catalog types and resolvers for ships,
// hostiles, officers, player profiles, and the supplemental bonus catalogs
// (forbidden/chaos tech, syndicate reputation, buildings, faction
// reputation). Catalogs are loaded once and treated as immutable, read-only
// handles shared across every optimizer worker.
package stfcdata

import "github.com/pggpgg/stfc-optimizer/pkg/combat"

// ShipRecord is one entry in the ship catalog.
type ShipRecord struct {
	ID             string  `json:"id"`
	Name           string  `json:"ship_name"`
	ShipClass      string  `json:"ship_class"`
	ArmorPiercing  float64 `json:"armor_piercing"`
	ShieldPiercing float64 `json:"shield_piercing"`
	Accuracy       float64 `json:"accuracy"`
	Attack         float64 `json:"attack"`
	CritChance     float64 `json:"crit_chance"`
	CritDamage     float64 `json:"crit_damage"`
	HullHealth     float64 `json:"hull_health"`
	ShieldHealth   float64 `json:"shield_health"`
	ApexShred      float64 `json:"apex_shred"`
}

// ToAttackerStats projects the ship record onto the mitigation formula's
// attacker inputs.
func (s ShipRecord) ToAttackerStats() combat.AttackerStats {
	return combat.AttackerStats{
		ArmorPiercing:  s.ArmorPiercing,
		ShieldPiercing: s.ShieldPiercing,
		Accuracy:       s.Accuracy,
	}
}

// ShipType maps the record's ship_class string to the mitigation ship type.
func (s ShipRecord) ShipType() combat.ShipType {
	return ShipClassToType(s.ShipClass)
}

// ShipClassToType maps a catalog ship_class string to the mitigation
// coefficient ship type, defaulting unknown classes to Battleship.
func ShipClassToType(class string) combat.ShipType {
	switch normalizeClass(class) {
	case "survey":
		return combat.ShipSurvey
	case "explorer":
		return combat.ShipExplorer
	case "interceptor":
		return combat.ShipInterceptor
	case "armada":
		return combat.ShipArmada
	default:
		return combat.ShipBattleship
	}
}

// ShipIndexEntry is a lightweight index row for fast resolution.
type ShipIndexEntry struct {
	ID   string
	Name string
}

// ShipIndex is the loaded, searchable ship catalog.
type ShipIndex struct {
	byID   map[string]ShipRecord
	byName map[string]ShipRecord
}

// NewShipIndex builds an index from a flat list of records.
func NewShipIndex(records []ShipRecord) *ShipIndex {
	idx := &ShipIndex{byID: map[string]ShipRecord{}, byName: map[string]ShipRecord{}}
	for _, r := range records {
		idx.byID[normalizeLookup(r.ID)] = r
		idx.byName[normalizeLookup(r.Name)] = r
	}
	return idx
}

// Resolve matches case-insensitive on id first, then on name with
// whitespace/underscore normalization.
func (idx *ShipIndex) Resolve(key string) (ShipRecord, bool) {
	norm := normalizeLookup(key)
	if r, ok := idx.byID[norm]; ok {
		return r, true
	}
	if r, ok := idx.byName[norm]; ok {
		return r, true
	}
	return ShipRecord{}, false
}
