package stfcdata

// ForbiddenChaosRecord is one forbidden/chaos tech catalog entry.
type ForbiddenChaosRecord struct {
	FID     int64        `json:"fid,omitempty"`
	Name    string       `json:"name"`
	Type    string       `json:"tech_type"`
	Tier    int          `json:"tier"`
	Bonuses []BonusEntry `json:"bonuses"`
}

// ForbiddenChaosCatalog is the loaded forbidden/chaos tech list.
type ForbiddenChaosCatalog struct {
	Source      string                 `json:"source"`
	LastUpdated string                 `json:"last_updated"`
	Items       []ForbiddenChaosRecord `json:"items"`
}

// MergeImportedTechBonuses matches imported tech entries (by fid) against
// the catalog and sums their bonuses additively into profile's bonus map.
// Unmatched ids are silently ignored, per spec.md §6's forbidden/chaos
// catalog contract.
func (c ForbiddenChaosCatalog) MergeImportedTechBonuses(profile *PlayerProfile, importedFIDs []int64) {
	byFID := make(map[int64]ForbiddenChaosRecord, len(c.Items))
	for _, r := range c.Items {
		byFID[r.FID] = r
	}
	for _, fid := range importedFIDs {
		r, ok := byFID[fid]
		if !ok {
			continue
		}
		MergeBonusEntriesIntoProfile(profile, r.Bonuses)
	}
}

// SyndicateLevelEntry is one syndicate level's bonus set.
type SyndicateLevelEntry struct {
	Level   int          `json:"level"`
	Bonuses []BonusEntry `json:"bonuses"`
}

// SyndicateReputationCatalog is the loaded syndicate reputation ladder.
type SyndicateReputationCatalog struct {
	Source      string                `json:"source"`
	LastUpdated string                `json:"last_updated"`
	Levels      []SyndicateLevelEntry `json:"levels"`
}

// OpsLevelBand maps an ops level to the bracket string the syndicate
// spreadsheet columns are keyed by.
func OpsLevelBand(opsLevel int) string {
	switch {
	case opsLevel >= 10 && opsLevel <= 19:
		return "10-19"
	case opsLevel >= 20 && opsLevel <= 29:
		return "20-29"
	case opsLevel >= 30 && opsLevel <= 39:
		return "30-39"
	case opsLevel >= 40 && opsLevel <= 50:
		return "40-50"
	case opsLevel >= 51 && opsLevel <= 60:
		return "51-60"
	case opsLevel >= 61 && opsLevel <= 70:
		return "61-70"
	default:
		return ""
	}
}

// CumulativeCombatBonuses sums every level's bonuses up to and including
// syndicateLevel into profile's bonus map. The ops-level band is accepted
// for parity with the source spreadsheet's banding but does not currently
// gate which levels apply; all levels <= syndicateLevel contribute.
func (c SyndicateReputationCatalog) CumulativeCombatBonuses(profile *PlayerProfile, syndicateLevel, opsLevel int) {
	_ = OpsLevelBand(opsLevel)
	for _, lvl := range c.Levels {
		if lvl.Level > syndicateLevel {
			continue
		}
		MergeBonusEntriesIntoProfile(profile, lvl.Bonuses)
	}
}

// BuildingLevel is one level of a building's bonus progression.
type BuildingLevel struct {
	Level   int          `json:"level"`
	OpsMin  int          `json:"ops_min"`
	OpsMax  int          `json:"ops_max"`
	Bonuses []BonusEntry `json:"bonuses"`
}

// BuildingRecord is one building's full level progression.
type BuildingRecord struct {
	ID         string          `json:"id"`
	Name       string          `json:"building_name"`
	DataVer    string          `json:"data_version"`
	SourceNote string          `json:"source_note,omitempty"`
	Levels     []BuildingLevel `json:"levels"`
}

// BuildingIndex is the loaded building catalog, keyed by id.
type BuildingIndex struct {
	byID map[string]BuildingRecord
}

// NewBuildingIndex builds an index from a flat building list.
func NewBuildingIndex(records []BuildingRecord) *BuildingIndex {
	idx := &BuildingIndex{byID: map[string]BuildingRecord{}}
	for _, r := range records {
		idx.byID[r.ID] = r
	}
	return idx
}

// CumulativeBuildingBonuses folds the bonuses of each building at its given
// level (buildingLevels: id -> level) into profile's bonus map.
func (idx *BuildingIndex) CumulativeBuildingBonuses(profile *PlayerProfile, buildingLevels map[string]int) {
	for id, level := range buildingLevels {
		rec, ok := idx.byID[id]
		if !ok {
			continue
		}
		for _, bl := range rec.Levels {
			if bl.Level == level {
				MergeBonusEntriesIntoProfile(profile, bl.Bonuses)
			}
		}
	}
}

// ReputationTier is one faction reputation threshold.
type ReputationTier struct {
	PointsMin        int    `json:"points_min"`
	ReputationID     int    `json:"reputation_id"`
	ReputationName   string `json:"reputation_name"`
}

// FactionReputationRecord is one faction's reputation tier ladder.
type FactionReputationRecord struct {
	Faction    string           `json:"faction"`
	Reputation []ReputationTier `json:"reputation"`
}

// TierForPoints returns the highest reputation tier whose points_min is <=
// points, or the zero tier if none qualify.
func (r FactionReputationRecord) TierForPoints(points int) (ReputationTier, bool) {
	best, ok := ReputationTier{}, false
	for _, t := range r.Reputation {
		if t.PointsMin <= points && (!ok || t.PointsMin > best.PointsMin) {
			best, ok = t, true
		}
	}
	return best, ok
}
