package stfcdata

import "fmt"

// ValidateOfficerDataset checks a flat officer list for top-level
// structural integrity: every id is non-empty and unique, and every name is
// non-empty. All violations are accumulated and returned together rather
// than failing on the first one, so a single bad record doesn't hide the
// rest.
func ValidateOfficerDataset(officers []Officer) []string {
	var errs []string
	seen := map[string]bool{}
	for i, o := range officers {
		if o.ID == "" {
			errs = append(errs, fmt.Sprintf("officer[%d]: empty id", i))
			continue
		}
		if seen[o.ID] {
			errs = append(errs, fmt.Sprintf("officer[%d]: duplicate id %q", i, o.ID))
		}
		seen[o.ID] = true
		if o.Name == "" {
			errs = append(errs, fmt.Sprintf("officer[%d] (%s): empty name", i, o.ID))
		}
	}
	return errs
}

// ValidateAbility checks a single ability for the DataIntegrityWarning
// conditions spec.md §7 requires the driver to log and skip rather than
// abort on: unknown modifier, non-finite numeric values, or a missing
// value_by_rank for a non-state ability.
func ValidateAbility(a Ability) []string {
	var warnings []string
	switch a.Modifier {
	case ModCritChance, ModCritDamage, ModAllDamage, ModOfficerStatAttack,
		ModShipArmor, ModOfficerStatDefense, ModAllDefenses,
		ModArmorPiercing, ModAllPiercing, ModShieldHPMax, ModHullHPMax,
		ModApexShred, ModApexBarrier, ModIsolyticDamage, ModIsolyticDefense,
		ModAddState:
		// recognized
	default:
		warnings = append(warnings, fmt.Sprintf("unknown modifier %q", a.Modifier))
		return warnings
	}
	for _, v := range a.ValueByRank {
		if isNonFinite(v) {
			warnings = append(warnings, "non-finite value_by_rank entry")
		}
	}
	for _, v := range a.ChanceByRank {
		if isNonFinite(v) {
			warnings = append(warnings, "non-finite chance_by_rank entry")
		}
	}
	if a.Modifier != ModAddState && len(a.ValueByRank) == 0 {
		warnings = append(warnings, "missing value_by_rank for non-state ability")
	}
	return warnings
}

func isNonFinite(v float64) bool {
	return v != v || v > 1e308 || v < -1e308
}
