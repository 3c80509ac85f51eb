package combat

// ApplyProfile folds a player profile's bonus map into a combatant. Keys not
// present in bonuses are left untouched (missing defaults to 0 additive / 1
// multiplicative, so an empty map is always a no-op). Clamps: crit_chance
// and shield_mitigation to [0,1]; hull/shield multipliers non-negative.
func ApplyProfile(c *Combatant, bonuses map[string]float64) {
	if v, ok := bonuses["weapon_damage"]; ok {
		c.Attack *= nonNegMultiplier(v)
	}
	if v, ok := bonuses["hull_hp"]; ok {
		mult := nonNegMultiplier(v)
		c.HullMax *= mult
		c.HullHealth *= mult
	}
	if v, ok := bonuses["shield_hp"]; ok {
		mult := nonNegMultiplier(v)
		c.ShieldMax *= mult
		c.ShieldHealth *= mult
	}
	if v, ok := bonuses["crit_chance"]; ok {
		c.CritChance = clamp01(c.CritChance + v)
	}
	if v, ok := bonuses["crit_damage"]; ok {
		c.CritMultiplier *= nonNegMultiplier(v)
	}
	if v, ok := bonuses["pierce"]; ok {
		c.Pierce = nonNeg(c.Pierce + v)
	}
	if v, ok := bonuses["shield_pierce"]; ok {
		c.Pierce = nonNeg(c.Pierce + v)
	}
	if v, ok := bonuses["shield_mitigation"]; ok {
		c.ShieldMitigation = clamp01(c.ShieldMitigation + v)
	}
	if v, ok := bonuses["armor"]; ok {
		c.HullMitigation = clamp01(c.HullMitigation + v)
	}
	if v, ok := bonuses["dodge"]; ok {
		c.HullMitigation = clamp01(c.HullMitigation + v)
	}
	if v, ok := bonuses["damage_reduction"]; ok {
		c.HullMitigation = clamp01(c.HullMitigation + v)
	}
	if v, ok := bonuses["isolytic_damage"]; ok {
		c.IsolyticDamage = nonNeg(c.IsolyticDamage + v)
	}
	if v, ok := bonuses["isolytic_defense"]; ok {
		c.IsolyticDefense = nonNeg(c.IsolyticDefense + v)
	}
	if v, ok := bonuses["apex_barrier"]; ok {
		c.ApexBarrier = nonNeg(c.ApexBarrier + v)
	}
	if v, ok := bonuses["apex_shred"]; ok {
		c.ApexShred = nonNeg(c.ApexShred + v)
	}
}

func nonNegMultiplier(bonus float64) float64 {
	m := 1 + bonus
	if m < 0 {
		return 0
	}
	return m
}

func nonNeg(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
