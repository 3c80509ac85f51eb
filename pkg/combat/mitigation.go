package combat

import "math"

// ShipType is the ship-class used to weight the three mitigation components.
type ShipType int

const (
	ShipSurvey ShipType = iota
	ShipBattleship
	ShipExplorer
	ShipInterceptor
	// ShipArmada is not present in the original ship-class enum but is a
	// valid hostile ship_class in the catalog contract. Treated as a heavy,
	// armor-weighted hybrid between Battleship and Survey.
	ShipArmada
)

const mitigationEpsilon = 1e-9

// mitigationCoefficients returns the (armor, shield, dodge) weight vector for
// a ship class.
func mitigationCoefficients(t ShipType) [3]float64 {
	switch t {
	case ShipBattleship:
		return [3]float64{.55, .2, .2}
	case ShipExplorer:
		return [3]float64{.2, .55, .2}
	case ShipInterceptor:
		return [3]float64{.2, .2, .55}
	case ShipArmada:
		return [3]float64{.45, .30, .25}
	default: // ShipSurvey
		return [3]float64{.3, .3, .3}
	}
}

// componentMitigation computes f(x) = 1 / (1 + 4^(1.1-x)), x = max(defense,0)/max(piercing,eps).
func componentMitigation(defense, piercing float64) float64 {
	if defense < 0 {
		defense = 0
	}
	if piercing < mitigationEpsilon {
		piercing = mitigationEpsilon
	}
	x := defense / piercing
	return 1 / (1 + math.Pow(4, 1.1-x))
}

// DefenderStats is the three mitigation-relevant defender inputs.
type DefenderStats struct {
	Armor            float64
	ShieldDeflection float64
	Dodge            float64
}

// AttackerStats is the three mitigation-relevant attacker inputs.
type AttackerStats struct {
	ArmorPiercing  float64
	ShieldPiercing float64
	Accuracy       float64
}

// Mitigation composes the three per-component mitigations into the total
// mitigation fraction for a given ship class, clamped to [0,1].
func Mitigation(defender DefenderStats, attacker AttackerStats, shipType ShipType) float64 {
	c := mitigationCoefficients(shipType)
	fArmor := componentMitigation(defender.Armor, attacker.ArmorPiercing)
	fShield := componentMitigation(defender.ShieldDeflection, attacker.ShieldPiercing)
	fDodge := componentMitigation(defender.Dodge, attacker.Accuracy)

	antiProb := (1 - c[0]*fArmor) * (1 - c[1]*fShield) * (1 - c[2]*fDodge)
	total := 1 - antiProb
	if total < 0 {
		return 0
	}
	if total > 1 {
		return 1
	}
	return total
}
