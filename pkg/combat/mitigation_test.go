package combat

import (
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestMitigationGoldenSurvey(t *testing.T) {
	got := Mitigation(
		DefenderStats{Armor: 100, ShieldDeflection: 80, Dodge: 60},
		AttackerStats{ArmorPiercing: 50, ShieldPiercing: 40, Accuracy: 30},
		ShipSurvey,
	)
	want := 0.5489034243492552
	if !approxEqual(got, want, 1e-12) {
		t.Fatalf("survey mitigation = %v, want %v", got, want)
	}
}

func TestMitigationGoldenBattleshipExplorerInterceptor(t *testing.T) {
	want := 0.5914393181871193
	for _, st := range []ShipType{ShipBattleship, ShipExplorer, ShipInterceptor} {
		got := Mitigation(
			DefenderStats{Armor: 100, ShieldDeflection: 80, Dodge: 60},
			AttackerStats{ArmorPiercing: 50, ShieldPiercing: 40, Accuracy: 30},
			st,
		)
		if !approxEqual(got, want, 1e-12) {
			t.Fatalf("ship type %v mitigation = %v, want %v", st, got, want)
		}
	}
}

func TestMitigationClampedToUnitInterval(t *testing.T) {
	cases := []struct {
		def DefenderStats
		atk AttackerStats
	}{
		{DefenderStats{Armor: 1e9, ShieldDeflection: 1e9, Dodge: 1e9}, AttackerStats{ArmorPiercing: 1, ShieldPiercing: 1, Accuracy: 1}},
		{DefenderStats{Armor: -5, ShieldDeflection: -5, Dodge: -5}, AttackerStats{ArmorPiercing: 1e9, ShieldPiercing: 1e9, Accuracy: 1e9}},
		{DefenderStats{}, AttackerStats{}},
	}
	for _, c := range cases {
		for _, st := range []ShipType{ShipSurvey, ShipBattleship, ShipExplorer, ShipInterceptor, ShipArmada} {
			got := Mitigation(c.def, c.atk, st)
			if got < 0 || got > 1 {
				t.Fatalf("mitigation out of [0,1]: %v", got)
			}
		}
	}
}

func TestComponentMitigationZeroPiercingUsesEpsilon(t *testing.T) {
	got := componentMitigation(100, 0)
	if math.IsNaN(got) || math.IsInf(got, 0) || got <= 0 || got > 1 {
		t.Fatalf("componentMitigation(100,0) = %v, expected a finite value in (0,1]", got)
	}
	// 0/epsilon = 0, so the result is 1/(1+4^1.1); dividing by a zero
	// piercing instead would give NaN.
	zero := componentMitigation(0, 0)
	want := 1 / (1 + math.Pow(4, 1.1))
	if math.IsNaN(zero) || !approxEqual(zero, want, 1e-12) {
		t.Fatalf("componentMitigation(0,0) = %v, want %v", zero, want)
	}
}

func TestComponentMitigationNegativeDefenseClampedToZero(t *testing.T) {
	a := componentMitigation(-50, 10)
	b := componentMitigation(0, 10)
	if a != b {
		t.Fatalf("negative defense not clamped: %v != %v", a, b)
	}
}
