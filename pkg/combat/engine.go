package combat

import "math"

// Combatant is one side's mutable combat state. Constructed once per
// candidate from the resolved ship/hostile record plus the player profile,
// then mutated only within a single simulation run.
type Combatant struct {
	Attack            float64
	ShieldMitigation  float64 // [0,1]
	HullMitigation    float64 // additive damage reduction fraction
	Pierce            float64 // additive mitigation bypass
	CritChance        float64 // [0,1]
	CritMultiplier    float64 // >=1
	ProcChance        float64
	ProcMultiplier    float64
	EndOfRoundDamage  float64
	HullHealth        float64
	HullMax           float64
	ShieldHealth      float64
	ShieldMax         float64
	ApexBarrier       float64
	ApexShred         float64
	IsolyticDamage    float64
	IsolyticDefense   float64
}

// clampCombatant coerces invalid data (negative HP, NaN) rather than
// aborting, per the engine's failure semantics; each coercion is recorded in
// warnings.
func clampCombatant(c *Combatant, label string, warnings *[]string) {
	fix := func(name string, v *float64, min float64) {
		if math.IsNaN(*v) {
			*warnings = append(*warnings, label+"."+name+" is NaN, coerced to 0")
			*v = 0
			return
		}
		if *v < min {
			*warnings = append(*warnings, label+"."+name+" below minimum, coerced")
			*v = min
		}
	}
	fix("hull_health", &c.HullHealth, 0)
	fix("shield_health", &c.ShieldHealth, 0)
	fix("hull_max", &c.HullMax, 0)
	fix("shield_max", &c.ShieldMax, 0)
	if c.CritChance < 0 {
		c.CritChance = 0
	}
	if c.CritChance > 1 {
		c.CritChance = 1
	}
	if c.ShieldMitigation < 0 {
		c.ShieldMitigation = 0
	}
	if c.ShieldMitigation > 1 {
		c.ShieldMitigation = 1
	}
	if c.CritMultiplier < 1 {
		c.CritMultiplier = 1
	}
}

// StateKind identifies a persistent combat state.
type StateKind int

const (
	StateAssimilated StateKind = iota
	StateHullBreach
	StateBurning
)

type activeState struct {
	kind             StateKind
	roundsRemaining  int
	requiresCritical bool
}

// BurningFraction is the fraction of hull_max applied as Burning
// damage-over-time at RoundEnd. Exposed as a configurable constant per the
// design note on Burning's unspecified fraction.
var BurningFraction = 0.05

// side bundles one combatant with its crew and the transient per-iteration
// state the round loop mutates.
type side struct {
	label         string
	combatant     *Combatant
	crew          CrewConfiguration
	states        []activeState
	moralePending bool
	lastCritical  bool
}

// TraceMode toggles canonical event emission.
type TraceMode int

const (
	TraceOff TraceMode = iota
	TraceEvents
)

// SimulationConfig controls one combat run.
type SimulationConfig struct {
	Rounds    int
	Seed      uint64
	TraceMode TraceMode
}

// DefaultRounds and DefaultSeed mirror the original engine's defaults.
const (
	DefaultRounds  = 3
	MaxRounds      = 100
	DefaultSeed    = 7
)

// EventSource tags which side/entity produced a CombatEvent.
type EventSource struct {
	Kind string // "officer", "ship-ability", "hostile-ability", "bonus"
	ID   string
}

// CombatEvent is one entry in the canonical trace.
type CombatEvent struct {
	EventType string
	Round     int
	Phase     string
	Source    EventSource
	Values    map[string]float64
}

// SimulationResult is the outcome of one combat run.
type SimulationResult struct {
	AttackerWon           bool
	WonByRoundLimit        bool
	RoundsSimulated        int
	TotalDamageToDefender  float64
	TotalDamageToAttacker  float64
	AttackerHullRemaining  float64
	DefenderHullRemaining  float64
	Events                 []CombatEvent
	Warnings               []string
}

func phaseName(p TimingWindow) string {
	switch p {
	case CombatBegin:
		return "combat_begin"
	case RoundStart:
		return "round_start"
	case AttackPhase:
		return "attack_phase"
	case DefensePhase:
		return "defense_phase"
	case RoundEnd:
		return "round_end"
	default:
		return "unknown"
	}
}

// roundF64 rounds to six decimals, matching the engine's canonical numeric
// output semantics.
func roundF64(v float64) float64 {
	return math.Round(v*1_000_000) / 1_000_000
}

// Simulate runs one deterministic combat between attacker and defender.
// rng must be freshly seeded by the caller (the Monte Carlo driver derives
// per-iteration seeds; this function never reseeds itself).
func Simulate(cfg SimulationConfig, attackerC, defenderC *Combatant, attackerCrew, defenderCrew CrewConfiguration, rng *Rng) SimulationResult {
	rounds := cfg.Rounds
	if rounds <= 0 {
		rounds = DefaultRounds
	}
	if rounds > MaxRounds {
		rounds = MaxRounds
	}

	var warnings []string
	clampCombatant(attackerC, "attacker", &warnings)
	clampCombatant(defenderC, "defender", &warnings)

	attacker := &side{label: "attacker", combatant: attackerC, crew: attackerCrew}
	defender := &side{label: "defender", combatant: defenderC, crew: defenderCrew}

	result := SimulationResult{Warnings: warnings}
	trace := cfg.TraceMode == TraceEvents

	emit := func(eventType string, round int, phase TimingWindow, src EventSource, values map[string]float64) {
		if !trace {
			return
		}
		result.Events = append(result.Events, CombatEvent{
			EventType: eventType,
			Round:     round,
			Phase:     phaseName(phase),
			Source:    src,
			Values:    values,
		})
	}

	roundsSimulated := 0
	processStateRolls(0, CombatBegin, attacker, defender, rng, emit)
	processStateRolls(0, CombatBegin, defender, attacker, rng, emit)

	for r := 1; r <= rounds; r++ {
		roundsSimulated = r
		emit("round_start", r, RoundStart, EventSource{}, nil)

		processStateRolls(r, RoundStart, attacker, defender, rng, emit)
		processStateRolls(r, RoundStart, defender, attacker, rng, emit)

		attackerActs := !hasState(attacker, StateAssimilated)
		defenderActs := !hasState(defender, StateAssimilated)

		if attackerActs {
			resolveAttack(r, attacker, defender, rng, &result, emit)
		}
		if defenderActs && defender.combatant.HullHealth > 0 && attacker.combatant.HullHealth > 0 {
			resolveAttack(r, defender, attacker, rng, &result, emit)
		}

		processStateRolls(r, DefensePhase, attacker, defender, rng, emit)
		processStateRolls(r, DefensePhase, defender, attacker, rng, emit)

		applyBurning(r, attacker, &result, emit)
		applyBurning(r, defender, &result, emit)

		tickStates(r, attacker, emit)
		tickStates(r, defender, emit)

		if defender.combatant.HullHealth <= 0 || attacker.combatant.HullHealth <= 0 {
			break
		}
	}

	result.RoundsSimulated = roundsSimulated
	result.AttackerHullRemaining = roundF64(math.Max(0, attacker.combatant.HullHealth))
	result.DefenderHullRemaining = roundF64(math.Max(0, defender.combatant.HullHealth))
	result.TotalDamageToDefender = roundF64(math.Max(0, defenderC.HullMax+defenderC.ShieldMax-defender.combatant.HullHealth-defender.combatant.ShieldHealth))
	result.TotalDamageToAttacker = roundF64(math.Max(0, attackerC.HullMax+attackerC.ShieldMax-attacker.combatant.HullHealth-attacker.combatant.ShieldHealth))

	switch {
	case defender.combatant.HullHealth <= 0 && attacker.combatant.HullHealth <= 0:
		// Simultaneous destruction: both hulls are 0, and the attacker is
		// credited the win.
		result.AttackerWon = true
	case defender.combatant.HullHealth <= 0:
		result.AttackerWon = true
	case attacker.combatant.HullHealth <= 0:
		result.AttackerWon = false
	default:
		result.WonByRoundLimit = true
		attackerFrac := safeFrac(attacker.combatant.HullHealth, attackerC.HullMax)
		defenderFrac := safeFrac(defender.combatant.HullHealth, defenderC.HullMax)
		result.AttackerWon = attackerFrac >= defenderFrac
	}

	emit("combat_end", roundsSimulated, RoundEnd, EventSource{}, map[string]float64{
		"attacker_won": boolToFloat(result.AttackerWon),
	})

	return result
}

func safeFrac(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return v / max
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func hasState(s *side, kind StateKind) bool {
	for _, st := range s.states {
		if st.kind == kind {
			return true
		}
	}
	return false
}

func hasHullBreach(s *side) (activeState, bool) {
	for _, st := range s.states {
		if st.kind == StateHullBreach {
			return st, true
		}
	}
	return activeState{}, false
}

func tickStates(round int, s *side, emit func(string, int, TimingWindow, EventSource, map[string]float64)) {
	out := s.states[:0]
	for _, st := range s.states {
		st.roundsRemaining--
		if st.roundsRemaining > 0 {
			out = append(out, st)
		} else {
			emit("state_expired", round, RoundEnd, EventSource{}, map[string]float64{"state": float64(st.kind)})
		}
	}
	s.states = out
}

// processStateRolls evaluates Morale/Assimilated/HullBreach/Burning effects
// active for owner's crew at the given phase, rolling chance against target.
// Morale buffs owner's own next attack; the other three apply a state to
// target.
func processStateRolls(round int, phase TimingWindow, owner, target *side, rng *Rng, emit func(string, int, TimingWindow, EventSource, map[string]float64)) {
	for _, ctx := range owner.crew.ActiveEffectsForTiming(phase) {
		eff := ctx.Ability.Effect
		switch eff.Kind {
		case EffectMorale:
			if rng.NextFloat64() < eff.Chance {
				owner.moralePending = true
				emit("state_applied", round, phase, EventSource{Kind: "officer", ID: ctx.Ability.Name}, map[string]float64{"state": 8})
			}
		case EffectAssimilated:
			if rng.NextFloat64() < eff.Chance {
				target.states = append(target.states, activeState{kind: StateAssimilated, roundsRemaining: eff.Rounds})
				emit("state_applied", round, phase, EventSource{Kind: "officer", ID: ctx.Ability.Name}, map[string]float64{"state": 64})
			}
		case EffectHullBreach:
			if eff.RequiresCritical && !owner.lastCritical {
				continue
			}
			if rng.NextFloat64() < eff.Chance {
				target.states = append(target.states, activeState{kind: StateHullBreach, roundsRemaining: eff.Rounds, requiresCritical: eff.RequiresCritical})
				emit("state_applied", round, phase, EventSource{Kind: "officer", ID: ctx.Ability.Name}, map[string]float64{"state": 4})
			}
		case EffectBurning:
			if rng.NextFloat64() < eff.Chance {
				target.states = append(target.states, activeState{kind: StateBurning, roundsRemaining: eff.Rounds})
				emit("state_applied", round, phase, EventSource{Kind: "officer", ID: ctx.Ability.Name}, map[string]float64{"state": 2})
			}
		}
	}
}

// EndOfRoundBurningDamage returns the flat per-round Burning damage for a
// combatant: its precomputed EndOfRoundDamage field if set, else
// HullMax*BurningFraction.
func EndOfRoundBurningDamage(c *Combatant) float64 {
	if c.EndOfRoundDamage > 0 {
		return c.EndOfRoundDamage
	}
	return c.HullMax * BurningFraction
}

func applyBurning(round int, s *side, result *SimulationResult, emit func(string, int, TimingWindow, EventSource, map[string]float64)) {
	if !hasState(s, StateBurning) {
		return
	}
	dmg := EndOfRoundBurningDamage(s.combatant)
	if dmg <= 0 {
		return
	}
	s.combatant.HullHealth -= dmg
	if s.combatant.HullHealth < 0 {
		s.combatant.HullHealth = 0
	}
	emit("damage_application", round, RoundEnd, EventSource{Kind: "bonus", ID: "burning"}, map[string]float64{"damage": roundF64(dmg)})
}

// aggregateAttackModifiers folds AttackPhase-timed non-state effects for
// side's own crew into its attack multiplier / pierce / apex bonuses.
func aggregateAttackModifiers(round int, s *side, rng *Rng, emit func(string, int, TimingWindow, EventSource, map[string]float64)) (attackMultiplier, pierceBonus, apexShredBonus, apexBarrierBonus float64) {
	attackMultiplier = 1.0
	if s.moralePending {
		attackMultiplier *= 1.25
		s.moralePending = false
	}
	for _, ctx := range s.crew.ActiveEffectsForTiming(AttackPhase) {
		eff := ctx.Ability.Effect
		switch eff.Kind {
		case EffectAttackMultiplier:
			if eff.Op == OpFactor {
				attackMultiplier *= eff.Value
			} else {
				attackMultiplier *= 1 + eff.Value
			}
			emit("ability_activation", round, AttackPhase, EventSource{Kind: "officer", ID: ctx.Ability.Name}, map[string]float64{"attack_multiplier": eff.Value})
		case EffectPierceBonus:
			pierceBonus += eff.Value
			emit("ability_activation", round, AttackPhase, EventSource{Kind: "officer", ID: ctx.Ability.Name}, map[string]float64{"pierce_bonus": eff.Value})
		case EffectApexShredBonus:
			apexShredBonus += eff.Value
		case EffectApexBarrierBonus:
			apexBarrierBonus += eff.Value
		}
	}
	if attackMultiplier < 0 {
		attackMultiplier = 0
	}
	return
}

// resolveAttack runs one side's attack against the other within a round:
// crit roll, mitigation, damage application.
func resolveAttack(round int, attacker, defender *side, rng *Rng, result *SimulationResult, emit func(string, int, TimingWindow, EventSource, map[string]float64)) {
	attackMultiplier, pierceBonus, apexShredBonus, apexBarrierBonus := aggregateAttackModifiers(round, attacker, rng, emit)

	critRoll := rng.NextFloat64()
	critical := critRoll < attacker.combatant.CritChance
	attacker.lastCritical = critical

	emit("attack_roll", round, AttackPhase, EventSource{}, map[string]float64{
		"roll": roundF64(critRoll), "critical": boolToFloat(critical),
	})

	totalPierce := attacker.combatant.Pierce + pierceBonus
	if hb, ok := hasHullBreach(attacker); ok {
		_ = hb
		totalPierce *= 3
	}

	// The shield-phase hit is mitigated by the defender's shield_mitigation
	// component while shields remain; once depleted, the base hull
	// mitigation applies to the overflow instead.
	effectiveShieldMitigation := clamp01(defender.combatant.ShieldMitigation - totalPierce)
	effectiveHullMitigation := clamp01(defender.combatant.HullMitigation - totalPierce)
	effectiveApexBarrier := math.Max(0, defender.combatant.ApexBarrier-(attacker.combatant.ApexShred+apexShredBonus))
	_ = apexBarrierBonus // the attacking side's ApexBarrierBonus is not used in this attack; the barrier applied is defender.combatant.ApexBarrier

	emit("mitigation_calc", round, DefensePhase, EventSource{}, map[string]float64{
		"shield_mitigation": roundF64(effectiveShieldMitigation),
		"hull_mitigation":   roundF64(effectiveHullMitigation),
	})
	emit("pierce_calc", round, DefensePhase, EventSource{}, map[string]float64{"pierce": roundF64(totalPierce)})

	rawDamage := attacker.combatant.Attack * attackMultiplier
	if critical {
		rawDamage *= attacker.combatant.CritMultiplier
	}

	applyDamage(round, attacker, defender, rawDamage, effectiveShieldMitigation, effectiveHullMitigation, effectiveApexBarrier, result, emit)

	if attacker.combatant.ProcChance > 0 && rng.NextFloat64() < attacker.combatant.ProcChance {
		procDamage := rawDamage * attacker.combatant.ProcMultiplier
		applyDamage(round, attacker, defender, procDamage, effectiveShieldMitigation, effectiveHullMitigation, effectiveApexBarrier, result, emit)
	}
}

func applyDamage(round int, attacker, defender *side, rawDamage, shieldMit, hullMit, apexBarrier float64, result *SimulationResult, emit func(string, int, TimingWindow, EventSource, map[string]float64)) {
	remaining := rawDamage
	shieldDealt := 0.0
	if defender.combatant.ShieldHealth > 0 {
		shieldDamage := remaining * (1 - shieldMit)
		if shieldDamage <= defender.combatant.ShieldHealth {
			defender.combatant.ShieldHealth -= shieldDamage
			shieldDealt = shieldDamage
			remaining = 0
		} else {
			overflowFrac := 0.0
			if shieldDamage > 0 {
				overflowFrac = (shieldDamage - defender.combatant.ShieldHealth) / shieldDamage
			}
			defender.combatant.ShieldHealth = 0
			remaining = remaining * overflowFrac
		}
	}
	if remaining > 0 {
		hullDamage := remaining*(1-hullMit) - apexBarrier
		isolytic := math.Max(0, attacker.combatant.IsolyticDamage-defender.combatant.IsolyticDefense)
		hullDamage += isolytic
		if hullDamage < 0 {
			hullDamage = 0
		}
		defender.combatant.HullHealth -= hullDamage
		if defender.combatant.HullHealth < 0 {
			defender.combatant.HullHealth = 0
		}
		emit("damage_application", round, AttackPhase, EventSource{}, map[string]float64{
			"target": labelToFloat(defender.label), "hull_damage": roundF64(hullDamage),
		})
	} else {
		emit("damage_application", round, AttackPhase, EventSource{}, map[string]float64{
			"target": labelToFloat(defender.label), "shield_damage": roundF64(shieldDealt),
		})
	}
}

func labelToFloat(label string) float64 {
	if label == "defender" {
		return 1
	}
	return 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
