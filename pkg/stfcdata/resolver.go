package stfcdata

import (
	"strconv"
	"strings"

	"github.com/pggpgg/stfc-optimizer/pkg/combat"
)

// DefaultRank is used when no rank is requested.
const DefaultRank = 5

// ResolvedEffect is one (timing, engine effect) pair produced by resolving a
// canonical ability.
type ResolvedEffect struct {
	Timing combat.TimingWindow
	Effect combat.EngineEffect
}

// valueAtRank implements the §4.5 rank interpolation: linear between
// values[0] and values[len-1] when len>=2, the single value when len==1, or
// 0 when empty.
func valueAtRank(values []float64, rank int) float64 {
	switch len(values) {
	case 0:
		return 0
	case 1:
		return values[0]
	default:
		r := len(values)
		base := values[0]
		last := values[r-1]
		perRank := (last - base) / float64(r-1)
		return base + perRank*float64(rank-1)
	}
}

func triggerToTiming(trigger Trigger) (combat.TimingWindow, bool) {
	switch trigger {
	case TriggerShipLaunched, TriggerDefault, "":
		return combat.CombatBegin, true
	case TriggerCombatStart:
		return combat.CombatBegin, true
	case TriggerRoundStart:
		return combat.RoundStart, true
	case TriggerEnemyTakesHit, TriggerHitTaken, TriggerCriticalShotFired:
		return combat.AttackPhase, true
	case TriggerShieldsDepleted:
		return combat.DefensePhase, true
	case TriggerKill, TriggerEnemyKilled:
		return combat.RoundEnd, true
	default:
		return combat.CombatBegin, false
	}
}

func isPassiveTrigger(trigger Trigger) bool {
	return trigger == TriggerShipLaunched || trigger == TriggerDefault || trigger == ""
}

func isPermanent(a Ability) bool {
	return strings.EqualFold(a.Attributes["duration"], "permanent")
}

// operatedValue applies the ability's declared operation to a raw value,
// producing the value to apply to the target stat. MultiplyAdd -> 1+value;
// Add -> value; MultiplySub -> -(value).
func operatedValue(op Operation, value float64) float64 {
	switch op {
	case OpMultiplyAdd:
		return 1 + value
	case OpMultiplySub:
		return -value
	default: // OpAdd
		return value
	}
}

// ResolveAbility expands one canonical ability at the given rank (1-based;
// DefaultRank when rank<=0) into zero or more dynamic (timing, effect)
// pairs, plus any static buff-map entries (stat key -> delta) that should be
// applied once before simulation instead of re-emitted per round.
func ResolveAbility(a Ability, rank int) (dynamic []ResolvedEffect, static map[string]float64) {
	if rank <= 0 {
		rank = DefaultRank
	}
	static = map[string]float64{}

	value := valueAtRank(a.ValueByRank, rank)
	chance := valueAtRank(a.ChanceByRank, rank)

	if a.Modifier == ModAddState {
		eff, ok := resolveStateEffect(a, chance)
		if !ok {
			return nil, static
		}
		timing, ok := triggerToTiming(a.Trigger)
		if !ok {
			return nil, static
		}
		return []ResolvedEffect{{Timing: timing, Effect: eff}}, static
	}

	statKey, delta, isEngineEffect, engineEffect := resolveStatModifier(a, value)
	if statKey == "" && !isEngineEffect {
		return nil, static
	}

	if statKey != "" && isPassiveTrigger(a.Trigger) && isPermanent(a) {
		static[statKey] = delta
		return nil, static
	}

	timing, ok := triggerToTiming(a.Trigger)
	if !ok {
		return nil, static
	}

	if isEngineEffect {
		return []ResolvedEffect{{Timing: timing, Effect: engineEffect}}, static
	}

	// Non-static dynamic stat modifications surface as AttackMultiplier or
	// PierceBonus engine effects depending on the stat they target, so the
	// combat engine's closed effect switch can consume them uniformly.
	switch statKey {
	case "weapon_damage", "crit_chance", "crit_damage":
		return []ResolvedEffect{{Timing: timing, Effect: combat.EngineEffect{
			Kind: combat.EffectAttackMultiplier, Value: delta, Op: combat.OpDelta,
		}}}, static
	case "shield_pierce", "armor":
		return []ResolvedEffect{{Timing: timing, Effect: combat.EngineEffect{
			Kind: combat.EffectPierceBonus, Value: delta,
		}}}, static
	default:
		return nil, static
	}
}

// resolveStatModifier maps a stat-modification ability to either a
// (statKey, delta) pair destined for the static buff map / AttackMultiplier
// fallback above, or directly to an EngineEffect for the modifiers that have
// a dedicated engine effect kind (ApexShred, ApexBarrier, Isolytic*).
func resolveStatModifier(a Ability, value float64) (statKey string, delta float64, isEngineEffect bool, eff combat.EngineEffect) {
	switch a.Modifier {
	case ModCritChance:
		return "crit_chance", operatedValue(a.Operation, value), false, combat.EngineEffect{}
	case ModCritDamage:
		return "crit_damage", operatedValue(a.Operation, value), false, combat.EngineEffect{}
	case ModAllDamage, ModOfficerStatAttack:
		return "weapon_damage", operatedValue(a.Operation, value), false, combat.EngineEffect{}
	case ModShipArmor, ModOfficerStatDefense, ModAllDefenses:
		if a.Target == TargetEnemy {
			return "shield_mitigation", operatedValue(a.Operation, value), false, combat.EngineEffect{}
		}
		return "armor", operatedValue(a.Operation, value), false, combat.EngineEffect{}
	case ModArmorPiercing, ModAllPiercing:
		return "shield_pierce", operatedValue(a.Operation, value), false, combat.EngineEffect{}
	case ModShieldHPMax:
		return "shield_hp", 1 + value, false, combat.EngineEffect{}
	case ModHullHPMax:
		return "hull_hp", 1 + value, false, combat.EngineEffect{}
	case ModApexShred:
		return "", 0, true, combat.EngineEffect{Kind: combat.EffectApexShredBonus, Value: value}
	case ModApexBarrier:
		return "", 0, true, combat.EngineEffect{Kind: combat.EffectApexBarrierBonus, Value: value}
	case ModIsolyticDamage:
		return "isolytic_damage", value, false, combat.EngineEffect{}
	case ModIsolyticDefense:
		return "isolytic_defense", value, false, combat.EngineEffect{}
	default:
		return "", 0, false, combat.EngineEffect{}
	}
}

// resolveStateEffect parses the AddState attribute bag for the
// burning/hullbreach/morale/assimilated tag and builds the matching engine
// effect, with num_rounds parsed from attributes.
func resolveStateEffect(a Ability, chance float64) (combat.EngineEffect, bool) {
	rounds := 0
	if v, ok := a.Attributes["num_rounds"]; ok {
		rounds, _ = strconv.Atoi(v)
	}
	state := strings.ToLower(a.Attributes["state"])

	switch {
	case strings.Contains(state, "state2") || strings.Contains(state, "burning"):
		return combat.EngineEffect{Kind: combat.EffectBurning, Chance: chance, Rounds: rounds}, true
	case strings.Contains(state, "state4") || strings.Contains(state, "hullbreach"):
		requiresCrit := strings.EqualFold(a.Attributes["requires_critical"], "true")
		return combat.EngineEffect{Kind: combat.EffectHullBreach, Chance: chance, Rounds: rounds, RequiresCritical: requiresCrit}, true
	case strings.Contains(state, "state8") || strings.Contains(state, "morale"):
		return combat.EngineEffect{Kind: combat.EffectMorale, Chance: chance}, true
	case strings.Contains(state, "state64") || strings.Contains(state, "assimilat"):
		return combat.EngineEffect{Kind: combat.EffectAssimilated, Chance: chance, Rounds: rounds}, true
	default:
		return combat.EngineEffect{}, false
	}
}

// AbilityCrewSeat maps a canonical AbilitySlot to the engine's CrewSeat.
func AbilityCrewSeat(slot AbilitySlot) combat.CrewSeat {
	switch slot {
	case SlotBridge:
		return combat.SeatBridge
	case SlotBelowDecks:
		return combat.SeatBelowDeck
	default:
		return combat.SeatCaptain
	}
}

// AbilityClass maps a canonical AbilitySlot to the engine's AbilityClass.
func AbilityClass(slot AbilitySlot) combat.AbilityClass {
	switch slot {
	case SlotBridge:
		return combat.ClassBridgeAbility
	case SlotBelowDecks:
		return combat.ClassBelowDeck
	default:
		return combat.ClassCaptainManeuver
	}
}
