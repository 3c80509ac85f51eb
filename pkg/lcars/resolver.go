package lcars

import (
	"strings"

	"github.com/pggpgg/stfc-optimizer/pkg/combat"
)

// ResolveOptions controls rank-dependent scaling when resolving an ability.
type ResolveOptions struct {
	// Tier is the 1-based officer rank used for scaling.base + per_rank.
	// Zero defaults to rank 1.
	Tier int
}

// BuffSet is the resolved output of a crew: a static buff map applied once
// to the attacker before simulation, plus the dynamic crew configuration
// the engine evaluates every round.
type BuffSet struct {
	StaticBuffs map[string]float64
	Crew        combat.CrewConfiguration
}

func triggerToTiming(trigger string) (combat.TimingWindow, bool) {
	switch strings.TrimSpace(trigger) {
	case "passive", "on_combat_start":
		return combat.CombatBegin, true
	case "on_round_start":
		return combat.RoundStart, true
	case "on_attack", "on_hit", "on_critical":
		return combat.AttackPhase, true
	case "on_defense":
		return combat.DefensePhase, true
	case "on_round_end":
		return combat.RoundEnd, true
	default:
		return combat.CombatBegin, false
	}
}

// isStaticEffect reports whether effect is a passive, permanent stat_modify
// — the one case resolved into StaticBuffs only, never into a crew seat.
func isStaticEffect(e Effect) bool {
	passive := strings.TrimSpace(e.Trigger) == "passive"
	permanent := e.Duration != nil && e.Duration.IsPermanent()
	return passive && permanent && e.Type == "stat_modify"
}

// resolveEffect resolves one non-static effect into a (timing, engine
// effect) pair. Unknown effect types, stats, or triggers are skipped
// (nil, false) rather than erroring, matching the dialect's graceful
// degradation for forward-compatible YAML.
func resolveEffect(e Effect, tier int) (combat.TimingWindow, combat.EngineEffect, bool) {
	if isStaticEffect(e) {
		return 0, combat.EngineEffect{}, false
	}
	timing, ok := triggerToTiming(e.Trigger)
	if !ok {
		return 0, combat.EngineEffect{}, false
	}

	switch e.Type {
	case "stat_modify":
		value, ok := resolvedValue(e, tier)
		if !ok {
			return 0, combat.EngineEffect{}, false
		}
		op := e.Operator
		if op == "" {
			op = "add"
		}
		switch e.Stat {
		case "weapon_damage", "attack":
			if op == "multiply" {
				return timing, combat.EngineEffect{Kind: combat.EffectAttackMultiplier, Value: value, Op: combat.OpFactor}, true
			}
			return timing, combat.EngineEffect{Kind: combat.EffectAttackMultiplier, Value: value, Op: combat.OpDelta}, true
		case "shield_pierce", "armor_pierce":
			add := value
			if op == "multiply" {
				add = value - 1
			}
			return timing, combat.EngineEffect{Kind: combat.EffectPierceBonus, Value: add}, true
		case "crit_chance", "crit_damage":
			return timing, combat.EngineEffect{Kind: combat.EffectAttackMultiplier, Value: value * 0.5, Op: combat.OpDelta}, true
		case "apex_shred":
			return timing, combat.EngineEffect{Kind: combat.EffectApexShredBonus, Value: value}, true
		case "apex_barrier":
			return timing, combat.EngineEffect{Kind: combat.EffectApexBarrierBonus, Value: value}, true
		default:
			return 0, combat.EngineEffect{}, false
		}
	case "extra_attack":
		chance := 0.0
		if e.Chance != nil {
			chance = *e.Chance
		} else if e.Scaling != nil {
			chance = e.Scaling.ChanceAtRank(tier)
		}
		mult := 1.0
		if e.Multiplier != nil {
			mult = *e.Multiplier
		}
		// extra_attack is folded into an attack-multiplier proxy: the
		// engine has no dedicated extra-shot effect, so the expected
		// value of the bonus shot is expressed as a multiplier delta.
		return timing, combat.EngineEffect{Kind: combat.EffectAttackMultiplier, Value: chance * (mult - 1), Op: combat.OpDelta}, true
	case "tag":
		return 0, combat.EngineEffect{}, false
	default:
		return 0, combat.EngineEffect{}, false
	}
}

func resolvedValue(e Effect, tier int) (float64, bool) {
	if e.Value != nil {
		return *e.Value, true
	}
	if e.Scaling != nil {
		return e.Scaling.ValueAtRank(tier), true
	}
	return 0, false
}

// ResolveOfficerAbility resolves one ability block (captain, bridge, or
// below decks) into the seat contexts it contributes, skipping static and
// unsupported effects.
func ResolveOfficerAbility(ability Ability, seat combat.CrewSeat, class combat.AbilityClass, opts ResolveOptions) []combat.CrewSeatContext {
	var contexts []combat.CrewSeatContext
	for _, e := range ability.Effects {
		timing, eff, ok := resolveEffect(e, opts.Tier)
		if !ok {
			continue
		}
		contexts = append(contexts, combat.CrewSeatContext{
			Seat: seat,
			Ability: combat.Ability{
				Name:      ability.Name,
				Class:     class,
				Timing:    timing,
				Boostable: true,
				Effect:    eff,
			},
		})
	}
	return contexts
}

func seatAndClass(slot string) (combat.CrewSeat, combat.AbilityClass) {
	switch slot {
	case "bridge":
		return combat.SeatBridge, combat.ClassBridgeAbility
	case "below-decks":
		return combat.SeatBelowDeck, combat.ClassBelowDeck
	default:
		return combat.SeatCaptain, combat.ClassCaptainManeuver
	}
}

func accumulateStatic(static map[string]float64, ability *Ability, tier int) {
	if ability == nil {
		return
	}
	for _, e := range ability.Effects {
		if e.Type != "stat_modify" || strings.TrimSpace(e.Trigger) != "passive" {
			continue
		}
		if e.Duration == nil || !e.Duration.IsPermanent() {
			continue
		}
		value, ok := resolvedValue(e, tier)
		if !ok || e.Stat == "" {
			continue
		}
		if e.Operator == "multiply" {
			if cur, ok := static[e.Stat]; ok {
				static[e.Stat] = cur * value
			} else {
				static[e.Stat] = value
			}
			continue
		}
		static[e.Stat] += value
	}
}

// ResolveCrewToBuffSet builds a BuffSet for one captain/bridge/below-decks
// triple, looking officers up from the provided id-keyed map.
func ResolveCrewToBuffSet(captainID string, bridge, belowDecks []string, officers map[string]Officer, opts ResolveOptions) BuffSet {
	static := map[string]float64{}
	var seats []combat.CrewSeatContext

	addAbility := func(ability *Ability, slot string) {
		if ability == nil {
			return
		}
		accumulateStatic(static, ability, opts.Tier)
		seat, class := seatAndClass(slot)
		seats = append(seats, ResolveOfficerAbility(*ability, seat, class, opts)...)
	}

	if o, ok := officers[captainID]; ok {
		addAbility(o.CaptainAbility, "captain")
	}
	for _, id := range bridge {
		if o, ok := officers[id]; ok {
			addAbility(o.BridgeAbility, "bridge")
		}
	}
	for _, id := range belowDecks {
		if o, ok := officers[id]; ok {
			addAbility(o.BelowDecksAbility, "below-decks")
		}
	}

	return BuffSet{StaticBuffs: static, Crew: combat.CrewConfiguration{Seats: seats}}
}

// IndexOfficersByID builds an id-keyed lookup map from a flat officer list,
// the input shape LoadDir/LoadFile return.
func IndexOfficersByID(officers []Officer) map[string]Officer {
	m := make(map[string]Officer, len(officers))
	for _, o := range officers {
		m[o.ID] = o
	}
	return m
}
