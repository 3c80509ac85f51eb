package stfcdata

import "github.com/pggpgg/stfc-optimizer/pkg/combat"

// BuildCrewConfiguration resolves a captain/bridge/below-decks id triple
// against the officer index into a dynamic CrewConfiguration plus the
// static buff map accumulated from every officer's passive+permanent stat
// modifications. rank is applied uniformly to every officer (per-officer
// rank overrides are a caller concern the catalog does not track).
func BuildCrewConfiguration(idx *OfficerIndex, captain string, bridge, belowDecks []string, rank int) (combat.CrewConfiguration, map[string]float64) {
	cfg := combat.CrewConfiguration{}
	static := map[string]float64{}

	addOfficer := func(id string, slot AbilitySlot) {
		o, ok := idx.Resolve(id)
		if !ok {
			return
		}
		for _, a := range o.Abilities {
			if a.Slot != slot {
				continue
			}
			dynamic, s := ResolveAbility(a, rank)
			mergeStatic(static, s)
			for _, d := range dynamic {
				cfg.Seats = append(cfg.Seats, combat.CrewSeatContext{
					Seat: AbilityCrewSeat(slot),
					Ability: combat.Ability{
						Name:      o.Name,
						Class:     AbilityClass(slot),
						Timing:    d.Timing,
						Boostable: true,
						Effect:    d.Effect,
					},
				})
			}
		}
	}

	addOfficer(captain, SlotCaptain)
	for _, id := range bridge {
		addOfficer(id, SlotBridge)
	}
	for _, id := range belowDecks {
		addOfficer(id, SlotBelowDecks)
	}

	return cfg, static
}

func mergeStatic(dst, src map[string]float64) {
	for k, v := range src {
		if _, ok := dst[k]; ok {
			dst[k] += v
		} else {
			dst[k] = v
		}
	}
}
