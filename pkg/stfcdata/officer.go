package stfcdata

// AbilitySlot is the canonical seat slot string for an officer ability.
type AbilitySlot string

const (
	SlotCaptain    AbilitySlot = "captain"
	SlotBridge     AbilitySlot = "bridge"
	SlotBelowDecks AbilitySlot = "below-decks"
)

// ModifierKind is the canonical stat a canonical ability modifies.
type ModifierKind string

const (
	ModCritChance         ModifierKind = "CritChance"
	ModCritDamage         ModifierKind = "CritDamage"
	ModAllDamage          ModifierKind = "AllDamage"
	ModOfficerStatAttack  ModifierKind = "OfficerStatAttack"
	ModShipArmor          ModifierKind = "ShipArmor"
	ModOfficerStatDefense ModifierKind = "OfficerStatDefense"
	ModAllDefenses        ModifierKind = "AllDefenses"
	ModArmorPiercing      ModifierKind = "ArmorPiercing"
	ModAllPiercing        ModifierKind = "AllPiercing"
	ModShieldHPMax        ModifierKind = "ShieldHPMax"
	ModHullHPMax          ModifierKind = "HullHPMax"
	ModApexShred          ModifierKind = "ApexShred"
	ModApexBarrier        ModifierKind = "ApexBarrier"
	ModIsolyticDamage     ModifierKind = "IsolyticDamage"
	ModIsolyticDefense    ModifierKind = "IsolyticDefense"
	ModAddState           ModifierKind = "AddState"
)

// Operation is the canonical arithmetic operator a modifier is applied with.
type Operation string

const (
	OpAdd         Operation = "Add"
	OpMultiplyAdd Operation = "MultiplyAdd"
	OpMultiplySub Operation = "MultiplySub"
)

// Trigger is the canonical ability trigger string.
type Trigger string

const (
	TriggerShipLaunched      Trigger = "ShipLaunched"
	TriggerDefault           Trigger = "Default"
	TriggerCombatStart       Trigger = "CombatStart"
	TriggerRoundStart        Trigger = "RoundStart"
	TriggerEnemyTakesHit     Trigger = "EnemyTakesHit"
	TriggerHitTaken          Trigger = "HitTaken"
	TriggerCriticalShotFired Trigger = "CriticalShotFired"
	TriggerShieldsDepleted   Trigger = "ShieldsDepleted"
	TriggerKill              Trigger = "Kill"
	TriggerEnemyKilled       Trigger = "EnemyKilled"
)

// Target is self/enemy for an ability's effect.
type Target string

const (
	TargetSelf  Target = "self"
	TargetEnemy Target = "enemy"
)

// Ability is the canonical officer ability definition.
type Ability struct {
	Slot          AbilitySlot       `json:"slot"`
	Trigger       Trigger           `json:"trigger,omitempty"`
	Modifier      ModifierKind      `json:"modifier,omitempty"`
	Operation     Operation         `json:"operation,omitempty"`
	Target        Target            `json:"target,omitempty"`
	ValueByRank   []float64         `json:"value_by_rank,omitempty"`
	ChanceByRank  []float64         `json:"chance_by_rank,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	Description   string            `json:"description,omitempty"`
}

// Officer is one entry in the officer catalog.
type Officer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slot      string    `json:"slot,omitempty"`
	Abilities []Ability `json:"abilities"`
}

// OfficerIndex is the loaded, searchable officer catalog, keyed by a
// normalized (alphanumeric, lowercase) lookup key so names with punctuation
// (e.g. "B'Elanna Torres") resolve consistently.
type OfficerIndex struct {
	officers []Officer
	byKey    map[string]Officer
}

// NewOfficerIndex builds an index from a flat officer list.
func NewOfficerIndex(officers []Officer) *OfficerIndex {
	idx := &OfficerIndex{officers: officers, byKey: map[string]Officer{}}
	for _, o := range officers {
		idx.byKey[normalizeOfficerLookupKey(o.Name)] = o
		idx.byKey[normalizeOfficerLookupKey(o.ID)] = o
	}
	return idx
}

// Resolve looks an officer up by name or id.
func (idx *OfficerIndex) Resolve(key string) (Officer, bool) {
	o, ok := idx.byKey[normalizeOfficerLookupKey(key)]
	return o, ok
}

// All returns every officer in the catalog, in load order.
func (idx *OfficerIndex) All() []Officer {
	return idx.officers
}

// IsCaptainEligible reports whether the officer has at least one
// captain-slot ability.
func (o Officer) IsCaptainEligible() bool {
	return o.hasSlot(SlotCaptain)
}

// IsBridgeEligible reports whether the officer has at least one
// bridge-slot ability.
func (o Officer) IsBridgeEligible() bool {
	return o.hasSlot(SlotBridge)
}

// IsBelowDecksEligible reports whether the officer has at least one
// below-decks-slot ability.
func (o Officer) IsBelowDecksEligible() bool {
	return o.hasSlot(SlotBelowDecks)
}

func (o Officer) hasSlot(slot AbilitySlot) bool {
	for _, a := range o.Abilities {
		if a.Slot == slot {
			return true
		}
	}
	return false
}
