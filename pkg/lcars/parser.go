// Package lcars parses the Language for Combat Ability Resolution &
// Simulation YAML dialect and resolves it into the same
// (combat.TimingWindow, combat.EngineEffect) shape pkg/stfcdata produces
// from the canonical JSON officer format, so the combat engine is agnostic
// to which format produced a crew configuration.
package lcars

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the root structure of one LCARS YAML document.
type File struct {
	Officers []Officer `yaml:"officers"`
}

// Officer is one officer's up-to-three ability blocks.
type Officer struct {
	ID                string   `yaml:"id"`
	Name              string   `yaml:"name"`
	Faction           string   `yaml:"faction,omitempty"`
	Rarity            string   `yaml:"rarity,omitempty"`
	Group             string   `yaml:"group,omitempty"`
	CaptainAbility    *Ability `yaml:"captain_ability,omitempty"`
	BridgeAbility     *Ability `yaml:"bridge_ability,omitempty"`
	BelowDecksAbility *Ability `yaml:"below_decks_ability,omitempty"`
}

// Ability is one ability block: a name and its ordered effect list.
type Ability struct {
	Name    string   `yaml:"name"`
	Effects []Effect `yaml:"effects,omitempty"`
}

// Scaling interpolates a value/chance linearly across tiers, matching the
// canonical resolver's rank interpolation but keyed by base+per_rank
// instead of a value-by-rank array.
type Scaling struct {
	Base       *float64 `yaml:"base,omitempty"`
	PerRank    *float64 `yaml:"per_rank,omitempty"`
	MaxRank    *int     `yaml:"max_rank,omitempty"`
	BaseChance *float64 `yaml:"base_chance,omitempty"`
}

// ValueAtRank returns the scaled value at the given 1-based rank (clamped
// to [1, MaxRank], default MaxRank 5).
func (s Scaling) ValueAtRank(rank int) float64 {
	base := orZero(s.Base)
	per := orZero(s.PerRank)
	max := orDefaultInt(s.MaxRank, 5)
	if max < 1 {
		max = 1
	}
	r := clampRank(rank, max)
	return base + per*float64(r-1)
}

// ChanceAtRank returns the scaled chance at the given 1-based rank, falling
// back to Base when BaseChance is unset.
func (s Scaling) ChanceAtRank(rank int) float64 {
	base := orZero(s.BaseChance)
	if s.BaseChance == nil {
		base = orZero(s.Base)
	}
	per := orZero(s.PerRank)
	max := orDefaultInt(s.MaxRank, 5)
	if max < 1 {
		max = 1
	}
	r := clampRank(rank, max)
	return base + per*float64(r-1)
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func orDefaultInt(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func clampRank(rank, max int) int {
	if rank < 1 {
		rank = 1
	}
	if rank > max {
		rank = max
	}
	return rank
}

// Duration is either "permanent" or a round/stack count. IsPermanent
// reports the permanent case; Rounds/Stacks are meaningful only otherwise.
type Duration struct {
	Permanent bool
	Rounds    int
	Stacks    int
}

func (d Duration) IsPermanent() bool { return d.Permanent }

// UnmarshalYAML implements the untagged duration union: a bare string
// ("permanent") or a map with a rounds/stacks key.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		d.Permanent = strings.EqualFold(strings.TrimSpace(s), "permanent")
		return nil
	}
	var m map[string]int
	if err := value.Decode(&m); err != nil {
		return err
	}
	if r, ok := m["rounds"]; ok {
		d.Rounds = r
	}
	if st, ok := m["stacks"]; ok {
		d.Stacks = st
	}
	return nil
}

// Accumulate describes an effect that grows over time.
type Accumulate struct {
	Type    string   `yaml:"type,omitempty"`
	Amount  *float64 `yaml:"amount,omitempty"`
	Ceiling *float64 `yaml:"ceiling,omitempty"`
}

// Decay describes an effect that shrinks over time.
type Decay struct {
	Type   string   `yaml:"type,omitempty"`
	Amount *float64 `yaml:"amount,omitempty"`
	Floor  *float64 `yaml:"floor,omitempty"`
}

// Condition describes a gate on an effect (faction/group membership, stat
// threshold, tag presence). The parser keeps it, but the resolver does not
// evaluate conditions: a conditioned effect resolves as if unconditional.
type Condition struct {
	Type          string      `yaml:"type"`
	Stat          string      `yaml:"stat,omitempty"`
	ThresholdPct  *float64    `yaml:"threshold_pct,omitempty"`
	Min           *int        `yaml:"min,omitempty"`
	Max           *int        `yaml:"max,omitempty"`
	Faction       string      `yaml:"faction,omitempty"`
	Group         string      `yaml:"group,omitempty"`
	MinMembers    *int        `yaml:"min_members,omitempty"`
	Tag           string      `yaml:"tag,omitempty"`
	Conditions    []Condition `yaml:"conditions,omitempty"`
}

// Effect is one effect entry within an ability. Unknown effect_type values
// are preserved verbatim and skipped at resolve time.
type Effect struct {
	Type       string      `yaml:"type"`
	Stat       string      `yaml:"stat,omitempty"`
	Target     string      `yaml:"target,omitempty"`
	Operator   string      `yaml:"operator,omitempty"`
	Value      *float64    `yaml:"value,omitempty"`
	Trigger    string      `yaml:"trigger,omitempty"`
	Duration   *Duration   `yaml:"duration,omitempty"`
	Scaling    *Scaling    `yaml:"scaling,omitempty"`
	Condition  *Condition  `yaml:"condition,omitempty"`
	Chance     *float64    `yaml:"chance,omitempty"`
	Multiplier *float64    `yaml:"multiplier,omitempty"`
	Tag        string      `yaml:"tag,omitempty"`
	Accumulate *Accumulate `yaml:"accumulate,omitempty"`
	Decay      *Decay      `yaml:"decay,omitempty"`
}

// LoadFile parses a single *.lcars.yaml document.
func LoadFile(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return File{}, err
	}
	return f, nil
}

// LoadDir loads every *.lcars.yaml / *.lcars.yml file directly under dir
// (non-recursive) and merges their officer lists. Files that fail to parse
// are skipped, matching the parser's directory-load tolerance for a mixed
// directory of unrelated YAML.
func LoadDir(dir string) ([]Officer, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var officers []Officer
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".lcars.yaml") && !strings.HasSuffix(name, ".lcars.yml") {
			continue
		}
		f, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		officers = append(officers, f.Officers...)
	}
	return officers, nil
}
