package optimizer

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/pggpgg/stfc-optimizer/pkg/combat"
	"github.com/pggpgg/stfc-optimizer/pkg/stfcdata"
)

// Scenario names the ship, hostile, and player profile a set of candidates
// is evaluated against.
type Scenario struct {
	Ship     string
	Hostile  string
	Profile  stfcdata.PlayerProfile
	Rank     int
	Rounds   int
	// AllowSyntheticFallback permits substituting synthetic ship/hostile
	// stats when resolution misses, for benchmark harnesses and tests only
	// (spec.md §7: production paths must surface ResolutionMiss instead).
	AllowSyntheticFallback bool
}

// SimulationResult is the outcome of a Monte Carlo run for one candidate.
type SimulationResult struct {
	Candidate        CrewCandidate
	WinRate          float64
	AvgHullRemaining float64
}

// ResolutionMiss is returned when a ship or hostile id/name cannot be
// resolved against the catalog and synthetic fallback was not requested.
type ResolutionMiss struct {
	Kind string // "ship" or "hostile"
	Key  string
}

func (e *ResolutionMiss) Error() string {
	return fmt.Sprintf("%s %q not found in catalog", e.Kind, e.Key)
}

// stableSeed computes the per-candidate base seed via a multiply-by-37,
// add-byte polynomial hash folded over ship, hostile, and every officer id
// in the candidate, in a fixed field order. This makes the seed independent
// of candidate list ordering.
func stableSeed(base uint64, ship, hostile string, c CrewCandidate) uint64 {
	h := base
	fold := func(s string) {
		for _, b := range []byte(s) {
			h = h*37 + uint64(b)
		}
		h = h*37 + 0xff // field separator
	}
	fold(ship)
	fold(hostile)
	fold(c.Captain)
	fold(c.Bridge[0])
	fold(c.Bridge[1])
	fold(c.BelowDecks[0])
	fold(c.BelowDecks[1])
	fold(c.BelowDecks[2])
	return h
}

// noise derives a deterministic scalar in [0.85,1.15] from a single PRNG
// pass seeded by s.
func noise(s uint64) float64 {
	rng := combat.NewRng(s)
	unit := rng.NextFloat64()
	return 0.85 + unit*0.30
}

// combatInput is the fully-resolved per-candidate input to the engine.
type combatInput struct {
	attacker      combat.Combatant
	defender      combat.Combatant
	attackerCrew  combat.CrewConfiguration
	defenderCrew  combat.CrewConfiguration
	baseSeed      uint64
	rounds        int
}

// ScenarioToCombatInput resolves ship/hostile records, builds attacker and
// defender combatants, applies the profile bonus map and the crew's static
// buffs to the attacker, and builds the dynamic crew configuration.
func ScenarioToCombatInput(registry *stfcdata.Registry, scenario Scenario, candidate CrewCandidate, globalSeed uint64) (combatInput, error) {
	ship, ok := registry.ResolveShip(scenario.Ship)
	if !ok {
		if !scenario.AllowSyntheticFallback {
			return combatInput{}, &ResolutionMiss{Kind: "ship", Key: scenario.Ship}
		}
		ship = syntheticShip(scenario.Ship)
	}
	hostile, ok := registry.ResolveHostile(scenario.Hostile)
	if !ok {
		if !scenario.AllowSyntheticFallback {
			return combatInput{}, &ResolutionMiss{Kind: "hostile", Key: scenario.Hostile}
		}
		hostile = syntheticHostile(scenario.Hostile)
	}

	attacker := combat.Combatant{
		Attack:         ship.Attack,
		CritChance:     ship.CritChance,
		CritMultiplier: maxFloat(ship.CritDamage, 1),
		HullHealth:     ship.HullHealth,
		HullMax:        ship.HullHealth,
		ShieldHealth:   ship.ShieldHealth,
		ShieldMax:      ship.ShieldHealth,
		ApexShred:      ship.ApexShred,
	}
	defender := combat.Combatant{
		HullHealth:       hostile.HullHealth,
		HullMax:          hostile.HullHealth,
		ShieldHealth:     hostile.ShieldHealth,
		ShieldMax:        hostile.ShieldHealth,
		ShieldMitigation: hostile.ShieldMitigation,
		ApexBarrier:      hostile.ApexBarrier,
		HullMitigation:   combat.Mitigation(hostile.ToDefenderStats(), ship.ToAttackerStats(), hostile.ShipType()),
		CritMultiplier:   1,
	}

	rank := scenario.Rank
	if rank <= 0 {
		rank = stfcdata.DefaultRank
	}
	crewCfg, static := stfcdata.BuildCrewConfiguration(registry.Officers, candidate.Captain, candidate.Bridge[:], candidate.BelowDecks[:], rank)

	combat.ApplyProfile(&attacker, scenario.Profile.Bonuses)
	combat.ApplyProfile(&attacker, static)

	rounds := scenario.Rounds
	if rounds <= 0 {
		rounds = combat.DefaultRounds
	}

	return combatInput{
		attacker:     attacker,
		defender:     defender,
		attackerCrew: crewCfg,
		defenderCrew: combat.CrewConfiguration{},
		baseSeed:     stableSeed(globalSeed, scenario.Ship, scenario.Hostile, candidate),
		rounds:       rounds,
	}, nil
}

func maxFloat(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}

// syntheticShip and syntheticHostile provide deterministic placeholder
// stats, usable only when the caller has explicitly opted into synthetic
// fallback (benchmark harnesses and tests).
func syntheticShip(id string) stfcdata.ShipRecord {
	return stfcdata.ShipRecord{
		ID: id, Name: id, ShipClass: "battleship",
		ArmorPiercing: 50, ShieldPiercing: 50, Accuracy: 50,
		Attack: 200, CritChance: 0.1, CritDamage: 1.5,
		HullHealth: 1000, ShieldHealth: 500,
	}
}

func syntheticHostile(id string) stfcdata.HostileRecord {
	return stfcdata.HostileRecord{
		ID: id, Name: id, ShipClass: "battleship",
		Armor: 50, ShieldDeflection: 50, Dodge: 50,
		HullHealth: 1000, ShieldHealth: 500,
	}
}

// runOneCandidate runs N sequential iterations for one candidate and
// aggregates win rate and average surviving hull fraction.
func runOneCandidate(registry *stfcdata.Registry, scenario Scenario, candidate CrewCandidate, n int, globalSeed uint64) (SimulationResult, error) {
	if n <= 0 {
		return SimulationResult{Candidate: candidate}, nil
	}
	input, err := ScenarioToCombatInput(registry, scenario, candidate, globalSeed)
	if err != nil {
		return SimulationResult{}, err
	}

	wins := 0
	sumHull := 0.0
	cfg := combat.SimulationConfig{Rounds: input.rounds}

	for i := 0; i < n; i++ {
		iterSeed := input.baseSeed + uint64(i)
		attacker := input.attacker
		defender := input.defender
		rng := combat.NewRng(iterSeed)
		res := combat.Simulate(cfg, &attacker, &defender, input.attackerCrew, input.defenderCrew, rng)
		if !res.AttackerWon {
			continue
		}
		wins++
		var hullFrac float64
		if res.WonByRoundLimit {
			hullFrac = safeDiv(res.AttackerHullRemaining, input.attacker.HullMax)
		} else {
			n := noise(iterSeed)
			denom := input.defender.HullMax * n
			hullFrac = safeDiv(res.TotalDamageToDefender-input.defender.HullMax*n, denom)
			hullFrac = clamp01f(hullFrac)
		}
		sumHull += hullFrac
	}

	return SimulationResult{
		Candidate:        candidate,
		WinRate:          float64(wins) / float64(n),
		AvgHullRemaining: sumHull / float64(n),
	}, nil
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func clamp01f(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// RunMonteCarlo evaluates every candidate against scenario with n iterations
// each. Candidate-level fan-out only: each candidate's N iterations run
// sequentially on one worker, guaranteeing per-candidate PRNG independence
// and identical results whether parallel is true or false. Results are
// returned in input candidate order regardless of worker completion order.
func RunMonteCarlo(ctx context.Context, registry *stfcdata.Registry, scenario Scenario, candidates []CrewCandidate, n int, seed uint64, parallel bool) ([]SimulationResult, error) {
	results := make([]SimulationResult, len(candidates))
	errs := make([]error, len(candidates))

	if !parallel {
		for i, c := range candidates {
			results[i], errs[i] = runOneCandidate(registry, scenario, c, n, seed)
		}
	} else {
		workers := runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
		if workers > len(candidates) {
			workers = len(candidates)
		}
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					select {
					case <-ctx.Done():
						errs[i] = ctx.Err()
						continue
					default:
					}
					results[i], errs[i] = runOneCandidate(registry, scenario, candidates[i], n, seed)
				}
			}()
		}
		for i := range candidates {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}
	return results, nil
}

// ProgressCallback is invoked between batches with (done, total).
type ProgressCallback func(done, total int)

// maxProgressBatches bounds the number of progress callbacks emitted by
// RunMonteCarloWithProgress, per spec.md §5 ("Progress-reporting variants
// split candidates into batches (≤40 batches)").
const maxProgressBatches = 40

// RunMonteCarloWithProgress splits candidates into at most maxProgressBatches
// batches, invoking onProgress after each batch completes. No intra-batch
// interruption is supported.
func RunMonteCarloWithProgress(ctx context.Context, registry *stfcdata.Registry, scenario Scenario, candidates []CrewCandidate, n int, seed uint64, parallel bool, onProgress ProgressCallback) ([]SimulationResult, error) {
	total := len(candidates)
	if total == 0 {
		return nil, nil
	}
	batchCount := maxProgressBatches
	if batchCount > total {
		batchCount = total
	}
	batchSize := (total + batchCount - 1) / batchCount

	results := make([]SimulationResult, 0, total)
	done := 0
	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}
		batchResults, err := RunMonteCarlo(ctx, registry, scenario, candidates[start:end], n, seed, parallel)
		if err != nil {
			return nil, err
		}
		results = append(results, batchResults...)
		done += len(batchResults)
		if onProgress != nil {
			onProgress(done, total)
		}
	}
	return results, nil
}
