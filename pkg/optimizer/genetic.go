package optimizer

import (
	"context"

	"github.com/pggpgg/stfc-optimizer/pkg/stfcdata"
)

const bridgeSlots = 2
const belowDecksSlots = 3
const initPopulationMaxAttempts = 50_000

// GeneticConfig controls the evolutionary search over the candidate space.
type GeneticConfig struct {
	PopulationSize  int
	Generations     int
	MutationRate    float64
	SimsPerEval     int
	TournamentSize  int
	ElitismCount    int
	// StagnationLimit stops the search early once the best fitness has gone
	// this many consecutive generations without improving. Zero disables
	// the early-stop check.
	StagnationLimit int
}

// DefaultGeneticConfig matches the documented defaults.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize:  64,
		Generations:     40,
		MutationRate:    0.15,
		SimsPerEval:     500,
		TournamentSize:  3,
		ElitismCount:    2,
		StagnationLimit: 10,
	}
}

// geneticRng is the PCG-style LCG used throughout the genetic optimizer, the
// same construction as the candidate generator's deterministic shuffle.
type geneticRng struct{ state uint64 }

func newGeneticRng(seed uint64) *geneticRng { return &geneticRng{state: seed} }

func (r *geneticRng) next() uint64 {
	r.state = lcgNext(r.state)
	return r.state
}

func (r *geneticRng) index(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.next() % uint64(n))
}

func (r *geneticRng) floatUnit() float64 {
	return float64(r.next()) / (float64(1<<64-1) + 1)
}

// officerPools is the three eligible-officer name lists the genetic
// operators draw from.
type officerPools struct {
	captains, bridge, belowDecks []string
}

func buildOfficerPools(registry *stfcdata.Registry) officerPools {
	c, b, d := eligiblePools(registry.Officers.All())
	return officerPools{captains: c, bridge: b, belowDecks: d}
}

// randomCrew draws one valid, pairwise-distinct candidate from the pools, or
// false if the pools are too small to fill every slot.
func randomCrew(rng *geneticRng, pools officerPools) (CrewCandidate, bool) {
	if len(pools.captains) == 0 || len(pools.bridge) < bridgeSlots || len(pools.belowDecks) < belowDecksSlots {
		return CrewCandidate{}, false
	}
	captain := pools.captains[rng.index(len(pools.captains))]
	used := map[string]bool{captain: true}

	var bridge [2]string
	for i := 0; i < bridgeSlots; i++ {
		pick, ok := pickUnused(rng, pools.bridge, used)
		if !ok {
			return CrewCandidate{}, false
		}
		bridge[i] = pick
		used[pick] = true
	}

	var below [3]string
	for i := 0; i < belowDecksSlots; i++ {
		pick, ok := pickUnused(rng, pools.belowDecks, used)
		if !ok {
			return CrewCandidate{}, false
		}
		below[i] = pick
		used[pick] = true
	}

	return CrewCandidate{Captain: captain, Bridge: bridge, BelowDecks: below}, true
}

func pickUnused(rng *geneticRng, pool []string, used map[string]bool) (string, bool) {
	var available []string
	for _, p := range pool {
		if !used[p] {
			available = append(available, p)
		}
	}
	if len(available) == 0 {
		return "", false
	}
	return available[rng.index(len(available))], true
}

// initPopulation samples distinct random crews until populationSize is
// reached or initPopulationMaxAttempts is exhausted.
func initPopulation(pools officerPools, populationSize int, seed uint64) []CrewCandidate {
	rng := newGeneticRng(seed)
	pop := make([]CrewCandidate, 0, populationSize)
	for attempts := 0; len(pop) < populationSize && attempts < initPopulationMaxAttempts; attempts++ {
		if c, ok := randomCrew(rng, pools); ok {
			pop = append(pop, c)
		}
	}
	return pop
}

// tournamentSelect runs a k-way tournament over fitness and returns the
// winning population index.
func tournamentSelect(fitness []float64, tournamentSize int, rng *geneticRng) int {
	n := len(fitness)
	if n == 0 {
		return 0
	}
	best := rng.index(n)
	for i := 1; i < tournamentSize; i++ {
		j := rng.index(n)
		if fitness[j] > fitness[best] {
			best = j
		}
	}
	return best
}

// unionDedup returns a∪b with order preserved and duplicates, as well as
// anything already in used, removed.
func unionDedup(a, b []string, used map[string]bool) []string {
	seen := map[string]bool{}
	var out []string
	add := func(items []string) {
		for _, s := range items {
			if used[s] || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	add(a)
	add(b)
	return out
}

// crossover produces one child from two parents: captain from either parent
// with probability 1/2; bridge/below-decks are the union of both parents'
// sets (minus the chosen captain), truncated/padded to the required size.
func crossover(a, b CrewCandidate, pools officerPools, rng *geneticRng) CrewCandidate {
	captain := a.Captain
	if rng.floatUnit() >= 0.5 {
		captain = b.Captain
	}
	used := map[string]bool{captain: true}

	bridgeUnion := unionDedup(a.Bridge[:], b.Bridge[:], used)
	bridgeUnion = fillToSize(rng, bridgeUnion, pools.bridge, used, bridgeSlots)
	for _, s := range bridgeUnion {
		used[s] = true
	}

	belowUnion := unionDedup(a.BelowDecks[:], b.BelowDecks[:], used)
	belowUnion = fillToSize(rng, belowUnion, pools.belowDecks, used, belowDecksSlots)

	var bridge [2]string
	copy(bridge[:], bridgeUnion)
	var below [3]string
	copy(below[:], belowUnion)

	return CrewCandidate{Captain: captain, Bridge: bridge, BelowDecks: below}
}

// fillToSize truncates items to size, or draws random fill-ins from pool
// (excluding used) until it reaches size.
func fillToSize(rng *geneticRng, items []string, pool []string, used map[string]bool, size int) []string {
	if len(items) > size {
		return items[:size]
	}
	out := append([]string{}, items...)
	for len(out) < size {
		pick, ok := pickUnused(rng, pool, mergeUsed(used, out))
		if !ok {
			break
		}
		out = append(out, pick)
	}
	return out
}

func mergeUsed(used map[string]bool, extra []string) map[string]bool {
	m := map[string]bool{}
	for k, v := range used {
		m[k] = v
	}
	for _, e := range extra {
		m[e] = true
	}
	return m
}

// repairCrew fills any short bridge/below-decks slot from the pool, and
// truncates overflow, leaving the candidate pairwise-distinct.
func repairCrew(c CrewCandidate, pools officerPools, rng *geneticRng) CrewCandidate {
	used := map[string]bool{c.Captain: true}
	bridge := dedupeAgainst(c.Bridge[:], used)
	for _, s := range bridge {
		used[s] = true
	}
	below := dedupeAgainst(c.BelowDecks[:], used)

	bridge = fillToSize(rng, bridge, pools.bridge, used, bridgeSlots)
	for _, s := range bridge {
		used[s] = true
	}
	below = fillToSize(rng, below, pools.belowDecks, used, belowDecksSlots)

	var outBridge [2]string
	copy(outBridge[:], bridge)
	var outBelow [3]string
	copy(outBelow[:], below)
	return CrewCandidate{Captain: c.Captain, Bridge: outBridge, BelowDecks: outBelow}
}

func dedupeAgainst(items []string, used map[string]bool) []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range items {
		if s == "" || used[s] || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// mutate picks one of the six slot indices uniformly at rate μ, replaces it
// with a random eligible officer not already in the crew, and repairs.
func mutate(c CrewCandidate, pools officerPools, rate float64, rng *geneticRng) CrewCandidate {
	if rng.floatUnit() >= rate {
		return c
	}
	used := map[string]bool{c.Captain: true, c.Bridge[0]: true, c.Bridge[1]: true}
	for _, s := range c.BelowDecks {
		used[s] = true
	}

	slot := rng.index(6)
	switch slot {
	case 0:
		if pick, ok := pickUnused(rng, pools.captains, used); ok {
			c.Captain = pick
		}
	case 1:
		if pick, ok := pickUnused(rng, pools.bridge, used); ok {
			c.Bridge[0] = pick
		}
	case 2:
		if pick, ok := pickUnused(rng, pools.bridge, used); ok {
			c.Bridge[1] = pick
		}
	default:
		di := slot - 3
		if pick, ok := pickUnused(rng, pools.belowDecks, used); ok {
			c.BelowDecks[di] = pick
		}
	}
	return repairCrew(c, pools, rng)
}

// GeneticProgress is invoked after each generation with
// (generation, maxGenerations, bestFitness).
type GeneticProgress func(generation, maxGenerations int, bestFitness float64)

type indexedFitness struct {
	index   int
	fitness float64
}

// RunGeneticOptimizer evolves a population of crews against scenario and
// returns the best individuals seen across the run (elitism_count, min 10).
// Each generation's selection/crossover/mutation RNG is seeded from
// base_seed + (generation << 32); the Monte Carlo evaluation for each
// generation is seeded from base_seed + generation (not shifted), matching
// the two independent PRNG streams the driver and the operators need.
func RunGeneticOptimizer(ctx context.Context, registry *stfcdata.Registry, scenario Scenario, config GeneticConfig, seed uint64, onProgress GeneticProgress) ([]CrewCandidate, error) {
	pools := buildOfficerPools(registry)
	population := initPopulation(pools, config.PopulationSize, seed)
	if len(population) == 0 {
		return nil, nil
	}

	bestFitness := -1.0
	var bestIndividuals []CrewCandidate
	stagnation := 0

	for generation := 0; generation < config.Generations; generation++ {
		results, err := RunMonteCarlo(ctx, registry, scenario, population, config.SimsPerEval, seed+uint64(generation), true)
		if err != nil {
			return nil, err
		}

		indexed := make([]indexedFitness, len(results))
		fitness := make([]float64, len(results))
		for i, r := range results {
			fitness[i] = score(r)
			indexed[i] = indexedFitness{index: i, fitness: fitness[i]}
		}
		sortByFitnessDescending(indexed)

		genBest := -1.0
		if len(indexed) > 0 {
			genBest = indexed[0].fitness
		}
		if genBest > bestFitness {
			bestFitness = genBest
			stagnation = 0
			keep := config.ElitismCount
			if keep < 10 {
				keep = 10
			}
			if keep > len(indexed) {
				keep = len(indexed)
			}
			bestIndividuals = make([]CrewCandidate, keep)
			for i := 0; i < keep; i++ {
				bestIndividuals[i] = population[indexed[i].index]
			}
		} else {
			stagnation++
		}

		if onProgress != nil {
			onProgress(generation+1, config.Generations, bestFitness)
		}

		if config.StagnationLimit > 0 && stagnation >= config.StagnationLimit {
			break
		}

		rng := newGeneticRng(seed + generation64Shift(generation))

		nextPop := make([]CrewCandidate, 0, config.PopulationSize)
		for i := 0; i < config.ElitismCount && i < len(population); i++ {
			nextPop = append(nextPop, population[indexed[i].index])
		}
		for len(nextPop) < config.PopulationSize {
			pa := tournamentSelect(fitness, config.TournamentSize, rng)
			pb := tournamentSelect(fitness, config.TournamentSize, rng)
			child := crossover(population[pa], population[pb], pools, rng)
			child = repairCrew(child, pools, rng)
			child = mutate(child, pools, config.MutationRate, rng)
			nextPop = append(nextPop, child)
		}
		population = nextPop
	}

	return bestIndividuals, nil
}

// generation64Shift computes generation<<32, named so the shift amount
// documented in the reseed formula has one home.
func generation64Shift(generation int) uint64 {
	return uint64(generation) << 32
}

func sortByFitnessDescending(indexed []indexedFitness) {
	for i := 1; i < len(indexed); i++ {
		for j := i; j > 0 && indexed[j].fitness > indexed[j-1].fitness; j-- {
			indexed[j], indexed[j-1] = indexed[j-1], indexed[j]
		}
	}
}

// RunGeneticOptimizerRanked runs the genetic search, then a final Monte
// Carlo pass over the surviving best individuals at finalSims iterations,
// and ranks the result.
func RunGeneticOptimizerRanked(ctx context.Context, registry *stfcdata.Registry, scenario Scenario, config GeneticConfig, seed uint64, finalSims int, onProgress GeneticProgress) ([]RankedResult, error) {
	top, err := RunGeneticOptimizer(ctx, registry, scenario, config, seed, onProgress)
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		return nil, nil
	}
	if finalSims < 1 {
		finalSims = 1
	}
	finalResults, err := RunMonteCarlo(ctx, registry, scenario, top, finalSims, seed, true)
	if err != nil {
		return nil, err
	}
	return RankResults(finalResults), nil
}
