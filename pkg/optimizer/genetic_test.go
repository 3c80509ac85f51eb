package optimizer

import "testing"

func genPools() officerPools {
	return officerPools{
		captains:   []string{"CapA", "CapB"},
		bridge:     []string{"B1", "B2", "B3", "B4"},
		belowDecks: []string{"D1", "D2", "D3", "D4", "D5"},
	}
}

func validCrew(c CrewCandidate) bool {
	seen := map[string]bool{c.Captain: true}
	for _, b := range c.Bridge {
		if seen[b] {
			return false
		}
		seen[b] = true
	}
	for _, d := range c.BelowDecks {
		if seen[d] {
			return false
		}
		seen[d] = true
	}
	return true
}

func TestRandomCrewProducesValidCrew(t *testing.T) {
	pools := genPools()
	rng := newGeneticRng(42)
	for i := 0; i < 20; i++ {
		c, ok := randomCrew(rng, pools)
		if !ok {
			t.Fatal("expected a valid crew from sufficiently large pools")
		}
		if !validCrew(c) {
			t.Fatalf("crew is not valid: %+v", c)
		}
	}
}

func TestCrossoverProducesValidCrew(t *testing.T) {
	pools := genPools()
	a := CrewCandidate{Captain: "CapA", Bridge: [2]string{"B1", "B2"}, BelowDecks: [3]string{"D1", "D2", "D3"}}
	b := CrewCandidate{Captain: "CapB", Bridge: [2]string{"B3", "B4"}, BelowDecks: [3]string{"D4", "D5", "D1"}}
	rng := newGeneticRng(99)
	for i := 0; i < 10; i++ {
		child := crossover(a, b, pools, rng)
		child = repairCrew(child, pools, rng)
		if !validCrew(child) {
			t.Fatalf("child crew is not valid: %+v", child)
		}
	}
}

func TestMutatePreservesValidCrew(t *testing.T) {
	pools := genPools()
	crew := CrewCandidate{Captain: "CapA", Bridge: [2]string{"B1", "B2"}, BelowDecks: [3]string{"D1", "D2", "D3"}}
	rng := newGeneticRng(77)
	for i := 0; i < 20; i++ {
		crew = mutate(crew, pools, 1.0, rng)
		if !validCrew(crew) {
			t.Fatalf("mutated crew is not valid: %+v", crew)
		}
	}
}

func TestDefaultGeneticConfigIsSane(t *testing.T) {
	c := DefaultGeneticConfig()
	if c.PopulationSize < 2 || c.Generations < 1 || c.MutationRate < 0 || c.MutationRate > 1 {
		t.Fatalf("default config looks unsane: %+v", c)
	}
	if c.TournamentSize < 1 || c.ElitismCount < 1 {
		t.Fatalf("default config looks unsane: %+v", c)
	}
}

func TestInitPopulationRespectsSize(t *testing.T) {
	pools := genPools()
	pop := initPopulation(pools, 6, 12345)
	if len(pop) != 6 {
		t.Fatalf("expected population of 6, got %d", len(pop))
	}
}

func TestTournamentSelectPicksHighestFitnessWithinSample(t *testing.T) {
	fitness := []float64{0.1, 0.9, 0.2, 0.05}
	rng := newGeneticRng(1)
	winners := map[int]bool{}
	for i := 0; i < 50; i++ {
		winners[tournamentSelect(fitness, 4, rng)] = true
	}
	if !winners[1] {
		t.Fatal("expected index 1 (highest fitness) to win at least one full-population tournament")
	}
}
