// Package optimizer implements the crew candidate generator, the Monte
// Carlo driver, ranking, the genetic optimizer, and the analytical/tiered
// pre-filters built on top of pkg/combat and pkg/stfcdata.
package optimizer

import "github.com/pggpgg/stfc-optimizer/pkg/stfcdata"

// CrewCandidate is one six-officer crew: one captain, two bridge officers,
// three below-decks officers, all pairwise distinct.
type CrewCandidate struct {
	Captain    string
	Bridge     [2]string
	BelowDecks [3]string
}

// Distinct reports whether all six officer identifiers are pairwise
// distinct, the invariant every emitted candidate must satisfy.
func (c CrewCandidate) Distinct() bool {
	seen := map[string]bool{c.Captain: true}
	all := append([]string{c.Bridge[0], c.Bridge[1]}, c.BelowDecks[:]...)
	for _, id := range all {
		if seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}

// CandidateStrategy controls the generator's exhaustive/sampled switch and
// its bounds.
type CandidateStrategy struct {
	ExhaustivePoolThreshold int
	MaxCandidates           int
	LargePoolCaptainLimit   int
	LargePoolBridgeLimit    int
	UseSeededShuffle        bool
}

// DefaultCandidateStrategy matches the spec's documented defaults.
func DefaultCandidateStrategy() CandidateStrategy {
	return CandidateStrategy{
		ExhaustivePoolThreshold: 12,
		MaxCandidates:           128,
		LargePoolCaptainLimit:   10,
		LargePoolBridgeLimit:    12,
		UseSeededShuffle:        true,
	}
}

// mixSeed XOR-folds a hash over ship+hostile bytes with golden-ratio mixing,
// seeded from the caller's base seed, to derive a stable per-scenario
// shuffle seed independent of candidate order.
func mixSeed(seed uint64, ship, hostile string) uint64 {
	const golden = 0x9e3779b97f4a7c15
	h := seed ^ golden
	for _, b := range []byte(ship) {
		h ^= uint64(b)
		h *= golden
		h ^= h >> 29
	}
	h ^= golden >> 1
	for _, b := range []byte(hostile) {
		h ^= uint64(b)
		h *= golden
		h ^= h >> 29
	}
	return h
}

// lcgNext advances a PCG-style 64-bit LCG state.
func lcgNext(state uint64) uint64 {
	return state*6364136223846793005 + 1442695040888963407
}

// deterministicShuffle performs a seeded reverse Fisher-Yates shuffle,
// returning a new slice; items is left untouched.
func deterministicShuffle(items []string, seed uint64) []string {
	out := make([]string, len(items))
	copy(out, items)
	state := seed
	for i := len(out) - 1; i > 0; i-- {
		state = lcgNext(state)
		j := int(state>>1) % (i + 1)
		if j < 0 {
			j = -j
		}
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// eligiblePools partitions the officer catalog into captain/bridge/below
// decks eligible name lists.
func eligiblePools(officers []stfcdata.Officer) (captains, bridge, below []string) {
	for _, o := range officers {
		if o.IsCaptainEligible() {
			captains = append(captains, o.ID)
		}
		if o.IsBridgeEligible() {
			bridge = append(bridge, o.ID)
		}
		if o.IsBelowDecksEligible() {
			below = append(below, o.ID)
		}
	}
	return
}

func minInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// GenerateCandidates loads the officer catalog from the registry, shuffles
// each eligible pool deterministically from mix(seed, ship, hostile), and
// branches to the exhaustive or sampled strategy by pool size. Any
// seedCrews (player-authored heuristics seed crews, see
// SeedCandidatesFromText) are prepended ahead of the generated candidates,
// deduplicated against them, exactly as spec.md §3's heuristics seed-crew
// requirement describes.
func GenerateCandidates(registry *stfcdata.Registry, ship, hostile string, seed uint64, strategy CandidateStrategy, seedCrews ...CrewCandidate) []CrewCandidate {
	officers := registry.Officers.All()
	captains, bridge, below := eligiblePools(officers)

	shuffleSeed := mixSeed(seed, ship, hostile)
	if strategy.UseSeededShuffle {
		captains = deterministicShuffle(captains, shuffleSeed^0x1)
		bridge = deterministicShuffle(bridge, shuffleSeed^0x2)
		below = deterministicShuffle(below, shuffleSeed^0x3)
	}

	minPool := minInt(len(captains), len(bridge), len(below))
	var candidates []CrewCandidate
	if minPool > 0 {
		if minPool <= strategy.ExhaustivePoolThreshold {
			candidates = exhaustiveCandidates(captains, bridge, below, strategy.MaxCandidates)
		} else {
			candidates = sampledCandidates(captains, bridge, below, seed, strategy)
		}
	}
	return prependSeedCrews(candidates, seedCrews)
}

// prependSeedCrews puts every distinct, not-already-present seed crew ahead
// of generated, preserving the seed crews' own relative order.
func prependSeedCrews(generated []CrewCandidate, seedCrews []CrewCandidate) []CrewCandidate {
	if len(seedCrews) == 0 {
		return generated
	}
	seen := make(map[CrewCandidate]bool, len(generated)+len(seedCrews))
	for _, c := range generated {
		seen[c] = true
	}
	out := make([]CrewCandidate, 0, len(seedCrews)+len(generated))
	for _, c := range seedCrews {
		if !c.Distinct() || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	out = append(out, generated...)
	return out
}

// SeedCandidatesFromText parses a heuristics seed file (see
// stfcdata.ParseHeuristicsLine) and expands it into CrewCandidates using
// the requested below-decks strategy, dropping any expanded line that
// isn't pairwise-distinct. Parse warnings (malformed lines) are returned
// alongside the candidates rather than treated as a hard error, since a
// partially-malformed seed file should still seed what it can.
func SeedCandidatesFromText(text string, strategy stfcdata.BelowDecksStrategy) ([]CrewCandidate, []string) {
	parsed, warnings := stfcdata.ParseSeedFile(text)
	expanded := stfcdata.ExpandCrews(parsed, strategy)
	out := make([]CrewCandidate, 0, len(expanded))
	for _, e := range expanded {
		c := CrewCandidate{Captain: e.Captain, Bridge: e.Bridge, BelowDecks: e.BelowDecks}
		if c.Distinct() {
			out = append(out, c)
		}
	}
	return out, warnings
}

func exhaustiveCandidates(captains, bridge, below []string, maxCandidates int) []CrewCandidate {
	var out []CrewCandidate
	for _, cap := range captains {
		for bi := 0; bi < len(bridge); bi++ {
			for bj := bi + 1; bj < len(bridge); bj++ {
				b0, b1 := bridge[bi], bridge[bj]
				if b0 == cap || b1 == cap {
					continue
				}
				for di := 0; di < len(below); di++ {
					for dj := di + 1; dj < len(below); dj++ {
						for dk := dj + 1; dk < len(below); dk++ {
							d0, d1, d2 := below[di], below[dj], below[dk]
							cand := CrewCandidate{Captain: cap, Bridge: [2]string{b0, b1}, BelowDecks: [3]string{d0, d1, d2}}
							if !cand.Distinct() {
								continue
							}
							out = append(out, cand)
							if len(out) >= maxCandidates {
								return out
							}
						}
					}
				}
			}
		}
	}
	return out
}

// sampledCandidates takes the first LargePoolCaptainLimit captains and
// LargePoolBridgeLimit bridge officers, and strides through below-decks with
// stride 1+(seed mod 5), enforcing pairwise distinctness.
func sampledCandidates(captains, bridge, below []string, seed uint64, strategy CandidateStrategy) []CrewCandidate {
	stride := 1 + int(seed%5)
	capN := minInt(strategy.LargePoolCaptainLimit, len(captains))
	bridgeN := minInt(strategy.LargePoolBridgeLimit, len(bridge))

	var out []CrewCandidate
	for ci := 0; ci < capN; ci++ {
		cap := captains[ci]
		for bi := 0; bi < bridgeN; bi++ {
			for bj := bi + 1; bj < bridgeN; bj++ {
				b0, b1 := bridge[bi], bridge[bj]
				if b0 == cap || b1 == cap {
					continue
				}
				for di := 0; di+2*stride < len(below); di += stride {
					d0 := below[di]
					d1 := below[di+stride]
					d2 := below[di+2*stride]
					cand := CrewCandidate{Captain: cap, Bridge: [2]string{b0, b1}, BelowDecks: [3]string{d0, d1, d2}}
					if !cand.Distinct() {
						continue
					}
					out = append(out, cand)
					if len(out) >= strategy.MaxCandidates {
						return out
					}
				}
			}
		}
	}
	return out
}
