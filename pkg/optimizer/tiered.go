package optimizer

import (
	"context"

	"github.com/pggpgg/stfc-optimizer/pkg/stfcdata"
)

// TieredConfig controls the scout-then-confirm two-pass search.
type TieredConfig struct {
	// ScoutSims is the (low) iteration count used to rank every candidate
	// in the scouting pass.
	ScoutSims int
	// ConfirmTopN is how many of the scouting pass's top candidates are
	// re-run at full iteration count.
	ConfirmTopN int
	// ConfirmSims is the full iteration count for the confirmation pass.
	ConfirmSims int
	Parallel    bool
}

// DefaultTieredConfig matches the documented defaults.
func DefaultTieredConfig() TieredConfig {
	return TieredConfig{ScoutSims: 50, ConfirmTopN: 16, ConfirmSims: 1000, Parallel: true}
}

// RunTiered ranks every candidate with a cheap scouting pass, then re-runs
// only the top ConfirmTopN at full fidelity and ranks the confirmed set.
// Intended for candidate pools too large to run at full iteration count
// within a request's timeout budget.
func RunTiered(ctx context.Context, registry *stfcdata.Registry, scenario Scenario, candidates []CrewCandidate, cfg TieredConfig, seed uint64) ([]RankedResult, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	scoutResults, err := RunMonteCarlo(ctx, registry, scenario, candidates, cfg.ScoutSims, seed, cfg.Parallel)
	if err != nil {
		return nil, err
	}
	scoutRanked := RankResults(scoutResults)

	topN := cfg.ConfirmTopN
	if topN <= 0 || topN > len(scoutRanked) {
		topN = len(scoutRanked)
	}
	shortlist := make([]CrewCandidate, topN)
	for i := 0; i < topN; i++ {
		shortlist[i] = scoutRanked[i].Candidate
	}

	confirmResults, err := RunMonteCarlo(ctx, registry, scenario, shortlist, cfg.ConfirmSims, seed, cfg.Parallel)
	if err != nil {
		return nil, err
	}
	return RankResults(confirmResults), nil
}
