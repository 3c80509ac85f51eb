package optimizer

import "sort"

// RankedResult is one scored and ordered Monte Carlo outcome.
type RankedResult struct {
	SimulationResult
	Score float64
}

// score weights win rate at 0.8 and average surviving hull fraction at 0.2,
// per the documented scoring formula.
func score(r SimulationResult) float64 {
	return 0.8*r.WinRate + 0.2*r.AvgHullRemaining
}

// RankResults sorts results by score descending, breaking ties first by
// win rate descending, then by average hull remaining descending, then by
// the candidate's captain name lexicographically ascending. The final
// lexicographic tie-break keeps the ranking fully deterministic even when
// two candidates are statistically identical.
func RankResults(results []SimulationResult) []RankedResult {
	out := make([]RankedResult, len(results))
	for i, r := range results {
		out[i] = RankedResult{SimulationResult: r, Score: score(r)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		if a.AvgHullRemaining != b.AvgHullRemaining {
			return a.AvgHullRemaining > b.AvgHullRemaining
		}
		return a.Candidate.Captain < b.Candidate.Captain
	})
	return out
}

// TopN returns the first n ranked results, or all of them if n exceeds the
// result count.
func TopN(ranked []RankedResult, n int) []RankedResult {
	if n >= len(ranked) {
		return ranked
	}
	if n < 0 {
		n = 0
	}
	return ranked[:n]
}
