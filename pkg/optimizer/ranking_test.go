package optimizer

import "testing"

func candResult(captain string, winRate, hull float64) SimulationResult {
	return SimulationResult{Candidate: CrewCandidate{Captain: captain}, WinRate: winRate, AvgHullRemaining: hull}
}

func TestRankResultsOrdersByScoreDescending(t *testing.T) {
	results := []SimulationResult{
		candResult("low", 0.2, 0.2),
		candResult("high", 0.9, 0.8),
		candResult("mid", 0.5, 0.5),
	}
	ranked := RankResults(results)
	if ranked[0].Candidate.Captain != "high" {
		t.Fatalf("expected 'high' first, got %q", ranked[0].Candidate.Captain)
	}
	if ranked[2].Candidate.Captain != "low" {
		t.Fatalf("expected 'low' last, got %q", ranked[2].Candidate.Captain)
	}
}

func TestRankResultsTieBreaksOnWinRateThenHullThenName(t *testing.T) {
	results := []SimulationResult{
		candResult("zeta", 0.5, 0.5),
		candResult("alpha", 0.5, 0.5),
	}
	ranked := RankResults(results)
	if ranked[0].Candidate.Captain != "alpha" {
		t.Fatalf("expected lexicographic tie-break to put 'alpha' first, got %q", ranked[0].Candidate.Captain)
	}
}

func TestRankResultsHullBreaksTieBeforeName(t *testing.T) {
	results := []SimulationResult{
		candResult("zeta", 0.5, 0.9),
		candResult("alpha", 0.5, 0.1),
	}
	ranked := RankResults(results)
	if ranked[0].Candidate.Captain != "zeta" {
		t.Fatalf("expected higher hull remaining to win the tie, got %q first", ranked[0].Candidate.Captain)
	}
}

func TestTopNClampsToResultCount(t *testing.T) {
	ranked := RankResults([]SimulationResult{candResult("a", 0.1, 0.1)})
	if len(TopN(ranked, 5)) != 1 {
		t.Fatal("TopN should clamp to the available result count")
	}
	if len(TopN(ranked, 0)) != 0 {
		t.Fatal("TopN(0) should return no results")
	}
}
