package stfcdata

import (
	"fmt"
	"strings"
)

// BelowDecksStrategy controls how a heuristics seed line's below-decks
// candidate list expands into concrete crews.
type BelowDecksStrategy int

const (
	// Ordered takes the first k names as-is (default).
	Ordered BelowDecksStrategy = iota
	// Exploration enumerates every C(n,k) combination of the candidate
	// list, for players who want every below-decks permutation tried.
	Exploration
)

// HeuristicsCandidate is one expanded player-authored seed crew.
type HeuristicsCandidate struct {
	Label      string
	Captain    string
	Bridge     [2]string
	BelowDecks [3]string
}

// parsedHeuristicsLine is one unexpanded seed-file line.
type parsedHeuristicsLine struct {
	label              string
	captain            string
	bridge             [2]string
	belowDecksCandidates []string
}

// ParseHeuristicsLine parses one seed-file line of the form
// "label:Captain,Bridge1,Bridge2:BelowDeck1,BelowDeck2,...". Blank lines and
// lines starting with '#' are not valid input and return an error; callers
// should filter those out before calling.
func ParseHeuristicsLine(line string) (parsedHeuristicsLine, error) {
	parts := strings.SplitN(line, ":", 3)
	if len(parts) != 3 {
		return parsedHeuristicsLine{}, fmt.Errorf("expected 3 colon-separated fields, got %d", len(parts))
	}
	label := strings.TrimSpace(parts[0])
	captainBridge := splitTrim(parts[1], ",")
	if len(captainBridge) != 3 {
		return parsedHeuristicsLine{}, fmt.Errorf("expected captain+2 bridge officers, got %d entries", len(captainBridge))
	}
	below := splitTrim(parts[2], ",")
	if len(below) < 3 {
		return parsedHeuristicsLine{}, fmt.Errorf("expected at least 3 below-decks candidates, got %d", len(below))
	}
	p := parsedHeuristicsLine{
		label:                label,
		captain:              captainBridge[0],
		belowDecksCandidates: below,
	}
	p.bridge[0], p.bridge[1] = captainBridge[1], captainBridge[2]
	return p, nil
}

func splitTrim(s, sep string) []string {
	raw := strings.Split(s, sep)
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}

// ParseSeedFile parses every non-blank, non-comment line of a seed file's
// contents.
func ParseSeedFile(contents string) ([]parsedHeuristicsLine, []string) {
	var parsed []parsedHeuristicsLine
	var warnings []string
	for i, line := range strings.Split(contents, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p, err := ParseHeuristicsLine(line)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: %v", i+1, err))
			continue
		}
		parsed = append(parsed, p)
	}
	return parsed, warnings
}

// ExpandCrews expands every parsed line into one or more HeuristicsCandidate
// per the requested strategy.
func ExpandCrews(lines []parsedHeuristicsLine, strategy BelowDecksStrategy) []HeuristicsCandidate {
	var out []HeuristicsCandidate
	for _, l := range lines {
		out = append(out, expandOne(l, strategy)...)
	}
	return out
}

func expandOne(l parsedHeuristicsLine, strategy BelowDecksStrategy) []HeuristicsCandidate {
	if strategy == Ordered || len(l.belowDecksCandidates) < 3 {
		if len(l.belowDecksCandidates) < 3 {
			return nil
		}
		var bd [3]string
		copy(bd[:], l.belowDecksCandidates[:3])
		return []HeuristicsCandidate{{Label: l.label, Captain: l.captain, Bridge: l.bridge, BelowDecks: bd}}
	}
	var out []HeuristicsCandidate
	for _, combo := range combinations(l.belowDecksCandidates, 3) {
		var bd [3]string
		copy(bd[:], combo)
		out = append(out, HeuristicsCandidate{Label: l.label, Captain: l.captain, Bridge: l.bridge, BelowDecks: bd})
	}
	return out
}

// combinations returns every k-element combination of items, preserving
// input order within each combination.
func combinations(items []string, k int) [][]string {
	var out [][]string
	n := len(items)
	if k > n {
		return out
	}
	idxs := make([]int, k)
	for i := range idxs {
		idxs[i] = i
	}
	for {
		combo := make([]string, k)
		for i, idx := range idxs {
			combo[i] = items[idx]
		}
		out = append(out, combo)

		i := k - 1
		for i >= 0 && idxs[i] == i+n-k {
			i--
		}
		if i < 0 {
			break
		}
		idxs[i]++
		for j := i + 1; j < k; j++ {
			idxs[j] = idxs[j-1] + 1
		}
	}
	return out
}
