package stfcdata

import "testing"

func TestParseSeedFileSkipsCommentsAndBlankLines(t *testing.T) {
	contents := "# a comment\n\nkirk:Kirk,Spock,Scotty:Uhura,Sulu,Chekov\n"
	lines, warnings := ParseSeedFile(contents)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(lines) != 1 || lines[0].label != "kirk" || lines[0].captain != "Kirk" {
		t.Fatalf("unexpected parse result: %+v", lines)
	}
}

func TestExpandCrewsOrderedTakesFirstThree(t *testing.T) {
	lines, _ := ParseSeedFile("k:Kirk,Spock,Scotty:Uhura,Sulu,Chekov,McCoy")
	out := ExpandCrews(lines, Ordered)
	if len(out) != 1 {
		t.Fatalf("expected exactly one ordered crew, got %d", len(out))
	}
	if out[0].BelowDecks != [3]string{"Uhura", "Sulu", "Chekov"} {
		t.Fatalf("unexpected below-decks selection: %v", out[0].BelowDecks)
	}
}

func TestExpandCrewsExplorationEnumeratesCombinations(t *testing.T) {
	lines, _ := ParseSeedFile("k:Kirk,Spock,Scotty:A,B,C,D")
	out := ExpandCrews(lines, Exploration)
	// C(4,3) = 4
	if len(out) != 4 {
		t.Fatalf("expected 4 combinations, got %d", len(out))
	}
}

func TestParseHeuristicsLineRejectsMalformedInput(t *testing.T) {
	if _, err := ParseHeuristicsLine("not enough fields"); err == nil {
		t.Fatal("expected error for malformed line")
	}
}
