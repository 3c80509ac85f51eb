package optimizer

import (
	"fmt"
	"log"
	"sync"

	gonnx "github.com/advancedclimatesystems/gonnx"
	"gorgonia.org/tensor"

	"github.com/pggpgg/stfc-optimizer/pkg/combat"
	"github.com/pggpgg/stfc-optimizer/pkg/stfcdata"
)

// AnalyticalModel scores a resolved candidate's combat input without
// running the stochastic engine. Two implementations are provided: a
// pure-Go linear estimate (always available) and an optional ONNX-backed
// learned scorer loaded from a trained model file.
type AnalyticalModel interface {
	Score(input combatInput) float64
}

// LinearAnalyticalModel computes expected attack damage per round against
// the defender's mitigation, using the same formula the combat engine's
// first strike would apply with no crit, no crew effects, and no pierce.
// This is the deterministic, always-available fallback.
type LinearAnalyticalModel struct{}

func (LinearAnalyticalModel) Score(input combatInput) float64 {
	return expectedDamagePerRound(input.attacker, input.defender)
}

func expectedDamagePerRound(attacker, defender combat.Combatant) float64 {
	shieldFrac := 1 - clampUnit(defender.ShieldMitigation)
	hullFrac := 1 - clampUnit(defender.HullMitigation)
	mitigated := shieldFrac
	if defender.ShieldHealth <= 0 {
		mitigated = hullFrac
	}
	return attacker.Attack * mitigated
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// GonnxAnalyticalModel runs a trained ONNX regression model over a small
// fixed feature vector (attacker attack/crit_chance/crit_multiplier/pierce,
// defender hull_mitigation/shield_mitigation) to predict expected damage.
// Falls back to LinearAnalyticalModel.Score on any inference error, exactly
// as the teacher's gonnx strategy falls back to its tactical heuristic.
type GonnxAnalyticalModel struct {
	model *gonnx.Model
	mu    sync.Mutex
}

// NewGonnxAnalyticalModel loads an ONNX model from modelPath (e.g.
// "engine/models/analytical_v1.onnx").
func NewGonnxAnalyticalModel(modelPath string) (*GonnxAnalyticalModel, error) {
	m, err := gonnx.NewModelFromFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("analytical: load model: %w", err)
	}
	return &GonnxAnalyticalModel{model: m}, nil
}

func (g *GonnxAnalyticalModel) Score(input combatInput) float64 {
	features := []float32{
		float32(input.attacker.Attack),
		float32(input.attacker.CritChance),
		float32(input.attacker.CritMultiplier),
		float32(input.attacker.Pierce),
		float32(input.defender.HullMitigation),
		float32(input.defender.ShieldMitigation),
	}
	featureTensor := tensor.New(
		tensor.WithShape(1, len(features)),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(features),
	)

	g.mu.Lock()
	outputs, err := g.model.Run(gonnx.Tensors{"features": featureTensor})
	g.mu.Unlock()
	if err != nil {
		log.Printf("optimizer/analytical: gonnx inference failed: %v; falling back to linear estimate", err)
		return LinearAnalyticalModel{}.Score(input)
	}

	out, ok := outputs["expected_damage"]
	if !ok {
		for _, v := range outputs {
			out = v
			break
		}
	}
	if out == nil {
		return LinearAnalyticalModel{}.Score(input)
	}
	switch d := out.Data().(type) {
	case []float32:
		if len(d) == 0 {
			return LinearAnalyticalModel{}.Score(input)
		}
		return float64(d[0])
	case []float64:
		if len(d) == 0 {
			return LinearAnalyticalModel{}.Score(input)
		}
		return d[0]
	default:
		return LinearAnalyticalModel{}.Score(input)
	}
}

// scoredCandidate pairs a candidate with its analytical score.
type scoredCandidate struct {
	candidate CrewCandidate
	score     float64
}

// AnalyticalPrefilter scores every candidate with model and drops the
// bottom pruneFraction (clamped to [0,1)) by score, returning the survivors
// in their original relative order. pruneFraction=0 is a no-op copy.
func AnalyticalPrefilter(registry *stfcdata.Registry, scenario Scenario, candidates []CrewCandidate, model AnalyticalModel, pruneFraction float64, globalSeed uint64) ([]CrewCandidate, error) {
	if pruneFraction <= 0 || len(candidates) == 0 {
		out := make([]CrewCandidate, len(candidates))
		copy(out, candidates)
		return out, nil
	}
	if pruneFraction >= 1 {
		pruneFraction = 0.999
	}
	if model == nil {
		model = LinearAnalyticalModel{}
	}

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		input, err := ScenarioToCombatInput(registry, scenario, c, globalSeed)
		if err != nil {
			return nil, err
		}
		scored = append(scored, scoredCandidate{candidate: c, score: model.Score(input)})
	}

	sortedByScore := make([]scoredCandidate, len(scored))
	copy(sortedByScore, scored)
	insertionSortDescending(sortedByScore)

	dropCount := int(float64(len(sortedByScore)) * pruneFraction)
	if dropCount >= len(sortedByScore) {
		dropCount = len(sortedByScore) - 1
	}
	keepCount := len(sortedByScore) - dropCount
	cutoff := sortedByScore[keepCount-1].score

	above := 0
	for _, sc := range scored {
		if sc.score > cutoff {
			above++
		}
	}
	tiesAllowed := keepCount - above

	var survivors []CrewCandidate
	for _, sc := range scored {
		if sc.score > cutoff {
			survivors = append(survivors, sc.candidate)
		} else if sc.score == cutoff && tiesAllowed > 0 {
			survivors = append(survivors, sc.candidate)
			tiesAllowed--
		}
	}
	return survivors, nil
}

func insertionSortDescending(s []scoredCandidate) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j].score > s[j-1].score; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
