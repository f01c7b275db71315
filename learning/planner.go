package learning

import "math"

// progressStep is the per-step increment of the synthetic "progress"
// feature during planning, capped at progressCap.
const (
	progressStep = 0.2
	progressCap  = 1.0
)

// Plan greedily projects a sequence of depth actions starting from the
// initial observation. After each chosen action the simulated
// observation advances its "progress" feature by a fixed increment;
// this is a forward-projection heuristic, not a transition model, and
// the intermediate states must not be treated as ground truth.
//
// Plan never changes learned values, though it shares SelectAction's
// lazy zero-row initialization.
func (l *Learner) Plan(initial Observation, depth int) []Action {
	sequence := make([]Action, 0, depth)
	current := initial.Clone()

	for i := 0; i < depth; i++ {
		action := l.SelectAction(current)
		sequence = append(sequence, action)

		next := current.Clone()
		next["progress"] = math.Min(progressCap, next["progress"]+progressStep)
		current = next
	}
	return sequence
}
