// Package fcrew provides adaptive decision making for autonomous
// agents: a tabular Q-learning core with epsilon-greedy action
// selection, plus supporting capabilities (long-term memory, versioned
// prompts, personality simulation, and collaboration tracking).
//
// Usage:
//
//	import "github.com/fcrew/fcrew"
//
//	learner := fcrew.NewLearner()
//	action := learner.SelectAction(learning.Observation{"progress": 0.0})
//
// This is a thin wrapper around the learning package; import the
// subpackages directly for full control.
package fcrew

import "github.com/fcrew/fcrew/learning"

// Version is the current module version.
const Version = "0.1.0"

// NewLearner creates a learner with the default hyperparameters.
func NewLearner(opts ...learning.LearnerOption) *learning.Learner {
	return learning.NewLearner(learning.DefaultLearnerConfig(), opts...)
}
