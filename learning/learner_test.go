package learning

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fcrew/fcrew/types"
)

func testLearner(opts ...LearnerOption) *Learner {
	opts = append([]LearnerOption{WithRand(rand.New(rand.NewSource(1)))}, opts...)
	return NewLearner(DefaultLearnerConfig(), opts...)
}

// greedyLearner never explores, so selection is fully deterministic.
func greedyLearner() *Learner {
	cfg := DefaultLearnerConfig()
	cfg.ExplorationRate = 0
	return NewLearner(cfg, WithRand(rand.New(rand.NewSource(1))))
}

func expAt(state Observation, action Action, reward float64, next Observation) Experience {
	return Experience{
		State:     state,
		Action:    action,
		Reward:    reward,
		NextState: next,
		Timestamp: time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC),
	}
}

func TestSelectAction_DenseRowInitialization(t *testing.T) {
	t.Parallel()

	l := greedyLearner()
	obs := Observation{"progress": 0.0}

	l.SelectAction(obs)

	row, ok := l.table[EncodeState(obs)]
	require.True(t, ok, "selection should lazily create the row")
	require.Len(t, row, len(ActionSpace()))
	for _, a := range ActionSpace() {
		assert.Zero(t, row[a])
	}
}

func TestSelectAction_TieBreaksByVocabularyOrder(t *testing.T) {
	t.Parallel()

	l := greedyLearner()

	// All-zero row: the first vocabulary action wins the tie.
	assert.Equal(t, ActionAskQuestion, l.SelectAction(Observation{"progress": 0.0}))
}

func TestSelectAction_PrefersHighestValue(t *testing.T) {
	t.Parallel()

	l := greedyLearner()
	state := Observation{"progress": 0.0}
	next := Observation{"progress": 0.2}

	require.NoError(t, l.Update(expAt(state, ActionDelegateTask, 1.0, next)))

	assert.Equal(t, ActionDelegateTask, l.SelectAction(state))
}

func TestSelectAction_ExplorationReturnsVocabularyMember(t *testing.T) {
	t.Parallel()

	cfg := DefaultLearnerConfig()
	cfg.ExplorationRate = 1.0
	l := NewLearner(cfg, WithRand(rand.New(rand.NewSource(7))))

	for i := 0; i < 200; i++ {
		assert.True(t, l.SelectAction(Observation{"progress": 0.5}).Valid())
	}
}

func TestUpdate_QLearningRule(t *testing.T) {
	t.Parallel()

	// Scenario: fresh learner, alpha=0.1, gamma=0.95, all-zero rows,
	// reward 1.0 -> Q[s][ask_question] becomes exactly 0.1.
	l := testLearner()
	state := Observation{"progress": 0.0}
	next := Observation{"progress": 0.2}

	require.NoError(t, l.Update(expAt(state, ActionAskQuestion, 1.0, next)))

	assert.InDelta(t, 0.1, l.table[EncodeState(state)][ActionAskQuestion], 1e-12)
}

func TestUpdate_UsesNextStateMax(t *testing.T) {
	t.Parallel()

	l := testLearner()
	state := Observation{"step": 1}
	next := Observation{"step": 2}

	// Seed the next state's row so its max is nonzero.
	require.NoError(t, l.Update(expAt(next, ActionProposeSolution, 1.0, Observation{"step": 3})))
	nextMax := l.table[EncodeState(next)][ActionProposeSolution]
	require.InDelta(t, 0.1, nextMax, 1e-12)

	require.NoError(t, l.Update(expAt(state, ActionAskQuestion, 0.5, next)))

	// q = 0 + 0.1*(0.5 + 0.95*nextMax - 0)
	want := 0.1 * (0.5 + 0.95*nextMax)
	assert.InDelta(t, want, l.table[EncodeState(state)][ActionAskQuestion], 1e-12)
}

func TestUpdate_ExplorationDecay(t *testing.T) {
	t.Parallel()

	// Scenario: 0.2 * 0.995 == 0.199 after one update.
	l := testLearner()
	require.NoError(t, l.Update(expAt(Observation{"a": 1}, ActionAskQuestion, 0.0, Observation{"a": 2})))
	assert.InDelta(t, 0.199, l.ExplorationRate(), 1e-12)
}

func TestUpdate_ExplorationFloor(t *testing.T) {
	t.Parallel()

	l := testLearner()
	prev := l.ExplorationRate()
	for i := 0; i < 2000; i++ {
		require.NoError(t, l.Update(expAt(Observation{"a": 1}, ActionAskQuestion, 0.0, Observation{"a": 2})))
		rate := l.ExplorationRate()
		assert.LessOrEqual(t, rate, prev)
		assert.GreaterOrEqual(t, rate, 0.01)
		prev = rate
	}
	assert.InDelta(t, 0.01, l.ExplorationRate(), 1e-12)
}

func TestUpdate_InvalidActionLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	l := testLearner()
	before := l.ExplorationRate()

	err := l.Update(expAt(Observation{"a": 1}, Action("fly_away"), 1.0, Observation{"a": 2}))

	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidAction, types.GetErrorCode(err))
	assert.Empty(t, l.table, "no row may be created on a rejected update")
	assert.Empty(t, l.Experiences())
	assert.Equal(t, before, l.ExplorationRate())
}

func TestUpdate_AppendsToLogInOrder(t *testing.T) {
	t.Parallel()

	l := testLearner()
	rewards := []float64{1.0, -0.5, 0.25}
	for _, r := range rewards {
		require.NoError(t, l.Update(expAt(Observation{"a": 1}, ActionSearchMemory, r, Observation{"a": 2})))
	}

	log := l.Experiences()
	require.Len(t, log, 3)
	for i, r := range rewards {
		assert.Equal(t, r, log[i].Reward)
	}
}

func TestStateValue(t *testing.T) {
	t.Parallel()

	l := testLearner()
	state := Observation{"a": 1}

	assert.Zero(t, l.StateValue(state), "unseen state has value 0")
	assert.Empty(t, l.table, "StateValue must not create rows")

	require.NoError(t, l.Update(expAt(state, ActionCreateSummary, 1.0, Observation{"a": 2})))
	assert.InDelta(t, 0.1, l.StateValue(state), 1e-12)
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	l := testLearner()
	require.Nil(t, l.Analyze(), "empty log has no report")

	for _, r := range []float64{1.0, -1.0, 0.5} {
		require.NoError(t, l.Update(expAt(Observation{"a": 1}, ActionAskQuestion, r, Observation{"a": 2})))
	}

	report := l.Analyze()
	require.NotNil(t, report)
	assert.InDelta(t, 0.1667, report.AverageReward, 1e-4)
	assert.Equal(t, 1.0, report.MaxReward)
	assert.Equal(t, -1.0, report.MinReward)
	assert.Equal(t, 3, report.TotalExperiences)
	assert.Equal(t, l.ExplorationRate(), report.ExplorationRate)
}

func TestPlan(t *testing.T) {
	t.Parallel()

	l := greedyLearner()
	initial := Observation{"progress": 0.0, "urgency": 0.3}

	assert.Empty(t, l.Plan(initial, 0))

	sequence := l.Plan(initial, 5)
	require.Len(t, sequence, 5)
	for _, a := range sequence {
		assert.True(t, a.Valid())
	}

	// Planning simulates forward; the caller's observation stays put.
	assert.Equal(t, Observation{"progress": 0.0, "urgency": 0.3}, initial)
}

func TestPlan_DoesNotChangeLearnedValues(t *testing.T) {
	t.Parallel()

	l := greedyLearner()
	state := Observation{"progress": 0.0}
	require.NoError(t, l.Update(expAt(state, ActionDelegateTask, 1.0, Observation{"progress": 0.2})))
	before := l.table[EncodeState(state)][ActionDelegateTask]

	l.Plan(state, 8)

	assert.Equal(t, before, l.table[EncodeState(state)][ActionDelegateTask])
	assert.Len(t, l.Experiences(), 1, "planning must not append experiences")
}
