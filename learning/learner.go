package learning

import (
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/fcrew/fcrew/types"
)

// Experience is one observed transition. It is created by the caller
// after executing a chosen action and is never mutated once submitted.
type Experience struct {
	State     Observation `json:"state"`
	Action    Action      `json:"action"`
	Reward    float64     `json:"reward"`
	NextState Observation `json:"next_state"`
	Timestamp time.Time   `json:"timestamp"`
}

// LearnerConfig holds the construction-time hyperparameters. They are
// never persisted; callers keep them consistent across restarts.
type LearnerConfig struct {
	LearningRate       float64 `yaml:"learning_rate"`
	DiscountFactor     float64 `yaml:"discount_factor"`
	ExplorationRate    float64 `yaml:"exploration_rate"`
	MinExplorationRate float64 `yaml:"min_exploration_rate"`
	ExplorationDecay   float64 `yaml:"exploration_decay"`
}

// DefaultLearnerConfig returns the standard hyperparameters.
func DefaultLearnerConfig() LearnerConfig {
	return LearnerConfig{
		LearningRate:       0.1,
		DiscountFactor:     0.95,
		ExplorationRate:    0.2,
		MinExplorationRate: 0.01,
		ExplorationDecay:   0.995,
	}
}

// QTable maps canonical state keys to dense per-action value rows.
// A row always contains every vocabulary action once the key exists.
type QTable map[StateKey]map[Action]float64

// Learner is a tabular Q-learning decision module.
//
// Thread safety: NOT safe for concurrent use. Callers sharing one
// instance must serialize every call; SelectAction and Plan mutate the
// table through lazy row initialization.
type Learner struct {
	cfg             LearnerConfig
	explorationRate float64
	table           QTable
	log             []Experience
	rng             *rand.Rand
	logger          *zap.Logger
	metrics         *Metrics
}

// LearnerOption configures a Learner.
type LearnerOption func(*Learner)

// WithLogger sets a custom zap logger.
func WithLogger(logger *zap.Logger) LearnerOption {
	return func(l *Learner) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithRand sets the random source used by the epsilon-greedy policy.
// Tests inject a seeded source for determinism.
func WithRand(rng *rand.Rand) LearnerOption {
	return func(l *Learner) {
		if rng != nil {
			l.rng = rng
		}
	}
}

// WithMetrics attaches Prometheus metrics to the learner.
func WithMetrics(m *Metrics) LearnerOption {
	return func(l *Learner) {
		l.metrics = m
	}
}

// NewLearner creates a learner with an empty table and log.
func NewLearner(cfg LearnerConfig, opts ...LearnerOption) *Learner {
	l := &Learner{
		cfg:             cfg,
		explorationRate: cfg.ExplorationRate,
		table:           make(QTable),
		log:             make([]Experience, 0),
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// row returns the dense value row for key, creating an all-zero row on
// first reference.
func (l *Learner) row(key StateKey) map[Action]float64 {
	r, ok := l.table[key]
	if !ok {
		r = make(map[Action]float64, len(actionSpace))
		for _, a := range actionSpace {
			r[a] = 0.0
		}
		l.table[key] = r
	}
	return r
}

// SelectAction chooses an action for the observation using the
// epsilon-greedy policy. With probability equal to the current
// exploration rate a uniformly random action is returned; otherwise
// the highest-valued action for the state, ties broken by vocabulary
// declaration order.
func (l *Learner) SelectAction(obs Observation) Action {
	if l.rng.Float64() < l.explorationRate {
		action := actionSpace[l.rng.Intn(len(actionSpace))]
		l.logger.Debug("exploring",
			zap.String("action", string(action)),
			zap.Float64("exploration_rate", l.explorationRate))
		return action
	}

	row := l.row(EncodeState(obs))
	best := actionSpace[0]
	bestValue := row[best]
	for _, a := range actionSpace[1:] {
		if v := row[a]; v > bestValue {
			best, bestValue = a, v
		}
	}
	return best
}

// Update applies the one-step Q-learning rule for the experience,
// appends it to the log, and decays the exploration rate. An action
// outside the vocabulary fails with INVALID_ACTION before any state is
// touched.
func (l *Learner) Update(exp Experience) error {
	if !exp.Action.Valid() {
		return types.NewErrorf(types.ErrInvalidAction,
			"action %q is not in the vocabulary", exp.Action)
	}

	stateKey := EncodeState(exp.State)
	nextKey := EncodeState(exp.NextState)
	row := l.row(stateKey)
	nextRow := l.row(nextKey)

	current := row[exp.Action]
	nextMax := maxValue(nextRow)
	target := exp.Reward + l.cfg.DiscountFactor*nextMax - current
	row[exp.Action] = current + l.cfg.LearningRate*target

	l.log = append(l.log, exp)
	l.explorationRate = math.Max(l.cfg.MinExplorationRate,
		l.explorationRate*l.cfg.ExplorationDecay)

	if l.metrics != nil {
		l.metrics.observeUpdate(exp.Reward, l.explorationRate)
	}
	l.logger.Debug("q-table updated",
		zap.String("state", string(stateKey)),
		zap.String("action", string(exp.Action)),
		zap.Float64("reward", exp.Reward),
		zap.Float64("q", row[exp.Action]),
		zap.Float64("exploration_rate", l.explorationRate))
	return nil
}

// StateValue returns the value of a state: the maximum Q-value over its
// row, or 0.0 for a state the learner has never seen.
func (l *Learner) StateValue(obs Observation) float64 {
	if row, ok := l.table[EncodeState(obs)]; ok {
		return maxValue(row)
	}
	return 0.0
}

// ExplorationRate returns the current exploration rate.
func (l *Learner) ExplorationRate() float64 {
	return l.explorationRate
}

// Experiences returns a copy of the append-only experience log.
func (l *Learner) Experiences() []Experience {
	out := make([]Experience, len(l.log))
	copy(out, l.log)
	return out
}

func maxValue(row map[Action]float64) float64 {
	max := math.Inf(-1)
	for _, v := range row {
		if v > max {
			max = v
		}
	}
	return max
}
