// Package agent provides the enhanced agent: role/goal bookkeeping
// wired to the learning core, long-term memory, managed prompts, and a
// simulated personality. Task execution itself is delegated to an
// injected executor.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fcrew/fcrew/learning"
	"github.com/fcrew/fcrew/memory"
	"github.com/fcrew/fcrew/personality"
	"github.com/fcrew/fcrew/prompts"
	"github.com/fcrew/fcrew/types"
)

// Task is a unit of work handed to an agent.
type Task struct {
	ID          string
	Description string
	Context     map[string]string
}

// Executor performs the actual work for a prepared prompt and returns
// the textual result.
type Executor func(ctx context.Context, prompt string) (string, error)

// resultImportance is the default weight of stored task results.
const resultImportance = 0.8

// memoryRetrieveLimit bounds how many memories enrich one task.
const memoryRetrieveLimit = 5

// EnhancedAgent is an agent with optional learning, memory, prompt
// management, and personality capabilities. Capabilities left nil are
// skipped at execution time.
type EnhancedAgent struct {
	id   string
	role string
	goal string

	executor    Executor
	learner     *learning.Learner
	memory      *memory.Store
	prompts     *prompts.Manager
	personality *personality.Personality
	logger      *zap.Logger
}

// Option configures an EnhancedAgent.
type Option func(*EnhancedAgent)

// WithLearner attaches a reinforcement learner.
func WithLearner(l *learning.Learner) Option {
	return func(a *EnhancedAgent) { a.learner = l }
}

// WithMemory attaches a long-term memory store.
func WithMemory(m *memory.Store) Option {
	return func(a *EnhancedAgent) { a.memory = m }
}

// WithPrompts attaches a prompt template manager.
func WithPrompts(p *prompts.Manager) Option {
	return func(a *EnhancedAgent) { a.prompts = p }
}

// WithPersonality attaches a personality simulation.
func WithPersonality(p *personality.Personality) Option {
	return func(a *EnhancedAgent) { a.personality = p }
}

// WithLogger sets a custom zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *EnhancedAgent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an enhanced agent. The executor is required.
func New(role, goal string, executor Executor, opts ...Option) (*EnhancedAgent, error) {
	if executor == nil {
		return nil, types.NewError(types.ErrExecutorNotSet, "agent requires an executor")
	}
	a := &EnhancedAgent{
		id:       uuid.New().String(),
		role:     role,
		goal:     goal,
		executor: executor,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With(zap.String("agent", a.id), zap.String("role", role))
	return a, nil
}

// ID returns the agent's unique identifier.
func (a *EnhancedAgent) ID() string { return a.id }

// Role returns the agent's role.
func (a *EnhancedAgent) Role() string { return a.role }

// Goal returns the agent's goal.
func (a *EnhancedAgent) Goal() string { return a.goal }

// ExecuteTask runs a task through the agent's capability pipeline:
// relevant memories are retrieved, a matching prompt template is
// applied, the executor runs, the personality colors the result, and
// the outcome is stored back into memory.
func (a *EnhancedAgent) ExecuteTask(ctx context.Context, task Task) (string, error) {
	prompt := task.Description

	var memories []memory.Record
	if a.memory != nil {
		var err error
		memories, err = a.memory.Retrieve(ctx, task.Description, memoryRetrieveLimit)
		if err != nil {
			return "", fmt.Errorf("failed to retrieve memories: %w", err)
		}
	}

	if a.prompts != nil {
		if template, ok := a.prompts.Get(task.Description); ok {
			vars := make(map[string]string, len(task.Context)+1)
			for k, v := range task.Context {
				vars[k] = v
			}
			vars["relevant_memories"] = joinMemories(memories)
			formatted, err := template.Format(vars)
			if err != nil {
				return "", err
			}
			prompt = formatted
		}
	}

	result, err := a.executor(ctx, prompt)
	if err != nil {
		return "", err
	}

	if a.personality != nil {
		a.personality.ProcessInteraction(result)
		result = a.personality.AdjustResponse(result)
	}

	if a.memory != nil {
		meta := map[string]any{
			"task":       task.Description,
			"agent_role": a.role,
		}
		for k, v := range task.Context {
			meta[k] = v
		}
		if _, err := a.memory.Save(ctx, result, resultImportance, meta); err != nil {
			return "", fmt.Errorf("failed to store task result: %w", err)
		}
	}

	a.logger.Debug("task executed", zap.String("task", task.ID))
	return result, nil
}

// Decide asks the attached learner for an action given the observed
// state. The second return is false when no learner is attached.
func (a *EnhancedAgent) Decide(obs learning.Observation) (learning.Action, bool) {
	if a.learner == nil {
		return "", false
	}
	return a.learner.SelectAction(obs), true
}

// Reinforce feeds an observed outcome back into the attached learner.
// Without a learner it is a no-op.
func (a *EnhancedAgent) Reinforce(exp learning.Experience) error {
	if a.learner == nil {
		return nil
	}
	return a.learner.Update(exp)
}

// Remember stores a fact in the agent's long-term memory.
func (a *EnhancedAgent) Remember(ctx context.Context, content string, importance float64, meta map[string]any) (string, error) {
	if a.memory == nil {
		return "", types.NewError(types.ErrInvalidInput, "memory is not attached")
	}
	return a.memory.Save(ctx, content, importance, meta)
}

func joinMemories(records []memory.Record) string {
	if len(records) == 0 {
		return ""
	}
	parts := make([]string, len(records))
	for i, record := range records {
		parts[i] = record.Content
	}
	return strings.Join(parts, "\n")
}
