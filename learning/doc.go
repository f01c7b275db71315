/*
Package learning implements tabular Q-learning for agent decision making.

A Learner maps canonical state keys to per-action value estimates over a
fixed six-action vocabulary. Actions are selected with an epsilon-greedy
policy, values are updated with the one-step temporal-difference rule,
and the exploration rate decays after every update down to a configured
floor. Every submitted Experience is kept in an append-only log.

Learner state (Q-table, exploration rate, experience log) can be
checkpointed through a ModelStore; file and Redis backends are provided.
Hyperparameters are construction-time only and are never persisted.

A Learner is not safe for concurrent use. Callers sharing one instance
across goroutines must serialize every call, including SelectAction and
Plan, which may lazily initialize Q-table rows.
*/
package learning
