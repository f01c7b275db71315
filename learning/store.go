package learning

import (
	"context"

	"go.uber.org/zap"

	"github.com/fcrew/fcrew/types"
)

// Snapshot is the persisted learner state. Hyperparameters are
// deliberately absent: they are supplied at construction time.
type Snapshot struct {
	QTable          QTable       `json:"q_table"`
	ExplorationRate float64      `json:"exploration_rate"`
	Experiences     []Experience `json:"experiences"`
}

// ModelStore persists learner snapshots to durable storage.
type ModelStore interface {
	// Save writes the snapshot, replacing any previous one.
	Save(ctx context.Context, snap *Snapshot) error

	// Load reads the latest snapshot. It returns (nil, false, nil)
	// when no snapshot exists, and CORRUPT_PERSISTED_STATE when one
	// exists but cannot be decoded.
	Load(ctx context.Context) (*Snapshot, bool, error)

	// Close releases the store's resources.
	Close() error
}

// Snapshot captures the learner's current table, exploration rate, and
// experience log as an independent deep copy.
func (l *Learner) Snapshot() *Snapshot {
	table := make(QTable, len(l.table))
	for key, row := range l.table {
		rowCopy := make(map[Action]float64, len(row))
		for action, value := range row {
			rowCopy[action] = value
		}
		table[key] = rowCopy
	}
	return &Snapshot{
		QTable:          table,
		ExplorationRate: l.explorationRate,
		Experiences:     l.Experiences(),
	}
}

// SaveModel checkpoints the learner through the store.
func (l *Learner) SaveModel(ctx context.Context, store ModelStore) error {
	if err := store.Save(ctx, l.Snapshot()); err != nil {
		return err
	}
	l.logger.Info("model saved",
		zap.Int("states", len(l.table)),
		zap.Int("experiences", len(l.log)))
	return nil
}

// LoadModel restores the learner from the store. A missing snapshot is
// a no-op: the learner keeps its in-memory state. On any error the
// in-memory state is left unchanged.
func (l *Learner) LoadModel(ctx context.Context, store ModelStore) error {
	snap, ok, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if !ok {
		l.logger.Debug("no persisted model found, keeping current state")
		return nil
	}
	if err := l.restore(snap); err != nil {
		return err
	}
	l.logger.Info("model loaded",
		zap.Int("states", len(l.table)),
		zap.Int("experiences", len(l.log)))
	return nil
}

// restore validates and installs a snapshot. The new table is built in
// full before anything is assigned, so a corrupt snapshot never leaves
// the learner partially restored.
func (l *Learner) restore(snap *Snapshot) error {
	table := make(QTable, len(snap.QTable))
	for key, row := range snap.QTable {
		rowCopy := make(map[Action]float64, len(actionSpace))
		for _, a := range actionSpace {
			rowCopy[a] = 0.0
		}
		for action, value := range row {
			if !action.Valid() {
				return types.NewErrorf(types.ErrCorruptState,
					"persisted state %q contains unknown action %q", key, action)
			}
			rowCopy[action] = value
		}
		table[key] = rowCopy
	}
	for i, exp := range snap.Experiences {
		if !exp.Action.Valid() {
			return types.NewErrorf(types.ErrCorruptState,
				"persisted experience %d references unknown action %q", i, exp.Action)
		}
	}

	experiences := make([]Experience, len(snap.Experiences))
	copy(experiences, snap.Experiences)

	l.table = table
	l.log = experiences
	l.explorationRate = snap.ExplorationRate
	return nil
}
