package learning

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fcrew/fcrew/types"
)

// FileModelStore persists snapshots as a single JSON file.
// Suitable for single-node deployments. Writes go through a temp file
// and rename so a crash mid-save never corrupts the previous snapshot.
type FileModelStore struct {
	path   string
	mu     sync.Mutex
	closed bool
}

// NewFileModelStore creates a file-based model store at path, creating
// parent directories as needed.
func NewFileModelStore(path string) (*FileModelStore, error) {
	if path == "" {
		return nil, types.NewError(types.ErrInvalidInput, "model store path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create model store directory: %w", err)
		}
	}
	return &FileModelStore{path: path}, nil
}

// Save writes the snapshot atomically.
func (s *FileModelStore) Save(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return types.NewError(types.ErrInvalidInput, "snapshot is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.NewError(types.ErrStoreClosed, "file model store is closed")
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tempPath, s.path)
}

// Load reads the snapshot. A missing file is reported as absent, not
// as an error.
func (s *FileModelStore) Load(ctx context.Context) (*Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, false, types.NewError(types.ErrStoreClosed, "file model store is closed")
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, types.NewErrorf(types.ErrCorruptState,
			"model file %s is not valid JSON", s.path).WithCause(err)
	}
	return &snap, true, nil
}

// Close marks the store closed. The snapshot file is left in place.
func (s *FileModelStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ ModelStore = (*FileModelStore)(nil)
