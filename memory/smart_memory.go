// Package memory provides a long-term memory store for agents, backed
// by SQLite through GORM. Memories carry an importance weight and are
// retrieved by a combined relevance, importance, and recency score.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fcrew/fcrew/types"
)

// Record is one long-term memory entry.
type Record struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Content     string    `json:"content"`
	Importance  float64   `gorm:"index" json:"importance"`
	Context     string    `json:"context"` // JSON-encoded key/value context
	AccessCount int       `json:"access_count"`
	CreatedAt   time.Time `json:"created_at"`
	LastAccess  time.Time `json:"last_access"`
}

// Config configures a Store.
type Config struct {
	// Path is the SQLite database file. ":memory:" works for tests.
	Path string `yaml:"path"`
	// MaxRecords bounds the store; the least important records are
	// evicted beyond it. Zero means unbounded.
	MaxRecords int `yaml:"max_records"`
	// ImportanceThreshold filters retrieval candidates.
	ImportanceThreshold float64 `yaml:"importance_threshold"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(path string) Config {
	return Config{
		Path:                path,
		MaxRecords:          10000,
		ImportanceThreshold: 0.5,
	}
}

// Store is a SQLite-backed long-term memory.
type Store struct {
	db     *gorm.DB
	cfg    Config
	logger *zap.Logger
}

// Open opens (or creates) the memory database and migrates its schema.
func Open(cfg Config, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open memory database: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate memory schema: %w", err)
	}
	return &Store{db: db, cfg: cfg, logger: log}, nil
}

// Save stores a memory and returns its ID. When the store is over its
// record budget, the least important memories are evicted first.
func (s *Store) Save(ctx context.Context, content string, importance float64, meta map[string]any) (string, error) {
	if content == "" {
		return "", types.NewError(types.ErrInvalidInput, "memory content is empty")
	}

	ctxJSON := "{}"
	if len(meta) > 0 {
		data, err := json.Marshal(meta)
		if err != nil {
			return "", fmt.Errorf("failed to marshal memory context: %w", err)
		}
		ctxJSON = string(data)
	}

	now := time.Now().UTC()
	record := &Record{
		ID:         uuid.New().String(),
		Content:    content,
		Importance: importance,
		Context:    ctxJSON,
		CreatedAt:  now,
		LastAccess: now,
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return "", fmt.Errorf("failed to store memory: %w", err)
	}

	if err := s.evictOverBudget(ctx); err != nil {
		return "", err
	}
	s.logger.Debug("memory stored", zap.String("id", record.ID), zap.Float64("importance", importance))
	return record.ID, nil
}

// Retrieve returns up to limit memories ranked against the query.
// Candidates below the importance threshold are skipped; returned
// records get their access counters bumped.
func (s *Store) Retrieve(ctx context.Context, query string, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, nil
	}

	var candidates []Record
	err := s.db.WithContext(ctx).
		Where("importance >= ?", s.cfg.ImportanceThreshold).
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query memories: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	type scored struct {
		record Record
		score  float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, record := range candidates {
		ranked = append(ranked, scored{record, relevanceScore(record, query, now)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if limit > len(ranked) {
		limit = len(ranked)
	}
	results := make([]Record, 0, limit)
	for _, entry := range ranked[:limit] {
		entry.record.AccessCount++
		entry.record.LastAccess = now
		if err := s.db.WithContext(ctx).Save(&entry.record).Error; err != nil {
			return nil, fmt.Errorf("failed to update memory access: %w", err)
		}
		results = append(results, entry.record)
	}
	return results, nil
}

// Get fetches one memory by ID.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	var record Record
	err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Forget deletes all memories below the given importance and returns
// how many were removed.
func (s *Store) Forget(ctx context.Context, belowImportance float64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("importance < ?", belowImportance).
		Delete(&Record{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to forget memories: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Count returns the number of stored memories.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Record{}).Count(&count).Error
	return count, err
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) evictOverBudget(ctx context.Context) error {
	if s.cfg.MaxRecords <= 0 {
		return nil
	}
	count, err := s.Count(ctx)
	if err != nil {
		return err
	}
	excess := count - int64(s.cfg.MaxRecords)
	if excess <= 0 {
		return nil
	}

	var victims []Record
	err = s.db.WithContext(ctx).
		Order("importance asc, created_at asc").
		Limit(int(excess)).
		Find(&victims).Error
	if err != nil {
		return err
	}
	for _, victim := range victims {
		if err := s.db.WithContext(ctx).Delete(&Record{}, "id = ?", victim.ID).Error; err != nil {
			return err
		}
	}
	s.logger.Debug("evicted memories over budget", zap.Int64("count", excess))
	return nil
}

// relevanceScore combines query term overlap (0.6), importance (0.3),
// and recency (0.1).
func relevanceScore(record Record, query string, now time.Time) float64 {
	terms := strings.Fields(strings.ToLower(query))
	overlap := 0.0
	if len(terms) > 0 {
		content := strings.ToLower(record.Content)
		hits := 0
		for _, term := range terms {
			if strings.Contains(content, term) {
				hits++
			}
		}
		overlap = float64(hits) / float64(len(terms))
	}

	age := now.Sub(record.CreatedAt)
	recency := 1.0 / (1.0 + age.Hours()/24)

	return overlap*0.6 + record.Importance*0.3 + recency*0.1
}
