package learning

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fcrew/fcrew/types"
)

// RedisOptions configures a RedisModelStore.
type RedisOptions struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// RedisModelStore persists snapshots in Redis. Suitable when several
// processes checkpoint against shared infrastructure.
type RedisModelStore struct {
	client *redis.Client
	key    string
}

// NewRedisModelStore connects to Redis and verifies the connection.
func NewRedisModelStore(opts RedisOptions) (*RedisModelStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	keyPrefix := opts.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "fcrew:"
	}

	return &RedisModelStore{
		client: client,
		key:    keyPrefix + "learning:model",
	}, nil
}

// NewRedisModelStoreWithClient wraps an existing client. The caller
// retains ownership of the client; Close still closes it.
func NewRedisModelStoreWithClient(client *redis.Client, keyPrefix string) *RedisModelStore {
	if keyPrefix == "" {
		keyPrefix = "fcrew:"
	}
	return &RedisModelStore{
		client: client,
		key:    keyPrefix + "learning:model",
	}
}

// Save serializes the snapshot and stores it under the model key.
func (s *RedisModelStore) Save(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return types.NewError(types.ErrInvalidInput, "snapshot is nil")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return s.client.Set(ctx, s.key, data, 0).Err()
}

// Load fetches and decodes the stored snapshot. A missing key is
// reported as absent, not as an error.
func (s *RedisModelStore) Load(ctx context.Context) (*Snapshot, bool, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, types.NewErrorf(types.ErrCorruptState,
			"model key %s holds invalid JSON", s.key).WithCause(err)
	}
	return &snap, true, nil
}

// Close closes the underlying Redis client.
func (s *RedisModelStore) Close() error {
	return s.client.Close()
}

var _ ModelStore = (*RedisModelStore)(nil)
