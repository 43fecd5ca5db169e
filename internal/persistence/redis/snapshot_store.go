package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dexhound/dexhound/internal/domain"
	"github.com/dexhound/dexhound/internal/persistence"
)

// SnapshotStore keeps the latest ranked result under a single key with a
// TTL. Stateless hosts write here after a scan; serving hosts read it to
// seed their in-process cache on startup.
type SnapshotStore struct {
	client *redis.Client
	key    string
}

var _ persistence.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore builds a store on an existing client.
func NewSnapshotStore(client *redis.Client, key string) *SnapshotStore {
	return &SnapshotStore{client: client, key: key}
}

// Save serializes and stores the result, replacing any previous snapshot.
func (s *SnapshotStore) Save(ctx context.Context, res domain.RankedResult, ttl time.Duration) error {
	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, b, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, reporting false when none exists.
func (s *SnapshotStore) Load(ctx context.Context) (domain.RankedResult, bool, error) {
	b, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.RankedResult{}, false, nil
	}
	if err != nil {
		return domain.RankedResult{}, false, fmt.Errorf("failed to load snapshot: %w", err)
	}
	var res domain.RankedResult
	if err := json.Unmarshal(b, &res); err != nil {
		return domain.RankedResult{}, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return res, true, nil
}
