package ledgerstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campustt/timetable-core/internal/domain"
	appErrors "github.com/campustt/timetable-core/pkg/errors"
)

// keyPrefix namespaces every ledger snapshot key written to the shared
// Redis instance (spec §8).
const keyPrefix = "timetable:ledger:"

// RedisStore is a fast, term-scoped cache of the latest ledger snapshot,
// adapted from the teacher's pkg/cache.NewRedis client wiring. It is not
// the system of record — PostgresStore (when configured) is — but lets a
// restarted generate-all batch resume without replaying every faculty's
// prior run.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an already-dialled client. ttl of 0 means snapshots
// never expire, matching a full-term batch that can span days.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func snapshotKey(term domain.Term) string {
	return keyPrefix + string(term)
}

// Save writes the snapshot, overwriting whatever was previously cached
// for its term.
func (s *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "marshal ledger snapshot")
	}
	if err := s.client.Set(ctx, snapshotKey(snap.Term), payload, s.ttl).Err(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "write ledger snapshot to redis")
	}
	return nil
}

// Load fetches the latest snapshot for `term`. ok is false when nothing
// has been cached yet — the caller should start from an empty ledger.
func (s *RedisStore) Load(ctx context.Context, term domain.Term) (snap Snapshot, ok bool, err error) {
	raw, err := s.client.Get(ctx, snapshotKey(term)).Bytes()
	if err == redis.Nil {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "read ledger snapshot from redis")
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "unmarshal ledger snapshot")
	}
	valid, err := snap.Verify()
	if err != nil {
		return Snapshot{}, false, err
	}
	if !valid {
		return Snapshot{}, false, appErrors.New(appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("ledger snapshot for term %s failed its content hash check", term))
	}
	return snap, true, nil
}
