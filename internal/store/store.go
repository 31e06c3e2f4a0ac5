package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"tortas-web/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	pendingNextIDKey = "pending:next_id"
	pendingIndexKey  = "pending:dishes"
)

// PendingStore keeps dishes whose create call failed. It is write-only:
// nothing in this module reads the records back.
type PendingStore interface {
	SavePending(ctx context.Context, p models.PendingDish) (int64, error)
	Close() error
}

// StoreError wraps any failure of the local fallback store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("fallback store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

type RedisStore struct {
	client *redis.Client
}

// OpenRedisStore connects and pings; the collection itself is created on
// first write.
func OpenRedisStore(ctx context.Context, opts *redis.Options) (*RedisStore, error) {
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, &StoreError{Op: "open", Err: err}
	}
	return &RedisStore{client: rdb}, nil
}

// NewRedisStoreFromClient shares an existing client, e.g. with the sync registrar.
func NewRedisStoreFromClient(rdb *redis.Client) *RedisStore {
	return &RedisStore{client: rdb}
}

func (s *RedisStore) Client() *redis.Client {
	return s.client
}

func (s *RedisStore) SavePending(ctx context.Context, p models.PendingDish) (int64, error) {
	id, err := s.client.Incr(ctx, pendingNextIDKey).Result()
	if err != nil {
		return 0, &StoreError{Op: "next id", Err: err}
	}

	p.ID = id
	if p.FailedAt.IsZero() {
		p.FailedAt = time.Now().UTC()
	}
	data, err := json.Marshal(p)
	if err != nil {
		return 0, &StoreError{Op: "encode", Err: err}
	}

	key := pendingKey(id)

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.ZAdd(ctx, pendingIndexKey, redis.Z{
		Score:  float64(id),
		Member: key,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, &StoreError{Op: "save", Err: err}
	}

	return id, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func pendingKey(id int64) string {
	return "pending:dish:" + strconv.FormatInt(id, 10)
}
