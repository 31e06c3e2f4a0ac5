package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// SyncTag is the one-shot background sync task registered after a failed create.
const SyncTag = "sync-cocina"

const syncTasksKey = "sync:tasks"

// SyncRegistrar records a background sync request. Nothing confirms that a
// registered task ever runs.
type SyncRegistrar interface {
	Register(ctx context.Context, tag, userID string) error
}

type SyncTask struct {
	Tag          string    `json:"tag"`
	UserID       string    `json:"userId"`
	RegisteredAt time.Time `json:"registeredAt"`
}

type RedisSyncRegistrar struct {
	client *redis.Client
}

func NewRedisSyncRegistrar(rdb *redis.Client) *RedisSyncRegistrar {
	return &RedisSyncRegistrar{client: rdb}
}

func (r *RedisSyncRegistrar) Register(ctx context.Context, tag, userID string) error {
	data, err := json.Marshal(SyncTask{Tag: tag, UserID: userID, RegisteredAt: time.Now().UTC()})
	if err != nil {
		return &StoreError{Op: "encode sync task", Err: err}
	}
	if err := r.client.RPush(ctx, syncTasksKey, data).Err(); err != nil {
		return &StoreError{Op: "register sync", Err: err}
	}
	return nil
}
