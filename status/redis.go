// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package status

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "recall:task:"

	// Entries expire eventually even if a crashed process never deleted
	// them, so a conversation cannot report a stale busy state forever.
	redisEntryTTL = 30 * time.Minute
)

// Redis is a Registry backed by Redis, for deployments where ingestion
// workers and the query path run in separate processes.
type Redis struct {
	client *redis.Client
}

var _ Registry = (*Redis)(nil)

// NewRedis creates a Redis-backed registry over the given client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Set records the phase string for the task.
func (r *Redis) Set(ctx context.Context, id string, phase string) error {
	return r.client.Set(ctx, redisKeyPrefix+id, phase, redisEntryTTL).Err()
}

// Get returns the phase string for the task and whether an entry exists.
func (r *Redis) Get(ctx context.Context, id string) (string, bool, error) {
	phase, err := r.client.Get(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return phase, true, nil
}

// Delete removes the entry.
func (r *Redis) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, redisKeyPrefix+id).Err()
}
