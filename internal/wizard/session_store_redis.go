/*
 * Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wso2/trustlens-consent-middleware/internal/system/log"
	"github.com/wso2/trustlens-consent-middleware/internal/system/utils"
)

const (
	lockTTL       = 10 * time.Second
	lockRetryWait = 25 * time.Millisecond
)

// redisStore keeps sessions in redis so several middleware instances can serve one popup.
// A held lock is extended every refreshEvery until it is released, so it
// outlives slow completions.
type redisStore struct {
	client       *redis.Client
	prefix       string
	ttl          time.Duration
	lockTTL      time.Duration
	refreshEvery time.Duration
	logger       *log.Logger
}

// NewRedisStore creates a redis-backed session store.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) SessionStore {
	return &redisStore{
		client:       client,
		prefix:       prefix,
		ttl:          ttl,
		lockTTL:      lockTTL,
		refreshEvery: lockTTL / 3,
		logger:       log.GetLogger().With(log.String(log.LoggerKeyComponentName, "RedisSessionStore")),
	}
}

func (r *redisStore) key(id string) string {
	return r.prefix + id
}

func (r *redisStore) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *redisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}

func (r *redisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id), r.key(id)+":lock").Err()
}

func (r *redisStore) ConsumeNonce(ctx context.Context, nonce string, ttl time.Duration) (bool, error) {
	fresh, err := r.client.SetNX(ctx, r.prefix+"nonce:"+nonce, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record nonce: %w", err)
	}
	return fresh, nil
}

// releaseScript deletes the lock only when it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0`)

// refreshScript extends the lock only when it still holds our token.
var refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)

func (r *redisStore) Lock(ctx context.Context, id string) (func(), error) {
	lockKey := r.key(id) + ":lock"
	token := utils.GenerateUUID()

	for {
		ok, err := r.client.SetNX(ctx, lockKey, token, r.lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire session lock: %w", err)
		}
		if ok {
			stop := make(chan struct{})
			done := make(chan struct{})
			go r.keepLock(lockKey, token, stop, done)
			var once sync.Once
			return func() {
				once.Do(func() {
					close(stop)
					<-done
					releaseScript.Run(context.Background(), r.client, []string{lockKey}, token)
				})
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ErrSessionLocked
		case <-time.After(lockRetryWait):
		}
	}
}

// keepLock extends lockKey until stop is closed. It gives up when the lock
// has been taken over.
func (r *redisStore) keepLock(lockKey, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.refreshEvery)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			n, err := refreshScript.Run(context.Background(), r.client, []string{lockKey},
				token, r.lockTTL.Milliseconds()).Int()
			if err != nil {
				r.logger.Warn("Failed to extend session lock", log.String("key", lockKey), log.Error(err))
				continue
			}
			if n == 0 {
				r.logger.Warn("Session lock was lost before release", log.String("key", lockKey))
				return
			}
		}
	}
}
