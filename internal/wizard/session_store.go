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

	"github.com/wso2/trustlens-consent-middleware/internal/system/cache"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("wizard session not found")

// ErrSessionLocked is returned when another request holds the session lock.
var ErrSessionLocked = errors.New("wizard session is busy")

// SessionStore persists wizard sessions until they expire.
type SessionStore interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	// Lock serialises mutations of one session. The returned func releases it.
	Lock(ctx context.Context, id string) (func(), error)
	// ConsumeNonce records a spent bridge token nonce; false means it was spent before.
	ConsumeNonce(ctx context.Context, nonce string, ttl time.Duration) (bool, error)
}

// memoryStore keeps sessions in the process TTL cache. Values are stored
// encoded so callers never share state with the store.
type memoryStore struct {
	cache   *cache.Cache
	locks   sync.Map
	nonces  *cache.Cache
	nonceMu sync.Mutex
}

// NewMemoryStore creates an in-process session store. Spent nonces are kept
// for the session ttl, which outlives any token issued for a session.
func NewMemoryStore(ttl time.Duration) SessionStore {
	return &memoryStore{cache: cache.NewCache(ttl), nonces: cache.NewCache(ttl)}
}

func (m *memoryStore) Save(_ context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	m.cache.Set(s.ID, data)
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (*Session, error) {
	v, ok := m.cache.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	var s Session
	if err := json.Unmarshal(v.([]byte), &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.cache.Delete(id)
	m.locks.Delete(id)
	return nil
}

func (m *memoryStore) Lock(ctx context.Context, id string) (func(), error) {
	v, _ := m.locks.LoadOrStore(id, make(chan struct{}, 1))
	ch := v.(chan struct{})
	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ErrSessionLocked
	}
}

func (m *memoryStore) ConsumeNonce(_ context.Context, nonce string, _ time.Duration) (bool, error) {
	m.nonceMu.Lock()
	defer m.nonceMu.Unlock()
	if _, spent := m.nonces.Get(nonce); spent {
		return false, nil
	}
	m.nonces.Set(nonce, struct{}{})
	return true, nil
}

// purge drops expired sessions and the idle locks left behind by them.
func (m *memoryStore) purge() int {
	m.nonces.Purge()
	n := m.cache.Purge()
	m.locks.Range(func(k, v interface{}) bool {
		if _, ok := m.cache.Get(k.(string)); !ok && len(v.(chan struct{})) == 0 {
			m.locks.Delete(k)
		}
		return true
	})
	return n
}
