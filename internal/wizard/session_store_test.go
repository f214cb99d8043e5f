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
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/trustlens-consent-middleware/internal/catalog"
	"github.com/wso2/trustlens-consent-middleware/internal/permission"
	"github.com/wso2/trustlens-consent-middleware/internal/profile"
)

func sampleSession(id string) *Session {
	form := profile.NewFormData()
	_ = form.Set(catalog.CategoryBasic, catalog.FieldName, "Jane")
	return &Session{
		ID:          id,
		APIKey:      "key-1",
		Step:        StepAccount,
		Permissions: permission.Request{catalog.CategoryBasic: {catalog.FieldName}},
		Form:        form,
	}
}

func exerciseStore(t *testing.T, store SessionStore) {
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	s := sampleSession("s1")
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Form.Get(catalog.CategoryBasic, catalog.FieldName))
	assert.Equal(t, s.Permissions, got.Permissions)

	// the loaded copy is independent of the store
	require.NoError(t, got.Form.Set(catalog.CategoryBasic, catalog.FieldName, "changed"))
	again, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", again.Form.Get(catalog.CategoryBasic, catalog.FieldName))

	unlock, err := store.Lock(ctx, "s1")
	require.NoError(t, err)
	busyCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = store.Lock(busyCtx, "s1")
	assert.ErrorIs(t, err, ErrSessionLocked)
	unlock()

	unlock, err = store.Lock(ctx, "s1")
	require.NoError(t, err)
	unlock()

	fresh, err := store.ConsumeNonce(ctx, "n1", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)
	fresh, err = store.ConsumeNonce(ctx, "n1", time.Minute)
	require.NoError(t, err)
	assert.False(t, fresh)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(time.Minute))
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond).(*memoryStore)
	require.NoError(t, store.Save(context.Background(), sampleSession("s1")))
	time.Sleep(30 * time.Millisecond)

	_, err := store.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, store.purge())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	exerciseStore(t, NewRedisStore(client, "trustlens:wizard:", time.Minute))
}

func TestRedisStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisStore(client, "tl:", time.Minute)

	require.NoError(t, store.Save(context.Background(), sampleSession("s1")))
	assert.Equal(t, time.Minute, mr.TTL("tl:s1"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = store.ConsumeNonce(context.Background(), "n1", 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, mr.TTL("tl:nonce:n1"))
}

func TestRedisStore_LockOutlivesItsTTLWhileHeld(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisStore(client, "tl:", time.Minute).(*redisStore)
	store.refreshEvery = 5 * time.Millisecond
	ctx := context.Background()

	unlock, err := store.Lock(ctx, "s1")
	require.NoError(t, err)

	// two steps of nearly a full TTL each; the second would expire an unrefreshed lock
	for i := 0; i < 2; i++ {
		mr.FastForward(lockTTL - time.Second)
		require.Eventually(t, func() bool {
			return mr.TTL("tl:s1:lock") > lockTTL-time.Second
		}, time.Second, 5*time.Millisecond)
	}

	busyCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = store.Lock(busyCtx, "s1")
	assert.ErrorIs(t, err, ErrSessionLocked)

	unlock()
	unlock()
	assert.False(t, mr.Exists("tl:s1:lock"))

	unlock, err = store.Lock(ctx, "s1")
	require.NoError(t, err)
	unlock()
}

func TestRedisStore_LockExpiresWithoutRefresh(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisStore(client, "tl:", time.Minute).(*redisStore)
	store.refreshEvery = time.Hour
	ctx := context.Background()

	unlock, err := store.Lock(ctx, "s1")
	require.NoError(t, err)
	defer unlock()

	mr.FastForward(lockTTL + time.Second)
	second, err := store.Lock(ctx, "s1")
	require.NoError(t, err)
	second()
}
