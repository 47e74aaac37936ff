/*
 * Copyright (c) 2026, WSO2 LLC. (http://www.wso2.com).
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

package lock

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wso2/identity-user-resolution-service/internal/system/errors"
	"github.com/wso2/identity-user-resolution-service/internal/system/log"
)

// Locker is a non-blocking keyed lock. TryAcquire never waits for a held key, it reports false instead. A successful
// acquire returns an owner token; Release only frees the key while it still carries that token, so a holder whose
// lock expired cannot free a key another writer has since taken.
type Locker interface {
	TryAcquire(ctx context.Context, key string) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

type memoryHold struct {
	token  string
	expiry time.Time
}

// MemoryLock keeps lock keys in process memory. Suitable for single-instance deployments and tests.
type MemoryLock struct {
	mu   sync.Mutex
	ttl  time.Duration
	held map[string]memoryHold
	now  func() time.Time
}

func NewMemoryLock(ttl time.Duration) *MemoryLock {
	return &MemoryLock{
		ttl:  ttl,
		held: make(map[string]memoryHold),
		now:  time.Now,
	}
}

func (l *MemoryLock) TryAcquire(_ context.Context, key string) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if hold, ok := l.held[key]; ok && (l.ttl <= 0 || now.Before(hold.expiry)) {
		return "", false, nil
	}
	token := uuid.NewString()
	l.held[key] = memoryHold{token: token, expiry: now.Add(l.ttl)}
	return token, true, nil
}

func (l *MemoryLock) Release(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if hold, ok := l.held[key]; ok && hold.token == token {
		delete(l.held, key)
	}
	return nil
}

// AcquireAll takes every key or none. Keys are taken in sorted order so that two writers over overlapping key sets
// cannot interleave. A key already held by another writer yields a ConflictError and the keys taken so far are
// released. The returned function releases everything that was acquired.
func AcquireAll(ctx context.Context, locker Locker, keys ...string) (func(), error) {

	logger := log.GetLogger()
	ordered := dedupe(keys)
	type held struct{ key, token string }
	acquired := make([]held, 0, len(ordered))

	release := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			// Release must still run when the caller's context has been cancelled.
			if err := locker.Release(context.WithoutCancel(ctx), acquired[i].key, acquired[i].token); err != nil {
				logger.Warn(fmt.Sprintf("Failed to release lock '%s'", acquired[i].key), log.Error(err))
			}
		}
	}

	for _, key := range ordered {
		token, ok, err := locker.TryAcquire(ctx, key)
		if err != nil {
			release()
			errorMsg := fmt.Sprintf("Failed to acquire lock '%s'.", key)
			logger.Debug(errorMsg, log.Error(err))
			return nil, errors.NewServerError(errors.ErrorMessage{
				Code:        errors.LOCK_ACQUIRE.Code,
				Message:     errors.LOCK_ACQUIRE.Message,
				Description: errorMsg,
			}, err)
		}
		if !ok {
			release()
			logger.Debug(fmt.Sprintf("Lock '%s' is held by another write", key))
			return nil, errors.NewConflictError(
				fmt.Sprintf("Another write is in progress for '%s'. Retry after it completes.", key))
		}
		acquired = append(acquired, held{key: key, token: token})
	}
	return release, nil
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
