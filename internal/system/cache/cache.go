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

package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/wso2/identity-user-resolution-service/internal/system/log"
)

// maxEntries bounds the cache. Expired entries are swept when it is reached, and a full sweep that frees nothing
// drops the whole cache.
const maxEntries = 1024

type CacheItem struct {
	Value      interface{}
	Expiration time.Time
}

// Cache is a TTL keyed cache. A non positive TTL disables it: Set is ignored and Get always misses.
//
// Every Clear starts a new generation. A value computed from state read before a Clear can be stored with
// SetIfGeneration so that it is discarded instead of outliving the write that invalidated it.
type Cache struct {
	items      map[string]CacheItem
	mutex      sync.RWMutex
	ttl        time.Duration
	generation uint64
	now        func() time.Time
}

// NewCache creates a new cache with a TTL (time-to-live)
func NewCache(defaultTTL time.Duration) *Cache {
	return &Cache{
		items: make(map[string]CacheItem),
		ttl:   defaultTTL,
		now:   time.Now,
	}
}

// Generation returns the current generation. Read it before loading the value to cache.
func (c *Cache) Generation() uint64 {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.generation
}

// Set adds an item to the cache
func (c *Cache) Set(key string, value interface{}) {
	c.SetIfGeneration(key, value, c.Generation())
}

// SetIfGeneration stores the item only when no Clear happened since generation was read.
func (c *Cache) SetIfGeneration(key string, value interface{}, generation uint64) bool {

	if c.ttl <= 0 {
		return false
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if generation != c.generation {
		log.GetLogger().Debug(fmt.Sprint("Discarding stale cache value for key: ", key))
		return false
	}
	if len(c.items) >= maxEntries {
		c.sweepLocked()
	}
	c.items[key] = CacheItem{
		Value:      value,
		Expiration: c.now().Add(c.ttl),
	}
	return true
}

// Get retrieves an item from the cache
func (c *Cache) Get(key string) (interface{}, bool) {

	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, found := c.items[key]
	if !found || c.now().After(item.Expiration) {
		return nil, false
	}
	return item.Value, true
}

// Delete removes an item from the cache
func (c *Cache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.items, key)
}

// Clear drops every entry and starts a new generation.
func (c *Cache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items = make(map[string]CacheItem)
	c.generation++
}

// Len counts stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.items)
}

func (c *Cache) sweepLocked() {
	now := c.now()
	for key, item := range c.items {
		if now.After(item.Expiration) {
			delete(c.items, key)
		}
	}
	if len(c.items) >= maxEntries {
		c.items = make(map[string]CacheItem)
	}
}
