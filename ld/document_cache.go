// Copyright 2015-2017 Piprate Limited
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
package ld

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultDocumentCacheTTL is how long a fetched context document is reused.
const DefaultDocumentCacheTTL = 5 * time.Minute

// DocumentCache stores fetched context documents by absolute URL.
type DocumentCache interface {
	// GetOrLoad returns the cached document for u, calling load when there
	// is no live entry. Failed loads are not cached.
	GetOrLoad(u string, load func() (*RemoteDocument, error)) (*RemoteDocument, error)
}

type documentCacheEntry struct {
	doc      *RemoteDocument
	loadedAt time.Time
}

// TTLDocumentCache is a DocumentCache whose entries expire a fixed time after
// they were loaded. Concurrent loads of the same URL are collapsed into one.
type TTLDocumentCache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]documentCacheEntry
	group   singleflight.Group
}

// NewTTLDocumentCache creates a TTLDocumentCache. A non-positive ttl selects
// DefaultDocumentCacheTTL.
func NewTTLDocumentCache(ttl time.Duration) *TTLDocumentCache {
	if ttl <= 0 {
		ttl = DefaultDocumentCacheTTL
	}
	return &TTLDocumentCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]documentCacheEntry),
	}
}

// SetClock replaces the time source. It is meant for tests.
func (c *TTLDocumentCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// GetOrLoad implements DocumentCache.
func (c *TTLDocumentCache) GetOrLoad(u string, load func() (*RemoteDocument, error)) (*RemoteDocument, error) {
	if doc, found := c.get(u); found {
		return doc, nil
	}

	v, err, _ := c.group.Do(u, func() (interface{}, error) {
		if doc, found := c.get(u); found {
			return doc, nil
		}
		doc, err := load()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[u] = documentCacheEntry{doc: doc, loadedAt: c.now()}
		c.mu.Unlock()
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*RemoteDocument), nil
}

func (c *TTLDocumentCache) get(u string) (*RemoteDocument, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, found := c.entries[u]
	if !found || c.now().Sub(entry.loadedAt) >= c.ttl {
		return nil, false
	}
	return entry.doc, true
}

// Purge drops every cached document.
func (c *TTLDocumentCache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]documentCacheEntry)
	c.mu.Unlock()
}
