// Copyright (C) 2024 ctlab
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package cache implements a bounded, byte-budgeted LRU used to hold
// decompressed block-store bytes (dense blocks, COO triple arenas,
// bin-weight vectors) across calls, so repeated queries over the same
// region of a large block store file do not pay a decompression cost
// twice.
package cache

import (
	"sync"

	"github.com/ctlab/hictgo/heap"
)

// BlockCache is a bounded LRU keyed by an opaque string, holding
// []byte payloads. Eviction is governed by total payload size, not
// entry count, since payloads (decompressed blocks) vary from a few
// bytes to tens of megabytes. Recency is tracked with a monotonic
// sequence counter and reheapified lazily, at eviction time, via
// heap.OrderSlice/heap.PopSlice rather than kept continuously
// heap-ordered, since heap.FixSlice would require each entry to track
// its own live index through arbitrary internal swaps.
type BlockCache struct {
	mu      sync.Mutex
	budget  int64
	used    int64
	seq     int64
	entries map[string]*entry
	order   []*entry
}

type entry struct {
	key      string
	data     []byte
	lastUsed int64
}

func heapLess(a, b *entry) bool { return a.lastUsed < b.lastUsed }

// New returns a cache that evicts entries once the sum of their
// payload lengths would exceed budgetBytes.
func New(budgetBytes int64) *BlockCache {
	return &BlockCache{
		budget:  budgetBytes,
		entries: make(map[string]*entry),
	}
}

// Get returns the cached payload for key, if present, bumping its
// recency.
func (c *BlockCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.seq++
	e.lastUsed = c.seq
	return e.data, true
}

// Put inserts data under key, evicting the least recently used
// entries until the cache fits within budget. Put is a no-op if a
// single entry exceeds the entire budget (it is simply not cached).
func (c *BlockCache) Put(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		c.used -= int64(len(existing.data))
		existing.data = data
		c.used += int64(len(data))
		c.seq++
		existing.lastUsed = c.seq
		c.evict()
		return
	}
	if int64(len(data)) > c.budget {
		return
	}
	c.seq++
	e := &entry{key: key, data: data, lastUsed: c.seq}
	c.entries[key] = e
	c.order = append(c.order, e)
	c.used += int64(len(data))
	c.evict()
}

func (c *BlockCache) evict() {
	if c.used <= c.budget {
		return
	}
	heap.OrderSlice(c.order, heapLess)
	for c.used > c.budget && len(c.order) > 0 {
		victim := heap.PopSlice(&c.order, heapLess)
		delete(c.entries, victim.key)
		c.used -= int64(len(victim.data))
	}
}

// Len reports the number of cached entries (for tests).
func (c *BlockCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}
