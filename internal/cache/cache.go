// Package cache provides the bounded key→value stores backing the
// dashboard's per-filter response caches. Entries never expire on a
// timer; when the store is full the oldest insertion is evicted. This is
// a pure performance optimization with no staleness guarantee.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
)

// Bounded is a thread-safe key→value store with a fixed capacity and
// insertion-order (oldest-first) eviction.
type Bounded struct {
	mu    sync.RWMutex
	max   int
	items map[string]interface{}
	order []string

	hits   int64
	misses int64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits   int64
	Misses int64
	Keys   int
}

func NewBounded(max int) *Bounded {
	if max <= 0 {
		max = 50
	}
	return &Bounded{
		max:   max,
		items: make(map[string]interface{}, max),
	}
}

func (b *Bounded) Get(key string) (interface{}, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	v, ok := b.items[key]
	if ok {
		b.hits++
	} else {
		b.misses++
	}
	return v, ok
}

// Set stores a value. Overwriting an existing key keeps its original
// insertion slot; a new key over capacity evicts the oldest entry.
func (b *Bounded) Set(key string, value interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.items[key]; exists {
		b.items[key] = value
		return
	}
	if len(b.order) >= b.max {
		oldest := b.order[0]
		b.order = b.order[1:]
		delete(b.items, oldest)
	}
	b.items[key] = value
	b.order = append(b.order, key)
}

func (b *Bounded) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

func (b *Bounded) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = make(map[string]interface{}, b.max)
	b.order = nil
}

func (b *Bounded) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Stats{Hits: b.hits, Misses: b.misses, Keys: len(b.items)}
}

// Key builds a cache key from a category name and a filter signature.
// Parameters are serialized to JSON and hashed for a compact, stable key.
func Key(category string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", category, params)
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", category, sum[:16])
}
