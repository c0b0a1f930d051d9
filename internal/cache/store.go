package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// mapStore is the unbounded store used when no capacity is configured.
type mapStore[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]entry[V]
}

func newMapStore[K comparable, V any]() *mapStore[K, V] {
	return &mapStore[K, V]{m: make(map[K]entry[V])}
}

func (s *mapStore[K, V]) Get(key K) (entry[V], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.m[key]
	return e, ok
}

func (s *mapStore[K, V]) Add(key K, e entry[V]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = e
}

func (s *mapStore[K, V]) Remove(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}

func (s *mapStore[K, V]) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.m)
}

func (s *mapStore[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// lruStore adapts a bounded, already goroutine-safe LRU cache.
type lruStore[K comparable, V any] struct {
	c *lru.Cache[K, entry[V]]
}

func (s lruStore[K, V]) Get(key K) (entry[V], bool) { return s.c.Get(key) }
func (s lruStore[K, V]) Add(key K, e entry[V])      { s.c.Add(key, e) }
func (s lruStore[K, V]) Remove(key K)               { s.c.Remove(key) }
func (s lruStore[K, V]) Purge()                     { s.c.Purge() }
func (s lruStore[K, V]) Len() int                   { return s.c.Len() }
