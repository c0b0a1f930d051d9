// Package cache implements the request-deduplicating cache shared by the
// catalog read paths.
//
// A Loader memoizes the resolved value per key, coalesces concurrent callers
// for the same key into a single in-flight fetch, and turns fetch failures
// into a resource-specific fallback value. Failures are never remembered as
// such: the fallback is recorded, the in-flight slot is released, and the
// next Get for that key fetches again.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/htwg-in-schneider/frontend-cooked/internal/telemetry"
)

// Fetcher resolves the value for a key.
type Fetcher[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Result is the tagged outcome of a lookup. When Fallback is set, Value is
// the resource's fallback and Err holds the suppressed failure.
type Result[V any] struct {
	Value    V
	Fallback bool
	Err      error
}

// Ok wraps a resolved value.
func Ok[V any](v V) Result[V] {
	return Result[V]{Value: v}
}

// Fallback wraps a fallback value substituted for a failed fetch.
func Fallback[V any](v V, err error) Result[V] {
	return Result[V]{Value: v, Fallback: true, Err: err}
}

type entry[V any] struct {
	value    V
	fallback bool
}

// store is the per-key resolved-value storage.
type store[K comparable, V any] interface {
	Get(key K) (entry[V], bool)
	Add(key K, e entry[V])
	Remove(key K)
	Purge()
	Len() int
}

// Loader is a request-deduplicating cache for one resource kind.
type Loader[K comparable, V any] struct {
	name     string
	fetch    Fetcher[K, V]
	fallback func(K) V
	keyFn    func(K) string

	entries store[K, V]
	flights singleflight.Group

	// Invalidation counters. A flight stores its result only if neither
	// changed while it was running.
	genMu  sync.Mutex
	gens   map[K]uint64
	purges uint64

	log     logrus.FieldLogger
	metrics *telemetry.CacheMetrics
}

type options struct {
	capacity int
	log      logrus.FieldLogger
	metrics  *telemetry.CacheMetrics
	keyFn    any
}

// Option configures a Loader.
type Option func(*options)

// WithCapacity bounds the number of stored keys with LRU eviction. Zero means unbounded.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// WithLogger sets the logger used to report suppressed fetch errors.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics attaches cache instruments.
func WithMetrics(m *telemetry.CacheMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithKeyFunc overrides how keys are turned into in-flight identifiers.
// fn must be a func(K) string for the Loader's key type.
func WithKeyFunc[K comparable](fn func(K) string) Option {
	return func(o *options) { o.keyFn = fn }
}

// New creates a Loader named name. fallback produces the value served when
// fetch fails; it must not be nil.
func New[K comparable, V any](name string, fetch Fetcher[K, V], fallback func(K) V, opts ...Option) (*Loader[K, V], error) {
	if fetch == nil {
		return nil, fmt.Errorf("cache %s: fetcher is required", name)
	}
	if fallback == nil {
		return nil, fmt.Errorf("cache %s: fallback is required", name)
	}

	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.log == nil {
		o.log = logrus.StandardLogger()
	}

	l := &Loader[K, V]{
		name:     name,
		fetch:    fetch,
		fallback: fallback,
		keyFn:    func(k K) string { return fmt.Sprint(k) },
		gens:     make(map[K]uint64),
		log:      o.log.WithField("cache", name),
		metrics:  o.metrics,
	}
	if fn, ok := o.keyFn.(func(K) string); ok && fn != nil {
		l.keyFn = fn
	}

	if o.capacity > 0 {
		bounded, err := lru.New[K, entry[V]](o.capacity)
		if err != nil {
			return nil, fmt.Errorf("cache %s: %w", name, err)
		}
		l.entries = lruStore[K, V]{bounded}
	} else {
		l.entries = newMapStore[K, V]()
	}
	return l, nil
}

// Get returns the value for key, fetching it at most once across concurrent
// callers. It never fails: a failed fetch yields the fallback value.
func (l *Loader[K, V]) Get(ctx context.Context, key K) V {
	return l.Resolve(ctx, key).Value
}

// Resolve is Get with the tagged result, so callers can observe a suppressed error.
func (l *Loader[K, V]) Resolve(ctx context.Context, key K) Result[V] {
	if e, ok := l.entries.Get(key); ok && !e.fallback {
		l.metrics.RecordLookup(ctx, l.name, "hit")
		return Ok(e.value)
	}

	ch := l.flights.DoChan(l.flightKey(key), func() (any, error) {
		return l.load(context.WithoutCancel(ctx), key), nil
	})

	select {
	case res := <-ch:
		r := res.Val.(Result[V])
		if res.Shared {
			l.metrics.RecordLookup(ctx, l.name, "shared")
		} else {
			l.metrics.RecordLookup(ctx, l.name, "miss")
		}
		return r
	case <-ctx.Done():
		// The flight keeps running for the other callers and still stores its result.
		return Fallback(l.fallback(key), ctx.Err())
	}
}

// load runs inside the single flight for key.
func (l *Loader[K, V]) load(ctx context.Context, key K) Result[V] {
	// A flight that finished just before this one started may already have stored the value.
	if e, ok := l.entries.Get(key); ok && !e.fallback {
		return Ok(e.value)
	}

	gen, purges := l.generation(key)
	value, err := l.fetch(ctx, key)
	l.metrics.RecordFetch(ctx, l.name, err)

	var r Result[V]
	if err != nil {
		l.log.WithError(err).WithField("key", l.keyFn(key)).Warn("fetch failed, serving fallback")
		r = Fallback(l.fallback(key), err)
	} else {
		r = Ok(value)
	}

	l.genMu.Lock()
	if l.gens[key] == gen && l.purges == purges {
		l.entries.Add(key, entry[V]{value: r.Value, fallback: r.Fallback})
	}
	l.genMu.Unlock()
	return r
}

// flightKey scopes the in-flight slot to the current purge epoch, so callers
// arriving after a Purge never join a flight started before it.
func (l *Loader[K, V]) flightKey(key K) string {
	l.genMu.Lock()
	defer l.genMu.Unlock()
	return l.flightKeyLocked(key)
}

func (l *Loader[K, V]) flightKeyLocked(key K) string {
	return strconv.FormatUint(l.purges, 10) + "/" + l.keyFn(key)
}

func (l *Loader[K, V]) generation(key K) (uint64, uint64) {
	l.genMu.Lock()
	defer l.genMu.Unlock()
	return l.gens[key], l.purges
}

// Peek returns the stored value for key without fetching. The boolean is
// false when nothing is stored; a stored fallback is returned as a Fallback result.
func (l *Loader[K, V]) Peek(key K) (Result[V], bool) {
	e, ok := l.entries.Get(key)
	if !ok {
		var zero Result[V]
		return zero, false
	}
	if e.fallback {
		return Fallback(e.value, nil), true
	}
	return Ok(e.value), true
}

// Prime stores a known-good value for key, e.g. the result of a write. A
// fetch already in flight for key will not overwrite it.
func (l *Loader[K, V]) Prime(key K, value V) {
	l.genMu.Lock()
	defer l.genMu.Unlock()
	l.gens[key]++
	l.flights.Forget(l.flightKeyLocked(key))
	l.entries.Add(key, entry[V]{value: value})
}

// Invalidate drops the stored value for key. A fetch already in flight for
// key is still delivered to its waiters but not stored.
func (l *Loader[K, V]) Invalidate(key K) {
	l.genMu.Lock()
	defer l.genMu.Unlock()
	l.gens[key]++
	l.flights.Forget(l.flightKeyLocked(key))
	l.entries.Remove(key)
}

// Purge drops every stored value. Fetches already in flight are delivered to
// their waiters but neither stored nor joined by later callers.
func (l *Loader[K, V]) Purge() {
	l.genMu.Lock()
	defer l.genMu.Unlock()
	l.purges++
	clear(l.gens)
	l.entries.Purge()
}

// Len returns the number of stored keys, fallbacks included.
func (l *Loader[K, V]) Len() int {
	return l.entries.Len()
}
