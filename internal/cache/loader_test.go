package cache

import (
	"context"
	"errors"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stats struct {
	Avg   float64
	Count int
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func zeroStats(string) stats { return stats{} }

func TestLoader_ReturnsResolvedValueWithoutRefetch(t *testing.T) {
	var calls atomic.Int32
	l, err := New("stats", func(ctx context.Context, key string) (stats, error) {
		calls.Add(1)
		return stats{Avg: 4.5, Count: 2}, nil
	}, zeroStats, WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx := context.Background()
	assert.Equal(t, stats{Avg: 4.5, Count: 2}, l.Get(ctx, "42"))
	assert.Equal(t, stats{Avg: 4.5, Count: 2}, l.Get(ctx, "42"))
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoader_CoalescesConcurrentCallers(t *testing.T) {
	const callers = 25

	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	l, err := New("stats", func(ctx context.Context, key string) (stats, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-release
		return stats{Avg: 3, Count: 7}, nil
	}, zeroStats, WithLogger(quietLogger()))
	require.NoError(t, err)

	results := make([]stats, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = l.Get(context.Background(), "42")
		}(i)
	}

	<-started
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "exactly one underlying fetch")
	for _, r := range results {
		assert.Equal(t, stats{Avg: 3, Count: 7}, r)
	}
}

func TestLoader_CoalescedCallersShareIdenticalValue(t *testing.T) {
	release := make(chan struct{})
	l, err := New("categories", func(ctx context.Context, key struct{}) (map[string]string, error) {
		<-release
		return map[string]string{"MAIN": "Hauptgericht"}, nil
	}, func(struct{}) map[string]string { return map[string]string{} }, WithLogger(quietLogger()))
	require.NoError(t, err)

	var a, b map[string]string
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); a = l.Get(context.Background(), struct{}{}) }()
	go func() { defer wg.Done(); b = l.Get(context.Background(), struct{}{}) }()
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NotNil(t, a)
	a["probe"] = "x"
	assert.Equal(t, "x", b["probe"], "both callers observe the same map")
}

func TestLoader_FailureYieldsFallbackAndDoesNotPoison(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	var calls atomic.Int32

	l, err := New("stats", func(ctx context.Context, key string) (stats, error) {
		calls.Add(1)
		if fail.Load() {
			return stats{}, errors.New("backend down")
		}
		return stats{Avg: 5, Count: 1}, nil
	}, zeroStats, WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx := context.Background()
	res := l.Resolve(ctx, "42")
	assert.True(t, res.Fallback)
	assert.EqualError(t, res.Err, "backend down")
	assert.Equal(t, stats{}, res.Value)

	peek, ok := l.Peek("42")
	require.True(t, ok, "fallback is recorded")
	assert.True(t, peek.Fallback)

	fail.Store(false)
	assert.Equal(t, stats{Avg: 5, Count: 1}, l.Get(ctx, "42"))
	assert.Equal(t, stats{Avg: 5, Count: 1}, l.Get(ctx, "42"))
	assert.Equal(t, int32(2), calls.Load(), "retry after fallback, then memoized")
}

func TestLoader_PerKeyIsolation(t *testing.T) {
	l, err := New("stats", func(ctx context.Context, key string) (stats, error) {
		if key == "bad" {
			return stats{}, errors.New("boom")
		}
		return stats{Avg: 2, Count: 1}, nil
	}, zeroStats, WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx := context.Background()
	assert.True(t, l.Resolve(ctx, "bad").Fallback)
	good := l.Resolve(ctx, "good")
	assert.False(t, good.Fallback)
	assert.Equal(t, stats{Avg: 2, Count: 1}, good.Value)

	l.Invalidate("bad")
	_, ok := l.Peek("good")
	assert.True(t, ok, "invalidating one key leaves others alone")
}

func TestLoader_CallerCancellationDoesNotAbortSharedFetch(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	l, err := New("stats", func(ctx context.Context, key string) (stats, error) {
		calls.Add(1)
		select {
		case <-release:
			return stats{Avg: 1, Count: 1}, nil
		case <-ctx.Done():
			return stats{}, ctx.Err()
		}
	}, zeroStats, WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Result[stats])
	go func() { done <- l.Resolve(ctx, "42") }()

	time.Sleep(10 * time.Millisecond)
	cancel()
	res := <-done
	assert.True(t, res.Fallback)
	assert.ErrorIs(t, res.Err, context.Canceled)

	close(release)
	assert.Eventually(t, func() bool {
		r, ok := l.Peek("42")
		return ok && !r.Fallback
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, stats{Avg: 1, Count: 1}, l.Get(context.Background(), "42"))
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoader_InvalidateDropsInFlightResult(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var version atomic.Int32
	l, err := New("ids", func(ctx context.Context, key string) (int32, error) {
		v := version.Add(1)
		if v == 1 {
			close(started)
			<-release
		}
		return v, nil
	}, func(string) int32 { return 0 }, WithLogger(quietLogger()))
	require.NoError(t, err)

	first := make(chan int32)
	go func() { first <- l.Get(context.Background(), "k") }()
	<-started

	l.Invalidate("k")
	assert.Equal(t, int32(2), l.Get(context.Background(), "k"), "new flight after invalidate")

	close(release)
	assert.Equal(t, int32(1), <-first, "waiters of the old flight still get its value")
	assert.Equal(t, int32(2), l.Get(context.Background(), "k"), "stale flight did not overwrite")
}

func TestLoader_PurgeDropsEverything(t *testing.T) {
	var calls atomic.Int32
	l, err := New("stats", func(ctx context.Context, key string) (stats, error) {
		calls.Add(1)
		return stats{Count: 1}, nil
	}, zeroStats, WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx := context.Background()
	l.Get(ctx, "a")
	l.Get(ctx, "b")
	assert.Equal(t, 2, l.Len())

	l.Purge()
	assert.Equal(t, 0, l.Len())
	l.Get(ctx, "a")
	assert.Equal(t, int32(3), calls.Load())
}

func TestLoader_PurgeStartsNewFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var version atomic.Int32
	l, err := New("ids", func(ctx context.Context, key string) (int32, error) {
		v := version.Add(1)
		if v == 1 {
			close(started)
			<-release
		}
		return v, nil
	}, func(string) int32 { return 0 }, WithLogger(quietLogger()))
	require.NoError(t, err)

	first := make(chan int32)
	go func() { first <- l.Get(context.Background(), "k") }()
	<-started

	l.Purge()
	assert.Equal(t, int32(2), l.Get(context.Background(), "k"), "callers after purge do not join the old flight")

	close(release)
	assert.Equal(t, int32(1), <-first)
	assert.Equal(t, int32(2), l.Get(context.Background(), "k"), "stale flight did not overwrite")
	assert.Equal(t, int32(2), version.Load())
}

func TestLoader_CapacityEvictsLeastRecentlyUsed(t *testing.T) {
	var calls atomic.Int32
	l, err := New("stats", func(ctx context.Context, key string) (stats, error) {
		calls.Add(1)
		return stats{Count: 1}, nil
	}, zeroStats, WithCapacity(2), WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx := context.Background()
	l.Get(ctx, "a")
	l.Get(ctx, "b")
	l.Get(ctx, "c")
	assert.Equal(t, 2, l.Len())

	_, ok := l.Peek("a")
	assert.False(t, ok, "oldest key evicted")
	l.Get(ctx, "a")
	assert.Equal(t, int32(4), calls.Load())
}

func TestLoader_CustomKeyFunc(t *testing.T) {
	type productKey struct{ ID int }
	var calls atomic.Int32
	l, err := New("stats", func(ctx context.Context, key productKey) (stats, error) {
		calls.Add(1)
		return stats{Count: key.ID}, nil
	}, func(productKey) stats { return stats{} },
		WithKeyFunc(func(k productKey) string { return "product-" + strconv.Itoa(k.ID) }),
		WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.Equal(t, 3, l.Get(context.Background(), productKey{ID: 3}).Count)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNew_RequiresFetcherAndFallback(t *testing.T) {
	_, err := New[string, stats]("x", nil, zeroStats)
	assert.Error(t, err)

	_, err = New("x", func(ctx context.Context, key string) (stats, error) { return stats{}, nil }, nil)
	assert.Error(t, err)
}

func TestLoader_PrimeServesWrittenValueAndBeatsInFlightFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	l, err := New("stats", func(ctx context.Context, key string) (stats, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
		}
		return stats{Avg: 1, Count: 1}, nil
	}, zeroStats, WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx := context.Background()
	done := make(chan stats)
	go func() { done <- l.Get(ctx, "9") }()
	<-started

	l.Prime("9", stats{Avg: 5, Count: 3})
	close(release)
	assert.Equal(t, stats{Avg: 1, Count: 1}, <-done, "waiters still get the flight's value")

	res, ok := l.Peek("9")
	require.True(t, ok)
	assert.False(t, res.Fallback)
	assert.Equal(t, stats{Avg: 5, Count: 3}, res.Value)
	assert.Equal(t, stats{Avg: 5, Count: 3}, l.Get(ctx, "9"))
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoader_PeekReportsFallback(t *testing.T) {
	l, err := New("stats", func(ctx context.Context, key string) (stats, error) {
		return stats{}, errors.New("down")
	}, func(string) stats { return stats{Count: -1} }, WithLogger(quietLogger()))
	require.NoError(t, err)

	_, ok := l.Peek("1")
	assert.False(t, ok)

	res := l.Resolve(context.Background(), "1")
	assert.True(t, res.Fallback)
	assert.EqualError(t, res.Err, "down")

	peeked, ok := l.Peek("1")
	require.True(t, ok)
	assert.True(t, peeked.Fallback)
	assert.Equal(t, stats{Count: -1}, peeked.Value)
	assert.Equal(t, 1, l.Len())
}
