package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Common metric attribute keys.
const (
	AttrCacheName     = "cache.name"
	AttrCacheOutcome  = "cache.outcome" // hit, miss, fallback, shared
	AttrGuardVerdict  = "guard.verdict" // proceed, login, redirect
	AttrGuardHydrated = "guard.hydrated"
)

// CacheMetrics holds metric instruments for the request-deduplicating caches.
// Instruments come from the global meter provider and are no-ops unless an
// SDK has been installed.
type CacheMetrics struct {
	Lookups   metric.Int64Counter // Get calls by outcome
	Fetches   metric.Int64Counter // underlying producer runs
	Fallbacks metric.Int64Counter // producer failures replaced by a fallback
}

// NewCacheMetrics creates the cache instruments.
func NewCacheMetrics() (*CacheMetrics, error) {
	meter := otel.Meter("cooked/cache")

	lookups, err := meter.Int64Counter(
		"cache.lookup.count",
		metric.WithDescription("Total number of cache lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	fetches, err := meter.Int64Counter(
		"cache.fetch.count",
		metric.WithDescription("Total number of underlying fetches"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, err
	}

	fallbacks, err := meter.Int64Counter(
		"cache.fallback.count",
		metric.WithDescription("Total number of failed fetches served as fallback values"),
		metric.WithUnit("{fallback}"),
	)
	if err != nil {
		return nil, err
	}

	return &CacheMetrics{
		Lookups:   lookups,
		Fetches:   fetches,
		Fallbacks: fallbacks,
	}, nil
}

// RecordLookup counts one Get with its outcome.
func (m *CacheMetrics) RecordLookup(ctx context.Context, cache, outcome string) {
	if m == nil {
		return
	}
	m.Lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrCacheName, cache),
		attribute.String(AttrCacheOutcome, outcome),
	))
}

// RecordFetch counts one producer run and, when it failed, one fallback.
func (m *CacheMetrics) RecordFetch(ctx context.Context, cache string, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrCacheName, cache))
	m.Fetches.Add(ctx, 1, attrs)
	if err != nil {
		m.Fallbacks.Add(ctx, 1, attrs)
	}
}

// GuardMetrics holds metric instruments for navigation guard evaluations.
type GuardMetrics struct {
	Evaluations metric.Int64Counter
	Hydrations  metric.Int64Counter
}

// NewGuardMetrics creates the guard instruments.
func NewGuardMetrics() (*GuardMetrics, error) {
	meter := otel.Meter("cooked/guard")

	evaluations, err := meter.Int64Counter(
		"guard.evaluation.count",
		metric.WithDescription("Total number of navigation guard evaluations by verdict"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		return nil, err
	}

	hydrations, err := meter.Int64Counter(
		"guard.hydration.count",
		metric.WithDescription("Total number of role hydrations attempted by the guard"),
		metric.WithUnit("{hydration}"),
	)
	if err != nil {
		return nil, err
	}

	return &GuardMetrics{
		Evaluations: evaluations,
		Hydrations:  hydrations,
	}, nil
}

// RecordVerdict counts one evaluation.
func (m *GuardMetrics) RecordVerdict(ctx context.Context, verdict string) {
	if m == nil {
		return
	}
	m.Evaluations.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrGuardVerdict, verdict)))
}

// RecordHydration counts one profile resolution attempt.
func (m *GuardMetrics) RecordHydration(ctx context.Context, success bool) {
	if m == nil {
		return
	}
	m.Hydrations.Add(ctx, 1, metric.WithAttributes(attribute.Bool(AttrGuardHydrated, success)))
}
