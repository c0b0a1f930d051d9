// Package catalog provides the cached read paths used by many views at
// once: category labels, review statistics and favorite ids.
package catalog

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/htwg-in-schneider/frontend-cooked/internal/cache"
	"github.com/htwg-in-schneider/frontend-cooked/internal/telemetry"
	"github.com/htwg-in-schneider/frontend-cooked/pkg/sdk"
)

// Backend is the subset of the SDK client the catalog reads from.
type Backend interface {
	CategoryTranslations(ctx context.Context) (map[string]string, error)
	ProductReviews(ctx context.Context, productID string) ([]sdk.Review, error)
	FavoriteIDs(ctx context.Context) ([]sdk.ID, error)
	AddFavorite(ctx context.Context, id sdk.ID) ([]sdk.ID, error)
	RemoveFavorite(ctx context.Context, id sdk.ID) ([]sdk.ID, error)
}

var _ Backend = (*sdk.Client)(nil)

// Options configures the catalog caches.
type Options struct {
	// ReviewCapacity bounds the number of products with cached stats. Zero is unbounded.
	ReviewCapacity int
	// DedupFavorites routes favorite-id reads through a request-deduplicating cache.
	// When false every read goes to the backend and errors are returned.
	DedupFavorites bool

	Logger  logrus.FieldLogger
	Metrics *telemetry.CacheMetrics
}

// Catalog bundles the cached read paths for one application instance.
type Catalog struct {
	Categories *CategoryLabels
	Reviews    *ReviewStats
	Favorites  *Favorites
}

// New builds the catalog caches on top of backend.
func New(backend Backend, opts Options) (*Catalog, error) {
	common := []cache.Option{cache.WithMetrics(opts.Metrics)}
	if opts.Logger != nil {
		common = append(common, cache.WithLogger(opts.Logger))
	}

	categories, err := NewCategoryLabels(backend, common...)
	if err != nil {
		return nil, err
	}
	reviewOpts := append([]cache.Option{cache.WithCapacity(opts.ReviewCapacity)}, common...)
	reviews, err := NewReviewStats(backend, reviewOpts...)
	if err != nil {
		return nil, err
	}
	favorites, err := NewFavorites(backend, opts.DedupFavorites, common...)
	if err != nil {
		return nil, err
	}

	return &Catalog{
		Categories: categories,
		Reviews:    reviews,
		Favorites:  favorites,
	}, nil
}

// Reset drops every cached value, e.g. after sign-out.
func (c *Catalog) Reset() {
	c.Categories.loader.Purge()
	c.Reviews.loader.Purge()
	c.Favorites.Invalidate()
}
