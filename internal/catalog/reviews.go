package catalog

import (
	"context"

	"github.com/htwg-in-schneider/frontend-cooked/internal/cache"
	"github.com/htwg-in-schneider/frontend-cooked/pkg/sdk"
)

// ReviewStats aggregates review ratings per product.
type ReviewStats struct {
	loader *cache.Loader[string, sdk.ReviewStats]
}

// NewReviewStats creates the per-product stats cache. A failed fetch yields {0, 0}.
func NewReviewStats(backend Backend, opts ...cache.Option) (*ReviewStats, error) {
	loader, err := cache.New("review-stats",
		func(ctx context.Context, productID string) (sdk.ReviewStats, error) {
			reviews, err := backend.ProductReviews(ctx, productID)
			if err != nil {
				return sdk.ReviewStats{}, err
			}
			return sdk.AggregateReviews(reviews), nil
		},
		func(string) sdk.ReviewStats { return sdk.ReviewStats{} },
		opts...,
	)
	if err != nil {
		return nil, err
	}
	return &ReviewStats{loader: loader}, nil
}

// For returns the stats of productID. An empty id yields zero stats without I/O.
func (r *ReviewStats) For(ctx context.Context, productID string) sdk.ReviewStats {
	if productID == "" {
		return sdk.ReviewStats{}
	}
	return r.loader.Get(ctx, productID)
}

// Invalidate forgets the stats of productID, e.g. after a new review.
func (r *ReviewStats) Invalidate(productID string) {
	r.loader.Invalidate(productID)
}
