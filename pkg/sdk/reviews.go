package sdk

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Review is a single product review. Only Stars is used for aggregation.
type Review struct {
	ID      json.RawMessage `json:"id,omitempty"`
	Stars   json.RawMessage `json:"stars"`
	Comment string          `json:"comment,omitempty"`
	Author  string          `json:"author,omitempty"`
}

// StarValue returns the numeric star rating, or 0 when it is missing, not
// numeric or not finite.
func (r Review) StarValue() float64 {
	if len(r.Stars) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(r.Stars, &n); err == nil {
		return finite(n)
	}
	var s string
	if err := json.Unmarshal(r.Stars, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return finite(v)
		}
	}
	return 0
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ReviewStats is the client-side aggregate over a product's reviews.
type ReviewStats struct {
	RatingAvg   float64 `json:"ratingAvg"`
	RatingCount int     `json:"ratingCount"`
}

// ProductReviews fetches GET {root}/review/product/{id}. A non-array body yields no reviews.
func (c *Client) ProductReviews(ctx context.Context, productID string) ([]Review, error) {
	var raw json.RawMessage
	endpoint := c.rootURL("/review/product/" + url.PathEscape(productID))
	if err := c.call(ctx, http.MethodGet, endpoint, false, nil, &raw); err != nil {
		return nil, err
	}

	var reviews []Review
	if err := json.Unmarshal(raw, &reviews); err != nil {
		return []Review{}, nil
	}
	return reviews, nil
}

// AggregateReviews computes the average star rating and count. No reviews yields {0, 0}.
func AggregateReviews(reviews []Review) ReviewStats {
	if len(reviews) == 0 {
		return ReviewStats{}
	}
	var sum float64
	for _, r := range reviews {
		sum += r.StarValue()
	}
	return ReviewStats{
		RatingAvg:   sum / float64(len(reviews)),
		RatingCount: len(reviews),
	}
}
