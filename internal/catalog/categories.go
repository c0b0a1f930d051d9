package catalog

import (
	"context"

	"github.com/htwg-in-schneider/frontend-cooked/internal/cache"
	"github.com/htwg-in-schneider/frontend-cooked/pkg/sdk"
)

// categoryKey is the single global key of the category map.
type categoryKey struct{}

// CategoryLabels translates raw category keys to display labels.
type CategoryLabels struct {
	loader *cache.Loader[categoryKey, map[string]string]
}

// NewCategoryLabels creates the category map cache. A failed fetch yields an empty map.
func NewCategoryLabels(backend Backend, opts ...cache.Option) (*CategoryLabels, error) {
	loader, err := cache.New("category-labels",
		func(ctx context.Context, _ categoryKey) (map[string]string, error) {
			return backend.CategoryTranslations(ctx)
		},
		func(categoryKey) map[string]string { return map[string]string{} },
		append([]cache.Option{cache.WithKeyFunc(func(categoryKey) string { return "categories" })}, opts...)...,
	)
	if err != nil {
		return nil, err
	}
	return &CategoryLabels{loader: loader}, nil
}

// Map returns the raw-key to label mapping. The returned map is shared; do not modify it.
func (c *CategoryLabels) Map(ctx context.Context) map[string]string {
	return c.loader.Get(ctx, categoryKey{})
}

// Labels translates values, passing unknown keys through.
func (c *CategoryLabels) Labels(ctx context.Context, values []string) []string {
	return sdk.MapCategoryLabels(values, c.Map(ctx))
}
