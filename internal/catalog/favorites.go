package catalog

import (
	"context"
	"fmt"

	"github.com/htwg-in-schneider/frontend-cooked/internal/cache"
	"github.com/htwg-in-schneider/frontend-cooked/pkg/sdk"
)

type favoritesKey struct{}

// Favorites reads and updates the signed-in user's favorite ids.
//
// With deduplication enabled, reads share one in-flight request and a failed
// read yields an empty list. Without it every read hits the backend and
// errors are returned to the caller.
type Favorites struct {
	backend Backend
	loader  *cache.Loader[favoritesKey, []sdk.ID]
}

// NewFavorites creates the favorites read path.
func NewFavorites(backend Backend, dedup bool, opts ...cache.Option) (*Favorites, error) {
	f := &Favorites{backend: backend}
	if !dedup {
		return f, nil
	}

	loader, err := cache.New("favorite-ids",
		func(ctx context.Context, _ favoritesKey) ([]sdk.ID, error) {
			return backend.FavoriteIDs(ctx)
		},
		func(favoritesKey) []sdk.ID { return []sdk.ID{} },
		append([]cache.Option{cache.WithKeyFunc(func(favoritesKey) string { return "favorites" })}, opts...)...,
	)
	if err != nil {
		return nil, err
	}
	f.loader = loader
	return f, nil
}

// Deduplicated reports whether reads go through the cache.
func (f *Favorites) Deduplicated() bool {
	return f.loader != nil
}

// IDs returns the favorite recipe ids.
func (f *Favorites) IDs(ctx context.Context) ([]sdk.ID, error) {
	if f.loader != nil {
		return f.loader.Get(ctx, favoritesKey{}), nil
	}
	ids, err := f.backend.FavoriteIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	return ids, nil
}

// Contains reports whether id is a favorite.
func (f *Favorites) Contains(ctx context.Context, id sdk.ID) (bool, error) {
	ids, err := f.IDs(ctx)
	if err != nil {
		return false, err
	}
	for _, fav := range ids {
		if fav == id {
			return true, nil
		}
	}
	return false, nil
}

// Add marks id as favorite and returns the updated list.
func (f *Favorites) Add(ctx context.Context, id sdk.ID) ([]sdk.ID, error) {
	ids, err := f.backend.AddFavorite(ctx, id)
	if err != nil {
		f.Invalidate()
		return nil, fmt.Errorf("failed to add favorite %s: %w", id, err)
	}
	f.prime(ids)
	return ids, nil
}

// Remove unmarks id and returns the updated list.
func (f *Favorites) Remove(ctx context.Context, id sdk.ID) ([]sdk.ID, error) {
	ids, err := f.backend.RemoveFavorite(ctx, id)
	if err != nil {
		f.Invalidate()
		return nil, fmt.Errorf("failed to remove favorite %s: %w", id, err)
	}
	f.prime(ids)
	return ids, nil
}

// Invalidate drops cached ids so the next read refetches.
func (f *Favorites) Invalidate() {
	if f.loader != nil {
		f.loader.Invalidate(favoritesKey{})
	}
}

func (f *Favorites) prime(ids []sdk.ID) {
	if f.loader != nil {
		f.loader.Prime(favoritesKey{}, ids)
	}
}
