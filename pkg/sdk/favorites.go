package sdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// FavoriteIDs returns the ids of the user's favorite recipes.
func (c *Client) FavoriteIDs(ctx context.Context) ([]ID, error) {
	return c.idList(ctx, http.MethodGet, c.rootURL("/favorites/ids"))
}

// Favorites returns the user's favorite recipes.
func (c *Client) Favorites(ctx context.Context) ([]Recipe, error) {
	var raw json.RawMessage
	if err := c.call(ctx, http.MethodGet, c.rootURL("/favorites"), true, nil, &raw); err != nil {
		return nil, err
	}
	var recipes []Recipe
	if err := json.Unmarshal(raw, &recipes); err != nil {
		return []Recipe{}, nil
	}
	return recipes, nil
}

// AddFavorite marks a recipe as favorite and returns the updated id list.
func (c *Client) AddFavorite(ctx context.Context, id ID) ([]ID, error) {
	return c.idList(ctx, http.MethodPut, c.rootURL("/favorites/"+url.PathEscape(id.String())))
}

// RemoveFavorite unmarks a recipe and returns the updated id list.
func (c *Client) RemoveFavorite(ctx context.Context, id ID) ([]ID, error) {
	return c.idList(ctx, http.MethodDelete, c.rootURL("/favorites/"+url.PathEscape(id.String())))
}

// idList calls an authenticated endpoint answering with an id array; anything else yields an empty list.
func (c *Client) idList(ctx context.Context, method, endpoint string) ([]ID, error) {
	var raw json.RawMessage
	if err := c.call(ctx, method, endpoint, true, nil, &raw); err != nil {
		return nil, err
	}
	var ids []ID
	if err := json.Unmarshal(raw, &ids); err != nil || ids == nil {
		return []ID{}, nil
	}
	return ids, nil
}
