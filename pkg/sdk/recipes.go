package sdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListRecipes returns the public catalog, optionally filtered by name.
func (c *Client) ListRecipes(ctx context.Context, filter RecipeFilter) ([]Recipe, error) {
	endpoint := c.collection
	if filter.Name != "" {
		endpoint += "?" + url.Values{"name": {filter.Name}}.Encode()
	}

	var recipes []Recipe
	if err := c.call(ctx, http.MethodGet, endpoint, false, nil, &recipes); err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// GetRecipe fetches a single recipe by id.
func (c *Client) GetRecipe(ctx context.Context, id ID) (*Recipe, error) {
	if id == "" {
		return nil, fmt.Errorf("recipe id is required")
	}
	var recipe Recipe
	if err := c.call(ctx, http.MethodGet, c.collectionURL("/"+url.PathEscape(id.String())), false, nil, &recipe); err != nil {
		return nil, fmt.Errorf("recipe %s not found: %w", id, err)
	}
	return &recipe, nil
}

// MyRecipes returns recipes owned by the authenticated user.
func (c *Client) MyRecipes(ctx context.Context) ([]Recipe, error) {
	var recipes []Recipe
	if err := c.call(ctx, http.MethodGet, c.collectionURL("/mine"), true, nil, &recipes); err != nil {
		return nil, fmt.Errorf("failed to list own recipes: %w", err)
	}
	return recipes, nil
}

// CreateRecipe creates a recipe and returns the stored version.
func (c *Client) CreateRecipe(ctx context.Context, recipe Recipe) (*Recipe, error) {
	if recipe.Name == "" {
		return nil, fmt.Errorf("recipe name is required")
	}
	var created Recipe
	if err := c.call(ctx, http.MethodPost, c.collection, true, recipe, &created); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return &created, nil
}

// UpdateRecipe replaces the recipe with the given id.
func (c *Client) UpdateRecipe(ctx context.Context, id ID, recipe Recipe) (*Recipe, error) {
	if id == "" {
		return nil, fmt.Errorf("recipe id is required")
	}
	var updated Recipe
	if err := c.call(ctx, http.MethodPut, c.collectionURL("/"+url.PathEscape(id.String())), true, recipe, &updated); err != nil {
		return nil, fmt.Errorf("failed to update recipe %s: %w", id, err)
	}
	return &updated, nil
}

// DeleteRecipe removes the recipe with the given id.
func (c *Client) DeleteRecipe(ctx context.Context, id ID) error {
	if id == "" {
		return fmt.Errorf("recipe id is required")
	}
	if err := c.call(ctx, http.MethodDelete, c.collectionURL("/"+url.PathEscape(id.String())), true, nil, nil); err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", id, err)
	}
	return nil
}
