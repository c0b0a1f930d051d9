package sdk

import (
	"context"
	"net/http"
	"net/url"
)

// MealPlan returns the user's planned meals.
func (c *Client) MealPlan(ctx context.Context) ([]MealPlanEntry, error) {
	var entries []MealPlanEntry
	if err := c.call(ctx, http.MethodGet, c.rootURL("/mealplan"), true, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AddMealPlanEntry schedules a recipe.
func (c *Client) AddMealPlanEntry(ctx context.Context, entry MealPlanEntry) (*MealPlanEntry, error) {
	var created MealPlanEntry
	if err := c.call(ctx, http.MethodPost, c.rootURL("/mealplan"), true, entry, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateMealPlanEntry replaces an existing entry.
func (c *Client) UpdateMealPlanEntry(ctx context.Context, id ID, entry MealPlanEntry) (*MealPlanEntry, error) {
	var updated MealPlanEntry
	if err := c.call(ctx, http.MethodPut, c.rootURL("/mealplan/"+url.PathEscape(id.String())), true, entry, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteMealPlanEntry removes one entry.
func (c *Client) DeleteMealPlanEntry(ctx context.Context, id ID) error {
	return c.call(ctx, http.MethodDelete, c.rootURL("/mealplan/"+url.PathEscape(id.String())), true, nil, nil)
}

// ClearMealPlan removes every entry.
func (c *Client) ClearMealPlan(ctx context.Context) error {
	return c.call(ctx, http.MethodDelete, c.rootURL("/mealplan"), true, nil, nil)
}
