package sdk

import (
	"context"
	"net/http"
)

// ShoppingChecks returns the ticked-off state of the shopping list.
func (c *Client) ShoppingChecks(ctx context.Context) ([]ShoppingCheck, error) {
	var checks []ShoppingCheck
	if err := c.call(ctx, http.MethodGet, c.rootURL("/shopping/checks"), true, nil, &checks); err != nil {
		return nil, err
	}
	return checks, nil
}

// SetShoppingCheck stores the state of one shopping list item.
func (c *Client) SetShoppingCheck(ctx context.Context, check ShoppingCheck) error {
	return c.call(ctx, http.MethodPut, c.rootURL("/shopping/checks"), true, check, nil)
}
