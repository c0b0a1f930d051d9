package sdk

import (
	"context"
	"errors"
	"net/http"
)

// Me calls GET {root}/me with the client's token provider and returns the
// decoded JSON object as-is. Missing fields are not defaulted.
func (c *Client) Me(ctx context.Context) (map[string]any, error) {
	var me map[string]any
	err := c.call(ctx, http.MethodGet, c.rootURL("/me"), true, nil, &me)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, &ProfileResolutionError{StatusCode: apiErr.StatusCode, Body: apiErr.Body}
		}
		return nil, err
	}
	if me == nil {
		me = map[string]any{}
	}
	return me, nil
}
