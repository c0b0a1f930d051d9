package sdk

import (
	"context"
	"net/http"
)

// CategoryTranslations fetches the raw-category-key to display-label mapping.
// A JSON body that is not an object yields an empty map.
func (c *Client) CategoryTranslations(ctx context.Context) (map[string]string, error) {
	var raw any
	if err := c.call(ctx, http.MethodGet, c.rootURL("/category/translation"), false, nil, &raw); err != nil {
		return nil, err
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return map[string]string{}, nil
	}
	labels := make(map[string]string, len(obj))
	for key, val := range obj {
		if s, ok := val.(string); ok {
			labels[key] = s
		}
	}
	return labels, nil
}

// MapCategoryLabels translates raw category keys to labels. Keys without a
// translation pass through unchanged and empty values are dropped.
func MapCategoryLabels(values []string, labels map[string]string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if label, ok := labels[v]; ok && label != "" {
			v = label
		}
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
