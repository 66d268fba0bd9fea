package github

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// fetchAll drains a list-style endpoint page by page until the server stops
// signaling a next page or returns a short page. Items come back in server
// order. Any transport or decode failure aborts the whole fetch.
func fetchAll[T any](ctx context.Context, c *Client, path string, query url.Values, perPage int) ([]T, error) {
	return fetchCapped[T](ctx, c, path, query, perPage, 0)
}

// fetchCapped is fetchAll with an optional item cap; maxItems == 0 means
// unbounded. When the cap is hit the result is truncated to exactly maxItems.
func fetchCapped[T any](ctx context.Context, c *Client, path string, query url.Values, perPage, maxItems int) ([]T, error) {
	var all []T

	page := 1
	for {
		c.limiter.Wait(ctx)

		q := url.Values{}
		for key, vals := range query {
			q[key] = vals
		}
		q.Set("per_page", strconv.Itoa(perPage))
		q.Set("page", strconv.Itoa(page))

		body, resp, err := c.get(ctx, path, q)
		if err != nil {
			return nil, err
		}

		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		all = append(all, items...)

		hasNext := strings.Contains(resp.Header.Get("link"), `rel="next"`)
		if maxItems > 0 && len(all) >= maxItems {
			return all[:maxItems], nil
		}
		if !hasNext || len(items) < perPage {
			return all, nil
		}

		page++
	}
}
