package todoist

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"strconv"
)

// Pager yields the pages of a cursor-paginated list endpoint in order.
// Iteration stops after the first error.
type Pager[T any] = iter.Seq2[[]T, error]

// page is the envelope of every cursor-paginated response. The completed
// tasks endpoints use "items" instead of "results".
type page[T any] struct {
	Results    []T     `json:"results"`
	Items      []T     `json:"items"`
	NextCursor *string `json:"next_cursor"`
}

func (p page[T]) entries() []T {
	if p.Results != nil {
		return p.Results
	}
	return p.Items
}

// paginate requests path page by page, following next_cursor until it is
// empty. Nothing is fetched until the returned sequence is ranged over.
func paginate[T any](ctx context.Context, cl *Client, resource, operation, path string, args Args) Pager[T] {
	return func(yield func([]T, error) bool) {
		query := queryValues(args)
		query.Set("limit", strconv.Itoa(cl.pageSize))

		for {
			var p page[T]
			err := cl.do(ctx, call{
				resource:  resource,
				operation: operation,
				method:    http.MethodGet,
				path:      path,
				query:     query,
			}, &p)
			if err != nil {
				yield(nil, fmt.Errorf("failed to list %s: %w", resource, err))
				return
			}
			if !yield(p.entries(), nil) {
				return
			}
			if p.NextCursor == nil || *p.NextCursor == "" {
				return
			}
			query.Set("cursor", *p.NextCursor)
		}
	}
}
