// Package paging drains cursor-paginated Todoist listings into one slice.
package paging

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"
)

// Flatten consumes every page of pager in order and returns the
// concatenated items. The drain runs on its own goroutine so a caller
// whose ctx is cancelled returns promptly; the pager itself observes the
// same ctx on its next request.
func Flatten[T any](ctx context.Context, pager iter.Seq2[[]T, error]) ([]T, error) {
	g, gctx := errgroup.WithContext(ctx)

	items := []T{}
	g.Go(func() error {
		for page, err := range pager {
			if err != nil {
				return err
			}
			if err := gctx.Err(); err != nil {
				return err
			}
			items = append(items, page...)
		}
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return nil, err
		}
		return items, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Limit returns the first limit items. A limit of zero or less means no
// limit. It is applied after the full drain, so it never saves requests.
func Limit[T any](items []T, limit int) []T {
	if limit <= 0 || limit >= len(items) {
		return items
	}
	return items[:limit]
}
