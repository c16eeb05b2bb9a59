// Package pager generalizes the offset-paged fetch loop every paged API needs:
// a PageFunc yields one page and the offset of the next, and Drain walks pages
// until the fetcher reports there are none left.
package pager

import (
	"context"
)

// Done is returned as the next offset when no further page exists.
const Done = -1

// PageFunc fetches the page starting at offset and returns its items together
// with the offset of the following page, or Done.
type PageFunc[T any] func(ctx context.Context, offset int) (items []T, next int, err error)

// Drain walks all pages starting at offset 0 and concatenates their items.
// maxPages caps the walk as a guard against a fetcher that never terminates;
// zero means no cap.
func Drain[T any](ctx context.Context, fetch PageFunc[T], maxPages int) ([]T, error) {
	var all []T

	offset := 0
	for page := 0; maxPages == 0 || page < maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return all, err
		}

		items, next, err := fetch(ctx, offset)
		if err != nil {
			return all, err
		}
		all = append(all, items...)

		if next == Done || next <= offset {
			break
		}
		offset = next
	}

	return all, nil
}
