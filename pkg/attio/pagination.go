package attio

import (
	"context"
	"errors"

	"github.com/fivetwenty-io/attio/internal/constants"
)

// PaginationClient is the list operation the pagination helpers drive.
// Resource clients implement it by delegating to their list endpoint.
type PaginationClient[T any] interface {
	ListWithPath(ctx context.Context, path string, params *QueryParams) (*ListResponse[T], error)
}

// ListFunc adapts a plain list method to PaginationClient, ignoring the
// path argument:
//
//	attio.ForEachPage(ctx, attio.ListFunc[attio.Task](client.Tasks().List), "", params, nil, fn)
type ListFunc[T any] func(ctx context.Context, params *QueryParams) (*ListResponse[T], error)

// ListWithPath implements PaginationClient.
func (f ListFunc[T]) ListWithPath(ctx context.Context, _ string, params *QueryParams) (*ListResponse[T], error) {
	return f(ctx, params)
}

// PaginationOptions tunes the page-walking helpers.
type PaginationOptions struct {
	// PageSize sets the per-request limit when the params carry none.
	PageSize int
	// MaxPages bounds the number of pages fetched. Zero means unbounded.
	MaxPages int
}

// DefaultPaginationOptions returns the standard page-walking configuration.
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{
		PageSize: constants.LargePageSize,
		MaxPages: constants.MaxPages,
	}
}

// PaginationIterator walks a paginated collection item by item, fetching
// pages lazily as items are consumed.
type PaginationIterator[T any] struct {
	ctx    context.Context
	client PaginationClient[T]
	path   string
	params *QueryParams

	buffer []T
	done   bool
}

// NewPaginationIterator creates an iterator over the collection at path.
// The params are cloned, so the caller's copy is never mutated. Params
// without a limit fetch in pages of the package default size so the
// item buffer stays bounded.
func NewPaginationIterator[T any](ctx context.Context, client PaginationClient[T], path string, params *QueryParams) *PaginationIterator[T] {
	cloned := params.Clone()
	if cloned.Limit <= 0 {
		cloned.Limit = constants.DefaultPageSize
	}

	return &PaginationIterator[T]{
		ctx:    ctx,
		client: client,
		path:   path,
		params: cloned,
	}
}

// HasNext reports whether another item is available. Before the first fetch
// it is optimistic; Next surfaces fetch errors.
func (it *PaginationIterator[T]) HasNext() bool {
	if len(it.buffer) > 0 {
		return true
	}

	return !it.done
}

// Next returns the next item, fetching the following page when the current
// one is exhausted.
func (it *PaginationIterator[T]) Next() (T, error) {
	var zero T

	if len(it.buffer) == 0 {
		if it.done {
			return zero, constants.ErrIteratorExhausted
		}

		if err := it.fetchNextPage(); err != nil {
			it.done = true

			return zero, err
		}

		if len(it.buffer) == 0 {
			return zero, constants.ErrIteratorExhausted
		}
	}

	item := it.buffer[0]
	it.buffer = it.buffer[1:]

	return item, nil
}

// All drains the iterator and returns every remaining item.
func (it *PaginationIterator[T]) All() ([]T, error) {
	var all []T

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, constants.ErrIteratorExhausted) {
				break
			}

			return nil, err
		}

		all = append(all, item)
	}

	return all, nil
}

// ForEach invokes fn for every remaining item, stopping on the first error.
func (it *PaginationIterator[T]) ForEach(fn func(item T) error) error {
	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, constants.ErrIteratorExhausted) {
				return nil
			}

			return err
		}

		if err := fn(item); err != nil {
			return err
		}
	}

	return nil
}

func (it *PaginationIterator[T]) fetchNextPage() error {
	response, err := it.client.ListWithPath(it.ctx, it.path, it.params)
	if err != nil {
		return err
	}

	it.buffer = append(it.buffer, response.Data...)

	if !advanceParams(it.params, response) {
		it.done = true
	}

	return nil
}

// advanceParams mutates params to address the page after response and
// reports whether another page is available. A next cursor always wins;
// offset arithmetic is the fallback for endpoints that report more pages
// without one. Responses with no pagination block end iteration unless the
// page came back exactly full.
func advanceParams[T any](params *QueryParams, response *ListResponse[T]) bool {
	count := len(response.Data)
	if count == 0 {
		return false
	}

	if pagination := response.Pagination; pagination != nil {
		if cursor, ok := pagination.Next(); ok {
			params.Cursor = cursor
			params.Offset = 0

			return true
		}

		if !pagination.HasMore() {
			return false
		}

		params.Cursor = ""
		params.Offset += count

		return true
	}

	if params.Limit > 0 && count == params.Limit {
		params.Cursor = ""
		params.Offset += count

		return true
	}

	return false
}

// ForEachPage fetches pages sequentially and hands each page of items to fn.
func ForEachPage[T any](ctx context.Context, client PaginationClient[T], path string, params *QueryParams, options *PaginationOptions, fn func(items []T) error) error {
	if options == nil {
		options = DefaultPaginationOptions()
	}

	effective := params.Clone()
	if options.PageSize > 0 && effective.Limit == 0 {
		effective.Limit = options.PageSize
	}

	pages := 0

	for {
		response, err := client.ListWithPath(ctx, path, effective)
		if err != nil {
			return err
		}

		if err := fn(response.Data); err != nil {
			return err
		}

		pages++
		if options.MaxPages > 0 && pages >= options.MaxPages {
			return nil
		}

		if !advanceParams(effective, response) {
			return nil
		}
	}
}

// FetchAllPages collects every item of a paginated collection into one slice.
func FetchAllPages[T any](ctx context.Context, client PaginationClient[T], path string, params *QueryParams, options *PaginationOptions) ([]T, error) {
	var all []T

	err := ForEachPage(ctx, client, path, params, options, func(items []T) error {
		all = append(all, items...)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return all, nil
}

// PageResult carries one streamed page of results.
type PageResult[T any] struct {
	Items []T
	Err   error
}

// StreamPages fetches pages in a goroutine and delivers them on the returned
// channel. The channel is closed after the last page, an error, or context
// cancellation; an error is delivered as the final result.
func StreamPages[T any](ctx context.Context, client PaginationClient[T], path string, params *QueryParams, options *PaginationOptions) <-chan PageResult[T] {
	if options == nil {
		options = DefaultPaginationOptions()
	}

	effective := params.Clone()
	if options.PageSize > 0 && effective.Limit == 0 {
		effective.Limit = options.PageSize
	}

	maxPages := options.MaxPages
	results := make(chan PageResult[T])

	go func() {
		defer close(results)

		pages := 0

		for {
			response, err := client.ListWithPath(ctx, path, effective)
			if err != nil {
				select {
				case results <- PageResult[T]{Err: err}:
				case <-ctx.Done():
				}

				return
			}

			select {
			case results <- PageResult[T]{Items: response.Data}:
			case <-ctx.Done():
				return
			}

			pages++
			if maxPages > 0 && pages >= maxPages {
				return
			}

			if !advanceParams(effective, response) {
				return
			}
		}
	}()

	return results
}
