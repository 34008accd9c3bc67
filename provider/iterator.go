package provider

import "context"

// Iterator provides pull-based sequential access to a stream of values.
// The consumer calls Next() to retrieve values one at a time.
// Close must be called when done to release resources.
//
// Implementations deliver values in production order and treat a returned
// error as terminal: every later Next returns the same error.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// FromSlice returns an Iterator over items.
func FromSlice[T any](items []T) Iterator[T] {
	return &sliceIterator[T]{items: items}
}

// FromSliceWithError returns an Iterator that yields items and then fails
// with err instead of reporting exhaustion.
func FromSliceWithError[T any](items []T, err error) Iterator[T] {
	return &sliceIterator[T]{items: items, err: err}
}

type sliceIterator[T any] struct {
	items  []T
	index  int
	err    error
	closed bool
}

func (it *sliceIterator[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if it.closed || it.index >= len(it.items) {
		return zero, false, it.err
	}
	v := it.items[it.index]
	it.index++
	return v, true, nil
}

func (it *sliceIterator[T]) Close() error {
	it.closed = true
	return nil
}
