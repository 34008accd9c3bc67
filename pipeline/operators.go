package pipeline

import "context"

// Tap calls fn for each value and passes the value through unchanged.
// An error from fn ends the pipeline.
func Tap[T any](p *Pipeline[T], fn func(context.Context, T) error) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &tapIter[T]{source: p.create(ctx), fn: fn}
		},
	}
}

// Scan folds each value into an accumulator and yields the accumulator after
// every step, so downstream stages see running totals.
func Scan[T, R any](p *Pipeline[T], init R, fn func(R, T) R) *Pipeline[R] {
	return &Pipeline[R]{
		create: func(ctx context.Context) Iterator[R] {
			return &scanIter[T, R]{source: p.create(ctx), acc: init, fn: fn}
		},
	}
}

type tapIter[T any] struct {
	source Iterator[T]
	fn     func(context.Context, T) error
}

func (it *tapIter[T]) Next(ctx context.Context) (T, bool, error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return val, ok, err
	}
	if err := it.fn(ctx, val); err != nil {
		var zero T
		return zero, false, err
	}
	return val, true, nil
}

func (it *tapIter[T]) Close() error { return it.source.Close() }

type scanIter[T, R any] struct {
	source Iterator[T]
	acc    R
	fn     func(R, T) R
}

func (it *scanIter[T, R]) Next(ctx context.Context) (R, bool, error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		var zero R
		return zero, false, err
	}
	it.acc = it.fn(it.acc, val)
	return it.acc, true, nil
}

func (it *scanIter[T, R]) Close() error { return it.source.Close() }
