package provider

import (
	"context"
	"errors"
	"sort"
)

// ErrNoneAvailable is returned by a Selector when no provider can serve.
var ErrNoneAvailable = errors.New("no available provider found")

// Selector picks a provider from the initialized set.
type Selector[T Provider] interface {
	Select(ctx context.Context, providers map[string]T) (T, error)
}

// HealthCheckSelector returns the first provider, in name order, whose
// IsAvailable reports true.
type HealthCheckSelector[T Provider] struct{}

// Select implements Selector.
func (s *HealthCheckSelector[T]) Select(ctx context.Context, providers map[string]T) (T, error) {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if p := providers[name]; p.IsAvailable(ctx) {
			return p, nil
		}
	}
	var zero T
	return zero, ErrNoneAvailable
}
