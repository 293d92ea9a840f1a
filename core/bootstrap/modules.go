package bootstrap

import (
	"context"
	"fmt"
)

// ServiceProvider wires application services on top of initialized infrastructure.
type ServiceProvider[T any] interface {
	Provide(ctx context.Context, res *Result) (T, error)
}

// ServiceProviderFunc adapts a function to the ServiceProvider interface.
type ServiceProviderFunc[T any] func(ctx context.Context, res *Result) (T, error)

// Provide executes the underlying function.
func (f ServiceProviderFunc[T]) Provide(ctx context.Context, res *Result) (T, error) {
	return f(ctx, res)
}

// RunWith runs the pipeline and hands the result to provider.
// The database is closed again when the provider fails.
func RunWith[T any](ctx context.Context, opts Options, provider ServiceProvider[T]) (T, error) {
	var zero T
	if provider == nil {
		return zero, fmt.Errorf("bootstrap: nil service provider")
	}
	res, err := Run(opts)
	if err != nil {
		return zero, err
	}
	svc, err := provider.Provide(ctx, res)
	if err != nil {
		_ = res.DB.Close()
		return zero, fmt.Errorf("bootstrap: services: %w", err)
	}
	return svc, nil
}
