package domain

import "context"

// RegistryRepository persists the ordered account metadata list.
type RegistryRepository interface {
	// GetOrCreateRegistry returns the stored registry, creating an empty
	// one if needed.
	GetOrCreateRegistry(ctx context.Context) (*Registry, error)
	// UpdateRegistry applies updateFn to the stored registry and persists
	// the result atomically.
	UpdateRegistry(
		ctx context.Context,
		updateFn func(r *Registry) (*Registry, error),
	) error
	// DeleteRegistry drops all stored account metadata.
	DeleteRegistry(ctx context.Context) error
}
