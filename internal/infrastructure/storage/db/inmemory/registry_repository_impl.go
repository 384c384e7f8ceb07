package inmemory

import (
	"context"
	"sync"

	"github.com/halcyon-wallet/keyring-daemon/internal/core/domain"
)

// RegistryRepositoryImpl represents an in memory storage
type RegistryRepositoryImpl struct {
	registry *domain.Registry
	locker   *sync.Mutex
}

// NewRegistryRepositoryImpl returns a new empty RegistryRepositoryImpl
func NewRegistryRepositoryImpl() domain.RegistryRepository {
	return &RegistryRepositoryImpl{
		locker: &sync.Mutex{},
	}
}

func (r *RegistryRepositoryImpl) GetOrCreateRegistry(
	ctx context.Context,
) (*domain.Registry, error) {
	r.locker.Lock()
	defer r.locker.Unlock()

	if r.registry == nil {
		r.registry = domain.NewRegistry()
	}
	return r.registry.Copy(), nil
}

func (r *RegistryRepositoryImpl) UpdateRegistry(
	ctx context.Context,
	updateFn func(registry *domain.Registry) (*domain.Registry, error),
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	if r.registry == nil {
		r.registry = domain.NewRegistry()
	}
	updatedRegistry, err := updateFn(r.registry.Copy())
	if err != nil {
		return err
	}
	r.registry = updatedRegistry.Copy()
	return nil
}

func (r *RegistryRepositoryImpl) DeleteRegistry(ctx context.Context) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	r.registry = nil
	return nil
}
