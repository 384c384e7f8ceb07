package dbbadger

import (
	"context"
	"sync"

	"github.com/timshannon/badgerhold/v4"

	"github.com/halcyon-wallet/keyring-daemon/internal/core/domain"
)

const registryKey = "registry"

type registryRepositoryImpl struct {
	store  *badgerhold.Store
	locker *sync.Mutex
}

// NewRegistryRepositoryImpl returns a RegistryRepository backed by the
// provided store
func NewRegistryRepositoryImpl(store *badgerhold.Store) domain.RegistryRepository {
	return &registryRepositoryImpl{
		store:  store,
		locker: &sync.Mutex{},
	}
}

func (r *registryRepositoryImpl) GetOrCreateRegistry(
	ctx context.Context,
) (*domain.Registry, error) {
	r.locker.Lock()
	defer r.locker.Unlock()

	return r.getOrCreateRegistry()
}

func (r *registryRepositoryImpl) UpdateRegistry(
	ctx context.Context,
	updateFn func(registry *domain.Registry) (*domain.Registry, error),
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	registry, err := r.getOrCreateRegistry()
	if err != nil {
		return err
	}
	updatedRegistry, err := updateFn(registry)
	if err != nil {
		return err
	}
	return r.store.Upsert(registryKey, updatedRegistry)
}

func (r *registryRepositoryImpl) DeleteRegistry(ctx context.Context) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	if err := r.store.Delete(registryKey, domain.Registry{}); err != nil &&
		err != badgerhold.ErrNotFound {
		return err
	}
	return nil
}

func (r *registryRepositoryImpl) getOrCreateRegistry() (*domain.Registry, error) {
	var registry domain.Registry
	if err := r.store.Get(registryKey, &registry); err != nil {
		if err == badgerhold.ErrNotFound {
			newRegistry := domain.NewRegistry()
			if err := r.store.Insert(registryKey, newRegistry); err != nil {
				return nil, err
			}
			return newRegistry, nil
		}
		return nil, err
	}
	return &registry, nil
}
