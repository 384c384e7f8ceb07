package dbbadger

import (
	"context"
	"sync"

	"github.com/timshannon/badgerhold/v4"

	"github.com/halcyon-wallet/keyring-daemon/internal/core/domain"
)

const vaultKey = "vault"

type vaultRepositoryImpl struct {
	store  *badgerhold.Store
	locker *sync.Mutex
}

// NewVaultRepositoryImpl returns a VaultRepository backed by the provided
// store. The encrypted record is kept under a single fixed key.
func NewVaultRepositoryImpl(store *badgerhold.Store) domain.VaultRepository {
	return &vaultRepositoryImpl{
		store:  store,
		locker: &sync.Mutex{},
	}
}

func (r *vaultRepositoryImpl) GetVault(ctx context.Context) (*domain.Vault, error) {
	r.locker.Lock()
	defer r.locker.Unlock()

	return r.getVault()
}

func (r *vaultRepositoryImpl) AddVault(ctx context.Context, vault *domain.Vault) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	if err := r.store.Insert(vaultKey, vault); err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrVaultAlreadyInitialized
		}
		return err
	}
	return nil
}

func (r *vaultRepositoryImpl) UpdateVault(
	ctx context.Context,
	updateFn func(v *domain.Vault) (*domain.Vault, error),
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	vault, err := r.getVault()
	if err != nil {
		return err
	}
	if vault == nil {
		return domain.ErrVaultNotInitialized
	}

	updatedVault, err := updateFn(vault)
	if err != nil {
		return err
	}
	return r.store.Upsert(vaultKey, updatedVault)
}

func (r *vaultRepositoryImpl) DeleteVault(ctx context.Context) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	if err := r.store.Delete(vaultKey, domain.Vault{}); err != nil &&
		err != badgerhold.ErrNotFound {
		return err
	}
	return nil
}

func (r *vaultRepositoryImpl) getVault() (*domain.Vault, error) {
	var vault domain.Vault
	if err := r.store.Get(vaultKey, &vault); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &vault, nil
}
