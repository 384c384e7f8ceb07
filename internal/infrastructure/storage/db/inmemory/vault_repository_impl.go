package inmemory

import (
	"context"
	"sync"

	"github.com/halcyon-wallet/keyring-daemon/internal/core/domain"
)

// VaultRepositoryImpl represents an in memory storage
type VaultRepositoryImpl struct {
	vault  *domain.Vault
	locker *sync.Mutex
}

// NewVaultRepositoryImpl returns a new empty VaultRepositoryImpl
func NewVaultRepositoryImpl() domain.VaultRepository {
	return &VaultRepositoryImpl{
		locker: &sync.Mutex{},
	}
}

func (r *VaultRepositoryImpl) GetVault(ctx context.Context) (*domain.Vault, error) {
	r.locker.Lock()
	defer r.locker.Unlock()

	if r.vault == nil {
		return nil, nil
	}
	return persistedVaultCopy(r.vault), nil
}

func (r *VaultRepositoryImpl) AddVault(ctx context.Context, vault *domain.Vault) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	if r.vault != nil {
		return domain.ErrVaultAlreadyInitialized
	}
	r.vault = persistedVaultCopy(vault)
	return nil
}

func (r *VaultRepositoryImpl) UpdateVault(
	ctx context.Context,
	updateFn func(v *domain.Vault) (*domain.Vault, error),
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	if r.vault == nil {
		return domain.ErrVaultNotInitialized
	}
	updatedVault, err := updateFn(persistedVaultCopy(r.vault))
	if err != nil {
		return err
	}
	r.vault = persistedVaultCopy(updatedVault)
	return nil
}

func (r *VaultRepositoryImpl) DeleteVault(ctx context.Context) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	r.vault = nil
	return nil
}

// persistedVaultCopy keeps the exported fields only, like a real storage
// encoder would.
func persistedVaultCopy(v *domain.Vault) *domain.Vault {
	hash := make([]byte, len(v.PassphraseHash))
	copy(hash, v.PassphraseHash)
	return &domain.Vault{
		EncryptedSecrets: v.EncryptedSecrets,
		PassphraseHash:   hash,
		KDF:              v.KDF,
		Locked:           v.Locked,
	}
}
