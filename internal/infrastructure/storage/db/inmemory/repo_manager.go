package inmemory

import (
	"github.com/halcyon-wallet/keyring-daemon/internal/core/domain"
	"github.com/halcyon-wallet/keyring-daemon/internal/core/ports"
)

// repoManager is a volatile storage backend, used by tests and by daemon
// runs without a datadir.
type repoManager struct {
	vaultRepository    domain.VaultRepository
	registryRepository domain.RegistryRepository
}

// NewRepoManager returns a RepoManager backed by process memory
func NewRepoManager() ports.RepoManager {
	return &repoManager{
		vaultRepository:    NewVaultRepositoryImpl(),
		registryRepository: NewRegistryRepositoryImpl(),
	}
}

func (m *repoManager) VaultRepository() domain.VaultRepository {
	return m.vaultRepository
}

func (m *repoManager) RegistryRepository() domain.RegistryRepository {
	return m.registryRepository
}

func (m *repoManager) Close() {}
