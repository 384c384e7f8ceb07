package ports

import (
	"github.com/halcyon-wallet/keyring-daemon/internal/core/domain"
)

// RepoManager gives access to the repositories of all the domain entities
// and manages their shared lifecycle.
type RepoManager interface {
	VaultRepository() domain.VaultRepository
	RegistryRepository() domain.RegistryRepository

	Close()
}
