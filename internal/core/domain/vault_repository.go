package domain

import "context"

// VaultRepository persists the encrypted vault record. Only the exported
// fields of Vault ever reach storage.
type VaultRepository interface {
	// GetVault returns the stored vault, or nil if none was initialized yet.
	GetVault(ctx context.Context) (*Vault, error)
	// AddVault stores the vault of a freshly initialized wallet. It fails
	// if a vault is already stored.
	AddVault(ctx context.Context, vault *Vault) error
	// UpdateVault applies updateFn to the stored vault and persists the
	// result atomically.
	UpdateVault(
		ctx context.Context,
		updateFn func(v *Vault) (*Vault, error),
	) error
	// DeleteVault destroys the stored record. Irreversible.
	DeleteVault(ctx context.Context) error
}
