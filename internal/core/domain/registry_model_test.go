package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func derivedAccount(index uint32) AccountInfo {
	i := index
	return AccountInfo{
		ID:              fmt.Sprintf("derived-%d", index),
		Name:            fmt.Sprintf("Account %d", index+1),
		PublicKey:       fmt.Sprintf("pubkey-%d", index),
		Type:            MnemonicSecret,
		DerivationIndex: &i,
	}
}

func TestRegistryAddAccount(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.AddAccount(derivedAccount(0)))
	require.NoError(t, registry.AddAccount(derivedAccount(1)))
	assert.Len(t, registry.Accounts, 2)

	err := registry.AddAccount(AccountInfo{
		ID:        "imported-1",
		Name:      "Imported",
		PublicKey: "pubkey-0",
		Type:      PrivateKeySecret,
	})
	assert.Equal(t, ErrDuplicatePublicKey, err)
	assert.Len(t, registry.Accounts, 2)
}

func TestFailingRegistryAddAccount(t *testing.T) {
	index := uint32(0)
	tests := []struct {
		name    string
		account AccountInfo
	}{
		{
			name: "mnemonic account without derivation index",
			account: AccountInfo{
				ID: "a", PublicKey: "pk-a", Type: MnemonicSecret,
			},
		},
		{
			name: "imported account with derivation index",
			account: AccountInfo{
				ID: "b", PublicKey: "pk-b", Type: PrivateKeySecret,
				DerivationIndex: &index,
			},
		},
		{
			name: "view-only flag mismatch",
			account: AccountInfo{
				ID: "c", PublicKey: "pk-c", Type: ViewOnlySecret, ViewOnly: false,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry()
			assert.Equal(t, ErrMalformedAccount, registry.AddAccount(tt.account))
		})
	}
}

func TestRegistryNextDerivationIndexSurvivesRemoval(t *testing.T) {
	registry := NewRegistry()
	for i := uint32(0); i < 3; i++ {
		require.NoError(t, registry.AddAccount(derivedAccount(i)))
	}
	assert.Equal(t, uint32(3), registry.NextDerivationIndex())

	// removing the highest-indexed account must not roll the counter back
	require.NoError(t, registry.RemoveAccount("derived-2"))
	assert.Equal(t, uint32(3), registry.NextDerivationIndex())

	require.NoError(t, registry.AddAccount(derivedAccount(3)))
	assert.Equal(t, uint32(4), registry.NextDerivationIndex())
}

func TestRegistryRemoveAccount(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.AddAccount(derivedAccount(0)))

	assert.Equal(t, ErrAccountNotFound, registry.RemoveAccount("unknown"))
	require.NoError(t, registry.RemoveAccount("derived-0"))
	assert.Empty(t, registry.Accounts)
}

func TestRegistryRenameAccount(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.AddAccount(derivedAccount(0)))

	require.NoError(t, registry.RenameAccount("derived-0", "Savings"))
	account, err := registry.AccountByID("derived-0")
	require.NoError(t, err)
	assert.Equal(t, "Savings", account.Name)

	assert.Equal(t, ErrAccountNotFound, registry.RenameAccount("unknown", "x"))
}

func TestRegistryMoveAccount(t *testing.T) {
	registry := NewRegistry()
	for i := uint32(0); i < 3; i++ {
		require.NoError(t, registry.AddAccount(derivedAccount(i)))
	}

	require.NoError(t, registry.MoveAccount("derived-2", 0))
	ids := make([]string, 0, 3)
	for _, account := range registry.Accounts {
		ids = append(ids, account.ID)
	}
	assert.Equal(t, []string{"derived-2", "derived-0", "derived-1"}, ids)

	require.NoError(t, registry.MoveAccount("derived-2", 2))
	assert.Equal(t, "derived-2", registry.Accounts[2].ID)

	assert.Equal(t, ErrInvalidAccountPosition, registry.MoveAccount("derived-0", 3))
	assert.Equal(t, ErrInvalidAccountPosition, registry.MoveAccount("derived-0", -1))
	assert.Equal(t, ErrAccountNotFound, registry.MoveAccount("unknown", 0))
}

func TestRegistryHasDerivedAccounts(t *testing.T) {
	registry := NewRegistry()
	assert.False(t, registry.HasDerivedAccounts())

	require.NoError(t, registry.AddAccount(AccountInfo{
		ID: "imported-1", PublicKey: "pk-imported", Type: PrivateKeySecret,
	}))
	assert.False(t, registry.HasDerivedAccounts())

	require.NoError(t, registry.AddAccount(derivedAccount(0)))
	assert.True(t, registry.HasDerivedAccounts())
}
