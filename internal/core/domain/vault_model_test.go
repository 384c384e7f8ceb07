package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-wallet/keyring-daemon/pkg/keyring"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon abandon about"
	testPassphrase = "supersecurepassphrase"
	// base58 of 32 bytes
	testPublicKey = "BPFLoaderUpgradeab1e11111111111111111111111"
)

var testKDFParams = keyring.KDFParams{N: 1 << 10, R: 8, P: 1}

func testSecretSet() SecretSet {
	return SecretSet{
		"account-1": Secret{
			Type:      MnemonicSecret,
			Mnemonic:  testMnemonic,
			PublicKey: testPublicKey,
		},
	}
}

func TestNewVaultIsLocked(t *testing.T) {
	vault, err := NewVault(testSecretSet(), testPassphrase, testKDFParams)
	require.NoError(t, err)

	assert.True(t, vault.IsInitialized())
	assert.True(t, vault.IsLocked())
	assert.True(t, vault.Locked)

	_, err = vault.Secrets()
	assert.Equal(t, ErrVaultMustBeUnlocked, err)
}

func TestFailingNewVault(t *testing.T) {
	_, err := NewVault(testSecretSet(), "", testKDFParams)
	assert.Equal(t, keyring.ErrNullPassphrase, err)

	malformed := SecretSet{
		"account-1": Secret{Type: MnemonicSecret, Mnemonic: "nope", PublicKey: testPublicKey},
	}
	_, err = NewVault(malformed, testPassphrase, testKDFParams)
	assert.Equal(t, ErrMalformedSecret, err)
}

func TestVaultUnlockReturnsStoredSecrets(t *testing.T) {
	secrets := testSecretSet()
	vault, err := NewVault(secrets, testPassphrase, testKDFParams)
	require.NoError(t, err)

	require.NoError(t, vault.Unlock(testPassphrase))
	assert.False(t, vault.IsLocked())
	assert.False(t, vault.Locked)

	revealed, err := vault.Secrets()
	require.NoError(t, err)
	assert.Equal(t, secrets, revealed)

	// unlocking an unlocked vault is a no-op
	require.NoError(t, vault.Unlock(testPassphrase))
}

func TestVaultUnlockWithWrongPassphrase(t *testing.T) {
	vault, err := NewVault(testSecretSet(), testPassphrase, testKDFParams)
	require.NoError(t, err)

	err = vault.Unlock("wrongpassphrase")
	assert.Equal(t, ErrInvalidPassphrase, err)
	assert.True(t, vault.IsLocked())

	// an uninitialized vault fails the same way as a wrong passphrase
	empty := &Vault{}
	assert.Equal(t, ErrInvalidPassphrase, empty.Unlock(testPassphrase))
}

func TestVaultLockIsIdempotent(t *testing.T) {
	vault, err := NewVault(testSecretSet(), testPassphrase, testKDFParams)
	require.NoError(t, err)
	require.NoError(t, vault.Unlock(testPassphrase))

	vault.Lock()
	assert.True(t, vault.IsLocked())
	assert.True(t, vault.Locked)
	vault.Lock()
	assert.True(t, vault.IsLocked())

	_, err = vault.Secrets()
	assert.Equal(t, ErrVaultMustBeUnlocked, err)
	assert.Equal(t, ErrVaultMustBeUnlocked, vault.UpdateSecrets(testSecretSet()))
}

func TestVaultUpdateSecrets(t *testing.T) {
	vault, err := NewVault(testSecretSet(), testPassphrase, testKDFParams)
	require.NoError(t, err)
	require.NoError(t, vault.Unlock(testPassphrase))

	updated := testSecretSet()
	updated["account-2"] = Secret{Type: ViewOnlySecret, PublicKey: "So11111111111111111111111111111111111111112"}
	require.NoError(t, vault.UpdateSecrets(updated))

	// record round-trips through lock/unlock
	vault.Lock()
	require.NoError(t, vault.Unlock(testPassphrase))
	revealed, err := vault.Secrets()
	require.NoError(t, err)
	assert.Equal(t, updated, revealed)
}

func TestVaultChangePassphrase(t *testing.T) {
	vault, err := NewVault(testSecretSet(), testPassphrase, testKDFParams)
	require.NoError(t, err)

	require.NoError(t, vault.ChangePassphrase(testPassphrase, "newpassphrase"))

	assert.Equal(t, ErrInvalidPassphrase, vault.Unlock(testPassphrase))
	require.NoError(t, vault.Unlock("newpassphrase"))

	revealed, err := vault.Secrets()
	require.NoError(t, err)
	assert.Equal(t, testSecretSet(), revealed)
}

func TestFailingVaultChangePassphrase(t *testing.T) {
	vault, err := NewVault(testSecretSet(), testPassphrase, testKDFParams)
	require.NoError(t, err)
	record := vault.EncryptedSecrets

	err = vault.ChangePassphrase("wrongpassphrase", "newpassphrase")
	assert.Equal(t, ErrInvalidPassphrase, err)
	// on failure the record is unchanged
	assert.Equal(t, record, vault.EncryptedSecrets)

	err = vault.ChangePassphrase(testPassphrase, "")
	assert.Equal(t, keyring.ErrNullPassphrase, err)
	assert.Equal(t, record, vault.EncryptedSecrets)

	empty := &Vault{}
	assert.Equal(t, ErrVaultNotInitialized, empty.ChangePassphrase("a", "b"))
}
