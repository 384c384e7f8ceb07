package domain

import (
	"bytes"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/halcyon-wallet/keyring-daemon/pkg/keyring"
)

// IsInitialized returns whether the Vault holds an encrypted record
func (v *Vault) IsInitialized() bool {
	return len(v.EncryptedSecrets) > 0
}

// IsLocked returns whether the decrypted secret set is unavailable
func (v *Vault) IsLocked() bool {
	return v.secrets == nil
}

// Unlock attempts to decrypt the secret set with the provided passphrase.
// A missing record and a wrong passphrase are indistinguishable to the
// caller, both fail with ErrInvalidPassphrase.
func (v *Vault) Unlock(passphrase string) error {
	if !v.IsInitialized() {
		return ErrInvalidPassphrase
	}
	if !v.IsLocked() {
		return nil
	}

	plaintext, err := keyring.Decrypt(keyring.DecryptOpts{
		CypherText: v.EncryptedSecrets,
		Passphrase: passphrase,
		Params:     v.KDF,
	})
	if err != nil {
		return ErrInvalidPassphrase
	}
	secrets, err := parseSecretSet(plaintext)
	if err != nil {
		return ErrInvalidPassphrase
	}

	v.secrets = secrets
	v.passphrase = passphrase
	v.Locked = false
	return nil
}

// Lock discards the decrypted secret set. Safe to call from any state and
// idempotent.
func (v *Vault) Lock() {
	v.secrets = nil
	v.passphrase = ""
	v.Locked = true
}

// Secrets returns a copy of the decrypted secret set
func (v *Vault) Secrets() (SecretSet, error) {
	if v.IsLocked() {
		return nil, ErrVaultMustBeUnlocked
	}
	return v.secrets.Copy(), nil
}

// UpdateSecrets re-encrypts and replaces the stored secret set. Only valid
// while unlocked. On failure the current record is left untouched.
func (v *Vault) UpdateSecrets(secrets SecretSet) error {
	if v.IsLocked() {
		return ErrVaultMustBeUnlocked
	}
	for _, secret := range secrets {
		if err := secret.Validate(); err != nil {
			return err
		}
	}

	plaintext, err := serializeSecretSet(secrets)
	if err != nil {
		return err
	}
	encrypted, err := keyring.Encrypt(keyring.EncryptOpts{
		PlainText:  plaintext,
		Passphrase: v.passphrase,
		Params:     v.KDF,
	})
	if err != nil {
		return err
	}

	v.EncryptedSecrets = encrypted
	v.secrets = secrets.Copy()
	return nil
}

// ChangePassphrase re-encrypts the record under a new passphrase. The
// current passphrase is verified internally by decrypting the record, not
// trusted from caller state. All-or-nothing: any failure leaves the record
// unchanged.
func (v *Vault) ChangePassphrase(currentPassphrase, newPassphrase string) error {
	if !v.IsInitialized() {
		return ErrVaultNotInitialized
	}
	if len(newPassphrase) <= 0 {
		return keyring.ErrNullPassphrase
	}
	if !v.isValidPassphrase(currentPassphrase) {
		return ErrInvalidPassphrase
	}

	plaintext, err := keyring.Decrypt(keyring.DecryptOpts{
		CypherText: v.EncryptedSecrets,
		Passphrase: currentPassphrase,
		Params:     v.KDF,
	})
	if err != nil {
		return ErrInvalidPassphrase
	}
	encrypted, err := keyring.Encrypt(keyring.EncryptOpts{
		PlainText:  plaintext,
		Passphrase: newPassphrase,
		Params:     v.KDF,
	})
	if err != nil {
		return err
	}

	v.EncryptedSecrets = encrypted
	v.PassphraseHash = btcutil.Hash160([]byte(newPassphrase))
	if !v.IsLocked() {
		v.passphrase = newPassphrase
	}
	return nil
}

func (v *Vault) isValidPassphrase(passphrase string) bool {
	return bytes.Equal(v.PassphraseHash, btcutil.Hash160([]byte(passphrase)))
}
