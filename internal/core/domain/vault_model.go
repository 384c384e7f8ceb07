package domain

import (
	"github.com/btcsuite/btcd/btcutil"

	"github.com/halcyon-wallet/keyring-daemon/pkg/keyring"
)

// Vault is the encrypted-at-rest container of all account secrets.
// Only the exported fields are ever persisted: the decrypted secret set and
// the passphrase needed to re-encrypt it live in unexported fields that the
// storage encoders skip.
type Vault struct {
	// EncryptedSecrets is the base64 AES-GCM blob of the serialized
	// SecretSet, with the scrypt salt appended.
	EncryptedSecrets string
	// PassphraseHash is the Hash160 of the unlock passphrase, used to fail
	// fast on passphrase changes without a full KDF round.
	PassphraseHash []byte
	// KDF are the scrypt parameters the blob was encrypted with.
	KDF keyring.KDFParams
	// Locked mirrors the runtime lock state so that a freshly started
	// process knows which UI to present before any unlock attempt.
	Locked bool

	secrets    SecretSet
	passphrase string
}

// NewVault encrypts the provided secret set under the passphrase and
// returns a Vault in locked state.
func NewVault(
	secrets SecretSet, passphrase string, kdf keyring.KDFParams,
) (*Vault, error) {
	if len(passphrase) <= 0 {
		return nil, keyring.ErrNullPassphrase
	}
	for _, secret := range secrets {
		if err := secret.Validate(); err != nil {
			return nil, err
		}
	}

	plaintext, err := serializeSecretSet(secrets)
	if err != nil {
		return nil, err
	}
	encrypted, err := keyring.Encrypt(keyring.EncryptOpts{
		PlainText:  plaintext,
		Passphrase: passphrase,
		Params:     kdf,
	})
	if err != nil {
		return nil, err
	}

	return &Vault{
		EncryptedSecrets: encrypted,
		PassphraseHash:   btcutil.Hash160([]byte(passphrase)),
		KDF:              kdf,
		Locked:           true,
	}, nil
}
