package domain

import (
	"encoding/json"

	"github.com/halcyon-wallet/keyring-daemon/pkg/keyring"
)

// SecretType discriminates the payload carried by a Secret.
type SecretType int

const (
	// MnemonicSecret is a BIP39 phrase plus the derivation index of the
	// account it backs.
	MnemonicSecret SecretType = iota
	// PrivateKeySecret is a raw 64-byte ed25519 secret key.
	PrivateKeySecret
	// ViewOnlySecret carries no signing material, just a public key.
	ViewOnlySecret
)

// Secret is the tagged signing material of a single account. Instances only
// ever live in memory or inside the vault's encrypted blob.
type Secret struct {
	Type            SecretType `json:"type"`
	Mnemonic        string     `json:"mnemonic,omitempty"`
	DerivationIndex uint32     `json:"derivationIndex,omitempty"`
	PrivateKey      []byte     `json:"privateKey,omitempty"`
	PublicKey       string     `json:"publicKey"`
}

// Validate checks that the payload matches the declared type
func (s Secret) Validate() error {
	if !keyring.IsValidPublicKey(s.PublicKey) {
		return ErrMalformedSecret
	}
	switch s.Type {
	case MnemonicSecret:
		if !keyring.IsMnemonicValid(s.Mnemonic) || len(s.PrivateKey) > 0 {
			return ErrMalformedSecret
		}
	case PrivateKeySecret:
		if len(s.Mnemonic) > 0 {
			return ErrMalformedSecret
		}
		if _, err := keyring.PublicKeyFromPrivateKey(s.PrivateKey); err != nil {
			return ErrMalformedSecret
		}
	case ViewOnlySecret:
		if len(s.Mnemonic) > 0 || len(s.PrivateKey) > 0 {
			return ErrMalformedSecret
		}
	default:
		return ErrMalformedSecret
	}
	return nil
}

// HasSigningCapability returns whether the secret can produce signatures
func (s Secret) HasSigningCapability() bool {
	return s.Type == MnemonicSecret || s.Type == PrivateKeySecret
}

// SecretSet is the decrypted content of the vault, keyed by account ID.
type SecretSet map[string]Secret

// Copy returns a deep copy of the set
func (s SecretSet) Copy() SecretSet {
	set := make(SecretSet, len(s))
	for id, secret := range s {
		if secret.PrivateKey != nil {
			privateKey := make([]byte, len(secret.PrivateKey))
			copy(privateKey, secret.PrivateKey)
			secret.PrivateKey = privateKey
		}
		set[id] = secret
	}
	return set
}

// FirstMnemonic returns the phrase of a mnemonic-backed secret in the set,
// if any. All mnemonic accounts of a wallet share the same seed phrase.
func (s SecretSet) FirstMnemonic() (string, bool) {
	for _, secret := range s {
		if secret.Type == MnemonicSecret {
			return secret.Mnemonic, true
		}
	}
	return "", false
}

func serializeSecretSet(set SecretSet) (string, error) {
	buf, err := json.Marshal(set)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func parseSecretSet(plaintext string) (SecretSet, error) {
	set := make(SecretSet)
	if err := json.Unmarshal([]byte(plaintext), &set); err != nil {
		return nil, err
	}
	return set, nil
}
