package keyring

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// slip10Modifier is the HMAC key used to turn a binary seed into the
// ed25519 master node, per SLIP-0010.
const slip10Modifier = "ed25519 seed"

// KeyPair holds a derived ed25519 keypair. PrivateKey is the 64-byte
// seed||publicKey form, PublicKey its trailing 32 bytes.
type KeyPair struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// DeriveKeyPairOpts is the struct given to the DeriveKeyPair method
type DeriveKeyPairOpts struct {
	Seed []byte
	Path DerivationPath
}

func (o DeriveKeyPairOpts) validate() error {
	if len(o.Seed) <= 0 {
		return ErrNullMnemonic
	}
	if len(o.Path) <= 0 {
		return ErrNullDerivationPath
	}
	for _, component := range o.Path {
		if component < hdkeychain.HardenedKeyStart {
			return ErrInvalidDerivationPath
		}
	}
	return nil
}

// DeriveKeyPair derives the ed25519 keypair for the provided seed and fully
// hardened path following SLIP-0010. The derivation is a pure function:
// identical seed and path always yield the identical keypair.
func DeriveKeyPair(opts DeriveKeyPairOpts) (*KeyPair, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	key, chainCode, err := masterKeyFromSeed(opts.Seed)
	if err != nil {
		return nil, err
	}
	for _, component := range opts.Path {
		key, chainCode, err = deriveChildKey(key, chainCode, component)
		if err != nil {
			return nil, err
		}
	}

	privateKey := ed25519.NewKeyFromSeed(key)
	publicKey := privateKey.Public().(ed25519.PublicKey)
	return &KeyPair{
		PublicKey:  publicKey,
		PrivateKey: privateKey,
	}, nil
}

func masterKeyFromSeed(seed []byte) ([]byte, []byte, error) {
	mac := hmac.New(sha512.New, []byte(slip10Modifier))
	mac.Write(seed)
	return splitDigest(mac.Sum(nil))
}

func deriveChildKey(key, chainCode []byte, index uint32) ([]byte, []byte, error) {
	indexBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(indexBytes, index)

	mac := hmac.New(sha512.New, chainCode)
	mac.Write([]byte{0x00})
	mac.Write(key)
	mac.Write(indexBytes)
	return splitDigest(mac.Sum(nil))
}

func splitDigest(digest []byte) ([]byte, []byte, error) {
	if len(digest) != sha512.Size {
		return nil, nil, ErrDerivationFailed
	}
	key, chainCode := digest[:32], digest[32:]
	if len(key) != ed25519.SeedSize || len(chainCode) != 32 {
		return nil, nil, ErrDerivationFailed
	}
	return key, chainCode, nil
}
