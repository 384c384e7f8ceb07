package keyring

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// privateKeyParser attempts to decode one supported private key encoding.
// It reports false when the input does not belong to its format, decoded
// material of the wrong length included.
type privateKeyParser func(input string) ([]byte, bool)

// Parsers are tried in strict order. A format that parses but yields the
// wrong length must not win, the next candidate format is tried instead.
var privateKeyParsers = []privateKeyParser{
	parseJSONByteArray,
	parseBase58PrivateKey,
	parseHexPrivateKey,
}

// DecodePrivateKey decodes a raw private key string given in JSON byte
// array, base58 or hex form into its canonical 64-byte representation.
func DecodePrivateKey(input string) ([]byte, error) {
	trimmed := strings.TrimSpace(input)
	if len(trimmed) <= 0 {
		return nil, ErrInvalidSecretFormat
	}

	for _, parse := range privateKeyParsers {
		decoded, ok := parse(trimmed)
		if !ok {
			continue
		}
		if err := checkKeypairConsistency(decoded); err != nil {
			return nil, err
		}
		return decoded, nil
	}
	return nil, ErrInvalidSecretFormat
}

// IsValidPublicKey returns whether the provided string is a base58 encoding
// of a 32-byte public key
func IsValidPublicKey(s string) bool {
	decoded := base58.Decode(s)
	return len(decoded) == ed25519.PublicKeySize
}

// EncodePublicKey returns the canonical base58 rendering of a public key
func EncodePublicKey(publicKey []byte) string {
	return base58.Encode(publicKey)
}

// EncodePrivateKey returns the canonical base58 rendering of a 64-byte
// private key
func EncodePrivateKey(privateKey []byte) string {
	return base58.Encode(privateKey)
}

// PublicKeyFromPrivateKey extracts the base58 public key embedded in a
// canonical 64-byte private key
func PublicKeyFromPrivateKey(privateKey []byte) (string, error) {
	if err := checkKeypairConsistency(privateKey); err != nil {
		return "", err
	}
	return base58.Encode(privateKey[ed25519.SeedSize:]), nil
}

func parseJSONByteArray(input string) ([]byte, bool) {
	if !strings.HasPrefix(input, "[") {
		return nil, false
	}
	var elems []int
	if err := json.Unmarshal([]byte(input), &elems); err != nil {
		return nil, false
	}
	if len(elems) != ed25519.PrivateKeySize {
		return nil, false
	}
	decoded := make([]byte, len(elems))
	for i, elem := range elems {
		if elem < 0 || elem > 255 {
			return nil, false
		}
		decoded[i] = byte(elem)
	}
	return decoded, true
}

func parseBase58PrivateKey(input string) ([]byte, bool) {
	decoded := base58.Decode(input)
	if len(decoded) != ed25519.PrivateKeySize {
		return nil, false
	}
	return decoded, true
}

func parseHexPrivateKey(input string) ([]byte, bool) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(input, "0x"), "0X")
	decoded, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, false
	}
	if len(decoded) != ed25519.PrivateKeySize {
		return nil, false
	}
	return decoded, true
}

func checkKeypairConsistency(privateKey []byte) error {
	if len(privateKey) != ed25519.PrivateKeySize {
		return ErrInvalidSecretFormat
	}
	derived := ed25519.NewKeyFromSeed(privateKey[:ed25519.SeedSize])
	if !bytes.Equal(derived[ed25519.SeedSize:], privateKey[ed25519.SeedSize:]) {
		return ErrMismatchedKeypair
	}
	return nil
}
