package keyring

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPrivateKey() []byte {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	return ed25519.NewKeyFromSeed(seed)
}

func asJSONArray(key []byte) string {
	elems := make([]int, len(key))
	for i, b := range key {
		elems[i] = int(b)
	}
	buf, _ := json.Marshal(elems)
	return string(buf)
}

func TestDecodePrivateKey(t *testing.T) {
	key := testPrivateKey()

	tests := []struct {
		name  string
		input string
	}{
		{"json array", asJSONArray(key)},
		{"base58", base58.Encode(key)},
		{"hex", hex.EncodeToString(key)},
		{"hex with 0x prefix", "0x" + hex.EncodeToString(key)},
		{"surrounding whitespace", "  " + base58.Encode(key) + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := DecodePrivateKey(tt.input)
			require.NoError(t, err)
			assert.Equal(t, key, decoded)
		})
	}
}

func TestDecodePrivateKeyYieldsSamePublicKey(t *testing.T) {
	key := testPrivateKey()

	fromJSON, err := DecodePrivateKey(asJSONArray(key))
	require.NoError(t, err)
	fromBase58, err := DecodePrivateKey(base58.Encode(key))
	require.NoError(t, err)

	pubFromJSON, err := PublicKeyFromPrivateKey(fromJSON)
	require.NoError(t, err)
	pubFromBase58, err := PublicKeyFromPrivateKey(fromBase58)
	require.NoError(t, err)
	assert.Equal(t, pubFromJSON, pubFromBase58)
}

func TestFailingDecodePrivateKey(t *testing.T) {
	key := testPrivateKey()
	mismatched := append([]byte{}, key...)
	mismatched[ed25519.PrivateKeySize-1] ^= 0xff

	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"empty", "", ErrInvalidSecretFormat},
		{"blank", "   ", ErrInvalidSecretFormat},
		{"json wrong length", asJSONArray(key[:32]), ErrInvalidSecretFormat},
		{"json out of range element", "[256" + strings.Repeat(",256", 63) + "]", ErrInvalidSecretFormat},
		{"json not an array of numbers", `["a","b"]`, ErrInvalidSecretFormat},
		{"base58 wrong length", base58.Encode(key[:32]), ErrInvalidSecretFormat},
		{"hex wrong length", hex.EncodeToString(key[:32]), ErrInvalidSecretFormat},
		{"hex odd digits", hex.EncodeToString(key) + "a", ErrInvalidSecretFormat},
		{"not any format", "definitely-not-a-key!", ErrInvalidSecretFormat},
		{"mismatched public half", hex.EncodeToString(mismatched), ErrMismatchedKeypair},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePrivateKey(tt.input)
			assert.Equal(t, tt.err, err)
		})
	}
}

func TestIsValidPublicKey(t *testing.T) {
	key := testPrivateKey()
	pubKey, err := PublicKeyFromPrivateKey(key)
	require.NoError(t, err)

	assert.True(t, IsValidPublicKey(pubKey))
	assert.False(t, IsValidPublicKey(""))
	assert.False(t, IsValidPublicKey("0OIl"))
	assert.False(t, IsValidPublicKey(base58.Encode(key)))
}
