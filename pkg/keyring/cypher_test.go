package keyring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// weak params keep the scrypt rounds cheap in tests
var testKDFParams = KDFParams{N: 1 << 10, R: 8, P: 1}

func TestEncryptDecrypt(t *testing.T) {
	plaintext := "super secret message"
	passphrase := "supersecurekey"

	cyphertext, err := Encrypt(EncryptOpts{
		PlainText:  plaintext,
		Passphrase: passphrase,
		Params:     testKDFParams,
	})
	require.NoError(t, err)

	revealedtext, err := Decrypt(DecryptOpts{
		CypherText: cyphertext,
		Passphrase: passphrase,
		Params:     testKDFParams,
	})
	require.NoError(t, err)
	assert.Equal(t, plaintext, revealedtext)
}

func TestDecryptWithWrongPassphrase(t *testing.T) {
	cyphertext, err := Encrypt(EncryptOpts{
		PlainText:  "super secret message",
		Passphrase: "supersecurekey",
		Params:     testKDFParams,
	})
	require.NoError(t, err)

	_, err = Decrypt(DecryptOpts{
		CypherText: cyphertext,
		Passphrase: "notthekey",
		Params:     testKDFParams,
	})
	assert.Error(t, err)
}

func TestFailingEncrypt(t *testing.T) {
	tests := []struct {
		opts EncryptOpts
		err  error
	}{
		{
			opts: EncryptOpts{
				PlainText:  "",
				Passphrase: "supersecurekey",
				Params:     testKDFParams,
			},
			err: ErrNullPlainText,
		},
		{
			opts: EncryptOpts{
				PlainText:  "super secret message",
				Passphrase: "",
				Params:     testKDFParams,
			},
			err: ErrNullPassphrase,
		},
		{
			opts: EncryptOpts{
				PlainText:  "super secret message",
				Passphrase: "supersecurekey",
				Params:     KDFParams{N: 3, R: 8, P: 1},
			},
			err: ErrInvalidKDFParams,
		},
	}
	for _, tt := range tests {
		_, err := Encrypt(tt.opts)
		assert.Equal(t, tt.err, err)
	}
}

func TestFailingDecrypt(t *testing.T) {
	tests := []struct {
		opts DecryptOpts
		err  error
	}{
		{
			opts: DecryptOpts{
				CypherText: "",
				Passphrase: "supersecurekey",
				Params:     testKDFParams,
			},
			err: ErrNullCypherText,
		},
		{
			opts: DecryptOpts{
				CypherText: "not base64!",
				Passphrase: "supersecurekey",
				Params:     testKDFParams,
			},
			err: ErrInvalidCypherText,
		},
		{
			opts: DecryptOpts{
				CypherText: "dG9vc2hvcnQ=",
				Passphrase: "supersecurekey",
				Params:     testKDFParams,
			},
			err: ErrInvalidCypherText,
		},
	}
	for _, tt := range tests {
		_, err := Decrypt(tt.opts)
		assert.Equal(t, tt.err, err)
	}
}
