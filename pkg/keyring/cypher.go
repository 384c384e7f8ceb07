package keyring

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"

	"golang.org/x/crypto/scrypt"
)

const saltSize = 32

// KDFParams are the scrypt parameters used to stretch a passphrase into an
// encryption key. They travel with the encrypted record so they can be
// tuned without invalidating existing records.
type KDFParams struct {
	N int
	R int
	P int
}

func (p KDFParams) validate() error {
	if p.N <= 1 || p.N&(p.N-1) != 0 || p.R <= 0 || p.P <= 0 {
		return ErrInvalidKDFParams
	}
	return nil
}

// DefaultKDFParams is the recommended key-stretching strength for records
// written to disk. Check the scrypt doc for other recommended values:
// https://godoc.org/golang.org/x/crypto/scrypt
var DefaultKDFParams = KDFParams{N: 1 << 17, R: 8, P: 1}

// EncryptOpts is the struct given to Encrypt method
type EncryptOpts struct {
	PlainText  string
	Passphrase string
	Params     KDFParams
}

func (o EncryptOpts) validate() error {
	if len(o.PlainText) <= 0 {
		return ErrNullPlainText
	}
	if len(o.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	return o.Params.validate()
}

// Encrypt encrypts a plaintext with an AES-GCM key derived from the
// provided passphrase. The random salt is appended to the returned
// base64 ciphertext.
func Encrypt(opts EncryptOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	key, salt, err := DeriveKey([]byte(opts.Passphrase), nil, opts.Params)
	if err != nil {
		return "", err
	}

	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(blockCipher)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(opts.PlainText), nil)
	ciphertext = append(ciphertext, salt...)

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptOpts is the struct given to Decrypt method
type DecryptOpts struct {
	CypherText string
	Passphrase string
	Params     KDFParams
}

func (o DecryptOpts) validate() error {
	if len(o.CypherText) <= 0 {
		return ErrNullCypherText
	}
	decoded, err := base64.StdEncoding.DecodeString(o.CypherText)
	if err != nil || len(decoded) <= saltSize {
		return ErrInvalidCypherText
	}
	if len(o.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	return o.Params.validate()
}

// Decrypt decrypts a cyphertext with the provided passphrase. The
// authentication tag check fails for a wrong passphrase as well as for a
// tampered record, callers cannot tell the two cases apart.
func Decrypt(opts DecryptOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	data, _ := base64.StdEncoding.DecodeString(opts.CypherText)
	salt, data := data[len(data)-saltSize:], data[:len(data)-saltSize]

	key, _, err := DeriveKey([]byte(opts.Passphrase), salt, opts.Params)
	if err != nil {
		return "", err
	}

	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(blockCipher)
	if err != nil {
		return "", err
	}
	if len(data) < gcm.NonceSize() {
		return "", ErrInvalidCypherText
	}
	nonce, text := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, text, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// DeriveKey derives a 32 byte array key from a custom passphrase
func DeriveKey(passphrase, salt []byte, params KDFParams) ([]byte, []byte, error) {
	if err := params.validate(); err != nil {
		return nil, nil, err
	}
	if salt == nil {
		salt = make([]byte, saltSize)
		if _, err := rand.Read(salt); err != nil {
			return nil, nil, err
		}
	}
	key, err := scrypt.Key(passphrase, salt, params.N, params.R, params.P, 32)
	if err != nil {
		return nil, nil, err
	}
	return key, salt, nil
}
