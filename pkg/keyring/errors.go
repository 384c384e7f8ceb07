package keyring

import "errors"

var (
	// ErrNullMnemonic ...
	ErrNullMnemonic = errors.New("mnemonic is null")
	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = errors.New("mnemonic is invalid")
	// ErrInvalidEntropySize ...
	ErrInvalidEntropySize = errors.New(
		"entropy size must be a multiple of 32 in the range [128,256]",
	)

	// ErrNullPassphrase ...
	ErrNullPassphrase = errors.New("passphrase must not be null")
	// ErrNullPlainText ...
	ErrNullPlainText = errors.New("text to encrypt must not be null")
	// ErrNullCypherText ...
	ErrNullCypherText = errors.New("cypher to decrypt must not be null")
	// ErrInvalidCypherText ...
	ErrInvalidCypherText = errors.New("cypher must be in base64 format")
	// ErrInvalidKDFParams ...
	ErrInvalidKDFParams = errors.New(
		"kdf params must have N a power of two > 1 and positive r, p",
	)

	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")
	// ErrMalformedDerivationPath ...
	ErrMalformedDerivationPath = errors.New(
		"path must not start or end with a '/' and " +
			"can optionally start with 'm/' for absolute paths",
	)
	// ErrInvalidDerivationPath is returned when deriving ed25519 keys along
	// a path with non-hardened components.
	ErrInvalidDerivationPath = errors.New(
		"derivation path must contain only hardened components",
	)
	// ErrDerivationFailed is returned when a derivation step yields key
	// material of unexpected length. It means corruption, not bad input.
	ErrDerivationFailed = errors.New("derivation produced malformed key material")

	// ErrInvalidSecretFormat is returned when a private key string cannot be
	// decoded by any of the supported encodings.
	ErrInvalidSecretFormat = errors.New(
		"private key must be a JSON byte array, base58 or hex string " +
			"decoding to 64 bytes",
	)
	// ErrMismatchedKeypair is returned when a decoded 64-byte secret key
	// embeds a public key that does not match its seed half.
	ErrMismatchedKeypair = errors.New(
		"secret key public half does not match its seed",
	)
	// ErrInvalidPublicKey ...
	ErrInvalidPublicKey = errors.New(
		"public key must be a base58 string decoding to 32 bytes",
	)
)
