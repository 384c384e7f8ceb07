package domain

import "errors"

var (
	// ErrVaultMustBeUnlocked is thrown when trying to make an operation that requires the vault to be unlocked
	ErrVaultMustBeUnlocked = errors.New("vault must be unlocked to perform this operation")
	// ErrVaultNotInitialized ...
	ErrVaultNotInitialized = errors.New("vault is not initialized")
	// ErrVaultAlreadyInitialized ...
	ErrVaultAlreadyInitialized = errors.New("vault is already initialized")
	// ErrInvalidPassphrase ...
	ErrInvalidPassphrase = errors.New("passphrase is not valid")

	// ErrDuplicatePublicKey ...
	ErrDuplicatePublicKey = errors.New("an account with the same public key already exists")
	// ErrAccountNotFound ...
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidAccountPosition ...
	ErrInvalidAccountPosition = errors.New("account position is out of range")
	// ErrMalformedAccount is thrown when an account carries a derivation
	// index without being mnemonic-derived, or the other way around
	ErrMalformedAccount = errors.New(
		"derivation index must be set for mnemonic accounts only",
	)
	// ErrMalformedSecret ...
	ErrMalformedSecret = errors.New("secret payload does not match its type")
)
