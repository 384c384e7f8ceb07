package application

import "fmt"

var (
	// ErrWalletNotInitialized is returned when attempting an operation that
	// needs an initialized wallet.
	ErrWalletNotInitialized = fmt.Errorf("wallet not initialized")
	// ErrWalletAlreadyInitialized ...
	ErrWalletAlreadyInitialized = fmt.Errorf("wallet is already initialized")
	// ErrWalletIsLocked gates every account-mutating and secret-revealing
	// operation.
	ErrWalletIsLocked = fmt.Errorf("wallet must be unlocked to perform this operation")
	// ErrNoMnemonicSeed is returned when deriving the next account from a
	// wallet that holds no mnemonic-backed account, for example one set up
	// from an imported private key only.
	ErrNoMnemonicSeed = fmt.Errorf("wallet has no mnemonic to derive accounts from")
	// ErrNoDerivableAccounts is returned when every derivation attempt in
	// the scan window fails.
	ErrNoDerivableAccounts = fmt.Errorf("no accounts could be derived from the mnemonic")
	// ErrNoScanInProgress ...
	ErrNoScanInProgress = fmt.Errorf("no import scan in progress")
	// ErrNotAScanCandidate ...
	ErrNotAScanCandidate = fmt.Errorf("public key is not among the scanned candidates")
)
