package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// BalanceProbe answers the single question the keyring needs from the
// chain: does a derived address hold funds. Timeout policy belongs to the
// implementation, not to the callers.
type BalanceProbe interface {
	// GetBalance returns the balance of the account with the provided
	// base58 public key, in the chain's smallest denomination.
	GetBalance(ctx context.Context, publicKey string) (decimal.Decimal, error)
}
