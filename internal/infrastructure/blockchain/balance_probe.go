package blockchain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/halcyon-wallet/keyring-daemon/internal/core/ports"
)

type rpcBalanceProbe struct {
	endpoint string
	client   *http.Client
}

// NewRPCBalanceProbe returns a BalanceProbe that asks a JSON-RPC node for
// account balances. The timeout applies per request.
func NewRPCBalanceProbe(endpoint string, requestTimeout time.Duration) ports.BalanceProbe {
	return &rpcBalanceProbe{
		endpoint: endpoint,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type getBalanceResponse struct {
	Result *struct {
		Value uint64 `json:"value"`
	} `json:"result"`
	Error *rpcError `json:"error"`
}

func (p *rpcBalanceProbe) GetBalance(
	ctx context.Context, publicKey string,
) (decimal.Decimal, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "getBalance",
		Params:  []interface{}{publicKey},
	})
	if err != nil {
		return decimal.Zero, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, p.endpoint, bytes.NewReader(body),
	)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf(
			"balance probe: unexpected status %d", res.StatusCode,
		)
	}

	var parsed getBalanceResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return decimal.Zero, err
	}
	if parsed.Error != nil {
		return decimal.Zero, fmt.Errorf(
			"balance probe: rpc error %d: %s", parsed.Error.Code, parsed.Error.Message,
		)
	}
	if parsed.Result == nil {
		return decimal.Zero, fmt.Errorf("balance probe: malformed rpc response")
	}

	balance := decimal.NewFromBigInt(
		new(big.Int).SetUint64(parsed.Result.Value), 0,
	)
	return balance, nil
}
