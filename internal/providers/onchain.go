package providers

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/tokensentry/tokensentry/internal/chain"
	"github.com/tokensentry/tokensentry/internal/config"
)

// Standard token-metadata selectors.
const (
	selectorName   = "0x06fdde03"
	selectorSymbol = "0x95d89b41"
)

// OnchainClient reads token name/symbol straight from the contract via
// eth_call. This is the highest-priority identity source: when it
// answers, no indexer can contradict it.
type OnchainClient struct {
	c *client
}

func NewOnchainClient(cfg config.ProviderConfig) *OnchainClient {
	return &OnchainClient{c: newClient("evm_rpc", cfg, nil, 0)}
}

type ethCallResponse struct {
	Result string `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// TokenMetadata reads name() and symbol(). Either read may fail
// independently; both failing is an error.
func (o *OnchainClient) TokenMetadata(ctx context.Context, c chain.Chain, address string) (name, symbol string, err error) {
	name, nameErr := o.callString(ctx, c, address, selectorName)
	symbol, symErr := o.callString(ctx, c, address, selectorSymbol)
	if nameErr != nil && symErr != nil {
		return "", "", fmt.Errorf("onchain metadata: %w", nameErr)
	}
	return name, symbol, nil
}

func (o *OnchainClient) callString(ctx context.Context, c chain.Chain, address, selector string) (string, error) {
	payload := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "eth_call",
		"params": []any{
			map[string]string{"to": address, "data": selector},
			"latest",
		},
	}

	var resp ethCallResponse
	if err := o.c.postJSON(ctx, c.RPCURL, payload, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("eth_call: %d %s", resp.Error.Code, resp.Error.Message)
	}
	return decodeABIString(resp.Result)
}

// decodeABIString decodes a solidity string return value. Handles both
// the dynamic string encoding (offset + length + bytes) and the legacy
// bytes32 encoding some old tokens use.
func decodeABIString(result string) (string, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(result, "0x"))
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty call result")
	}

	// Legacy bytes32: a single right-padded word.
	if len(raw) == 32 {
		return strings.TrimRight(string(raw), "\x00"), nil
	}
	if len(raw) < 64 {
		return "", fmt.Errorf("short call result: %d bytes", len(raw))
	}

	offset := wordToInt(raw[:32])
	if offset+32 > len(raw) {
		return "", fmt.Errorf("string offset out of range")
	}
	length := wordToInt(raw[offset : offset+32])
	start := offset + 32
	if start+length > len(raw) {
		return "", fmt.Errorf("string length out of range")
	}
	return string(raw[start : start+length]), nil
}

func wordToInt(word []byte) int {
	n := 0
	// Only the low bytes matter for any sane offset or length.
	for _, b := range word[len(word)-8:] {
		n = n<<8 | int(b)
	}
	return n
}
