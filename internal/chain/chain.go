// Package chain classifies raw address strings and resolves which network
// an EVM contract lives on.
package chain

import "errors"

// ErrInvalidAddress is returned when an input matches no supported
// address format. It is the only classification error surfaced to callers.
var ErrInvalidAddress = errors.New("address matches no supported format")

// Kind is the coarse address family of an input string.
type Kind int

const (
	KindInvalid Kind = iota
	KindEVM
	KindLedgerB58
)

func (k Kind) String() string {
	switch k {
	case KindEVM:
		return "evm"
	case KindLedgerB58:
		return "ledger_b58"
	default:
		return "invalid"
	}
}

// Chain identifies one supported network.
type Chain struct {
	ID         string // canonical slug, e.g. "ethereum"
	Name       string
	NumericID  string // chain id used by the scanner and explorer APIs
	Kind       Kind
	RPCURL     string // default public JSON-RPC endpoint (EVM only)
}

// Supported networks. Ethereum is the primary chain and the detection
// default; the EVM probe order below is fixed.
var (
	Ethereum = Chain{ID: "ethereum", Name: "Ethereum", NumericID: "1", Kind: KindEVM, RPCURL: "https://eth.llamarpc.com"}
	BSC      = Chain{ID: "bsc", Name: "BNB Smart Chain", NumericID: "56", Kind: KindEVM, RPCURL: "https://binance.llamarpc.com"}
	Base     = Chain{ID: "base", Name: "Base", NumericID: "8453", Kind: KindEVM, RPCURL: "https://base.llamarpc.com"}
	Polygon  = Chain{ID: "polygon", Name: "Polygon", NumericID: "137", Kind: KindEVM, RPCURL: "https://polygon-rpc.com"}
	Arbitrum = Chain{ID: "arbitrum", Name: "Arbitrum One", NumericID: "42161", Kind: KindEVM, RPCURL: "https://arb1.arbitrum.io/rpc"}
	Solana   = Chain{ID: "solana", Name: "Solana", NumericID: "solana", Kind: KindLedgerB58}
)

// EVMProbeOrder is the fixed order in which unknown EVM contracts are
// probed during chain detection.
var EVMProbeOrder = []Chain{Ethereum, BSC, Base, Polygon, Arbitrum}

// Default is the chain assumed when every probe fails.
var Default = Ethereum

// ByID returns the chain with the given canonical slug.
func ByID(id string) (Chain, bool) {
	for _, c := range append(EVMProbeOrder, Solana) {
		if c.ID == id {
			return c, true
		}
	}
	return Chain{}, false
}
