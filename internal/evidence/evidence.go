// Package evidence defines the immutable bundle of provider payloads a
// single analysis runs against. Every field is independently nullable;
// a nil field means the provider failed or had nothing, and that absence
// is itself input to confidence scoring. A bundle is assembled once per
// analysis and never refetched mid-scoring.
package evidence

import (
	"strings"
	"time"
)

// Bundle is the union of all provider responses for one analysis.
type Bundle struct {
	Security *SecurityReport // security scanner (EVM)
	Market   *MarketReport   // liquidity indexer
	Explorer *ExplorerReport // block explorer (EVM)
	Ledger   *LedgerReport   // ledger authority service (non-EVM)
}

// SecurityReport is the scanner's view of a contract.
type SecurityReport struct {
	TokenName   string
	TokenSymbol string

	Honeypot      bool
	BuyTaxPct     float64
	SellTaxPct    float64
	CannotBuy     bool
	CannotSellAll bool

	OwnerAddress     string
	CanChangeBalance bool
	HiddenOwner      bool
	SelfDestruct     bool
	Blacklist        bool
	Mintable         bool
	Pausable         bool
	Proxy            bool
	OpenSource       bool

	HolderCount int
}

// TokenRef is one leg of a trading pair.
type TokenRef struct {
	Address string
	Name    string
	Symbol  string
}

// Pair is one trading pair reported by the liquidity indexer.
type Pair struct {
	PairAddress  string
	Chain        string
	Base         TokenRef
	Quote        TokenRef
	LiquidityUSD *float64 // nil when the indexer omits liquidity
	Volume24hUSD float64
	CreatedAt    time.Time // zero when unknown
}

// MarketReport lists the trading pairs referencing an address.
type MarketReport struct {
	Pairs []Pair
}

// BestPair returns the pair with an exact leg-address match when one
// exists, otherwise the highest-liquidity pair. Returns nil for an
// empty report.
func (m *MarketReport) BestPair(address string) *Pair {
	if m == nil || len(m.Pairs) == 0 {
		return nil
	}
	var fallback *Pair
	for i := range m.Pairs {
		p := &m.Pairs[i]
		if strings.EqualFold(p.Base.Address, address) || strings.EqualFold(p.Quote.Address, address) {
			return p
		}
		if fallback == nil || liq(p) > liq(fallback) {
			fallback = p
		}
	}
	return fallback
}

// OldestPairCreation returns the earliest known pair-creation time, used
// as a proxy for token deployment age.
func (m *MarketReport) OldestPairCreation() (time.Time, bool) {
	if m == nil {
		return time.Time{}, false
	}
	var oldest time.Time
	for _, p := range m.Pairs {
		if p.CreatedAt.IsZero() {
			continue
		}
		if oldest.IsZero() || p.CreatedAt.Before(oldest) {
			oldest = p.CreatedAt
		}
	}
	return oldest, !oldest.IsZero()
}

func liq(p *Pair) float64 {
	if p.LiquidityUSD == nil {
		return 0
	}
	return *p.LiquidityUSD
}

// ExplorerReport is the block explorer's view of a contract.
type ExplorerReport struct {
	ContractName   string
	Verified       bool
	Proxy          bool
	Implementation string
	Creator        string
	CreationTx     string
	CreatedAt      *time.Time // resolved creation-block timestamp, when the lookup succeeded
}

// LedgerReport describes a non-EVM token account. Authority fields are
// empty strings when the authority is absent or burned.
type LedgerReport struct {
	MintAuthority   string
	FreezeAuthority string
	Supply          string
	Decimals        int
	Initialized     bool
	HolderCount     int
	Verified        bool
}
