package resolve

import (
	"context"
	"strings"

	"github.com/tokensentry/tokensentry/internal/allowlist"
	"github.com/tokensentry/tokensentry/internal/chain"
	"github.com/tokensentry/tokensentry/internal/evidence"
)

// Placeholder identity. The engine never surfaces a raw "unknown"
// sentinel to the end user.
const (
	PlaceholderName   = "New Token"
	PlaceholderSymbol = "NEW"
)

// Identity names the token under analysis.
type Identity struct {
	Address string `json:"address"`
	Chain   string `json:"chain"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// OnchainReader is the direct contract-read contract (EVM only).
type OnchainReader interface {
	TokenMetadata(ctx context.Context, c chain.Chain, address string) (name, symbol string, err error)
}

// ResolveIdentity walks the identity priority chain lazily until a
// source answers: on-chain contract read, curated allow-list, pair leg
// metadata, scanner metadata, placeholder. Partial answers are filled
// from lower-priority sources.
func ResolveIdentity(ctx context.Context, onchain OnchainReader, c chain.Chain, subject Subject, bundle *evidence.Bundle) Identity {
	id := Identity{Address: subject.Address, Chain: c.ID}

	sources := []func() (string, string){
		func() (string, string) {
			if onchain == nil || c.Kind != chain.KindEVM {
				return "", ""
			}
			name, symbol, err := onchain.TokenMetadata(ctx, c, subject.Address)
			if err != nil {
				return "", ""
			}
			return name, symbol
		},
		func() (string, string) {
			if e, ok := allowlist.Lookup(subject.Address); ok {
				return e.Name, e.Symbol
			}
			return "", ""
		},
		func() (string, string) {
			leg := subjectLeg(subject, bundle)
			if leg == nil {
				return "", ""
			}
			return leg.Name, leg.Symbol
		},
		func() (string, string) {
			if bundle == nil || bundle.Security == nil {
				return "", ""
			}
			return bundle.Security.TokenName, bundle.Security.TokenSymbol
		},
	}

	for _, source := range sources {
		if id.Name != "" && id.Symbol != "" {
			break
		}
		name, symbol := source()
		if id.Name == "" {
			id.Name = strings.TrimSpace(name)
		}
		if id.Symbol == "" {
			id.Symbol = strings.TrimSpace(symbol)
		}
	}

	if id.Name == "" {
		id.Name = PlaceholderName
	}
	if id.Symbol == "" {
		id.Symbol = PlaceholderSymbol
	}
	return id
}

// subjectLeg finds the pair leg matching the subject address, preferring
// the disambiguation match over the bundle's market data.
func subjectLeg(subject Subject, bundle *evidence.Bundle) *evidence.TokenRef {
	pairs := []*evidence.Pair{subject.PairMatch}
	if bundle != nil {
		pairs = append(pairs, bundle.Market.BestPair(subject.Address))
	}
	for _, p := range pairs {
		if p == nil {
			continue
		}
		if strings.EqualFold(p.Base.Address, subject.Address) {
			return &p.Base
		}
		if strings.EqualFold(p.Quote.Address, subject.Address) {
			return &p.Quote
		}
	}
	return nil
}
