// Package resolve turns a raw input address into the token to analyze:
// it redirects pair contracts to their base token, resolves identity
// through a priority chain of sources, and derives token and pair ages
// from an ordered fallback list.
package resolve

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tokensentry/tokensentry/internal/allowlist"
	"github.com/tokensentry/tokensentry/internal/evidence"
	"github.com/tokensentry/tokensentry/internal/fetch"
)

// Subject is the resolved target of an analysis. Every downstream
// component operates on Address, never on the raw input.
type Subject struct {
	Input      string
	Address    string
	PairMatch  *evidence.Pair // best-matching pair from the disambiguation query
	Redirected bool           // input referred to a pair or quote leg
}

// Disambiguator resolves pair references before any other fetch runs.
type Disambiguator struct {
	Market fetch.MarketProvider
}

// Disambiguate queries the liquidity indexer for the input address and
// redirects pair references to the token of interest. Indexer failures
// degrade to treating the input as a direct token contract.
func (d *Disambiguator) Disambiguate(ctx context.Context, input string) Subject {
	if d == nil || d.Market == nil {
		return Subject{Input: input, Address: input}
	}
	market, err := d.Market.TokenPairs(ctx, input)
	if err != nil {
		log.Debug().Err(err).Str("address", input).Msg("pair lookup failed, treating input as a token contract")
		return Subject{Input: input, Address: input}
	}
	return DisambiguateMarket(input, market)
}

// DisambiguateMarket is the pure core of Disambiguate. When the indexer
// knows pairs referencing the input, the subject is the base leg of the
// best-matching pair, except when the base leg is itself a recognized
// quote asset and the quote leg is not, in which case the quote leg is
// the token of interest. A pair address is never the subject.
func DisambiguateMarket(input string, market *evidence.MarketReport) Subject {
	best := market.BestPair(input)
	if best == nil {
		return Subject{Input: input, Address: input}
	}

	subject := best.Base
	if allowlist.IsQuoteSymbol(best.Base.Symbol) && !allowlist.IsQuoteSymbol(best.Quote.Symbol) {
		subject = best.Quote
	}

	return Subject{
		Input:      input,
		Address:    subject.Address,
		PairMatch:  best,
		Redirected: !strings.EqualFold(subject.Address, input),
	}
}
