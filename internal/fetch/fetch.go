// Package fetch fans out the independent provider calls for one
// analysis and joins them into an evidence bundle. Its contract is
// failure tolerance: no single provider's failure may abort the
// analysis, so every error resolves to a nil bundle field.
package fetch

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tokensentry/tokensentry/internal/chain"
	"github.com/tokensentry/tokensentry/internal/evidence"
)

// SecurityProvider is the security-scanner contract.
type SecurityProvider interface {
	TokenSecurity(ctx context.Context, c chain.Chain, address string) (*evidence.SecurityReport, error)
}

// MarketProvider is the liquidity-indexer contract.
type MarketProvider interface {
	TokenPairs(ctx context.Context, address string) (*evidence.MarketReport, error)
}

// ExplorerProvider is the block-explorer contract.
type ExplorerProvider interface {
	ContractInfo(ctx context.Context, c chain.Chain, address string) (*evidence.ExplorerReport, error)
}

// LedgerProvider is the ledger-authority contract for the non-EVM chain.
type LedgerProvider interface {
	TokenAccount(ctx context.Context, address string) (*evidence.LedgerReport, error)
}

// Fetcher assembles evidence bundles.
type Fetcher struct {
	Security SecurityProvider
	Market   MarketProvider
	Explorer ExplorerProvider
	Ledger   LedgerProvider
}

// Gather issues every provider call applicable to the address kind
// concurrently and joins the results. Individual failures are logged
// and recorded as nil; the bundle itself is always returned.
func (f *Fetcher) Gather(ctx context.Context, kind chain.Kind, c chain.Chain, address string) *evidence.Bundle {
	bundle := &evidence.Bundle{}
	var wg sync.WaitGroup

	run := func(name string, call func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := call(); err != nil {
				log.Warn().Err(err).Str("provider", name).Str("address", address).Msg("provider unavailable, continuing without it")
			}
		}()
	}

	if f.Market != nil {
		run("market", func() error {
			report, err := f.Market.TokenPairs(ctx, address)
			if err != nil {
				return err
			}
			bundle.Market = report
			return nil
		})
	}

	switch kind {
	case chain.KindEVM:
		if f.Security != nil {
			run("security", func() error {
				report, err := f.Security.TokenSecurity(ctx, c, address)
				if err != nil {
					return err
				}
				bundle.Security = report
				return nil
			})
		}
		if f.Explorer != nil {
			run("explorer", func() error {
				report, err := f.Explorer.ContractInfo(ctx, c, address)
				if err != nil {
					return err
				}
				bundle.Explorer = report
				return nil
			})
		}
	case chain.KindLedgerB58:
		if f.Ledger != nil {
			run("ledger", func() error {
				report, err := f.Ledger.TokenAccount(ctx, address)
				if err != nil {
					return err
				}
				bundle.Ledger = report
				return nil
			})
		}
	}

	wg.Wait()
	return bundle
}
