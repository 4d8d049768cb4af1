package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tokensentry/tokensentry/internal/config"
	"github.com/tokensentry/tokensentry/internal/evidence"
)

// DexScreenerClient wraps the DexScreener pair-lookup API. The same
// endpoint answers for token addresses and pair addresses, which is what
// makes it usable for pair/token disambiguation.
type DexScreenerClient struct {
	c       *client
	baseURL string
}

func NewDexScreenerClient(cfg config.ProviderConfig, cache Cache, cacheTTL time.Duration) *DexScreenerClient {
	return &DexScreenerClient{
		c:       newClient("dexscreener", cfg, cache, cacheTTL),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

type dexScreenerToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type dexScreenerPair struct {
	ChainID     string           `json:"chainId"`
	PairAddress string           `json:"pairAddress"`
	BaseToken   dexScreenerToken `json:"baseToken"`
	QuoteToken  dexScreenerToken `json:"quoteToken"`
	Liquidity   *struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	Volume struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	PairCreatedAt int64 `json:"pairCreatedAt"` // epoch millis, 0 when unknown
}

type dexScreenerResponse struct {
	Pairs []dexScreenerPair `json:"pairs"`
}

// TokenPairs lists the trading pairs referencing an address. A nil
// error with an empty report means the indexer has never seen it.
func (d *DexScreenerClient) TokenPairs(ctx context.Context, address string) (*evidence.MarketReport, error) {
	url := fmt.Sprintf("%s/latest/dex/tokens/%s", d.baseURL, address)

	var resp dexScreenerResponse
	if err := d.c.getJSON(ctx, url, &resp); err != nil {
		return nil, err
	}

	report := &evidence.MarketReport{Pairs: make([]evidence.Pair, 0, len(resp.Pairs))}
	for _, p := range resp.Pairs {
		pair := evidence.Pair{
			PairAddress:  p.PairAddress,
			Chain:        p.ChainID,
			Base:         evidence.TokenRef(p.BaseToken),
			Quote:        evidence.TokenRef(p.QuoteToken),
			Volume24hUSD: p.Volume.H24,
		}
		if p.Liquidity != nil {
			usd := p.Liquidity.USD
			pair.LiquidityUSD = &usd
		}
		if p.PairCreatedAt > 0 {
			pair.CreatedAt = time.UnixMilli(p.PairCreatedAt).UTC()
		}
		report.Pairs = append(report.Pairs, pair)
	}
	return report, nil
}
