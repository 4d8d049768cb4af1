package providers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tokensentry/tokensentry/internal/chain"
	"github.com/tokensentry/tokensentry/internal/config"
	"github.com/tokensentry/tokensentry/internal/evidence"
)

// ExplorerClient wraps an Etherscan-compatible block explorer (v2 API,
// chain selected per request). Contract metadata is required; the
// creation timestamp is best effort and skipped when the block lookup
// fails, never faked.
type ExplorerClient struct {
	c       *client
	baseURL string
	apiKey  string
}

func NewExplorerClient(cfg config.ProviderConfig, cache Cache, cacheTTL time.Duration) *ExplorerClient {
	return &ExplorerClient{
		c:       newClient("explorer", cfg, cache, cacheTTL),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

type explorerSourceResponse struct {
	Status string `json:"status"`
	Result []struct {
		SourceCode     string `json:"SourceCode"`
		ABI            string `json:"ABI"`
		ContractName   string `json:"ContractName"`
		Proxy          string `json:"Proxy"`
		Implementation string `json:"Implementation"`
	} `json:"result"`
}

type explorerCreationResponse struct {
	Status string `json:"status"`
	Result []struct {
		ContractCreator string `json:"contractCreator"`
		TxHash          string `json:"txHash"`
	} `json:"result"`
}

type explorerProxyResult[T any] struct {
	Result T `json:"result"`
}

// ContractInfo fetches verification, proxy and creation metadata for a
// contract.
func (e *ExplorerClient) ContractInfo(ctx context.Context, c chain.Chain, address string) (*evidence.ExplorerReport, error) {
	var src explorerSourceResponse
	if err := e.c.getJSON(ctx, e.url(c, "module=contract&action=getsourcecode&address="+address), &src); err != nil {
		return nil, err
	}
	if len(src.Result) == 0 {
		return nil, fmt.Errorf("explorer: empty source result for %s", address)
	}

	first := src.Result[0]
	report := &evidence.ExplorerReport{
		ContractName:   first.ContractName,
		Verified:       first.SourceCode != "" && first.ABI != "Contract source code not verified",
		Proxy:          first.Proxy == "1",
		Implementation: first.Implementation,
	}

	var creation explorerCreationResponse
	if err := e.c.getJSON(ctx, e.url(c, "module=contract&action=getcontractcreation&contractaddresses="+address), &creation); err == nil && len(creation.Result) > 0 {
		report.Creator = creation.Result[0].ContractCreator
		report.CreationTx = creation.Result[0].TxHash
	}

	if report.CreationTx != "" {
		if ts, ok := e.creationTimestamp(ctx, c, report.CreationTx); ok {
			report.CreatedAt = &ts
		}
	}
	return report, nil
}

// creationTimestamp resolves the block timestamp of the creation tx.
// Both the tx and the block lookup must succeed.
func (e *ExplorerClient) creationTimestamp(ctx context.Context, c chain.Chain, txHash string) (time.Time, bool) {
	var tx explorerProxyResult[struct {
		BlockNumber string `json:"blockNumber"`
	}]
	if err := e.c.getJSON(ctx, e.url(c, "module=proxy&action=eth_getTransactionByHash&txhash="+txHash), &tx); err != nil || tx.Result.BlockNumber == "" {
		log.Debug().Err(err).Str("tx", txHash).Msg("creation tx lookup failed, skipping timestamp")
		return time.Time{}, false
	}

	var block explorerProxyResult[struct {
		Timestamp string `json:"timestamp"`
	}]
	if err := e.c.getJSON(ctx, e.url(c, "module=proxy&action=eth_getBlockByNumber&boolean=false&tag="+tx.Result.BlockNumber), &block); err != nil || block.Result.Timestamp == "" {
		log.Debug().Err(err).Str("block", tx.Result.BlockNumber).Msg("creation block lookup failed, skipping timestamp")
		return time.Time{}, false
	}

	seconds, err := strconv.ParseInt(strings.TrimPrefix(block.Result.Timestamp, "0x"), 16, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(seconds, 0).UTC(), true
}

func (e *ExplorerClient) url(c chain.Chain, query string) string {
	u := fmt.Sprintf("%s?chainid=%s&%s", e.baseURL, c.NumericID, query)
	if e.apiKey != "" {
		u += "&apikey=" + e.apiKey
	}
	return u
}
