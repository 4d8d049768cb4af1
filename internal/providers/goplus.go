package providers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tokensentry/tokensentry/internal/chain"
	"github.com/tokensentry/tokensentry/internal/config"
	"github.com/tokensentry/tokensentry/internal/evidence"
)

// GoPlusClient wraps the GoPlus token-security API. GoPlus reports
// every numeric field as a string; parsing failures fall back to zero
// values rather than rejecting the payload.
type GoPlusClient struct {
	c       *client
	baseURL string
}

func NewGoPlusClient(cfg config.ProviderConfig, cache Cache, cacheTTL time.Duration) *GoPlusClient {
	return &GoPlusClient{
		c:       newClient("goplus", cfg, cache, cacheTTL),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

type goPlusTokenRecord struct {
	TokenName          string `json:"token_name"`
	TokenSymbol        string `json:"token_symbol"`
	IsHoneypot         string `json:"is_honeypot"`
	BuyTax             string `json:"buy_tax"`
	SellTax            string `json:"sell_tax"`
	CannotBuy          string `json:"cannot_buy"`
	CannotSellAll      string `json:"cannot_sell_all"`
	OwnerAddress       string `json:"owner_address"`
	OwnerChangeBalance string `json:"owner_change_balance"`
	HiddenOwner        string `json:"hidden_owner"`
	SelfDestruct       string `json:"selfdestruct"`
	IsBlacklisted      string `json:"is_blacklisted"`
	IsMintable         string `json:"is_mintable"`
	TransferPausable   string `json:"transfer_pausable"`
	IsProxy            string `json:"is_proxy"`
	IsOpenSource       string `json:"is_open_source"`
	HolderCount        string `json:"holder_count"`
}

type goPlusResponse struct {
	Code    int                          `json:"code"`
	Message string                       `json:"message"`
	Result  map[string]goPlusTokenRecord `json:"result"`
}

// TokenSecurity fetches the scanner record for a contract.
func (g *GoPlusClient) TokenSecurity(ctx context.Context, c chain.Chain, address string) (*evidence.SecurityReport, error) {
	record, err := g.fetch(ctx, c, address)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("goplus: no record for %s on %s", address, c.ID)
	}

	buyTax, _ := strconv.ParseFloat(record.BuyTax, 64)
	sellTax, _ := strconv.ParseFloat(record.SellTax, 64)
	holders, _ := strconv.Atoi(record.HolderCount)

	return &evidence.SecurityReport{
		TokenName:        record.TokenName,
		TokenSymbol:      record.TokenSymbol,
		Honeypot:         record.IsHoneypot == "1",
		BuyTaxPct:        buyTax * 100,
		SellTaxPct:       sellTax * 100,
		CannotBuy:        record.CannotBuy == "1",
		CannotSellAll:    record.CannotSellAll == "1",
		OwnerAddress:     record.OwnerAddress,
		CanChangeBalance: record.OwnerChangeBalance == "1",
		HiddenOwner:      record.HiddenOwner == "1",
		SelfDestruct:     record.SelfDestruct == "1",
		Blacklist:        record.IsBlacklisted == "1",
		Mintable:         record.IsMintable == "1",
		Pausable:         record.TransferPausable == "1",
		Proxy:            record.IsProxy == "1",
		OpenSource:       record.IsOpenSource == "1",
		HolderCount:      holders,
	}, nil
}

// Probe reports whether the scanner knows the contract on a chain.
// Used by chain detection; an empty result map is a clean miss.
func (g *GoPlusClient) Probe(ctx context.Context, c chain.Chain, address string) (bool, error) {
	record, err := g.fetch(ctx, c, address)
	if err != nil {
		return false, err
	}
	return record != nil, nil
}

func (g *GoPlusClient) fetch(ctx context.Context, c chain.Chain, address string) (*goPlusTokenRecord, error) {
	url := fmt.Sprintf("%s/api/v1/token_security/%s?contract_addresses=%s", g.baseURL, c.NumericID, address)

	var resp goPlusResponse
	if err := g.c.getJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 1 {
		return nil, fmt.Errorf("goplus: api error %d: %s", resp.Code, resp.Message)
	}
	// The result map is keyed by lower-cased contract address.
	if record, ok := resp.Result[strings.ToLower(address)]; ok {
		return &record, nil
	}
	return nil, nil
}
