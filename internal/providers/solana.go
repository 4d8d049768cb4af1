package providers

import (
	"context"
	"fmt"

	"github.com/tokensentry/tokensentry/internal/config"
	"github.com/tokensentry/tokensentry/internal/evidence"
)

// noAuthority is the system placeholder pubkey; an authority set to it
// is burned and counts as disabled.
const noAuthority = "11111111111111111111111111111111"

// SolanaClient reads token mint accounts over JSON-RPC.
type SolanaClient struct {
	c      *client
	rpcURL string
}

func NewSolanaClient(cfg config.ProviderConfig) *SolanaClient {
	return &SolanaClient{
		c:      newClient("solana_rpc", cfg, nil, 0),
		rpcURL: cfg.BaseURL,
	}
}

type solanaAccountInfo struct {
	Result struct {
		Value *struct {
			Data struct {
				Parsed struct {
					Type string `json:"type"`
					Info struct {
						MintAuthority   *string `json:"mintAuthority"`
						FreezeAuthority *string `json:"freezeAuthority"`
						Supply          string  `json:"supply"`
						Decimals        int     `json:"decimals"`
						IsInitialized   bool    `json:"isInitialized"`
					} `json:"info"`
				} `json:"parsed"`
			} `json:"data"`
		} `json:"value"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// TokenAccount fetches mint/freeze authority state for a mint address.
func (s *SolanaClient) TokenAccount(ctx context.Context, address string) (*evidence.LedgerReport, error) {
	payload := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "getAccountInfo",
		"params": []any{
			address,
			map[string]string{"encoding": "jsonParsed", "commitment": "finalized"},
		},
	}

	var resp solanaAccountInfo
	if err := s.c.postJSON(ctx, s.rpcURL, payload, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("solana rpc: %d %s", resp.Error.Code, resp.Error.Message)
	}
	if resp.Result.Value == nil || resp.Result.Value.Data.Parsed.Type != "mint" {
		return nil, fmt.Errorf("solana rpc: %s is not a token mint", address)
	}

	info := resp.Result.Value.Data.Parsed.Info
	return &evidence.LedgerReport{
		MintAuthority:   authority(info.MintAuthority),
		FreezeAuthority: authority(info.FreezeAuthority),
		Supply:          info.Supply,
		Decimals:        info.Decimals,
		Initialized:     info.IsInitialized,
		Verified:        info.IsInitialized,
	}, nil
}

// authority normalizes an optional authority pubkey: absent or burned
// authorities become the empty string.
func authority(key *string) string {
	if key == nil || *key == "" || *key == noAuthority {
		return ""
	}
	return *key
}
