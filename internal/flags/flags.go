// Package flags maps raw provider evidence to a fixed set of boolean
// risk flags. Detection is state free and deterministic: each flag is a
// pure function of the evidence bundle plus allow-list membership, never
// of another flag and never of the score.
//
// Flags that accuse (unverified, no-liquidity, not-listed) require
// positive evidence: absent data lowers confidence instead, so the same
// gap is never punished twice.
package flags

import (
	"github.com/tokensentry/tokensentry/internal/allowlist"
	"github.com/tokensentry/tokensentry/internal/chain"
	"github.com/tokensentry/tokensentry/internal/config"
	"github.com/tokensentry/tokensentry/internal/evidence"
	"github.com/tokensentry/tokensentry/internal/resolve"
)

// Set holds the ten independent risk flags.
type Set struct {
	Honeypot           bool `json:"honeypot"`
	MintAuthority      bool `json:"mintAuthority"`
	FreezeAuthority    bool `json:"freezeAuthority"`
	BlacklistAuthority bool `json:"blacklistAuthority"`
	OwnerPrivileges    bool `json:"ownerPrivileges"`
	ProxyUpgradeable   bool `json:"proxyUpgradeable"`
	UnverifiedContract bool `json:"unverifiedContract"`
	NoLiquidity        bool `json:"noLiquidity"`
	NewToken           bool `json:"newToken"`
	NotListed          bool `json:"notListed"`
}

// AnyCritical reports whether a flag with HIGH-risk veto power is set.
func (s Set) AnyCritical() bool {
	return s.Honeypot || s.MintAuthority || s.OwnerPrivileges
}

// Detect evaluates every flag for the subject address.
func Detect(kind chain.Kind, subject string, bundle *evidence.Bundle, ages resolve.Ages, cfg config.FlagsConfig) Set {
	exempt := allowlist.IsCore(subject)
	var s Set

	if kind == chain.KindEVM && bundle.Security != nil {
		sec := bundle.Security
		s.Honeypot = sec.Honeypot ||
			sec.BuyTaxPct > cfg.HoneypotTaxPct ||
			sec.SellTaxPct > cfg.HoneypotTaxPct ||
			sec.CannotSellAll
		s.OwnerPrivileges = sec.CanChangeBalance || sec.HiddenOwner || sec.SelfDestruct
		s.BlacklistAuthority = sec.Blacklist
		s.ProxyUpgradeable = sec.Proxy
	}

	if kind == chain.KindLedgerB58 && bundle.Ledger != nil {
		// Provider layer already normalizes burned authorities to "".
		s.MintAuthority = bundle.Ledger.MintAuthority != ""
		s.FreezeAuthority = bundle.Ledger.FreezeAuthority != ""
	}

	// Scanner and explorer proxy detection are independent evidence;
	// either one suffices.
	if bundle.Explorer != nil && bundle.Explorer.Proxy {
		s.ProxyUpgradeable = true
	}

	// Unverified needs the explorer to say so explicitly. Missing
	// explorer data is a confidence problem, not an accusation.
	if bundle.Explorer != nil && !bundle.Explorer.Verified && !exempt && !allowlist.Contains(subject) {
		s.UnverifiedContract = true
	}

	if !exempt {
		if best := bundle.Market.BestPair(subject); best != nil && best.LiquidityUSD != nil {
			s.NoLiquidity = *best.LiquidityUSD < cfg.MinLiquidityUSD
		}
		// Not-listed mirrors no-liquidity: only a positive "indexer
		// answered and knows no pairs" sets it.
		if bundle.Market != nil && len(bundle.Market.Pairs) == 0 {
			s.NotListed = true
		}
	}

	if ages.TokenKnown() && *ages.TokenAgeDays < cfg.NewTokenMaxAgeDays {
		s.NewToken = true
	}

	return s
}
