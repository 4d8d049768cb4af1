// Package confidence rates how much of the intended evidence set an
// analysis actually obtained. The rating blends checklist completion
// with raw provider availability so a single saturated sub-score cannot
// mask broad gaps elsewhere.
package confidence

import (
	"math"

	"github.com/tokensentry/tokensentry/internal/chain"
	"github.com/tokensentry/tokensentry/internal/config"
	"github.com/tokensentry/tokensentry/internal/evidence"
	"github.com/tokensentry/tokensentry/internal/resolve"
)

// Level is the coarse reliability tier.
type Level string

const (
	LevelHigh   Level = "HIGH"
	LevelMedium Level = "MEDIUM"
	LevelLow    Level = "LOW"
)

// Checklist item names, surfaced verbatim in the missing-fields list.
const (
	CheckTokenAge        = "token_age"
	CheckLiquidity       = "liquidity"
	CheckVerification    = "contract_verification"
	CheckHoneypot        = "honeypot_check"
	CheckOwnerPrivileges = "owner_privilege_check"
	CheckExplorerData    = "explorer_data"
	CheckMintAuthority   = "mint_authority"
	CheckFreezeAuthority = "freeze_authority"
	CheckIndexerData     = "indexer_data"
)

// Report is the data-confidence rating for one analysis.
type Report struct {
	Level            Level    `json:"level"`
	Percentage       int      `json:"percentage"`
	SuccessfulChecks int      `json:"successfulChecks"`
	TotalChecks      int      `json:"totalChecks"`
	MissingFields    []string `json:"missingFields"`
	BlendedScore     float64  `json:"blendedScore"`
}

type checkItem struct {
	name      string
	available bool
}

// Calculate derives the confidence report for an address kind from the
// evidence bundle and the resolved ages.
func Calculate(kind chain.Kind, bundle *evidence.Bundle, ages resolve.Ages, subject string, cfg config.ConfidenceConfig) Report {
	items := checklist(kind, bundle, ages, subject)

	successful := 0
	missing := make([]string, 0, len(items))
	for _, item := range items {
		if item.available {
			successful++
		} else {
			missing = append(missing, item.name)
		}
	}
	total := len(items)
	percentage := int(math.Round(float64(successful) / float64(total) * 100))

	availability := providerAvailability(kind, bundle, cfg)
	blended := cfg.ChecklistWeight*float64(percentage) + cfg.AvailabilityWeight*availability

	return Report{
		Level:            tier(blended, percentage, successful, cfg),
		Percentage:       percentage,
		SuccessfulChecks: successful,
		TotalChecks:      total,
		MissingFields:    missing,
		BlendedScore:     blended,
	}
}

func checklist(kind chain.Kind, bundle *evidence.Bundle, ages resolve.Ages, subject string) []checkItem {
	liquidityKnown := false
	if best := bundle.Market.BestPair(subject); best != nil && best.LiquidityUSD != nil {
		liquidityKnown = true
	}

	if kind == chain.KindLedgerB58 {
		return []checkItem{
			{CheckTokenAge, ages.TokenKnown()},
			{CheckLiquidity, liquidityKnown},
			{CheckMintAuthority, bundle.Ledger != nil},
			{CheckFreezeAuthority, bundle.Ledger != nil},
			{CheckIndexerData, bundle.Market != nil},
		}
	}
	return []checkItem{
		{CheckTokenAge, ages.TokenKnown()},
		{CheckLiquidity, liquidityKnown},
		{CheckVerification, bundle.Explorer != nil},
		{CheckHoneypot, bundle.Security != nil},
		{CheckOwnerPrivileges, bundle.Security != nil},
		{CheckExplorerData, bundle.Explorer != nil},
	}
}

// providerAvailability is a deduction score starting at 100. The
// scanner and the liquidity indexer carry the bulk of the evidence, so
// their absence costs more than the explorer or ledger service.
func providerAvailability(kind chain.Kind, bundle *evidence.Bundle, cfg config.ConfidenceConfig) float64 {
	score := 100
	if bundle.Market == nil {
		score -= cfg.MarketDeduction
	}
	switch kind {
	case chain.KindLedgerB58:
		if bundle.Ledger == nil {
			score -= cfg.LedgerDeduction
		}
	default:
		if bundle.Security == nil {
			score -= cfg.ScannerDeduction
		}
		if bundle.Explorer == nil {
			score -= cfg.ExplorerDeduction
		}
	}
	if score < 0 {
		score = 0
	}
	return float64(score)
}

// tier applies the triple-condition thresholds: blended score, checklist
// percentage and absolute check count must all clear a tier's bar.
func tier(blended float64, percentage, successful int, cfg config.ConfidenceConfig) Level {
	switch {
	case blended >= cfg.HighMinBlended && percentage >= cfg.HighMinChecklist && successful >= cfg.HighMinChecks:
		return LevelHigh
	case blended >= cfg.MediumMinBlended && percentage >= cfg.MediumMinChecklist && successful >= cfg.MediumMinChecks:
		return LevelMedium
	default:
		return LevelLow
	}
}
