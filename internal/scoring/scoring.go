// Package scoring applies the ordered penalty/override ruleset that
// turns flags, confidence and ages into a bounded health score. The
// new-token override is an explicit guard clause so the short circuit
// stays auditable; everything after it is an additive deduction in
// fixed order, followed by clamping and confidence caps.
package scoring

import (
	"fmt"

	"github.com/tokensentry/tokensentry/internal/chain"
	"github.com/tokensentry/tokensentry/internal/confidence"
	"github.com/tokensentry/tokensentry/internal/config"
	"github.com/tokensentry/tokensentry/internal/flags"
	"github.com/tokensentry/tokensentry/internal/resolve"
)

// Penalty is one applied deduction, kept for the rationale report.
type Penalty struct {
	Reason string `json:"reason"`
	Points int    `json:"points"`
}

// Result is the scored outcome.
type Result struct {
	Score            int       `json:"score"`
	Penalties        []Penalty `json:"penalties"`
	NewTokenOverride bool      `json:"newTokenOverride"`
	CapApplied       string    `json:"capApplied,omitempty"`
}

// Input gathers everything the state machine evaluates.
type Input struct {
	Kind       chain.Kind
	Core       bool // wrapped-native or major stablecoin
	Curated    bool // any allow-list membership with a known launch date
	Flags      flags.Set
	Confidence confidence.Report
	Ages       resolve.Ages
}

// NewTokenConfirmed decides the highest-precedence override condition:
// a token OR pair age confirmed under maxAgeDays. For curated tokens
// the curated launch age is authoritative and a freshly created pool
// cannot make an established asset look new. Unknown ages never
// confirm anything.
func NewTokenConfirmed(ages resolve.Ages, maxAgeDays int) bool {
	if ages.TokenSource == resolve.AgeSourceAllowlist {
		return *ages.TokenAgeDays < maxAgeDays
	}
	if ages.TokenKnown() && *ages.TokenAgeDays < maxAgeDays {
		return true
	}
	return ages.PairKnown() && *ages.PairAgeDays < maxAgeDays
}

// Score runs the state machine.
func Score(in Input, cfg config.ScoringConfig) Result {
	// New-token override: confirmed extreme youth short-circuits every
	// other rule.
	if NewTokenConfirmed(in.Ages, cfg.NewTokenMaxAgeDays) {
		return Result{
			Score:            cfg.NewTokenScore,
			NewTokenOverride: true,
			Penalties: []Penalty{{
				Reason: fmt.Sprintf("token younger than %d days", cfg.NewTokenMaxAgeDays),
				Points: cfg.BaseScore - cfg.NewTokenScore,
			}},
		}
	}

	score := cfg.BaseScore
	var penalties []Penalty
	apply := func(when bool, points int, reason string) {
		if when && points > 0 {
			score -= points
			penalties = append(penalties, Penalty{Reason: reason, Points: points})
		}
	}

	p := cfg.Penalties
	apply(in.Flags.Honeypot, p.Honeypot, "honeypot indicators")
	apply(in.Flags.MintAuthority, p.MintAuthority, "active mint authority")
	apply(in.Flags.FreezeAuthority, p.FreezeAuthority, "active freeze authority")
	apply(in.Flags.OwnerPrivileges, p.OwnerPrivileges, "dangerous owner privileges")
	apply(in.Flags.BlacklistAuthority, p.Blacklist, "blacklist capability")
	apply(in.Flags.NoLiquidity && !in.Core, p.NoLiquidity, "liquidity below safe floor")
	apply(in.Flags.UnverifiedContract && !in.Core, p.UnverifiedContract, "unverified contract source")
	apply(in.Flags.ProxyUpgradeable, p.ProxyUpgradeable, "upgradeable proxy contract")
	apply(in.Ages.BothUnknown() && !in.Core && !in.Curated, p.AgeUnknown, "token age unknown")

	if !in.Core {
		apply(in.Confidence.Level == confidence.LevelLow, p.LowConfidence, "low data confidence")
		apply(in.Confidence.Level == confidence.LevelMedium, p.MediumConfidence, "medium data confidence")
	}

	// Reduced check coverage on the base58 ledger.
	apply(in.Kind == chain.KindLedgerB58, p.LedgerCoverage, "reduced check coverage on this network")

	if score < 0 {
		score = 0
	}
	if score > cfg.MaxScore {
		score = cfg.MaxScore
	}

	result := Result{Score: score, Penalties: penalties}

	// Confidence caps only ever lower the score.
	if !in.Core {
		switch {
		case in.Confidence.Level == confidence.LevelLow && score > cfg.LowConfidenceCap:
			result.Score = cfg.LowConfidenceCap
			result.CapApplied = "low confidence"
		case in.Confidence.Level == confidence.LevelMedium &&
			in.Confidence.Percentage < cfg.MediumConfidenceCapPct &&
			score > cfg.MediumConfidenceCap:
			result.Score = cfg.MediumConfidenceCap
			result.CapApplied = "medium confidence with sparse checklist"
		}
	}
	return result
}
