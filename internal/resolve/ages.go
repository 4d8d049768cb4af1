package resolve

import (
	"time"

	"github.com/tokensentry/tokensentry/internal/allowlist"
	"github.com/tokensentry/tokensentry/internal/evidence"
)

// Age sources, in fallback order.
const (
	AgeSourceAllowlist = "allowlist"
	AgeSourceMarket    = "market"
	AgeSourceExplorer  = "explorer"
)

// Ages carries the two independent ages of a token. Nil means unknown;
// unknown is materially different from confirmed-new and the two are
// never conflated downstream.
type Ages struct {
	TokenAgeDays  *int   `json:"tokenAgeDays"`
	TokenAgeHours *int   `json:"tokenAgeHours"`
	PairAgeDays   *int   `json:"pairAgeDays"`
	PairAgeHours  *int   `json:"pairAgeHours"`
	TokenSource   string `json:"tokenSource,omitempty"`
}

// TokenKnown reports whether the contract age resolved.
func (a Ages) TokenKnown() bool { return a.TokenAgeDays != nil }

// PairKnown reports whether the pair age resolved.
func (a Ages) PairKnown() bool { return a.PairAgeDays != nil }

// BothUnknown reports whether neither age resolved.
func (a Ages) BothUnknown() bool { return !a.TokenKnown() && !a.PairKnown() }

// ResolveAges computes contract and pair age at the supplied evaluation
// time. Contract age falls back through: curated launch date (ground
// truth), oldest indexed pair creation, explorer creation timestamp.
// Pair age comes from the primary pair's creation timestamp only.
// Timestamps in the future are rejected as unavailable, never turned
// into negative ages.
func ResolveAges(address string, bundle *evidence.Bundle, now time.Time) Ages {
	var ages Ages

	if launch, ok := allowlist.LaunchDate(address); ok {
		if days, hours, ok := ageAt(launch, now); ok {
			ages.TokenAgeDays, ages.TokenAgeHours = &days, &hours
			ages.TokenSource = AgeSourceAllowlist
		}
	}

	if bundle != nil {
		if !ages.TokenKnown() {
			if created, ok := bundle.Market.OldestPairCreation(); ok {
				if days, hours, ok := ageAt(created, now); ok {
					ages.TokenAgeDays, ages.TokenAgeHours = &days, &hours
					ages.TokenSource = AgeSourceMarket
				}
			}
		}
		if !ages.TokenKnown() && bundle.Explorer != nil && bundle.Explorer.CreatedAt != nil {
			if days, hours, ok := ageAt(*bundle.Explorer.CreatedAt, now); ok {
				ages.TokenAgeDays, ages.TokenAgeHours = &days, &hours
				ages.TokenSource = AgeSourceExplorer
			}
		}

		if best := bundle.Market.BestPair(address); best != nil && !best.CreatedAt.IsZero() {
			if days, hours, ok := ageAt(best.CreatedAt, now); ok {
				ages.PairAgeDays, ages.PairAgeHours = &days, &hours
			}
		}
	}

	return ages
}

// ageAt floors the wall-clock delta to whole days and hours. A creation
// time after now is inconsistent and treated as unavailable.
func ageAt(created, now time.Time) (days, hours int, ok bool) {
	if created.IsZero() || created.After(now) {
		return 0, 0, false
	}
	elapsed := now.Sub(created)
	return int(elapsed.Hours()) / 24, int(elapsed.Hours()), true
}
