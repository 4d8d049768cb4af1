// Package report renders an analysis into the fixed-structure text
// report consumed by callers: header, score/risk/confidence block,
// per-check lines, verdict, rationale bullets, disclaimer.
package report

import (
	"fmt"
	"strings"

	"github.com/tokensentry/tokensentry/internal/engine"
	"github.com/tokensentry/tokensentry/internal/risk"
)

const disclaimer = "This is an automated, advisory analysis. It is not financial advice and can miss risks. Always do your own research."

// Render formats one analysis as a text report.
func Render(a *engine.Analysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s) on %s\n", a.Identity.Name, a.Identity.Symbol, a.Identity.Chain)
	fmt.Fprintf(&b, "%s\n\n", a.Identity.Address)

	fmt.Fprintf(&b, "Health score: %d/95\n", a.HealthScore)
	fmt.Fprintf(&b, "Risk level:   %s %s\n", riskGlyph(a.RiskLevel), a.RiskLevel)
	fmt.Fprintf(&b, "Data quality: %s (%d%%, %d/%d checks)\n\n",
		a.Confidence.Level, a.Confidence.Percentage, a.Confidence.SuccessfulChecks, a.Confidence.TotalChecks)

	b.WriteString("Checks:\n")
	writeCheck(&b, "Honeypot", !a.Flags.Honeypot)
	writeCheck(&b, "Mint authority disabled", !a.Flags.MintAuthority)
	writeCheck(&b, "Freeze authority disabled", !a.Flags.FreezeAuthority)
	writeCheck(&b, "No blacklist capability", !a.Flags.BlacklistAuthority)
	writeCheck(&b, "No dangerous owner privileges", !a.Flags.OwnerPrivileges)
	writeCheck(&b, "Not an upgradeable proxy", !a.Flags.ProxyUpgradeable)
	writeCheck(&b, "Contract verified", !a.Flags.UnverifiedContract)
	writeCheck(&b, "Liquidity present", !a.Flags.NoLiquidity && !a.Flags.NotListed)
	if a.Ages.TokenKnown() {
		writeCheck(&b, fmt.Sprintf("Token age %d days", *a.Ages.TokenAgeDays), !a.Flags.NewToken)
	} else {
		writeCheck(&b, "Token age unknown", false)
	}

	fmt.Fprintf(&b, "\nVerdict: %s\n", a.Verdict)

	if len(a.Warnings) > 0 || len(a.Penalties) > 0 {
		b.WriteString("\nRationale:\n")
		for _, w := range a.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
		for _, p := range a.Penalties {
			fmt.Fprintf(&b, "  - %s (-%d)\n", p.Reason, p.Points)
		}
	}

	if len(a.Confidence.MissingFields) > 0 {
		fmt.Fprintf(&b, "\nMissing data: %s\n", strings.Join(a.Confidence.MissingFields, ", "))
	}

	fmt.Fprintf(&b, "\n%s\n", disclaimer)
	return b.String()
}

func writeCheck(b *strings.Builder, label string, passed bool) {
	glyph := "✓"
	if !passed {
		glyph = "✗"
	}
	fmt.Fprintf(b, "  %s %s\n", glyph, label)
}

func riskGlyph(level risk.Level) string {
	switch level {
	case risk.LevelLow:
		return "🟢"
	case risk.LevelMedium:
		return "🟡"
	default:
		return "🔴"
	}
}
