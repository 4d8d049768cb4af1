// Package verdict selects exactly one human-facing verdict per
// analysis from a priority-ordered rule list, plus auxiliary warnings.
// Confirmed evidence always outranks unknowns: the confirmed-new branch
// and the unknown-history branch are deliberately distinct verdicts.
package verdict

import (
	"fmt"

	"github.com/tokensentry/tokensentry/internal/chain"
	"github.com/tokensentry/tokensentry/internal/confidence"
	"github.com/tokensentry/tokensentry/internal/flags"
	"github.com/tokensentry/tokensentry/internal/resolve"
	"github.com/tokensentry/tokensentry/internal/risk"
)

// Result is the selected verdict and its supporting warnings. Warnings
// are informational only; they never feed back into scoring.
type Result struct {
	Verdict  string   `json:"verdict"`
	Warnings []string `json:"warnings"`
}

// Input is everything the rule list may consult.
type Input struct {
	Kind             chain.Kind
	Flags            flags.Set
	Confidence       confidence.Report
	Ages             resolve.Ages
	RiskLevel        risk.Level
	NewTokenOverride bool
}

// Generate walks the priority list; the first matching rule wins.
func Generate(in Input) Result {
	switch {
	case in.NewTokenOverride:
		return Result{
			Verdict: "Fresh launch - extreme risk until a track record exists",
			Warnings: []string{
				"Token or pool is less than a week old",
				"Rug pulls are most common in the first days after launch",
				"Liquidity can be withdrawn by the deployer at any moment",
			},
		}

	case in.Flags.Honeypot:
		return Result{
			Verdict:  "Honeypot detected - buying may be possible but selling is not",
			Warnings: []string{"Do not interact with this contract"},
		}

	case in.Flags.MintAuthority:
		return Result{
			Verdict:  "Active mint authority - supply can be inflated at will",
			Warnings: []string{"The issuer can mint unlimited new tokens and dilute holders"},
		}

	case in.Flags.OwnerPrivileges:
		return Result{
			Verdict:  "Dangerous owner privileges in contract",
			Warnings: []string{"The owner can alter balances or disable transfers"},
		}

	case in.Confidence.Level == confidence.LevelLow:
		return Result{
			Verdict:  fmt.Sprintf("Insufficient data for a reliable assessment (%d%% of checks completed)", in.Confidence.Percentage),
			Warnings: []string{"Treat this token with caution until more data is available"},
		}

	case in.Ages.TokenAgeHours != nil && *in.Ages.TokenAgeHours < 24:
		return Result{
			Verdict:  "Launch-phase token - less than 24 hours old",
			Warnings: []string{"Price and liquidity are highly unstable this early"},
		}

	case in.Ages.BothUnknown() && in.Confidence.Level != confidence.LevelHigh:
		return Result{
			Verdict:  "Likely newly created token with limited history",
			Warnings: []string{"No reliable age data from any source"},
		}

	case in.Flags.NoLiquidity:
		return Result{
			Verdict:  "No meaningful liquidity - exiting a position may be impossible",
			Warnings: []string{"Low liquidity amplifies price impact and exit risk"},
		}

	case in.Kind == chain.KindLedgerB58 && in.Confidence.Level != confidence.LevelHigh:
		return Result{
			Verdict:  "Limited analysis available for this network",
			Warnings: []string{"Fewer automated checks exist for this chain"},
		}

	case in.RiskLevel == risk.LevelHigh:
		return Result{
			Verdict:  "Multiple risk factors detected",
			Warnings: []string{"Several independent checks raised concerns"},
		}

	case in.RiskLevel == risk.LevelMedium:
		return Result{Verdict: "Moderate risk - manual review recommended", Warnings: mediumWarnings(in)}

	case cleanBillOfHealth(in):
		return Result{Verdict: "No critical risks detected"}
	}

	return Result{
		Verdict:  "Unable to fully assess this token - proceed with caution",
		Warnings: []string{"Assessment did not reach a confident conclusion"},
	}
}

func mediumWarnings(in Input) []string {
	var warnings []string
	if in.Ages.TokenAgeDays != nil && *in.Ages.TokenAgeDays < 30 {
		warnings = append(warnings, fmt.Sprintf("Token is only %d days old", *in.Ages.TokenAgeDays))
	}
	if in.Flags.UnverifiedContract {
		warnings = append(warnings, "Contract source is not verified")
	}
	if in.Confidence.Level == confidence.LevelMedium {
		warnings = append(warnings, "Some data sources were unavailable")
	}
	return warnings
}

// cleanBillOfHealth gates the LOW verdict behind every safety condition
// at once; anything short of that falls through to the generic caution.
func cleanBillOfHealth(in Input) bool {
	return in.RiskLevel == risk.LevelLow &&
		in.Confidence.Level == confidence.LevelHigh &&
		!in.Flags.Honeypot &&
		!in.Flags.MintAuthority &&
		!in.Flags.OwnerPrivileges &&
		!in.Flags.NoLiquidity &&
		!in.Flags.BlacklistAuthority &&
		in.Ages.TokenKnown() && *in.Ages.TokenAgeDays >= 7
}
