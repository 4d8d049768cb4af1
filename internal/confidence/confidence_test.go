package confidence

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokensentry/tokensentry/internal/chain"
	"github.com/tokensentry/tokensentry/internal/config"
	"github.com/tokensentry/tokensentry/internal/evidence"
	"github.com/tokensentry/tokensentry/internal/resolve"
)

func fullEVMBundle() *evidence.Bundle {
	liq := 250000.0
	created := time.Now().AddDate(-2, 0, 0)
	return &evidence.Bundle{
		Security: &evidence.SecurityReport{OpenSource: true},
		Explorer: &evidence.ExplorerReport{Verified: true, CreatedAt: &created},
		Market: &evidence.MarketReport{Pairs: []evidence.Pair{
			{
				Base:         evidence.TokenRef{Address: "0xmeme", Symbol: "MEME"},
				Quote:        evidence.TokenRef{Address: "0xweth", Symbol: "WETH"},
				LiquidityUSD: &liq,
				CreatedAt:    created,
			},
		}},
	}
}

func knownAges(days int) resolve.Ages {
	hours := days * 24
	return resolve.Ages{TokenAgeDays: &days, TokenAgeHours: &hours, PairAgeDays: &days, PairAgeHours: &hours}
}

func TestCalculate_FullEvidenceIsHigh(t *testing.T) {
	cfg := config.Default().Confidence
	report := Calculate(chain.KindEVM, fullEVMBundle(), knownAges(700), "0xmeme", cfg)

	assert.Equal(t, LevelHigh, report.Level)
	assert.Equal(t, 100, report.Percentage)
	assert.Equal(t, 6, report.TotalChecks)
	assert.Equal(t, 6, report.SuccessfulChecks)
	assert.Empty(t, report.MissingFields)
}

func TestCalculate_EmptyBundleIsLow(t *testing.T) {
	cfg := config.Default().Confidence
	report := Calculate(chain.KindEVM, &evidence.Bundle{}, resolve.Ages{}, "0xmeme", cfg)

	assert.Equal(t, LevelLow, report.Level)
	assert.Equal(t, 0, report.SuccessfulChecks)
	assert.ElementsMatch(t, []string{
		CheckTokenAge, CheckLiquidity, CheckVerification,
		CheckHoneypot, CheckOwnerPrivileges, CheckExplorerData,
	}, report.MissingFields)
}

func TestCalculate_PercentageBounds(t *testing.T) {
	cfg := config.Default().Confidence
	bundles := []*evidence.Bundle{
		{},
		{Security: &evidence.SecurityReport{}},
		{Explorer: &evidence.ExplorerReport{}},
		fullEVMBundle(),
	}
	for _, b := range bundles {
		for _, ages := range []resolve.Ages{{}, knownAges(10)} {
			report := Calculate(chain.KindEVM, b, ages, "0xmeme", cfg)
			want := int(math.Round(float64(report.SuccessfulChecks) / float64(report.TotalChecks) * 100))
			assert.Equal(t, want, report.Percentage)
		}
	}
}

func TestCalculate_LedgerChecklistHasFiveItems(t *testing.T) {
	cfg := config.Default().Confidence
	liq := 90000.0
	bundle := &evidence.Bundle{
		Ledger: &evidence.LedgerReport{},
		Market: &evidence.MarketReport{Pairs: []evidence.Pair{
			{
				Base:         evidence.TokenRef{Address: "Mint", Symbol: "MEME"},
				Quote:        evidence.TokenRef{Address: "So111", Symbol: "SOL"},
				LiquidityUSD: &liq,
			},
		}},
	}

	report := Calculate(chain.KindLedgerB58, bundle, knownAges(30), "Mint", cfg)
	assert.Equal(t, 5, report.TotalChecks)
	assert.Equal(t, 5, report.SuccessfulChecks)
	assert.Equal(t, LevelHigh, report.Level)
}

func TestCalculate_TripleConditionPreventsMasking(t *testing.T) {
	cfg := config.Default().Confidence
	// All providers up but almost every derived check failing: percentage
	// stays low, so availability alone cannot buy a HIGH tier.
	bundle := &evidence.Bundle{
		Security: &evidence.SecurityReport{},
		Explorer: &evidence.ExplorerReport{},
		Market:   &evidence.MarketReport{}, // indexer answered, but no pairs and no liquidity
	}
	report := Calculate(chain.KindEVM, bundle, resolve.Ages{}, "0xmeme", cfg)
	require.NotEqual(t, LevelHigh, report.Level)
	assert.Contains(t, report.MissingFields, CheckTokenAge)
	assert.Contains(t, report.MissingFields, CheckLiquidity)
}

func TestCalculate_MissingScannerCostsMoreThanExplorer(t *testing.T) {
	cfg := config.Default().Confidence
	noScanner := Calculate(chain.KindEVM, &evidence.Bundle{Explorer: &evidence.ExplorerReport{}, Market: &evidence.MarketReport{}}, resolve.Ages{}, "0xmeme", cfg)
	noExplorer := Calculate(chain.KindEVM, &evidence.Bundle{Security: &evidence.SecurityReport{}, Market: &evidence.MarketReport{}}, resolve.Ages{}, "0xmeme", cfg)

	assert.Less(t, noScanner.BlendedScore, noExplorer.BlendedScore)
}
