package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tokensentry/tokensentry/internal/confidence"
	"github.com/tokensentry/tokensentry/internal/engine"
	"github.com/tokensentry/tokensentry/internal/flags"
	"github.com/tokensentry/tokensentry/internal/resolve"
	"github.com/tokensentry/tokensentry/internal/risk"
	"github.com/tokensentry/tokensentry/internal/scoring"
)

func TestRenderContainsEverySection(t *testing.T) {
	days, hours := 3, 80
	a := &engine.Analysis{
		Identity:    resolve.Identity{Address: "0xmeme", Chain: "ethereum", Name: "Meme", Symbol: "MEME"},
		HealthScore: 25,
		RiskLevel:   risk.LevelHigh,
		Confidence: confidence.Report{
			Level: confidence.LevelMedium, Percentage: 67,
			SuccessfulChecks: 4, TotalChecks: 6,
			MissingFields: []string{"token_age", "explorer_data"},
		},
		Flags:     flags.Set{NewToken: true},
		Penalties: []scoring.Penalty{{Reason: "token younger than 7 days", Points: 75}},
		Verdict:   "Fresh launch - extreme risk until a track record exists",
		Warnings:  []string{"Token or pool is less than a week old"},
		Ages:      resolve.Ages{TokenAgeDays: &days, TokenAgeHours: &hours},
	}

	out := Render(a)

	assert.Contains(t, out, "Meme (MEME) on ethereum")
	assert.Contains(t, out, "Health score: 25/95")
	assert.Contains(t, out, "Risk level:   🔴 HIGH")
	assert.Contains(t, out, "67%")
	assert.Contains(t, out, "Verdict: Fresh launch")
	assert.Contains(t, out, "token younger than 7 days (-75)")
	assert.Contains(t, out, "Missing data: token_age, explorer_data")
	assert.Contains(t, out, "not financial advice")
	assert.Contains(t, out, "✗ Token age 3 days")
}

func TestRenderDegradedAnalysisIsWellFormed(t *testing.T) {
	a := &engine.Analysis{
		Identity:    resolve.Identity{Address: "0xghost", Chain: "ethereum", Name: resolve.PlaceholderName, Symbol: resolve.PlaceholderSymbol},
		HealthScore: 40,
		RiskLevel:   risk.LevelMedium,
		Confidence:  confidence.Report{Level: confidence.LevelLow, TotalChecks: 6},
		Verdict:     "Insufficient data for a reliable assessment (0% of checks completed)",
		Degraded:    true,
	}

	out := Render(a)
	assert.Contains(t, out, "New Token (NEW)")
	assert.Contains(t, out, "✗ Token age unknown")
	for _, section := range []string{"Health score", "Risk level", "Checks:", "Verdict:"} {
		assert.True(t, strings.Contains(out, section), "report structure must survive degradation: missing %q", section)
	}
}
