package flags

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tokensentry/tokensentry/internal/chain"
	"github.com/tokensentry/tokensentry/internal/config"
	"github.com/tokensentry/tokensentry/internal/evidence"
	"github.com/tokensentry/tokensentry/internal/resolve"
)

var cfg = config.Default().Flags

func agesOfDays(days int) resolve.Ages {
	hours := days * 24
	return resolve.Ages{TokenAgeDays: &days, TokenAgeHours: &hours}
}

func marketWithLiquidity(subject string, usd float64) *evidence.MarketReport {
	return &evidence.MarketReport{Pairs: []evidence.Pair{
		{
			Base:         evidence.TokenRef{Address: subject, Symbol: "MEME"},
			Quote:        evidence.TokenRef{Address: "0xweth", Symbol: "WETH"},
			LiquidityUSD: &usd,
		},
	}}
}

func TestHoneypot_FlagOrTaxOrCannotSellAll(t *testing.T) {
	tests := []struct {
		name string
		sec  evidence.SecurityReport
		want bool
	}{
		{"explicit flag", evidence.SecurityReport{Honeypot: true}, true},
		{"buy tax above threshold", evidence.SecurityReport{BuyTaxPct: 60}, true},
		{"sell tax above threshold", evidence.SecurityReport{SellTaxPct: 99}, true},
		{"cannot sell all", evidence.SecurityReport{CannotSellAll: true}, true},
		{"moderate taxes", evidence.SecurityReport{BuyTaxPct: 10, SellTaxPct: 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Detect(chain.KindEVM, "0xmeme", &evidence.Bundle{Security: &tt.sec}, resolve.Ages{}, cfg)
			assert.Equal(t, tt.want, s.Honeypot)
		})
	}
}

func TestHoneypot_IsEVMOnly(t *testing.T) {
	s := Detect(chain.KindLedgerB58, "Mint", &evidence.Bundle{Security: &evidence.SecurityReport{Honeypot: true}}, resolve.Ages{}, cfg)
	assert.False(t, s.Honeypot)
}

func TestAuthorities_PresentOnlyWhenNonEmpty(t *testing.T) {
	s := Detect(chain.KindLedgerB58, "Mint", &evidence.Bundle{
		Ledger: &evidence.LedgerReport{MintAuthority: "SomeKey", FreezeAuthority: ""},
	}, resolve.Ages{}, cfg)
	assert.True(t, s.MintAuthority)
	assert.False(t, s.FreezeAuthority)

	// No ledger data at all: neither flag fires.
	s = Detect(chain.KindLedgerB58, "Mint", &evidence.Bundle{}, resolve.Ages{}, cfg)
	assert.False(t, s.MintAuthority)
	assert.False(t, s.FreezeAuthority)
}

func TestOwnerPrivilegesAndBlacklist(t *testing.T) {
	s := Detect(chain.KindEVM, "0xmeme", &evidence.Bundle{
		Security: &evidence.SecurityReport{HiddenOwner: true, Blacklist: true},
	}, resolve.Ages{}, cfg)
	assert.True(t, s.OwnerPrivileges)
	assert.True(t, s.BlacklistAuthority)
	assert.True(t, s.AnyCritical())
}

func TestProxy_EitherSourceSuffices(t *testing.T) {
	scannerOnly := Detect(chain.KindEVM, "0xmeme", &evidence.Bundle{
		Security: &evidence.SecurityReport{Proxy: true},
		Explorer: &evidence.ExplorerReport{Verified: true},
	}, resolve.Ages{}, cfg)
	assert.True(t, scannerOnly.ProxyUpgradeable)

	explorerOnly := Detect(chain.KindEVM, "0xmeme", &evidence.Bundle{
		Security: &evidence.SecurityReport{},
		Explorer: &evidence.ExplorerReport{Verified: true, Proxy: true},
	}, resolve.Ages{}, cfg)
	assert.True(t, explorerOnly.ProxyUpgradeable)
}

func TestUnverified_RequiresExplicitExplorerEvidence(t *testing.T) {
	// Missing explorer data must not accuse.
	s := Detect(chain.KindEVM, "0xmeme", &evidence.Bundle{}, resolve.Ages{}, cfg)
	assert.False(t, s.UnverifiedContract)

	s = Detect(chain.KindEVM, "0xmeme", &evidence.Bundle{Explorer: &evidence.ExplorerReport{Verified: false}}, resolve.Ages{}, cfg)
	assert.True(t, s.UnverifiedContract)

	// Allow-listed tokens are exempt even with an unverified report.
	s = Detect(chain.KindEVM, "0x514910771af9ca656af840dff83e8264ecf986ca", &evidence.Bundle{Explorer: &evidence.ExplorerReport{Verified: false}}, resolve.Ages{}, cfg)
	assert.False(t, s.UnverifiedContract)
}

func TestNoLiquidity_KnownLowOnly(t *testing.T) {
	s := Detect(chain.KindEVM, "0xmeme", &evidence.Bundle{Market: marketWithLiquidity("0xmeme", 400)}, resolve.Ages{}, cfg)
	assert.True(t, s.NoLiquidity)

	s = Detect(chain.KindEVM, "0xmeme", &evidence.Bundle{Market: marketWithLiquidity("0xmeme", 50000)}, resolve.Ages{}, cfg)
	assert.False(t, s.NoLiquidity)

	// Unknown liquidity must not set the flag.
	s = Detect(chain.KindEVM, "0xmeme", &evidence.Bundle{Market: &evidence.MarketReport{Pairs: []evidence.Pair{
		{Base: evidence.TokenRef{Address: "0xmeme"}, Quote: evidence.TokenRef{Address: "0xweth", Symbol: "WETH"}},
	}}}, resolve.Ages{}, cfg)
	assert.False(t, s.NoLiquidity)

	// Core tokens are always exempt.
	s = Detect(chain.KindEVM, "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		&evidence.Bundle{Market: marketWithLiquidity("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", 1)}, resolve.Ages{}, cfg)
	assert.False(t, s.NoLiquidity)
}

func TestNotListed_MirrorsKnownSemantics(t *testing.T) {
	// Indexer answered and knows no pairs: not listed.
	s := Detect(chain.KindEVM, "0xmeme", &evidence.Bundle{Market: &evidence.MarketReport{}}, resolve.Ages{}, cfg)
	assert.True(t, s.NotListed)

	// Indexer unavailable: unknown, not an accusation.
	s = Detect(chain.KindEVM, "0xmeme", &evidence.Bundle{}, resolve.Ages{}, cfg)
	assert.False(t, s.NotListed)
}

func TestNewToken_RequiresKnownAge(t *testing.T) {
	s := Detect(chain.KindEVM, "0xmeme", &evidence.Bundle{}, agesOfDays(3), cfg)
	assert.True(t, s.NewToken)

	s = Detect(chain.KindEVM, "0xmeme", &evidence.Bundle{}, agesOfDays(30), cfg)
	assert.False(t, s.NewToken)

	s = Detect(chain.KindEVM, "0xmeme", &evidence.Bundle{}, resolve.Ages{}, cfg)
	assert.False(t, s.NewToken, "unknown age is not confirmed new")
}
