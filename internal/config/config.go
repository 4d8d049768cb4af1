// Package config holds the engine's tunable constants and provider
// wiring. The numeric weights are product-tuning choices, not load
// bearing mathematics; they live here so they can be adjusted without
// touching rule code.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration unmarshals yaml scalars like "500ms" or "8s".
type Duration time.Duration

// Std returns the standard library representation.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config is the root configuration.
type Config struct {
	Providers  ProvidersConfig  `yaml:"providers"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Confidence ConfidenceConfig `yaml:"confidence"`
	Flags      FlagsConfig      `yaml:"flags"`
	Risk       RiskConfig       `yaml:"risk"`
	Cache      CacheConfig      `yaml:"cache"`
	Store      StoreConfig      `yaml:"store"`
	Server     ServerConfig     `yaml:"server"`
}

// ProviderConfig configures one outbound HTTP provider.
type ProviderConfig struct {
	BaseURL    string   `yaml:"base_url"`
	APIKey     string   `yaml:"api_key"`
	Timeout    Duration `yaml:"timeout"`
	MaxRetries int      `yaml:"max_retries"`
	RetryDelay Duration `yaml:"retry_delay"`
	RatePerSec float64  `yaml:"rate_per_sec"`
	Burst      int      `yaml:"burst"`
}

// ProvidersConfig wires every external collaborator.
type ProvidersConfig struct {
	Scanner   ProviderConfig `yaml:"scanner"`    // security scanner (GoPlus)
	Market    ProviderConfig `yaml:"market"`     // liquidity indexer (DexScreener)
	Explorer  ProviderConfig `yaml:"explorer"`   // block explorer (Etherscan v2)
	LedgerRPC ProviderConfig `yaml:"ledger_rpc"` // Solana JSON-RPC
	EVMRPC    ProviderConfig `yaml:"evm_rpc"`    // eth_call metadata reads
}

// ScoringConfig holds penalty points and override values for the
// scoring state machine.
type ScoringConfig struct {
	BaseScore     int `yaml:"base_score"`
	MaxScore      int `yaml:"max_score"` // hard ceiling, never 100
	NewTokenScore int `yaml:"new_token_score"`

	NewTokenMaxAgeDays int `yaml:"new_token_max_age_days"`

	Penalties PenaltyConfig `yaml:"penalties"`

	LowConfidenceCap        int `yaml:"low_confidence_cap"`
	MediumConfidenceCap     int `yaml:"medium_confidence_cap"`
	MediumConfidenceCapPct  int `yaml:"medium_confidence_cap_pct"` // checklist % under which the medium cap applies
}

// PenaltyConfig lists the per-flag deductions, applied in fixed order.
type PenaltyConfig struct {
	Honeypot           int `yaml:"honeypot"`
	MintAuthority      int `yaml:"mint_authority"`
	FreezeAuthority    int `yaml:"freeze_authority"`
	OwnerPrivileges    int `yaml:"owner_privileges"`
	Blacklist          int `yaml:"blacklist"`
	NoLiquidity        int `yaml:"no_liquidity"`
	UnverifiedContract int `yaml:"unverified_contract"`
	ProxyUpgradeable   int `yaml:"proxy_upgradeable"`
	AgeUnknown         int `yaml:"age_unknown"`
	LowConfidence      int `yaml:"low_confidence"`
	MediumConfidence   int `yaml:"medium_confidence"`
	LedgerCoverage     int `yaml:"ledger_coverage"` // blanket deduction for reduced non-EVM check coverage
}

// ConfidenceConfig holds the blend weights, provider-availability
// deductions and tier thresholds.
type ConfidenceConfig struct {
	ChecklistWeight    float64 `yaml:"checklist_weight"`
	AvailabilityWeight float64 `yaml:"availability_weight"`

	ScannerDeduction  int `yaml:"scanner_deduction"`
	MarketDeduction   int `yaml:"market_deduction"`
	ExplorerDeduction int `yaml:"explorer_deduction"`
	LedgerDeduction   int `yaml:"ledger_deduction"`

	HighMinBlended     float64 `yaml:"high_min_blended"`
	HighMinChecklist   int     `yaml:"high_min_checklist"`
	HighMinChecks      int     `yaml:"high_min_checks"`
	MediumMinBlended   float64 `yaml:"medium_min_blended"`
	MediumMinChecklist int     `yaml:"medium_min_checklist"`
	MediumMinChecks    int     `yaml:"medium_min_checks"`
}

// FlagsConfig holds the flag-detector thresholds.
type FlagsConfig struct {
	HoneypotTaxPct     float64 `yaml:"honeypot_tax_pct"`
	MinLiquidityUSD    float64 `yaml:"min_liquidity_usd"`
	NewTokenMaxAgeDays int     `yaml:"new_token_max_age_days"`
}

// RiskConfig holds the risk-level thresholds.
type RiskConfig struct {
	LowMinScore        int `yaml:"low_min_score"`
	MediumMinScore     int `yaml:"medium_min_score"`
	CoreLowMinScore    int `yaml:"core_low_min_score"`
	LowConfLowMinScore int `yaml:"low_conf_low_min_score"`
	MediumConfMaxScore int `yaml:"medium_conf_max_score"`
}

// CacheConfig configures the optional provider-response cache.
type CacheConfig struct {
	RedisAddr     string   `yaml:"redis_addr"`
	RedisPassword string   `yaml:"redis_password"`
	RedisDB       int      `yaml:"redis_db"`
	TTL           Duration `yaml:"ttl"`
}

// StoreConfig configures the access-grant store.
type StoreConfig struct {
	DatabaseURL string `yaml:"database_url"`
}

// ServerConfig configures the HTTP harness.
type ServerConfig struct {
	Listen         string   `yaml:"listen"`
	AnalyzeTimeout Duration `yaml:"analyze_timeout"`
}

// Default returns the production configuration.
func Default() *Config {
	return &Config{
		Providers: ProvidersConfig{
			Scanner: ProviderConfig{
				BaseURL:    "https://api.gopluslabs.io",
				Timeout:    Duration(8 * time.Second),
				MaxRetries: 2,
				RetryDelay: Duration(500 * time.Millisecond),
				RatePerSec: 3,
				Burst:      3,
			},
			Market: ProviderConfig{
				BaseURL:    "https://api.dexscreener.com",
				Timeout:    Duration(8 * time.Second),
				MaxRetries: 2,
				RetryDelay: Duration(500 * time.Millisecond),
				RatePerSec: 5,
				Burst:      5,
			},
			Explorer: ProviderConfig{
				BaseURL:    "https://api.etherscan.io/v2/api",
				Timeout:    Duration(8 * time.Second),
				MaxRetries: 1,
				RetryDelay: Duration(time.Second),
				RatePerSec: 4,
				Burst:      2,
			},
			LedgerRPC: ProviderConfig{
				BaseURL:    "https://api.mainnet-beta.solana.com",
				Timeout:    Duration(8 * time.Second),
				MaxRetries: 2,
				RetryDelay: Duration(500 * time.Millisecond),
				RatePerSec: 4,
				Burst:      2,
			},
			EVMRPC: ProviderConfig{
				Timeout:    Duration(6 * time.Second),
				MaxRetries: 1,
				RetryDelay: Duration(500 * time.Millisecond),
				RatePerSec: 5,
				Burst:      5,
			},
		},
		Scoring: ScoringConfig{
			BaseScore:              100,
			MaxScore:               95,
			NewTokenScore:          25,
			NewTokenMaxAgeDays:     7,
			Penalties: PenaltyConfig{
				Honeypot:           50,
				MintAuthority:      30,
				FreezeAuthority:    25,
				OwnerPrivileges:    30,
				Blacklist:          20,
				NoLiquidity:        25,
				UnverifiedContract: 5,
				ProxyUpgradeable:   10,
				AgeUnknown:         10,
				LowConfidence:      15,
				MediumConfidence:   8,
				LedgerCoverage:     15,
			},
			LowConfidenceCap:       65,
			MediumConfidenceCap:    75,
			MediumConfidenceCapPct: 60,
		},
		Confidence: ConfidenceConfig{
			ChecklistWeight:    0.6,
			AvailabilityWeight: 0.4,
			ScannerDeduction:   30,
			MarketDeduction:    30,
			ExplorerDeduction:  20,
			LedgerDeduction:    20,
			HighMinBlended:     75,
			HighMinChecklist:   70,
			HighMinChecks:      5,
			MediumMinBlended:   50,
			MediumMinChecklist: 40,
			MediumMinChecks:    3,
		},
		Flags: FlagsConfig{
			HoneypotTaxPct:     50,
			MinLiquidityUSD:    1000,
			NewTokenMaxAgeDays: 7,
		},
		Risk: RiskConfig{
			LowMinScore:        80,
			MediumMinScore:     60,
			CoreLowMinScore:    85,
			LowConfLowMinScore: 80,
			MediumConfMaxScore: 70,
		},
		Cache: CacheConfig{
			TTL: Duration(5 * time.Minute),
		},
		Server: ServerConfig{
			Listen:         ":8090",
			AnalyzeTimeout: Duration(45 * time.Second),
		},
	}
}

// Load reads a yaml file over the defaults and applies environment
// overrides for secrets.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ETHERSCAN_API_KEY"); v != "" {
		c.Providers.Explorer.APIKey = v
	}
	if v := os.Getenv("SOLANA_RPC_URL"); v != "" {
		c.Providers.LedgerRPC.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Store.DatabaseURL = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.Server.Listen = v
	}
}
