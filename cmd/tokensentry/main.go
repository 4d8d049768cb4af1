package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/tokensentry/tokensentry/internal/cache"
	"github.com/tokensentry/tokensentry/internal/config"
	"github.com/tokensentry/tokensentry/internal/engine"
	"github.com/tokensentry/tokensentry/internal/fetch"
	"github.com/tokensentry/tokensentry/internal/httpapi"
	"github.com/tokensentry/tokensentry/internal/providers"
	"github.com/tokensentry/tokensentry/internal/report"
	"github.com/tokensentry/tokensentry/internal/store"
)

const (
	appName = "TokenSentry"
	version = "v1.2.0"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	var configPath string

	rootCmd := &cobra.Command{
		Use:     "tokensentry",
		Short:   "Rule-based token risk analysis",
		Version: version,
		Long: appName + ` scores blockchain tokens for rug-pull and honeypot
risk by combining security-scanner, liquidity-indexer, block-explorer
and ledger-RPC evidence into a single health score and verdict.`,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to yaml config file")
	rootCmd.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		// Accept snake_case spellings of every flag.
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	analyzeCmd := &cobra.Command{
		Use:   "analyze <address-or-pair>",
		Short: "Analyze one token or pair address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return runAnalyze(cmd.Context(), configPath, args[0], asJSON)
		},
	}
	analyzeCmd.Flags().Bool("json", false, "Emit the raw analysis as JSON")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(*cobra.Command, []string) {
			fmt.Printf("%s %s\n", appName, version)
		},
	}

	rootCmd.AddCommand(analyzeCmd, serveCmd, versionCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// buildEngine wires the production provider stack from config.
func buildEngine(cfg *config.Config) *engine.Engine {
	var respCache providers.Cache
	if redisCache := cache.New(cfg.Cache); redisCache != nil {
		respCache = redisCache
		log.Info().Str("addr", cfg.Cache.RedisAddr).Msg("provider response cache enabled")
	}

	scanner := providers.NewGoPlusClient(cfg.Providers.Scanner, respCache, cfg.Cache.TTL.Std())
	market := providers.NewDexScreenerClient(cfg.Providers.Market, respCache, cfg.Cache.TTL.Std())
	explorer := providers.NewExplorerClient(cfg.Providers.Explorer, respCache, cfg.Cache.TTL.Std())
	ledger := providers.NewSolanaClient(cfg.Providers.LedgerRPC)
	onchain := providers.NewOnchainClient(cfg.Providers.EVMRPC)

	fetcher := &fetch.Fetcher{
		Security: scanner,
		Market:   market,
		Explorer: explorer,
		Ledger:   ledger,
	}
	return engine.New(cfg, fetcher, scanner, onchain)
}

func runAnalyze(ctx context.Context, configPath, address string, asJSON bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	eng := buildEngine(cfg)
	analysis, err := eng.Analyze(ctx, address)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", address, err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}
	fmt.Println(report.Render(analysis))
	return nil
}

func runServe(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	eng := buildEngine(cfg)

	var quota httpapi.Quota
	grants, err := store.Open(cfg.Store.DatabaseURL)
	if err != nil {
		return err
	}
	if grants != nil {
		defer grants.Close()
		quota = grants
		log.Info().Msg("access grant enforcement enabled")
	}

	srv := httpapi.New(eng, quota, cfg.Server)
	return srv.ListenAndServe(ctx)
}
