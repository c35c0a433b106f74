package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"stableScope/internal/model"
)

func main() {
	root := &cobra.Command{
		Use:          "stableswap",
		Short:        "Off-chain StableSwap quoting",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	swapCmd := &cobra.Command{
		Use:   "swap",
		Short: "Quote a swap against the pool",
		RunE:  runQuoteKind(model.KindSwap),
	}
	addPoolFlags(swapCmd)
	addRampFlags(swapCmd)
	swapCmd.Flags().Uint64("amount-in", 0, "input amount in base units")
	swapCmd.Flags().String("direction", "0to1", "swap direction (0to1, 1to0)")
	swapCmd.Flags().Uint64("slippage-bps", 50, "slippage tolerance for min output, in basis points")
	root.AddCommand(swapCmd)

	depositCmd := &cobra.Command{
		Use:   "deposit",
		Short: "Quote LP tokens minted for a deposit",
		RunE:  runQuoteKind(model.KindDeposit),
	}
	addPoolFlags(depositCmd)
	addRampFlags(depositCmd)
	depositCmd.Flags().Uint64("amount0", 0, "token0 deposit in base units")
	depositCmd.Flags().Uint64("amount1", 0, "token1 deposit in base units")
	root.AddCommand(depositCmd)

	withdrawCmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Quote reserves released by burning LP tokens",
		RunE:  runQuoteKind(model.KindWithdraw),
	}
	addPoolFlags(withdrawCmd)
	withdrawCmd.Flags().Uint64("lp-amount", 0, "LP tokens to burn")
	root.AddCommand(withdrawCmd)

	virtualPriceCmd := &cobra.Command{
		Use:   "virtual-price",
		Short: "Quote the LP token virtual price",
		RunE:  runQuoteKind(model.KindVirtualPrice),
	}
	addPoolFlags(virtualPriceCmd)
	addRampFlags(virtualPriceCmd)
	root.AddCommand(virtualPriceCmd)

	ampCmd := &cobra.Command{
		Use:   "amp",
		Short: "Resolve the effective amplification at a timestamp",
		RunE:  runQuoteKind(model.KindAmp),
	}
	addRampFlags(ampCmd)
	ampCmd.Flags().String("out", "", "append the record to this JSONL file instead of stdout")
	ampCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(ampCmd)

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Quote a JSONL file of requests",
		RunE:  runBatch,
	}
	batchCmd.Flags().String("in", "", "input quote requests JSONL")
	batchCmd.Flags().String("out", "./data/quotes.jsonl", "output quotes JSONL (ignored with --pg-dsn)")
	batchCmd.Flags().String("errors", "./data/quote_errors.jsonl", "quote errors JSONL")
	batchCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	batchCmd.Flags().Int("batch-size", 500, "records per storage write")
	batchCmd.Flags().String("state-file", "", "optional local state file for progress tracking")
	batchCmd.Flags().String("name", "default", "batch name used for records and progress")
	batchCmd.Flags().Uint64("slippage-bps", 50, "default slippage tolerance for swap requests")
	batchCmd.Flags().Int("max-retries", 3, "maximum storage retry attempts")
	batchCmd.Flags().Duration("retry-backoff", 200*time.Millisecond, "initial retry backoff")
	batchCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(batchCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPoolFlags(cmd *cobra.Command) {
	cmd.Flags().String("pool", "", "pool address recorded with the quote")
	cmd.Flags().Uint64("bal0", 0, "token0 reserve in base units")
	cmd.Flags().Uint64("bal1", 0, "token1 reserve in base units")
	cmd.Flags().Uint64("supply", 0, "LP token supply")
	cmd.Flags().Uint64("fee-bps", 30, "trade fee in basis points")
	cmd.Flags().Uint8("decimals0", 0, "token0 decimals for display")
	cmd.Flags().Uint8("decimals1", 0, "token1 decimals for display")
	cmd.Flags().String("out", "", "append the record to this JSONL file instead of stdout")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func addRampFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64("amp", 0, "fixed amplification coefficient")
	cmd.Flags().Uint64("initial-amp", 0, "amp at ramp start (overrides --amp)")
	cmd.Flags().Uint64("target-amp", 0, "amp at ramp stop, defaults to the initial amp")
	cmd.Flags().Int64("ramp-start", 0, "ramp start (unix seconds)")
	cmd.Flags().Int64("ramp-stop", 0, "ramp stop (unix seconds)")
	cmd.Flags().String("now", "", "evaluation time (unix seconds or RFC3339), defaults to now")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
