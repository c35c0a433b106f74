package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stableScope/internal/config"
	"stableScope/internal/model"
	"stableScope/internal/quote"
	"stableScope/internal/storage"
)

func runQuoteKind(kind string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return runQuote(cmd, kind)
	}
}

func runQuote(cmd *cobra.Command, kind string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadQuote(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if kind != model.KindWithdraw && cfg.InitialAmp == 0 {
		return fmt.Errorf("amp is required")
	}
	switch kind {
	case model.KindSwap:
		if cfg.AmountIn == 0 {
			return fmt.Errorf("amount-in is required")
		}
	case model.KindDeposit:
		if cfg.Amount0 == 0 && cfg.Amount1 == 0 {
			return fmt.Errorf("amount0 or amount1 is required")
		}
	case model.KindWithdraw:
		if cfg.LPAmount == 0 {
			return fmt.Errorf("lp-amount is required")
		}
	}

	now, err := config.ParseTimestamp(cfg.Now, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("parse now: %w", err)
	}

	slippage := cfg.SlippageBps
	req := model.QuoteRequest{
		ID:   fmt.Sprintf("%s-%d", kind, now),
		Kind: kind,
		Pool: model.PoolState{
			Address:    cfg.Pool,
			Bal0:       cfg.Bal0,
			Bal1:       cfg.Bal1,
			LPSupply:   cfg.Supply,
			FeeBps:     cfg.FeeBps,
			InitialAmp: cfg.InitialAmp,
			TargetAmp:  cfg.TargetAmp,
			RampStart:  cfg.RampStart,
			RampStop:   cfg.RampStop,
			Decimals0:  cfg.Decimals0,
			Decimals1:  cfg.Decimals1,
		},
		Now:         now,
		Direction:   cfg.Direction,
		AmountIn:    cfg.AmountIn,
		Amount0:     cfg.Amount0,
		Amount1:     cfg.Amount1,
		LPAmount:    cfg.LPAmount,
		SlippageBps: &slippage,
	}

	logger.Debug("quote start",
		zap.String("kind", kind),
		zap.Int64("now", now),
		zap.Uint64("bal0", cfg.Bal0),
		zap.Uint64("bal1", cfg.Bal1),
		zap.Uint64("initial_amp", cfg.InitialAmp),
		zap.Uint64("target_amp", cfg.TargetAmp),
	)

	quoter := quote.NewQuoter(quote.Config{DefaultSlippageBps: cfg.SlippageBps}, logger)
	record, err := quoter.Quote(req)
	if err != nil {
		return err
	}

	var out *storage.JSONLWriter
	if cfg.Out == "" {
		out = storage.NewStreamWriter(os.Stdout)
	} else {
		out, err = storage.NewJSONLWriter(cfg.Out, true)
		if err != nil {
			return err
		}
	}
	if err := out.Write(record); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
