package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "STABLESWAP"

// QuoteConfig holds pool and trade parameters for the single-quote commands.
type QuoteConfig struct {
	Pool        string
	Bal0        uint64
	Bal1        uint64
	Supply      uint64
	FeeBps      uint64
	SlippageBps uint64
	AmountIn    uint64
	Direction   string
	Amount0     uint64
	Amount1     uint64
	LPAmount    uint64
	InitialAmp  uint64
	TargetAmp   uint64
	RampStart   int64
	RampStop    int64
	Now         string
	Decimals0   uint8
	Decimals1   uint8
	Out         string
	LogLevel    string
}

// LoadQuote merges config file, environment variables, and flags into QuoteConfig.
//
// --amp sets a fixed amplification. --initial-amp and --target-amp override it
// for a ramp; a missing target means no ramp.
func LoadQuote(cfgFile string, flags *pflag.FlagSet) (QuoteConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"fee-bps":      uint64(30),
		"slippage-bps": uint64(50),
		"direction":    "0to1",
		"log-level":    "info",
	})
	if err != nil {
		return QuoteConfig{}, err
	}

	initial := v.GetUint64("initial-amp")
	if initial == 0 {
		initial = v.GetUint64("amp")
	}
	target := v.GetUint64("target-amp")
	if target == 0 {
		target = initial
	}

	cfg := QuoteConfig{
		Pool:        v.GetString("pool"),
		Bal0:        v.GetUint64("bal0"),
		Bal1:        v.GetUint64("bal1"),
		Supply:      v.GetUint64("supply"),
		FeeBps:      v.GetUint64("fee-bps"),
		SlippageBps: v.GetUint64("slippage-bps"),
		AmountIn:    v.GetUint64("amount-in"),
		Direction:   v.GetString("direction"),
		Amount0:     v.GetUint64("amount0"),
		Amount1:     v.GetUint64("amount1"),
		LPAmount:    v.GetUint64("lp-amount"),
		InitialAmp:  initial,
		TargetAmp:   target,
		RampStart:   v.GetInt64("ramp-start"),
		RampStop:    v.GetInt64("ramp-stop"),
		Now:         v.GetString("now"),
		Decimals0:   uint8(v.GetUint("decimals0")),
		Decimals1:   uint8(v.GetUint("decimals1")),
		Out:         v.GetString("out"),
		LogLevel:    v.GetString("log-level"),
	}

	return cfg, nil
}

// BatchConfig holds configuration for the batch command.
type BatchConfig struct {
	Input        string
	Out          string
	Errors       string
	PGDSN        string
	BatchSize    int
	StateFile    string
	Name         string
	SlippageBps  uint64
	MaxRetries   int
	RetryBackoff time.Duration
	LogLevel     string
}

// LoadBatch merges config file, environment variables, and flags into BatchConfig.
func LoadBatch(cfgFile string, flags *pflag.FlagSet) (BatchConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"out":           "./data/quotes.jsonl",
		"errors":        "./data/quote_errors.jsonl",
		"batch-size":    500,
		"name":          "default",
		"slippage-bps":  uint64(50),
		"max-retries":   3,
		"retry-backoff": 200 * time.Millisecond,
		"log-level":     "info",
	})
	if err != nil {
		return BatchConfig{}, err
	}

	cfg := BatchConfig{
		Input:        v.GetString("in"),
		Out:          v.GetString("out"),
		Errors:       v.GetString("errors"),
		PGDSN:        v.GetString("pg-dsn"),
		BatchSize:    v.GetInt("batch-size"),
		StateFile:    v.GetString("state-file"),
		Name:         v.GetString("name"),
		SlippageBps:  v.GetUint64("slippage-bps"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}
