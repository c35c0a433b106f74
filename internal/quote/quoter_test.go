package quote

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"stableScope/internal/model"
	"stableScope/pkg/stableswap"
)

func testPool() model.PoolState {
	return model.PoolState{
		Address:   "pool-a",
		Bal0:      1_000_000,
		Bal1:      1_000_000,
		LPSupply:  2_000_000,
		FeeBps:    30,
		TargetAmp: 100,
		Decimals0: 6,
		Decimals1: 6,
	}
}

func newTestQuoter(logger *zap.Logger) *Quoter {
	q := NewQuoter(Config{BatchName: "test", DefaultSlippageBps: 50}, logger)
	q.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return q
}

func TestQuoteSwap(t *testing.T) {
	q := newTestQuoter(nil)
	rec, err := q.Quote(model.QuoteRequest{ID: "s1", Kind: model.KindSwap, Pool: testPool(), AmountIn: 1_000})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}

	want := model.QuoteRecord{
		BatchName:        "test",
		RequestID:        "s1",
		Kind:             model.KindSwap,
		Pool:             "pool-a",
		Amp:              100,
		RampPhase:        "idle",
		Direction:        "0to1",
		AmountIn:         1_000,
		AmountOut:        997,
		RawOut:           1_000,
		Fee:              3,
		AdminFee:         1,
		MinOut:           992,
		SlippageBps:      50,
		PriceImpact:      3_000_000,
		PriceImpactPct:   "0.3000",
		PriceImpactBps:   30,
		AmountInDisplay:  "0.001000",
		AmountOutDisplay: "0.000997",
		Warnings:         []string{WarnBelowMinSwap},
		QuotedAt:         "2023-11-14T22:13:20Z",
	}
	if !reflect.DeepEqual(rec, want) {
		t.Fatalf("record mismatch:\n got %+v\nwant %+v", rec, want)
	}
}

func TestQuoteSwapSlippageOverride(t *testing.T) {
	q := newTestQuoter(nil)
	zero := uint64(0)
	rec, err := q.Quote(model.QuoteRequest{ID: "s2", Kind: model.KindSwap, Pool: testPool(), AmountIn: 1_000, SlippageBps: &zero})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if rec.MinOut != rec.AmountOut || rec.SlippageBps != 0 {
		t.Fatalf("expected min out == amount out with zero slippage, got %+v", rec)
	}
}

func TestQuoteDepositWithdraw(t *testing.T) {
	q := newTestQuoter(nil)

	rec, err := q.Quote(model.QuoteRequest{ID: "d1", Kind: model.KindDeposit, Pool: testPool(), Amount0: 1_000, Amount1: 1_000})
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if rec.LPAmount != 2_000 {
		t.Fatalf("minted = %d, want 2000", rec.LPAmount)
	}
	if !reflect.DeepEqual(rec.Warnings, []string{WarnBelowMinDeposit}) {
		t.Fatalf("unexpected warnings: %v", rec.Warnings)
	}

	noAmp := testPool()
	noAmp.TargetAmp = 0
	rec, err = q.Quote(model.QuoteRequest{ID: "w1", Kind: model.KindWithdraw, Pool: noAmp, LPAmount: 500_000})
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if rec.Amount0 != 250_000 || rec.Amount1 != 250_000 || len(rec.Warnings) != 0 {
		t.Fatalf("unexpected withdraw: %+v", rec)
	}
}

func TestQuoteVirtualPriceAndAmp(t *testing.T) {
	q := newTestQuoter(nil)

	rec, err := q.Quote(model.QuoteRequest{ID: "v1", Kind: model.KindVirtualPrice, Pool: testPool()})
	if err != nil {
		t.Fatalf("virtual price failed: %v", err)
	}
	if rec.VirtualPrice != "1000000000000000000" || rec.VirtualPriceDisplay != "1.000000000000000000" {
		t.Fatalf("unexpected virtual price: %+v", rec)
	}

	pool := testPool()
	pool.InitialAmp = 100
	pool.TargetAmp = 1_000
	pool.RampStart = 0
	pool.RampStop = 86_400
	rec, err = q.Quote(model.QuoteRequest{ID: "a1", Kind: model.KindAmp, Pool: pool, Now: 43_200})
	if err != nil {
		t.Fatalf("amp failed: %v", err)
	}
	if rec.Amp != 550 || rec.RampPhase != "active" || len(rec.Warnings) != 0 {
		t.Fatalf("unexpected amp record: %+v", rec)
	}
}

func TestQuoteErrors(t *testing.T) {
	q := newTestQuoter(nil)

	empty := testPool()
	empty.Bal0 = 0
	_, err := q.Quote(model.QuoteRequest{ID: "e1", Kind: model.KindSwap, Pool: empty, AmountIn: 1_000})
	if !errors.Is(err, stableswap.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	_, err = q.Quote(model.QuoteRequest{ID: "e2", Kind: "flash_loan", Pool: testPool()})
	if stableswap.ErrorKind(err) != "invalid_input" {
		t.Fatalf("expected invalid input for unknown kind, got %v", err)
	}

	_, err = q.Quote(model.QuoteRequest{ID: "e3", Kind: model.KindSwap, Pool: testPool(), AmountIn: 1_000, Direction: "up"})
	if !errors.Is(err, stableswap.ErrInvalidInput) {
		t.Fatalf("expected invalid input for bad direction, got %v", err)
	}
}

func TestQuoteWarnsOnShortRamp(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	q := newTestQuoter(zap.New(core))

	pool := testPool()
	pool.InitialAmp = 100
	pool.TargetAmp = 200
	pool.RampStart = 0
	pool.RampStop = 600
	rec, err := q.Quote(model.QuoteRequest{ID: "r1", Kind: model.KindAmp, Pool: pool, Now: 300})
	if err != nil {
		t.Fatalf("amp failed: %v", err)
	}
	if rec.Amp != 150 {
		t.Fatalf("amp = %d, want 150", rec.Amp)
	}
	if !reflect.DeepEqual(rec.Warnings, []string{WarnRampConstraint}) {
		t.Fatalf("unexpected warnings: %v", rec.Warnings)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one warning log, got %d", logs.Len())
	}
}

func TestQuoteSwapInitialAmpOnly(t *testing.T) {
	q := newTestQuoter(nil)
	pool := testPool()
	pool.TargetAmp = 0
	pool.InitialAmp = 100

	rec, err := q.Quote(model.QuoteRequest{ID: "s3", Kind: model.KindSwap, Pool: pool, AmountIn: 1_000})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if rec.Amp != 100 || rec.AmountOut != 997 || rec.RampPhase != "idle" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !reflect.DeepEqual(rec.Warnings, []string{WarnBelowMinSwap}) {
		t.Fatalf("unexpected warnings: %v", rec.Warnings)
	}
}
