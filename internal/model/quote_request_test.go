package model

import (
	"encoding/json"
	"reflect"
	"testing"

	"stableScope/pkg/stableswap"
)

func TestQuoteRequestDecode(t *testing.T) {
	line := []byte(`{"id":"q-1","kind":"swap","now":1700000000,"direction":"1to0","amount_in":5000,"slippage_bps":0,
		"pool":{"address":"pool-a","bal0":1000000,"bal1":2000000,"lp_supply":2999068,"fee_bps":30,"target_amp":100,"decimals0":6,"decimals1":6}}`)

	var req QuoteRequest
	if err := json.Unmarshal(line, &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if req.ID != "q-1" || req.Kind != KindSwap || req.Direction != "1to0" || req.AmountIn != 5000 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.SlippageBps == nil || *req.SlippageBps != 0 {
		t.Fatalf("explicit zero slippage lost: %v", req.SlippageBps)
	}
	if req.Pool.Decimals1 != 6 || req.Pool.LPSupply != 2999068 {
		t.Fatalf("unexpected pool: %+v", req.Pool)
	}
}

func TestQuoteRequestOmittedSlippage(t *testing.T) {
	var req QuoteRequest
	if err := json.Unmarshal([]byte(`{"id":"q-2","kind":"amp","pool":{"target_amp":10}}`), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if req.SlippageBps != nil {
		t.Fatalf("expected nil slippage, got %d", *req.SlippageBps)
	}
}

func TestPoolStatePool(t *testing.T) {
	state := PoolState{Bal0: 10, Bal1: 20, LPSupply: 30, FeeBps: 4, TargetAmp: 100}
	want := stableswap.Pool{Bal0: 10, Bal1: 20, LPSupply: 30, FeeBps: 4, Ramp: stableswap.Fixed(100)}
	if got := state.Pool(); !reflect.DeepEqual(got, want) {
		t.Fatalf("fixed amp mismatch: %+v != %+v", got, want)
	}

	initialOnly := PoolState{Bal0: 10, Bal1: 20, LPSupply: 30, FeeBps: 4, InitialAmp: 100}
	if got := initialOnly.Pool(); !reflect.DeepEqual(got, want) {
		t.Fatalf("initial-only amp mismatch: %+v != %+v", got, want)
	}

	state.InitialAmp = 50
	state.RampStart = 100
	state.RampStop = 200
	pool := state.Pool()
	if pool.Ramp.InitialAmp != 50 || pool.Ramp.TargetAmp != 100 {
		t.Fatalf("ramp mismatch: %+v", pool.Ramp)
	}
	if amp := pool.Amp(150); amp != 75 {
		t.Fatalf("amp at midpoint = %d, want 75", amp)
	}
}
