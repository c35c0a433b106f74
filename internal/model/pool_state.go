package model

import "stableScope/pkg/stableswap"

// PoolState is the decoded pool account as it appears in request files.
type PoolState struct {
	Address    string `json:"address,omitempty"`
	Bal0       uint64 `json:"bal0"`
	Bal1       uint64 `json:"bal1"`
	LPSupply   uint64 `json:"lp_supply"`
	FeeBps     uint64 `json:"fee_bps"`
	InitialAmp uint64 `json:"initial_amp"`
	TargetAmp  uint64 `json:"target_amp"`
	RampStart  int64  `json:"ramp_start"`
	RampStop   int64  `json:"ramp_stop"`
	Decimals0  uint8  `json:"decimals0"`
	Decimals1  uint8  `json:"decimals1"`
}

// Pool converts the record into the math package's pool view. A state
// carrying only one of initial_amp and target_amp is treated as a fixed amp.
func (p PoolState) Pool() stableswap.Pool {
	initial, target := p.InitialAmp, p.TargetAmp
	if initial == 0 {
		initial = target
	}
	if target == 0 {
		target = initial
	}
	return stableswap.Pool{
		Bal0:     p.Bal0,
		Bal1:     p.Bal1,
		LPSupply: p.LPSupply,
		FeeBps:   p.FeeBps,
		Ramp: stableswap.RampSchedule{
			InitialAmp: initial,
			TargetAmp:  target,
			RampStart:  p.RampStart,
			RampStop:   p.RampStop,
		},
	}
}
