package stableswap

import (
	"fmt"

	"github.com/holiman/uint256"
)

// RampPhase is derived from the schedule timestamps; nothing stores it.
type RampPhase int

const (
	// RampIdle means there is no valid ramp and the target amp applies.
	RampIdle RampPhase = iota
	RampPending
	RampActive
	RampComplete
)

func (p RampPhase) String() string {
	switch p {
	case RampPending:
		return "pending"
	case RampActive:
		return "active"
	case RampComplete:
		return "complete"
	default:
		return "idle"
	}
}

// RampSchedule is the amp ramp stored on the pool account.
type RampSchedule struct {
	InitialAmp uint64
	TargetAmp  uint64
	RampStart  int64
	RampStop   int64
}

// Fixed returns a schedule that holds amp constant.
func Fixed(amp uint64) RampSchedule {
	return RampSchedule{InitialAmp: amp, TargetAmp: amp}
}

// AmpAt returns the effective amp at unix time now.
func (r RampSchedule) AmpAt(now int64) uint64 {
	return EffectiveAmp(r.InitialAmp, r.TargetAmp, r.RampStart, r.RampStop, now)
}

// Phase reports where now falls relative to the schedule.
func (r RampSchedule) Phase(now int64) RampPhase {
	switch {
	case r.RampStop <= r.RampStart:
		return RampIdle
	case now >= r.RampStop:
		return RampComplete
	case now <= r.RampStart:
		return RampPending
	default:
		return RampActive
	}
}

// Validate checks the schedule against the program's ramp constraints.
func (r RampSchedule) Validate() error {
	for _, amp := range []uint64{r.InitialAmp, r.TargetAmp} {
		if amp < MinAmp || amp > MaxAmp {
			return fmt.Errorf("%w: amp %d outside [%d, %d]", ErrInvalidInput, amp, MinAmp, MaxAmp)
		}
	}
	if r.RampStop > r.RampStart && r.InitialAmp != r.TargetAmp {
		if duration := rampDuration(r.RampStart, r.RampStop); duration < uint64(RampMinDuration) {
			return fmt.Errorf("%w: ramp lasts %ds, minimum is %ds", ErrInvalidInput, duration, RampMinDuration)
		}
	}
	return nil
}

// EffectiveAmp interpolates amp linearly between rampStart and rampStop.
// Before the ramp it is initialAmp, from rampStop on it is targetAmp, and a
// schedule with rampStop <= rampStart always yields targetAmp. The step is
// truncated toward initialAmp in both ramp directions.
func EffectiveAmp(initialAmp, targetAmp uint64, rampStart, rampStop, now int64) uint64 {
	if rampStop <= rampStart || now >= rampStop {
		return targetAmp
	}
	if now <= rampStart {
		return initialAmp
	}

	elapsed := rampDuration(rampStart, now)
	duration := rampDuration(rampStart, rampStop)

	if targetAmp > initialAmp {
		return initialAmp + scaleStep(targetAmp-initialAmp, elapsed, duration)
	}
	return initialAmp - scaleStep(initialAmp-targetAmp, elapsed, duration)
}

// rampDuration is stop - start for stop > start, exact over the full int64 range.
func rampDuration(start, stop int64) uint64 {
	return uint64(stop) - uint64(start)
}

// scaleStep returns diff·elapsed/duration for elapsed < duration, which is
// always below diff.
func scaleStep(diff, elapsed, duration uint64) uint64 {
	step := new(uint256.Int).Mul(u(diff), u(elapsed))
	return step.Div(step, u(duration)).Uint64()
}
