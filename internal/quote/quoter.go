package quote

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"stableScope/internal/model"
	"stableScope/internal/present"
	"stableScope/pkg/stableswap"
)

const (
	WarnBelowMinSwap    = "below_min_swap"
	WarnBelowMinDeposit = "below_min_deposit"
	WarnRampConstraint  = "ramp_constraint"
)

// Config holds defaults applied to requests that leave them unset.
type Config struct {
	BatchName          string
	DefaultSlippageBps uint64
}

// Quoter turns quote requests into records using the stableswap math.
type Quoter struct {
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

func NewQuoter(cfg Config, logger *zap.Logger) *Quoter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Quoter{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Quote evaluates a single request. Errors wrap the stableswap sentinels.
func (q *Quoter) Quote(req model.QuoteRequest) (model.QuoteRecord, error) {
	pool := req.Pool.Pool()
	amp := pool.Amp(req.Now)

	record := model.QuoteRecord{
		BatchName: q.cfg.BatchName,
		RequestID: req.ID,
		Kind:      req.Kind,
		Pool:      req.Pool.Address,
		Now:       req.Now,
		Amp:       amp,
		RampPhase: pool.Ramp.Phase(req.Now).String(),
		QuotedAt:  q.now().UTC().Format(time.RFC3339Nano),
	}

	// Withdrawals are proportional and never read amp.
	if req.Kind == model.KindWithdraw {
		record.Amp = 0
		record.RampPhase = ""
	} else if err := pool.Ramp.Validate(); err != nil {
		q.logger.Warn("ramp schedule outside program constraints",
			zap.String("request_id", req.ID),
			zap.String("pool", req.Pool.Address),
			zap.Error(err),
		)
		record.Warnings = append(record.Warnings, WarnRampConstraint)
	}

	var err error
	switch req.Kind {
	case model.KindSwap:
		err = q.quoteSwap(pool, req, &record)
	case model.KindDeposit:
		err = q.quoteDeposit(pool, req, &record)
	case model.KindWithdraw:
		err = q.quoteWithdraw(pool, req, &record)
	case model.KindVirtualPrice:
		err = q.quoteVirtualPrice(pool, req, &record)
	case model.KindAmp:
	default:
		err = fmt.Errorf("%w: unknown quote kind %q", stableswap.ErrInvalidInput, req.Kind)
	}
	if err != nil {
		return model.QuoteRecord{}, fmt.Errorf("quote %s: %w", req.Kind, err)
	}

	q.logger.Debug("quoted",
		zap.String("request_id", req.ID),
		zap.String("kind", req.Kind),
		zap.Uint64("amp", record.Amp),
		zap.Strings("warnings", record.Warnings),
	)
	return record, nil
}

func (q *Quoter) quoteSwap(pool stableswap.Pool, req model.QuoteRequest, record *model.QuoteRecord) error {
	dir, err := stableswap.ParseDirection(req.Direction)
	if err != nil {
		return err
	}
	swap, err := pool.Swap(dir, req.AmountIn, req.Now)
	if err != nil {
		return err
	}
	impact, err := pool.PriceImpact(dir, req.AmountIn, req.Now)
	if err != nil {
		return fmt.Errorf("price impact: %w", err)
	}

	slippage := q.cfg.DefaultSlippageBps
	if req.SlippageBps != nil {
		slippage = *req.SlippageBps
	}
	minOut, err := stableswap.CalcMinOutput(swap.AmountOut, slippage)
	if err != nil {
		return err
	}

	decIn, decOut := req.Pool.Decimals0, req.Pool.Decimals1
	if dir == stableswap.OneForZero {
		decIn, decOut = decOut, decIn
	}

	record.Direction = dir.String()
	record.AmountIn = req.AmountIn
	record.AmountOut = swap.AmountOut
	record.RawOut = swap.RawOut
	record.Fee = swap.Fee
	record.AdminFee = swap.AdminFee
	record.MinOut = minOut
	record.SlippageBps = slippage
	record.PriceImpact = impact
	record.PriceImpactPct = present.FormatImpact(impact)
	record.PriceImpactBps = present.ImpactBps(impact)
	record.AmountInDisplay = present.FormatAmount(req.AmountIn, decIn)
	record.AmountOutDisplay = present.FormatAmount(swap.AmountOut, decOut)

	if req.AmountIn < stableswap.MinSwap {
		record.Warnings = append(record.Warnings, WarnBelowMinSwap)
	}
	return nil
}

func (q *Quoter) quoteDeposit(pool stableswap.Pool, req model.QuoteRequest, record *model.QuoteRecord) error {
	minted, err := pool.Deposit(req.Amount0, req.Amount1, req.Now)
	if err != nil {
		return err
	}
	record.Amount0 = req.Amount0
	record.Amount1 = req.Amount1
	record.LPAmount = minted

	if req.Amount0 < stableswap.MinDeposit && req.Amount1 < stableswap.MinDeposit &&
		req.Amount0+req.Amount1 < stableswap.MinDeposit {
		record.Warnings = append(record.Warnings, WarnBelowMinDeposit)
	}
	return nil
}

func (q *Quoter) quoteWithdraw(pool stableswap.Pool, req model.QuoteRequest, record *model.QuoteRecord) error {
	out0, out1, err := pool.Withdraw(req.LPAmount)
	if err != nil {
		return err
	}
	record.LPAmount = req.LPAmount
	record.Amount0 = out0
	record.Amount1 = out1
	return nil
}

func (q *Quoter) quoteVirtualPrice(pool stableswap.Pool, req model.QuoteRequest, record *model.QuoteRecord) error {
	vp, err := pool.VirtualPrice(req.Now)
	if err != nil {
		return err
	}
	record.VirtualPrice = vp.Dec()
	record.VirtualPriceDisplay = present.FormatVirtualPrice(vp)
	return nil
}
