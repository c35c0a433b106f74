package batch

import (
	"sort"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"stableScope/internal/model"
	"stableScope/pkg/stableswap"
)

// Summary accumulates quote totals for one pool across a batch run.
type Summary struct {
	Pool      string
	Quotes    uint64
	Swaps     uint64
	Deposits  uint64
	Withdraws uint64
	// Volume is indexed by token: In[0] is token0 sold into the pool.
	In       [2]*uint256.Int
	Out      [2]*uint256.Int
	Fees     [2]*uint256.Int
	LPMinted *uint256.Int
	LPBurned *uint256.Int
	LastAmp  uint64
	// LastVirtualPrice is the latest virtual_price quote, 1e18-scaled.
	LastVirtualPrice string
}

func newSummary(pool string) *Summary {
	return &Summary{
		Pool:     pool,
		In:       [2]*uint256.Int{new(uint256.Int), new(uint256.Int)},
		Out:      [2]*uint256.Int{new(uint256.Int), new(uint256.Int)},
		Fees:     [2]*uint256.Int{new(uint256.Int), new(uint256.Int)},
		LPMinted: new(uint256.Int),
		LPBurned: new(uint256.Int),
	}
}

// Add folds a quote record into the summary.
func (s *Summary) Add(record model.QuoteRecord) {
	s.Quotes++
	if record.Kind != model.KindWithdraw {
		s.LastAmp = record.Amp
	}

	switch record.Kind {
	case model.KindSwap:
		in, out := 0, 1
		if record.Direction == stableswap.OneForZero.String() {
			in, out = 1, 0
		}
		addU64(s.In[in], record.AmountIn)
		addU64(s.Out[out], record.AmountOut)
		addU64(s.Fees[out], record.Fee)
		s.Swaps++
	case model.KindDeposit:
		addU64(s.In[0], record.Amount0)
		addU64(s.In[1], record.Amount1)
		addU64(s.LPMinted, record.LPAmount)
		s.Deposits++
	case model.KindWithdraw:
		addU64(s.Out[0], record.Amount0)
		addU64(s.Out[1], record.Amount1)
		addU64(s.LPBurned, record.LPAmount)
		s.Withdraws++
	case model.KindVirtualPrice:
		s.LastVirtualPrice = record.VirtualPrice
	}
}

func (s *Summary) fields() []zap.Field {
	return []zap.Field{
		zap.String("pool", s.Pool),
		zap.Uint64("quotes", s.Quotes),
		zap.Uint64("swaps", s.Swaps),
		zap.Uint64("deposits", s.Deposits),
		zap.Uint64("withdraws", s.Withdraws),
		zap.String("in0", s.In[0].Dec()),
		zap.String("in1", s.In[1].Dec()),
		zap.String("out0", s.Out[0].Dec()),
		zap.String("out1", s.Out[1].Dec()),
		zap.String("fee0", s.Fees[0].Dec()),
		zap.String("fee1", s.Fees[1].Dec()),
		zap.String("lp_minted", s.LPMinted.Dec()),
		zap.String("lp_burned", s.LPBurned.Dec()),
		zap.Uint64("last_amp", s.LastAmp),
		zap.String("last_virtual_price", s.LastVirtualPrice),
	}
}

func addU64(target *uint256.Int, v uint64) {
	target.Add(target, uint256.NewInt(v))
}

// summaries keys accumulators by pool address.
type summaries map[string]*Summary

func (m summaries) add(record model.QuoteRecord) {
	s := m[record.Pool]
	if s == nil {
		s = newSummary(record.Pool)
		m[record.Pool] = s
	}
	s.Add(record)
}

func (m summaries) sorted() []Summary {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Summary, 0, len(keys))
	for _, k := range keys {
		out = append(out, *m[k])
	}
	return out
}
