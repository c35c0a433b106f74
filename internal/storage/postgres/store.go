package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stableScope/internal/model"
	"stableScope/internal/storage"
)

// Store provides Postgres persistence for quote records and batch progress.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// PutQuoteBatch satisfies storage.Storage.
func (s *Store) PutQuoteBatch(ctx context.Context, records []model.QuoteRecord) error {
	return s.UpsertQuotes(ctx, records)
}

// UpsertQuotes inserts or replaces quote records keyed by (batch_name, request_id).
func (s *Store) UpsertQuotes(ctx context.Context, records []model.QuoteRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range records {
		quotedAt, err := time.Parse(time.RFC3339Nano, r.QuotedAt)
		if err != nil {
			return storage.Permanent(fmt.Errorf("parse quoted_at for %s: %w", r.RequestID, err))
		}
		warnings := r.Warnings
		if warnings == nil {
			warnings = []string{}
		}
		batch.Queue(`
			INSERT INTO stableswap_quotes (
				batch_name, request_id, line, kind, pool_address, quote_ts, amp, ramp_phase,
				direction, amount_in, amount_out, raw_out, fee, admin_fee, min_out, slippage_bps,
				price_impact, amount0, amount1, lp_amount, virtual_price, warnings, quoted_at,
				created_at, updated_at
			) VALUES (
				$1,$2,$3,$4,$5,$6,$7,$8,$9,
				$10::numeric,$11::numeric,$12::numeric,$13::numeric,$14::numeric,$15::numeric,$16,
				$17,$18::numeric,$19::numeric,$20::numeric,NULLIF($21, '')::numeric,$22,$23,now(),now()
			)
			ON CONFLICT (batch_name, request_id)
			DO UPDATE SET
				line = EXCLUDED.line,
				kind = EXCLUDED.kind,
				pool_address = EXCLUDED.pool_address,
				quote_ts = EXCLUDED.quote_ts,
				amp = EXCLUDED.amp,
				ramp_phase = EXCLUDED.ramp_phase,
				direction = EXCLUDED.direction,
				amount_in = EXCLUDED.amount_in,
				amount_out = EXCLUDED.amount_out,
				raw_out = EXCLUDED.raw_out,
				fee = EXCLUDED.fee,
				admin_fee = EXCLUDED.admin_fee,
				min_out = EXCLUDED.min_out,
				slippage_bps = EXCLUDED.slippage_bps,
				price_impact = EXCLUDED.price_impact,
				amount0 = EXCLUDED.amount0,
				amount1 = EXCLUDED.amount1,
				lp_amount = EXCLUDED.lp_amount,
				virtual_price = EXCLUDED.virtual_price,
				warnings = EXCLUDED.warnings,
				quoted_at = EXCLUDED.quoted_at,
				updated_at = now()
		`,
			r.BatchName,
			r.RequestID,
			int64(r.Line),
			r.Kind,
			r.Pool,
			r.Now,
			int64(r.Amp),
			r.RampPhase,
			r.Direction,
			u64Text(r.AmountIn),
			u64Text(r.AmountOut),
			u64Text(r.RawOut),
			u64Text(r.Fee),
			u64Text(r.AdminFee),
			u64Text(r.MinOut),
			int64(r.SlippageBps),
			int64(r.PriceImpact),
			u64Text(r.Amount0),
			u64Text(r.Amount1),
			u64Text(r.LPAmount),
			r.VirtualPrice,
			warnings,
			quotedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns the last processed request line for a batch name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var line int64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_line FROM quoter_state WHERE name=$1`, name)
	if err := row.Scan(&line); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint64(line), true, nil
}

// SaveState upserts the last processed request line for a batch name.
func (s *Store) SaveState(ctx context.Context, name string, line uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO quoter_state (name, last_processed_line, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_line = EXCLUDED.last_processed_line, updated_at = now()
	`, name, int64(line))
	return err
}

// u64Text passes amounts as text so values above MaxInt64 survive into NUMERIC columns.
func u64Text(v uint64) string {
	return strconv.FormatUint(v, 10)
}
