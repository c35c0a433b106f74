package batch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"stableScope/internal/model"
	"stableScope/internal/quote"
	"stableScope/internal/storage"
	"stableScope/pkg/stableswap"
)

const errorKindMalformed = "malformed_request"

// RunConfig holds runtime settings for a batch run.
type RunConfig struct {
	Name         string
	BatchSize    int
	MaxRetries   int
	RetryBackoff time.Duration
	StateStore   StateStore
}

// Result reports what a run did.
type Result struct {
	Total     int
	Quoted    int
	Failed    int
	Skipped   int
	LastLine  uint64
	Summaries []Summary
}

// ErrorWriter receives one QuoteError per failed request.
type ErrorWriter interface {
	Write(value interface{}) error
	Flush() error
}

// Runner quotes a JSONL request file and writes the records to storage.
type Runner struct {
	cfg     RunConfig
	quoter  *quote.Quoter
	storage storage.Storage
	errs    ErrorWriter
	logger  *zap.Logger
}

// NewRunner builds a Runner with its dependencies. errs may be nil.
func NewRunner(cfg RunConfig, quoter *quote.Quoter, storageSink storage.Storage, errs ErrorWriter, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:     cfg,
		quoter:  quoter,
		storage: storageSink,
		errs:    errs,
		logger:  logger,
	}
}

// Run quotes every request in inputPath after the saved checkpoint.
func (r *Runner) Run(ctx context.Context, inputPath string) (Result, error) {
	if r.quoter == nil {
		return Result{}, fmt.Errorf("quoter is nil")
	}
	if r.storage == nil {
		return Result{}, fmt.Errorf("storage is nil")
	}
	if r.cfg.BatchSize <= 0 {
		return Result{}, fmt.Errorf("batch size must be greater than zero")
	}

	var resumeAfter uint64
	if r.cfg.StateStore != nil {
		line, ok, err := r.cfg.StateStore.Load(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("load state: %w", err)
		}
		if ok {
			resumeAfter = line
			r.logger.Info("resume from checkpoint", zap.Uint64("last_processed_line", line))
		}
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return Result{}, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var res Result
	pending := make([]model.QuoteRecord, 0, r.cfg.BatchSize)
	totals := make(summaries)
	var lineNo, flushedThrough uint64

	for scanner.Scan() {
		lineNo++
		if lineNo <= resumeAfter {
			res.Skipped++
			continue
		}

		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		res.Total++

		var req model.QuoteRequest
		if err := json.Unmarshal(line, &req); err != nil {
			res.Failed++
			if err := r.writeError(model.QuoteError{Line: lineNo, ErrorKind: errorKindMalformed, Error: err.Error()}); err != nil {
				return res, err
			}
			continue
		}

		record, err := r.quoter.Quote(req)
		if err != nil {
			res.Failed++
			r.logger.Debug("quote failed", zap.Uint64("line", lineNo), zap.String("request_id", req.ID), zap.Error(err))
			if err := r.writeError(model.QuoteError{
				Line:      lineNo,
				RequestID: req.ID,
				Kind:      req.Kind,
				ErrorKind: stableswap.ErrorKind(err),
				Error:     err.Error(),
			}); err != nil {
				return res, err
			}
			continue
		}

		record.Line = lineNo
		pending = append(pending, record)
		totals.add(record)
		res.Quoted++

		if len(pending) >= r.cfg.BatchSize {
			if err := r.flush(ctx, pending, lineNo); err != nil {
				return res, err
			}
			flushedThrough = lineNo
			pending = pending[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan input: %w", err)
	}

	if lineNo > resumeAfter && lineNo > flushedThrough {
		if err := r.flush(ctx, pending, lineNo); err != nil {
			return res, err
		}
	}
	res.LastLine = lineNo
	if resumeAfter > lineNo {
		res.LastLine = resumeAfter
	}
	res.Summaries = totals.sorted()

	for _, s := range res.Summaries {
		r.logger.Info("pool summary", s.fields()...)
	}
	r.logger.Info("batch complete",
		zap.Int("total", res.Total),
		zap.Int("quoted", res.Quoted),
		zap.Int("failed", res.Failed),
		zap.Int("skipped", res.Skipped),
		zap.Uint64("last_line", res.LastLine),
	)

	return res, nil
}

// flush stores records, flushes pending quote errors, and then advances the
// checkpoint to through.
func (r *Runner) flush(ctx context.Context, records []model.QuoteRecord, through uint64) error {
	if len(records) > 0 {
		for i := range records {
			records[i].BatchName = r.cfg.Name
		}
		logger := r.logger.With(zap.Int("records", len(records)), zap.Uint64("through_line", through))
		err := withRetry(ctx, logger, "store quotes", r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
			return r.storage.PutQuoteBatch(ctx, records)
		})
		if err != nil {
			return fmt.Errorf("store quotes: %w", err)
		}
	}

	// Failed lines before through must be on disk before the checkpoint passes them.
	if r.errs != nil {
		if err := r.errs.Flush(); err != nil {
			return fmt.Errorf("flush quote errors: %w", err)
		}
	}

	if r.cfg.StateStore != nil {
		if err := r.cfg.StateStore.Save(ctx, through); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
	}

	r.logger.Info("flush complete", zap.Int("records", len(records)), zap.Uint64("through_line", through))
	return nil
}

func (r *Runner) writeError(qe model.QuoteError) error {
	if r.errs == nil {
		return nil
	}
	qe.BatchName = r.cfg.Name
	if err := r.errs.Write(qe); err != nil {
		return fmt.Errorf("write quote error: %w", err)
	}
	return nil
}
