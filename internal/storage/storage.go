package storage

import (
	"context"

	"stableScope/internal/model"
)

// Storage defines a sink for quote records.
type Storage interface {
	PutQuoteBatch(ctx context.Context, records []model.QuoteRecord) error
}
