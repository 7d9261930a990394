package chain

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// BlockNumberSource reports the latest block height of a chain.
type BlockNumberSource interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
}

// LedgerClock derives the ledger sequence of an invocation from the latest block number.
type LedgerClock struct {
	source  BlockNumberSource
	backoff backoff
	logger  *zap.Logger
}

func NewLedgerClock(source BlockNumberSource, maxRetries int, retryBackoff time.Duration, logger *zap.Logger) *LedgerClock {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerClock{
		source:  source,
		backoff: newBackoff(maxRetries, retryBackoff),
		logger:  logger,
	}
}

// Sequence returns the latest block number, retrying transient RPC failures.
func (c *LedgerClock) Sequence(ctx context.Context) (uint32, error) {
	if c.source == nil {
		return 0, fmt.Errorf("block number source is nil")
	}

	var height uint64
	err := c.backoff.run(ctx, func(ctx context.Context) error {
		var err error
		height, err = c.source.LatestBlockNumber(ctx)
		return err
	}, func(attempt int, err error) {
		c.logger.Debug("latest block number failed", zap.Int("attempt", attempt), zap.Error(err))
	})
	if err != nil {
		return 0, fmt.Errorf("latest block number: %w", err)
	}
	if height > math.MaxUint32 {
		return 0, fmt.Errorf("block number %d exceeds ledger sequence range", height)
	}
	return uint32(height), nil
}
