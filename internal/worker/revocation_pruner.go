package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/content-service/internal/observability"
	"github.com/spec-kit/content-service/internal/revocation"
)

// StartRevocationPruner periodically deletes revocation entries whose token
// has expired. It returns immediately when pruner is nil or interval is not
// positive, and stops when ctx is done.
func StartRevocationPruner(ctx context.Context, pruner revocation.Pruner, interval time.Duration, logger *zap.Logger, metrics *observability.Metrics) {
	if pruner == nil || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				PruneOnce(ctx, pruner, logger, metrics)
			}
		}
	}()
}

// PruneOnce runs a single pruning pass.
func PruneOnce(ctx context.Context, pruner revocation.Pruner, logger *zap.Logger, metrics *observability.Metrics) {
	removed, err := pruner.Prune(ctx, time.Now().UTC())
	if err != nil {
		logger.Warn("revocation prune failed", zap.Error(err))
		return
	}
	metrics.RecordPruned(removed)
	if removed > 0 {
		logger.Info("revocation entries pruned", zap.Int64("count", removed))
	}
}
