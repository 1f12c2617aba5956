package scheduler

import (
	"context"
	"time"

	"github.com/yantology/linkfy/internal/logger"
	"github.com/yantology/linkfy/internal/query"
)

// ProfileWarmer keeps the profile listing cache warm so the first
// visitor after a cold start or an invalidation does not pay the
// backend round-trip.
type ProfileWarmer struct {
	queries       *query.Queries
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewProfileWarmer creates a new profile cache warmer.
func NewProfileWarmer(
	queries *query.Queries,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *ProfileWarmer {
	return &ProfileWarmer{
		queries:       queries,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic warmup process. The initial warmup is
// best-effort: a backend outage at boot must not keep the gateway
// from serving.
func (pw *ProfileWarmer) Start(ctx context.Context) error {
	if err := pw.Warm(ctx); err != nil {
		pw.logger.Warn("initial cache warmup failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(pw.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := pw.Warm(ctx); err != nil {
					pw.logger.Error("failed to warm profile cache",
						logger.Error(err))
				}
			case <-pw.manualTrigger:
				pw.logger.Info("manual warmup triggered")
				if err := pw.Warm(ctx); err != nil {
					pw.logger.Error("failed to warm profile cache",
						logger.Error(err))
				}
			case <-pw.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the warmer.
func (pw *ProfileWarmer) Stop() {
	close(pw.stopCh)
}

// Warm re-lists the profiles through the validated client and replaces
// the cached listing.
func (pw *ProfileWarmer) Warm(ctx context.Context) error {
	count, err := pw.queries.WarmProfiles(ctx)
	if err != nil {
		return err
	}
	pw.logger.Info("profile cache warmed",
		logger.Int("count", count))
	return nil
}
