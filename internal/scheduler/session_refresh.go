package scheduler

import (
	"context"
	"time"

	"github.com/yantology/linkfy/internal/auth"
	"github.com/yantology/linkfy/internal/logger"
)

// SessionRefresher owns the refresh trigger the route guards nudge.
// Guards never block: they drop a signal here and this loop runs the
// actual refresh, alongside a periodic re-check that keeps a live
// token from expiring under an idle user.
type SessionRefresher struct {
	session  *auth.Session
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
	trigger  chan struct{}
}

// NewSessionRefresher creates a new session refresher.
func NewSessionRefresher(
	session *auth.Session,
	log logger.Logger,
	interval time.Duration,
	trigger chan struct{},
) *SessionRefresher {
	return &SessionRefresher{
		session:  session,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
		trigger:  trigger,
	}
}

// Start runs one refresh immediately so the session leaves the loading
// state before the first page is served, then keeps refreshing on the
// interval and on guard triggers.
func (sr *SessionRefresher) Start(ctx context.Context) error {
	if err := sr.session.Refresh(ctx); err != nil {
		sr.logger.Warn("initial session refresh failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(sr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sr.refresh(ctx)
			case <-sr.trigger:
				sr.logger.Debug("session refresh triggered by guard")
				sr.refresh(ctx)
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the refresher.
func (sr *SessionRefresher) Stop() {
	close(sr.stopCh)
}

func (sr *SessionRefresher) refresh(ctx context.Context) {
	if err := sr.session.Refresh(ctx); err != nil {
		// Transport trouble keeps the previous status; nothing to do
		// here but log and wait for the next pass.
		sr.logger.Error("session refresh failed", logger.Error(err))
	}
}
