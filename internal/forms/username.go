package forms

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yantology/linkfy/internal/api"
)

// ErrSuperseded reports that a newer availability check replaced this
// one before it completed. Callers drop the result silently.
var ErrSuperseded = errors.New("availability check superseded")

// DefaultDebounce matches the typing cadence the check is tuned for.
const DefaultDebounce = 500 * time.Millisecond

// CheckFunc asks the backend whether a username is free. It returns
// the backend's message; a conflict error means the name is taken.
type CheckFunc func(ctx context.Context, username string) (string, error)

// Availability is the outcome of a completed check.
type Availability struct {
	Available bool
	Message   string
}

// UsernameChecker debounces availability lookups. Each Check call
// restarts the quiet period and cancels any in-flight request from an
// earlier call, so only the last issued check ever reports a result.
type UsernameChecker struct {
	check CheckFunc
	delay time.Duration

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func NewUsernameChecker(check CheckFunc, delay time.Duration) *UsernameChecker {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &UsernameChecker{check: check, delay: delay}
}

// Check waits out the debounce window, then queries the backend if no
// newer call arrived in the meantime. Local validation runs first so
// obviously invalid names never hit the network.
func (uc *UsernameChecker) Check(ctx context.Context, username string) (Availability, error) {
	req := api.CheckUsernameRequest{Username: username}
	if err := req.Validate(); err != nil {
		return Availability{Available: false, Message: err.Error()}, nil
	}

	callCtx, myGen := uc.supersede(ctx)

	timer := time.NewTimer(uc.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return Availability{}, ctx.Err()
		}
		return Availability{}, ErrSuperseded
	}

	if !uc.fresh(myGen) {
		return Availability{}, ErrSuperseded
	}

	msg, err := uc.check(callCtx, username)
	switch {
	case err == nil:
		return Availability{Available: true, Message: msg}, nil
	case callCtx.Err() != nil && ctx.Err() == nil:
		return Availability{}, ErrSuperseded
	default:
		if apiErr, ok := api.AsError(err); ok && apiErr.IsConflict() {
			return Availability{Available: false, Message: apiErr.Message}, nil
		}
		return Availability{}, err
	}
}

// supersede registers a new generation and cancels the previous one.
func (uc *UsernameChecker) supersede(ctx context.Context) (context.Context, uint64) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.cancel != nil {
		uc.cancel()
	}
	callCtx, cancel := context.WithCancel(ctx)
	uc.cancel = cancel
	uc.gen++
	return callCtx, uc.gen
}

func (uc *UsernameChecker) fresh(gen uint64) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.gen == gen
}
