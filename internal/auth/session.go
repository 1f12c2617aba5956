package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yantology/linkfy/internal/api"
	"github.com/yantology/linkfy/internal/logger"
)

// Status is the authentication state observed by the route guards.
type Status string

const (
	// StatusLoading means the persisted session has not been examined
	// yet (or a refresh is pending). Guards let the navigation through
	// and trigger a refresh.
	StatusLoading Status = "loading"

	// StatusUnauthenticated means there is no valid session.
	StatusUnauthenticated Status = "unauthenticated"

	// StatusAuthenticated means the session token was accepted.
	StatusAuthenticated Status = "authenticated"
)

// Session is the process-wide authentication state, shared by reference
// between the navigation guards and the handlers. It is mutated only
// through Login, Logout and Refresh; each transition is one atomic
// status assignment, so readers never observe a partial update.
type Session struct {
	api  *api.Client
	log  logger.Logger
	file string
	now  func() time.Time

	mu    sync.RWMutex
	state Status
	creds Credentials

	// refreshMu coalesces concurrent refreshes into one backend call.
	// The status race across navigations is accepted: last write wins.
	refreshMu  sync.Mutex
	refreshing bool
}

// NewSession creates a session in the loading state: nothing is known
// until the first Refresh examines the persisted file.
func NewSession(file string, client *api.Client, log logger.Logger) *Session {
	return &Session{
		api:   client,
		log:   log,
		file:  file,
		now:   time.Now,
		state: StatusLoading,
	}
}

// Status returns the current authentication status.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the current session token, empty when unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Token
}

// Email returns the email the session was opened with.
func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Email
}

func (s *Session) setState(state Status, creds Credentials) {
	s.mu.Lock()
	s.state = state
	s.creds = creds
	s.mu.Unlock()
}

// Login exchanges credentials for a session token. On success the
// status becomes authenticated and the token is persisted; on failure
// the status is left exactly as it was and the error propagates for
// the form to display.
func (s *Session) Login(ctx context.Context, email, password string) error {
	resp, err := s.api.Auth.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	expiresAt, err := time.Parse(time.RFC3339, resp.Data.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to parse token expiry: %w", err)
	}

	creds := Credentials{Email: email, Token: resp.Data.Token, ExpiresAt: expiresAt}
	s.setState(StatusAuthenticated, creds)

	if err := saveCredentials(s.file, creds); err != nil {
		// The in-memory session is already valid; losing persistence
		// only costs a re-login after restart.
		s.log.Warn("failed to persist session", logger.Error(err))
	}

	s.log.Info("logged in", logger.String("email", email))
	return nil
}

// Logout clears the session and removes the persisted file.
func (s *Session) Logout() error {
	s.setState(StatusUnauthenticated, Credentials{})
	if err := clearCredentials(s.file); err != nil {
		return err
	}
	s.log.Info("logged out")
	return nil
}

// Refresh re-derives the status from the persisted session file:
// missing or expired token means unauthenticated, otherwise the token
// is revalidated against the backend. Concurrent refreshes coalesce
// into a single pass; callers racing a refresh simply observe whichever
// status was written last.
func (s *Session) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	if s.refreshing {
		s.refreshMu.Unlock()
		return nil
	}
	s.refreshing = true
	s.refreshMu.Unlock()

	defer func() {
		s.refreshMu.Lock()
		s.refreshing = false
		s.refreshMu.Unlock()
	}()

	creds, err := loadCredentials(s.file)
	if err != nil {
		s.setState(StatusUnauthenticated, Credentials{})
		return err
	}

	if creds.Expired(s.now()) {
		s.log.Debug("no usable persisted session")
		s.setState(StatusUnauthenticated, Credentials{})
		return nil
	}

	resp, err := s.api.Auth.Refresh(ctx, creds.Token)
	if err != nil {
		if apiErr, ok := api.AsError(err); ok && apiErr.IsUnauthorized() {
			s.log.Info("persisted session rejected by backend")
			s.setState(StatusUnauthenticated, Credentials{})
			return nil
		}
		// Transport trouble: keep the previous status rather than
		// logging the user out over a flaky network.
		return fmt.Errorf("session refresh failed: %w", err)
	}

	if expiresAt, perr := time.Parse(time.RFC3339, resp.Data.ExpiresAt); perr == nil {
		creds.ExpiresAt = expiresAt
	}
	creds.Token = resp.Data.Token

	s.setState(StatusAuthenticated, creds)
	if err := saveCredentials(s.file, creds); err != nil {
		s.log.Warn("failed to persist refreshed session", logger.Error(err))
	}
	return nil
}
