package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yantology/linkfy/internal/api"
	"github.com/yantology/linkfy/internal/logger"
)

func newTestSession(t *testing.T, handler http.HandlerFunc) (*Session, string) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	file := filepath.Join(t.TempDir(), "session.yaml")
	log := logger.New("error", false)
	return NewSession(file, api.New(ts.URL), log), file
}

func TestSessionStartsLoading(t *testing.T) {
	s, _ := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {})
	if got := s.Status(); got != StatusLoading {
		t.Errorf("Status() = %v, want %v", got, StatusLoading)
	}
}

func TestLoginSuccess(t *testing.T) {
	s, file := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data": {"token": "tok-1", "expires_at": "2099-01-02T15:04:05Z"}, "message": "ok"}`))
	})

	if err := s.Login(context.Background(), "alice@example.com", "secret"); err != nil {
		t.Fatalf("Login() = %v", err)
	}
	if got := s.Status(); got != StatusAuthenticated {
		t.Errorf("Status() = %v, want authenticated", got)
	}
	if got := s.Token(); got != "tok-1" {
		t.Errorf("Token() = %q, want tok-1", got)
	}

	// Session must be persisted for the next process.
	if _, err := os.Stat(file); err != nil {
		t.Errorf("session file not written: %v", err)
	}
}

func TestLoginFailureLeavesStatusUnchanged(t *testing.T) {
	s, _ := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "invalid credentials"}`))
	})

	err := s.Login(context.Background(), "alice@example.com", "wrong")
	if err == nil {
		t.Fatal("Login() should fail")
	}
	if err.Error() != "invalid credentials" {
		t.Errorf("error = %q, want server message verbatim", err.Error())
	}
	if got := s.Status(); got != StatusLoading {
		t.Errorf("Status() = %v, want unchanged (loading)", got)
	}
}

func TestRefreshWithoutPersistedSession(t *testing.T) {
	s, _ := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("refresh without a token must not call the backend")
	})

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() = %v", err)
	}
	if got := s.Status(); got != StatusUnauthenticated {
		t.Errorf("Status() = %v, want unauthenticated", got)
	}
}

func TestRefreshExpiredToken(t *testing.T) {
	s, file := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("expired token must not be sent to the backend")
	})

	creds := Credentials{Email: "a@b.co", Token: "stale", ExpiresAt: time.Now().Add(-time.Hour)}
	if err := saveCredentials(file, creds); err != nil {
		t.Fatalf("saveCredentials() = %v", err)
	}

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() = %v", err)
	}
	if got := s.Status(); got != StatusUnauthenticated {
		t.Errorf("Status() = %v, want unauthenticated", got)
	}
}

func TestRefreshRevalidatesToken(t *testing.T) {
	var gotAuth string
	s, file := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data": {"token": "tok-2", "expires_at": "2099-01-02T15:04:05Z"}, "message": "ok"}`))
	})

	creds := Credentials{Email: "a@b.co", Token: "tok-1", ExpiresAt: time.Now().Add(time.Hour)}
	if err := saveCredentials(file, creds); err != nil {
		t.Fatalf("saveCredentials() = %v", err)
	}

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() = %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q, want Bearer tok-1", gotAuth)
	}
	if got := s.Status(); got != StatusAuthenticated {
		t.Errorf("Status() = %v, want authenticated", got)
	}
	if got := s.Token(); got != "tok-2" {
		t.Errorf("Token() = %q, want rotated tok-2", got)
	}
}

func TestRefreshRejectedTokenLogsOut(t *testing.T) {
	s, file := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "token revoked"}`))
	})

	creds := Credentials{Token: "tok-1", ExpiresAt: time.Now().Add(time.Hour)}
	if err := saveCredentials(file, creds); err != nil {
		t.Fatalf("saveCredentials() = %v", err)
	}

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() = %v", err)
	}
	if got := s.Status(); got != StatusUnauthenticated {
		t.Errorf("Status() = %v, want unauthenticated", got)
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	s, file := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"token": "tok-1", "expires_at": "2099-01-02T15:04:05Z"}, "message": "ok"}`))
	})

	if err := s.Login(context.Background(), "a@b.co", "pw"); err != nil {
		t.Fatalf("Login() = %v", err)
	}
	if err := s.Logout(); err != nil {
		t.Fatalf("Logout() = %v", err)
	}
	if got := s.Status(); got != StatusUnauthenticated {
		t.Errorf("Status() = %v, want unauthenticated", got)
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Errorf("session file should be removed, stat err = %v", err)
	}
}
