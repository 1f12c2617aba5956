package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Credentials is what survives a restart: the session token and its
// expiry, persisted to a yaml file. Refresh re-derives the auth status
// from this file.
type Credentials struct {
	Email     string    `yaml:"email"`
	Token     string    `yaml:"token"`
	ExpiresAt time.Time `yaml:"expires_at"`
}

// Expired reports whether the token is past its expiry at the given time.
func (c Credentials) Expired(now time.Time) bool {
	return c.Token == "" || !c.ExpiresAt.After(now)
}

// loadCredentials reads the persisted session file. A missing file is
// not an error; it simply means no session.
func loadCredentials(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Credentials{}, nil
		}
		return Credentials{}, fmt.Errorf("failed to read session file: %w", err)
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse session file: %w", err)
	}
	return creds, nil
}

// saveCredentials writes the session file with owner-only permissions.
func saveCredentials(path string, creds Credentials) error {
	data, err := yaml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create session dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// clearCredentials removes the session file. Missing file is fine.
func clearCredentials(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
