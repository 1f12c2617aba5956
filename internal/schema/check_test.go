package schema

import (
	"strings"
	"testing"
)

func TestCheckRules(t *testing.T) {
	tests := []struct {
		name     string
		run      func(c *Check)
		wantPath string // empty = expect no issue
		wantMsg  string
	}{
		{
			name: "min length too short",
			run:  func(c *Check) { c.MinLen("username", "ab", 3) },

			wantPath: "username",
			wantMsg:  "must be at least 3 characters",
		},
		{
			name: "min length exact boundary",
			run:  func(c *Check) { c.MinLen("username", "abc", 3) },
		},
		{
			name: "max length exceeded",
			run:  func(c *Check) { c.MaxLen("bio", strings.Repeat("x", 501), 500) },

			wantPath: "bio",
			wantMsg:  "must be at most 500 characters",
		},
		{
			name: "max length exact boundary",
			run:  func(c *Check) { c.MaxLen("bio", strings.Repeat("x", 500), 500) },
		},
		{
			name: "multibyte runes counted once",
			run:  func(c *Check) { c.MaxLen("name", strings.Repeat("é", 50), 50) },
		},
		{
			name: "valid https url",
			run:  func(c *Check) { c.URL("avatar_url", "https://example.com/a.png") },
		},
		{
			name: "url without scheme",
			run:  func(c *Check) { c.URL("avatar_url", "example.com/a.png") },

			wantPath: "avatar_url",
			wantMsg:  "invalid url",
		},
		{
			name: "url with unsupported scheme",
			run:  func(c *Check) { c.URL("avatar_url", "ftp://example.com/a.png") },

			wantPath: "avatar_url",
			wantMsg:  "invalid url",
		},
		{
			name: "valid uuid",
			run:  func(c *Check) { c.UUID("id", "6f1e4f64-9a4b-4f6e-8f2f-0b1f6f36c001") },
		},
		{
			name: "invalid uuid",
			run:  func(c *Check) { c.UUID("id", "not-a-uuid") },

			wantPath: "id",
			wantMsg:  "invalid uuid",
		},
		{
			name: "valid datetime",
			run:  func(c *Check) { c.Datetime("created_at", "2025-01-02T15:04:05Z") },
		},
		{
			name: "invalid datetime",
			run:  func(c *Check) { c.Datetime("created_at", "yesterday") },

			wantPath: "created_at",
			wantMsg:  "invalid datetime",
		},
		{
			name: "negative position",
			run:  func(c *Check) { c.NonNegative("position", -1) },

			wantPath: "position",
			wantMsg:  "must not be negative",
		},
		{
			name: "missing required field",
			run:  func(c *Check) { c.Required("data", false) },

			wantPath: "data",
			wantMsg:  "required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Check
			tt.run(&c)
			err := c.Err()

			if tt.wantPath == "" {
				if err != nil {
					t.Fatalf("Err() = %v, want nil", err)
				}
				return
			}

			issues, ok := AsIssues(err)
			if !ok {
				t.Fatalf("Err() = %v, want Issues", err)
			}
			if len(issues) != 1 {
				t.Fatalf("got %d issues, want 1: %v", len(issues), issues)
			}
			if issues[0].Path != tt.wantPath || issues[0].Message != tt.wantMsg {
				t.Errorf("issue = %q: %q, want %q: %q",
					issues[0].Path, issues[0].Message, tt.wantPath, tt.wantMsg)
			}
		})
	}
}

func TestIssuesAggregation(t *testing.T) {
	var c Check
	c.MinLen("username", "ab", 3)
	c.URL("avatar_url", "nope")

	err := c.Err()
	if err == nil {
		t.Fatal("expected aggregated error")
	}

	msg := err.Error()
	for _, want := range []string{"username: must be at least 3 characters", "avatar_url: invalid url"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}

	fields := err.(Issues).Fields()
	if len(fields) != 2 {
		t.Errorf("Fields() = %v, want 2 entries", fields)
	}
	if fields["username"] == "" || fields["avatar_url"] == "" {
		t.Errorf("Fields() missing paths: %v", fields)
	}
}
