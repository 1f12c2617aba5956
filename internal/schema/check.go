package schema

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Check collects rule violations across a whole payload before any of
// them is surfaced. Rules never short-circuit: the caller always gets
// every violated path in one pass.
type Check struct {
	issues Issues
}

// Add records a violation verbatim.
func (c *Check) Add(path, message string) {
	c.issues = append(c.issues, Issue{Path: path, Message: message})
}

// Err returns the aggregated Issues, or nil when everything passed.
func (c *Check) Err() error {
	if len(c.issues) == 0 {
		return nil
	}
	return c.issues
}

// Required records a violation when the decoded field was absent.
// Used with pointer-typed wire structs where nil means "missing".
func (c *Check) Required(path string, present bool) bool {
	if !present {
		c.Add(path, "required")
	}
	return present
}

// NonEmpty requires a non-empty string.
func (c *Check) NonEmpty(path, v string) {
	if v == "" {
		c.Add(path, "cannot be empty")
	}
}

// MinLen requires at least n characters (counted as runes, matching
// what a user perceives as length).
func (c *Check) MinLen(path, v string, n int) {
	if len([]rune(v)) < n {
		c.Add(path, fmt.Sprintf("must be at least %d characters", n))
	}
}

// MaxLen requires at most n characters.
func (c *Check) MaxLen(path, v string, n int) {
	if len([]rune(v)) > n {
		c.Add(path, fmt.Sprintf("must be at most %d characters", n))
	}
}

// URL requires an absolute http(s) URL.
func (c *Check) URL(path, v string) {
	u, err := url.Parse(v)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		c.Add(path, "invalid url")
	}
}

// UUID requires a well-formed UUID string.
func (c *Check) UUID(path, v string) {
	if _, err := uuid.Parse(v); err != nil {
		c.Add(path, "invalid uuid")
	}
}

// Datetime requires an RFC 3339 timestamp.
func (c *Check) Datetime(path, v string) {
	if _, err := time.Parse(time.RFC3339, v); err != nil {
		c.Add(path, "invalid datetime")
	}
}

// NonNegative requires n >= 0.
func (c *Check) NonNegative(path string, n int) {
	if n < 0 {
		c.Add(path, "must not be negative")
	}
}
