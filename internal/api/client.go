package api

import (
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds every backend call. There is no retry and
	// no backoff: a failed call propagates immediately.
	DefaultTimeout = 30 * time.Second

	defaultUserAgent = "linkfy-console/1.0"
)

// Client is the typed Linkfy backend client. Every operation validates
// its request before any network I/O and validates the response
// envelope before returning it, so callers only ever see shape-correct
// values.
type Client struct {
	baseURL     string
	userAgent   string
	httpClient  *http.Client
	tokenSource func() string

	// Resource services
	Profiles *ProfilesService
	Links    *LinksService
	Auth     *AuthService
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTokenSource supplies the bearer token attached to every call
// that does not carry an explicit one. An empty string means the call
// goes out unauthenticated.
func WithTokenSource(source func() string) Option {
	return func(c *Client) {
		c.tokenSource = source
	}
}

// New creates a Linkfy backend client for the given base URL
// (ex: "https://api.example.com").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: defaultUserAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Profiles = &ProfilesService{client: c}
	c.Links = &LinksService{client: c}
	c.Auth = &AuthService{client: c}

	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}
