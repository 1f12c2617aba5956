package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	APIBaseURL   string        // Linkfy backend base URL (ex: https://api.linkfy.ext/api)
	HTTPTimeout  time.Duration // per-request timeout against the backend (default: 30s)
	UserAgent    string        // User-Agent sent to the backend
	SessionFile  string        // path to the persisted session credentials (yaml)
	CacheTTL     time.Duration // lifetime of cached backend responses (default: 5m)
	WarmInterval time.Duration // interval between profile cache warmups (default: 15m)

	RefreshInterval time.Duration // interval between session token refreshes (default: 10m)
	DebounceDelay   time.Duration // quiet period before username availability checks (default: 500ms)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	RateLimitBurst  int           // availability checks allowed per window per client
	RateLimitWindow time.Duration // window for the availability rate limit
	TrustProxy      bool          // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LINKFY_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LINKFY_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("LINKFY_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LINKFY_PRETTY_LOG", true),

		// Backend client
		APIBaseURL:   requireEnv("LINKFY_API_URL"),
		HTTPTimeout:  mustDuration("LINKFY_HTTP_TIMEOUT", 30*time.Second),
		UserAgent:    getenv("LINKFY_USER_AGENT", ""),
		SessionFile:  getenv("LINKFY_SESSION_FILE", "/app/data/session.yaml"),
		CacheTTL:     mustDuration("LINKFY_CACHE_TTL", 5*time.Minute),
		WarmInterval: mustDuration("LINKFY_WARM_INTERVAL", 15*time.Minute),

		// Background work
		RefreshInterval: mustDuration("LINKFY_REFRESH_INTERVAL", 10*time.Minute),
		DebounceDelay:   mustDuration("LINKFY_DEBOUNCE_DELAY", 500*time.Millisecond),

		// Redis settings
		RedisAddr:             requireEnv("LINKFY_REDIS_ADDR"),
		RedisUser:             getenv("LINKFY_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("LINKFY_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("LINKFY_REDIS_PASSWORD", ""),
		RedisDB:               requireEnvInt("LINKFY_REDIS_DB"),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Abuse protection
		RateLimitBurst:  getenvInt("LINKFY_RATE_LIMIT_BURST", 20),
		RateLimitWindow: mustDuration("LINKFY_RATE_LIMIT_WINDOW", time.Minute),
		TrustProxy:      mustBool("LINKFY_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: LINKFY_REDIS_PASSWORD is required when LINKFY_REDIS_PASSWORD_REQUIRED=true")
	}

	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		panic(fmt.Sprintf("❌ FATAL: LINKFY_API_URL must be an absolute http(s) URL, got %q", cfg.APIBaseURL))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
