package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yantology/linkfy/internal/api"
	"github.com/yantology/linkfy/internal/auth"
	"github.com/yantology/linkfy/internal/forms"
	"github.com/yantology/linkfy/internal/logger"
	"github.com/yantology/linkfy/internal/query"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	API     *api.Client    // validated client for the remote backend
	Session *auth.Session  // auth state machine backing the route guards
	Queries *query.Queries // cached read/mutation layer over the client
	Checker *forms.UsernameChecker

	RedisClient *redis.Client // Redis client connection

	RefreshTrigger chan struct{} // Channel the guards nudge to refresh the session
	WarmTrigger    chan struct{} // Channel to trigger a manual profile cache warmup

	TrustProxy      bool          // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RateLimitBurst  int           // availability checks allowed per window per client
	RateLimitWindow time.Duration // window for the availability rate limit
}
