package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yantology/linkfy/internal/api"
	"github.com/yantology/linkfy/internal/auth"
	"github.com/yantology/linkfy/internal/config"
	"github.com/yantology/linkfy/internal/forms"
	"github.com/yantology/linkfy/internal/httpserver"
	"github.com/yantology/linkfy/internal/httpserver/deps"
	"github.com/yantology/linkfy/internal/logger"
	"github.com/yantology/linkfy/internal/query"
	"github.com/yantology/linkfy/internal/redis"
	"github.com/yantology/linkfy/internal/scheduler"
	redisstore "github.com/yantology/linkfy/internal/store/redis"
	"github.com/yantology/linkfy/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	refresher   *scheduler.SessionRefresher
	warmer      *scheduler.ProfileWarmer
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	store := redisstore.NewStore(redisClient)

	// Backend client. The token source closes over the session so
	// every authenticated call carries the current bearer token.
	var session *auth.Session
	clientOpts := []api.Option{
		api.WithTimeout(cfg.HTTPTimeout),
		api.WithTokenSource(func() string {
			if session == nil {
				return ""
			}
			return session.Token()
		}),
	}
	if cfg.UserAgent != "" {
		clientOpts = append(clientOpts, api.WithUserAgent(cfg.UserAgent))
	}
	client := api.New(cfg.APIBaseURL, clientOpts...)

	session = auth.NewSession(cfg.SessionFile, client, loggerClient)

	queries := query.New(client, store, loggerClient, cfg.CacheTTL)

	checker := forms.NewUsernameChecker(func(ctx context.Context, username string) (string, error) {
		resp, err := client.Profiles.CheckUsername(ctx, api.CheckUsernameRequest{Username: username})
		if err != nil {
			return "", err
		}
		return resp.Message, nil
	}, cfg.DebounceDelay)

	// Trigger channels: guards nudge refreshTrigger, the warm endpoint
	// nudges warmTrigger.
	refreshTrigger := make(chan struct{}, 1)
	warmTrigger := make(chan struct{}, 1)

	refresher := scheduler.NewSessionRefresher(session, loggerClient, cfg.RefreshInterval, refreshTrigger)
	warmer := scheduler.NewProfileWarmer(queries, loggerClient, cfg.WarmInterval, warmTrigger)

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		API:             client,
		Session:         session,
		Queries:         queries,
		Checker:         checker,
		RedisClient:     redisClient,
		RefreshTrigger:  refreshTrigger,
		WarmTrigger:     warmTrigger,
		TrustProxy:      cfg.TrustProxy,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitWindow: cfg.RateLimitWindow,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		refresher:   refresher,
		warmer:      warmer,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Linkfy console v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Linkfy console %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the session refresher (examines the persisted session and
	// keeps the token fresh)
	if err := a.refresher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session refresher: %w", err)
	}
	a.logger.Info("session refresher started",
		logger.Duration("interval", a.cfg.RefreshInterval))

	// Start the profile cache warmer
	if err := a.warmer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start profile warmer: %w", err)
	}
	a.logger.Info("profile warmer started",
		logger.Duration("interval", a.cfg.WarmInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.refresher.Stop()
	a.warmer.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Linkfy console stopped cleanly")
	return nil
}
