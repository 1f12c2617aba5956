package query

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/yantology/linkfy/internal/api"
	"github.com/yantology/linkfy/internal/domain"
	"github.com/yantology/linkfy/internal/logger"
	redisstore "github.com/yantology/linkfy/internal/store/redis"
)

// Cache is the keyed response cache behind the read path. The Redis
// store implements it; tests substitute an in-memory map.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Queries is the only read/mutation path the handlers use. Reads go
// through the cache with in-flight deduplication; mutations call the
// backend then invalidate exactly the keys their resource touches.
// Cache trouble degrades to pass-through: a read the backend can serve
// never fails because Redis is down.
type Queries struct {
	api    *api.Client
	cache  Cache
	log    logger.Logger
	ttl    time.Duration
	flight *inflight

	warmMu    sync.Mutex
	lastWarm  time.Time
	warmCount int
}

// New creates the query layer.
func New(client *api.Client, cache Cache, log logger.Logger, ttl time.Duration) *Queries {
	if ttl <= 0 {
		ttl = redisstore.DefaultCacheTTL
	}
	return &Queries{
		api:    client,
		cache:  cache,
		log:    log,
		ttl:    ttl,
		flight: newInflight(),
	}
}

// fetch is the read-through path: cache hit, else one deduplicated
// backend load whose validated result is cached best-effort.
func fetch[T any](ctx context.Context, q *Queries, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T

	if data, ok, err := q.cache.Get(ctx, key); err != nil {
		q.log.Warn("cache read failed, falling through to backend",
			logger.String("key", key), logger.Error(err))
	} else if ok {
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			return value, nil
		}
		// Unreadable entry: drop it and reload.
		_ = q.cache.Invalidate(ctx, key)
	}

	data, err := q.flight.do(key, func() ([]byte, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		// Cached entries were validated by the API client already.
		return json.Marshal(value)
	})
	if err != nil {
		return zero, err
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return zero, err
	}

	if err := q.cache.Set(ctx, key, data, q.ttl); err != nil {
		q.log.Warn("cache write failed",
			logger.String("key", key), logger.Error(err))
	}
	return value, nil
}

func (q *Queries) invalidate(ctx context.Context, keys ...string) {
	if err := q.cache.Invalidate(ctx, keys...); err != nil {
		q.log.Warn("cache invalidation failed", logger.Error(err))
	}
}

// Profiles returns every profile, cached under the listing key.
func (q *Queries) Profiles(ctx context.Context) ([]domain.Profile, error) {
	return fetch(ctx, q, redisstore.KeyAllProfiles, func(ctx context.Context) ([]domain.Profile, error) {
		resp, err := q.api.Profiles.List(ctx)
		if err != nil {
			return nil, err
		}
		return resp.Data, nil
	})
}

// ProfileByID returns one profile, cached by id.
func (q *Queries) ProfileByID(ctx context.Context, id string) (domain.Profile, error) {
	return fetch(ctx, q, redisstore.ProfileIDKey(id), func(ctx context.Context) (domain.Profile, error) {
		resp, err := q.api.Profiles.GetByID(ctx, id)
		if err != nil {
			return domain.Profile{}, err
		}
		return resp.Data, nil
	})
}

// ProfileByUsername returns one profile, cached by username.
func (q *Queries) ProfileByUsername(ctx context.Context, username string) (domain.Profile, error) {
	return fetch(ctx, q, redisstore.ProfileUsernameKey(username), func(ctx context.Context) (domain.Profile, error) {
		resp, err := q.api.Profiles.GetByUsername(ctx, username)
		if err != nil {
			return domain.Profile{}, err
		}
		return resp.Data, nil
	})
}

// LinksForProfile returns a profile's links, cached by profile id.
func (q *Queries) LinksForProfile(ctx context.Context, linkfyID string) ([]domain.Link, error) {
	return fetch(ctx, q, redisstore.LinksKey(linkfyID), func(ctx context.Context) ([]domain.Link, error) {
		resp, err := q.api.Links.ListByProfile(ctx, linkfyID)
		if err != nil {
			return nil, err
		}
		return resp.Data, nil
	})
}

// CreateProfile creates a profile and invalidates the listing.
func (q *Queries) CreateProfile(ctx context.Context, req api.CreateProfileRequest) (string, error) {
	resp, err := q.api.Profiles.Create(ctx, req)
	if err != nil {
		return "", err
	}
	q.invalidate(ctx, redisstore.KeyAllProfiles)
	return resp.Message, nil
}

// UpdateProfile applies a partial update and invalidates every read
// that might have served the stale profile: by id, the listing, the
// current handle's lookup, and the new handle's when it changed.
func (q *Queries) UpdateProfile(ctx context.Context, id, username string, req api.UpdateProfileRequest) (string, error) {
	resp, err := q.api.Profiles.Update(ctx, id, req)
	if err != nil {
		return "", err
	}

	keys := []string{
		redisstore.ProfileIDKey(id),
		redisstore.KeyAllProfiles,
		redisstore.ProfileUsernameKey(username),
	}
	if req.Username != nil && *req.Username != username {
		keys = append(keys, redisstore.ProfileUsernameKey(*req.Username))
	}
	q.invalidate(ctx, keys...)
	return resp.Message, nil
}

// DeleteProfile removes a profile and invalidates its reads.
func (q *Queries) DeleteProfile(ctx context.Context, id string) (string, error) {
	resp, err := q.api.Profiles.Delete(ctx, id)
	if err != nil {
		return "", err
	}
	q.invalidate(ctx, redisstore.ProfileIDKey(id), redisstore.KeyAllProfiles)
	return resp.Message, nil
}

// CreateLink adds one link and invalidates the profile's link listing.
func (q *Queries) CreateLink(ctx context.Context, linkfyID string, req api.CreateLinkRequest) (string, error) {
	resp, err := q.api.Links.Create(ctx, linkfyID, req)
	if err != nil {
		return "", err
	}
	q.invalidate(ctx, redisstore.LinksKey(linkfyID))
	return resp.Message, nil
}

// CreateLinks adds a batch of links and invalidates the listing once.
func (q *Queries) CreateLinks(ctx context.Context, linkfyID string, req api.CreateLinksRequest) (string, error) {
	resp, err := q.api.Links.CreateBatch(ctx, linkfyID, req)
	if err != nil {
		return "", err
	}
	q.invalidate(ctx, redisstore.LinksKey(linkfyID))
	return resp.Message, nil
}

// WarmProfiles reloads the profile listing from the backend and
// replaces the cached entry, used by the periodic cache warmer.
func (q *Queries) WarmProfiles(ctx context.Context) (int, error) {
	resp, err := q.api.Profiles.List(ctx)
	if err != nil {
		return 0, err
	}

	data, err := json.Marshal(resp.Data)
	if err != nil {
		return 0, err
	}
	if err := q.cache.Set(ctx, redisstore.KeyAllProfiles, data, q.ttl); err != nil {
		return 0, err
	}

	q.warmMu.Lock()
	q.lastWarm = time.Now()
	q.warmCount = len(resp.Data)
	q.warmMu.Unlock()
	return len(resp.Data), nil
}

// LastWarm reports when the profile cache was last warmed and how many
// profiles the warmup stored. Zero time means never.
func (q *Queries) LastWarm() (time.Time, int) {
	q.warmMu.Lock()
	defer q.warmMu.Unlock()
	return q.lastWarm, q.warmCount
}
