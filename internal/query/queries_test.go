package query

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yantology/linkfy/internal/api"
	"github.com/yantology/linkfy/internal/logger"
	redisstore "github.com/yantology/linkfy/internal/store/redis"
)

// memCache is an in-memory Cache for tests.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.entries[key]
	return data, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = data
	return nil
}

func (m *memCache) Invalidate(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

func (m *memCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}

const profileJSON = `{
	"id": "6f1e4f64-9a4b-4f6e-8f2f-0b1f6f36c001",
	"user_id": "user-1",
	"username": "alice",
	"created_at": "2025-01-02T15:04:05Z",
	"updated_at": "2025-01-02T15:04:05Z"
}`

func newQueries(t *testing.T, handler http.HandlerFunc) (*Queries, *memCache) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	cache := newMemCache()
	q := New(api.New(ts.URL), cache, logger.New("error", false), time.Minute)
	return q, cache
}

func TestProfilesCachesResult(t *testing.T) {
	var hits atomic.Int64
	q, cache := newQueries(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"data": [` + profileJSON + `], "message": "ok"}`))
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		profiles, err := q.Profiles(ctx)
		if err != nil {
			t.Fatalf("Profiles() = %v", err)
		}
		if len(profiles) != 1 || profiles[0].Username != "alice" {
			t.Fatalf("Profiles() = %+v", profiles)
		}
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("backend hits = %d, want 1 (cache must absorb repeats)", got)
	}
	if !cache.has(redisstore.KeyAllProfiles) {
		t.Error("listing not cached")
	}
}

func TestConcurrentIdenticalReadsDeduplicate(t *testing.T) {
	var hits atomic.Int64
	release := make(chan struct{})
	q, _ := newQueries(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte(`{"data": [` + profileJSON + `], "message": "ok"}`))
	})

	ctx := context.Background()
	const n = 8

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = q.Profiles(ctx)
		}(i)
	}

	// Give every goroutine time to pile onto the same in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("reader %d: %v", i, err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("backend hits = %d, want 1 (in-flight dedup)", got)
	}
}

func TestCreateProfileInvalidatesListing(t *testing.T) {
	q, cache := newQueries(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"data": [` + profileJSON + `], "message": "ok"}`))
		case http.MethodPost:
			_, _ = w.Write([]byte(`{"message": "created"}`))
		}
	})

	ctx := context.Background()
	if _, err := q.Profiles(ctx); err != nil {
		t.Fatalf("Profiles() = %v", err)
	}
	if !cache.has(redisstore.KeyAllProfiles) {
		t.Fatal("listing not cached before mutation")
	}

	msg, err := q.CreateProfile(ctx, api.CreateProfileRequest{Username: "bob"})
	if err != nil {
		t.Fatalf("CreateProfile() = %v", err)
	}
	if msg != "created" {
		t.Errorf("message = %q", msg)
	}
	if cache.has(redisstore.KeyAllProfiles) {
		t.Error("listing cache must be invalidated after create")
	}
}

func TestDeleteProfileInvalidatesReads(t *testing.T) {
	deleted := false
	q, cache := newQueries(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete:
			deleted = true
			_, _ = w.Write([]byte(`{"message": "deleted"}`))
		case deleted:
			// After deletion the listing no longer includes the profile.
			_, _ = w.Write([]byte(`{"data": [], "message": "ok"}`))
		default:
			_, _ = w.Write([]byte(`{"data": [` + profileJSON + `], "message": "ok"}`))
		}
	})

	ctx := context.Background()
	profiles, err := q.Profiles(ctx)
	if err != nil {
		t.Fatalf("Profiles() = %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("got %d profiles, want 1", len(profiles))
	}

	if _, err := q.DeleteProfile(ctx, "6f1e4f64-9a4b-4f6e-8f2f-0b1f6f36c001"); err != nil {
		t.Fatalf("DeleteProfile() = %v", err)
	}
	if cache.has(redisstore.KeyAllProfiles) {
		t.Fatal("listing cache must be invalidated after delete")
	}

	profiles, err = q.Profiles(ctx)
	if err != nil {
		t.Fatalf("Profiles() after delete = %v", err)
	}
	if len(profiles) != 0 {
		t.Errorf("deleted profile still listed: %+v", profiles)
	}
}

func TestUpdateProfileInvalidatesUsernameKey(t *testing.T) {
	q, cache := newQueries(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			_, _ = w.Write([]byte(`{"message": "updated"}`))
		default:
			_, _ = w.Write([]byte(`{"data": ` + profileJSON + `, "message": "ok"}`))
		}
	})

	ctx := context.Background()
	if _, err := q.ProfileByUsername(ctx, "alice"); err != nil {
		t.Fatalf("ProfileByUsername() = %v", err)
	}
	if !cache.has(redisstore.ProfileUsernameKey("alice")) {
		t.Fatal("username read not cached")
	}

	// Prime the new handle's key too, so the rename is visible on
	// both sides of the move.
	if _, err := q.ProfileByUsername(ctx, "alicia"); err != nil {
		t.Fatalf("ProfileByUsername() = %v", err)
	}

	username := "alicia"
	if _, err := q.UpdateProfile(ctx, "p1", "alice", api.UpdateProfileRequest{Username: &username}); err != nil {
		t.Fatalf("UpdateProfile() = %v", err)
	}
	if cache.has(redisstore.ProfileUsernameKey("alice")) {
		t.Error("old handle key must be invalidated on rename")
	}
	if cache.has(redisstore.ProfileUsernameKey("alicia")) {
		t.Error("new handle key must be invalidated on rename")
	}
}

func TestCreateLinkInvalidatesLinkListing(t *testing.T) {
	q, cache := newQueries(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			_, _ = w.Write([]byte(`{"message": "created"}`))
		default:
			_, _ = w.Write([]byte(`{"data": [], "message": "ok"}`))
		}
	})

	ctx := context.Background()
	if _, err := q.LinksForProfile(ctx, "p1"); err != nil {
		t.Fatalf("LinksForProfile() = %v", err)
	}
	if !cache.has(redisstore.LinksKey("p1")) {
		t.Fatal("link listing not cached")
	}

	_, err := q.CreateLink(ctx, "p1", api.CreateLinkRequest{Title: "GitHub", URL: "https://github.com/a"})
	if err != nil {
		t.Fatalf("CreateLink() = %v", err)
	}
	if cache.has(redisstore.LinksKey("p1")) {
		t.Error("link listing must be invalidated after create")
	}
}

func TestWarmProfilesReplacesListing(t *testing.T) {
	q, cache := newQueries(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [` + profileJSON + `], "message": "ok"}`))
	})

	count, err := q.WarmProfiles(context.Background())
	if err != nil {
		t.Fatalf("WarmProfiles() = %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if !cache.has(redisstore.KeyAllProfiles) {
		t.Error("warmed listing not cached")
	}
}
