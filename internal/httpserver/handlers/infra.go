package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/yantology/linkfy/internal/auth"
	"github.com/yantology/linkfy/internal/httpserver/deps"
)

type componentStatus struct {
	OK             bool   `json:"ok"`
	Mode           string `json:"mode,omitempty"`
	Target         string `json:"target,omitempty"`
	Impact         string `json:"impact,omitempty"`
	LastWarm       string `json:"last_warm,omitempty"`
	ProfilesCached *int   `json:"profiles_cached,omitempty"`
	Error          string `json:"error,omitempty"`
}

type infraResponse struct {
	ServingMode string                     `json:"serving_mode"`
	Components  map[string]componentStatus `json:"components"`
}

// Infra reports the state of everything the gateway leans on: the
// Redis cache, the session machine and the profile warmup.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		components := map[string]componentStatus{
			"backend": checkBackend(d),
			"redis":   checkRedis(d),
			"session": checkSession(d),
			"warmup":  checkWarmup(d),
		}

		response := infraResponse{
			ServingMode: determineServingMode(components),
			Components:  components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func determineServingMode(components map[string]componentStatus) string {
	if redis, exists := components["redis"]; exists && !redis.OK {
		// Every read falls through to the backend.
		return "pass-through"
	}
	if session, exists := components["session"]; exists && !session.OK {
		return "starting"
	}
	return "cached"
}

// checkBackend reports where requests are proxied. The backend is not
// probed here: readiness never depends on it, cached pages still serve.
func checkBackend(d deps.Deps) componentStatus {
	return componentStatus{
		OK:     true,
		Mode:   "proxied",
		Target: d.API.BaseURL(),
	}
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "response-cache-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "response-cache-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "response-cache-enabled",
	}
}

func checkSession(d deps.Deps) componentStatus {
	status := d.Session.Status()
	return componentStatus{
		OK:   status != auth.StatusLoading,
		Mode: string(status),
	}
}

func checkWarmup(d deps.Deps) componentStatus {
	lastWarm, count := d.Queries.LastWarm()
	if lastWarm.IsZero() {
		return componentStatus{
			OK:       false,
			LastWarm: "never",
			Impact:   "first-visit-latency",
		}
	}
	return componentStatus{
		OK:             true,
		LastWarm:       lastWarm.Format("2006-01-02 15:04:05"),
		ProfilesCached: &count,
	}
}
