package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/yantology/linkfy/internal/httpserver/deps"
	"github.com/yantology/linkfy/internal/httpserver/handlers"
	"github.com/yantology/linkfy/internal/httpserver/mw"
)

func init() { Register(registerAvailability) }

// The availability probe is the only endpoint page scripts hammer, so
// it gets its own per-client rate limit on top of the debouncer.
func registerAvailability(r chi.Router, d deps.Deps) {
	r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:      d.RateLimitBurst,
		Window:     d.RateLimitWindow,
		TrustProxy: d.TrustProxy,
	})).Post("/check-username", handlers.CheckUsername(d))
}
