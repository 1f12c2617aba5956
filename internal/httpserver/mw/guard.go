package mw

import (
	"net/http"

	"github.com/yantology/linkfy/internal/auth"
)

// AuthState is the slice of the session the guards need.
type AuthState interface {
	Status() auth.Status
}

// RequireAuth protects pages that need a live session. Unauthenticated
// visitors are sent to the landing page. While the session is still
// loading the request proceeds as-is and a refresh is nudged through
// the trigger channel, never blocking the request path.
func RequireAuth(state AuthState, refresh chan<- struct{}) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch state.Status() {
			case auth.StatusUnauthenticated:
				http.Redirect(w, r, "/", http.StatusFound)
				return
			case auth.StatusLoading:
				nudge(refresh)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PublicOnly keeps signed-in users away from the entry pages by sending
// them to the dashboard. Loading behaves like RequireAuth: nudge a
// refresh and let the page through.
func PublicOnly(state AuthState, refresh chan<- struct{}) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch state.Status() {
			case auth.StatusAuthenticated:
				http.Redirect(w, r, "/dashboard", http.StatusFound)
				return
			case auth.StatusLoading:
				nudge(refresh)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// nudge fires the trigger without waiting: a refresh already in flight
// absorbs the request.
func nudge(refresh chan<- struct{}) {
	select {
	case refresh <- struct{}{}:
	default:
	}
}
