package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yantology/linkfy/internal/forms"
	"github.com/yantology/linkfy/internal/httpserver/deps"
	"github.com/yantology/linkfy/internal/logger"
)

type checkUsernameRequest struct {
	Username string `json:"username"`
}

type checkUsernameResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// CheckUsername answers the page script's availability probes. The
// call rides the server-side debouncer, so a burst of keystrokes
// collapses into one backend request and every superseded probe gets
// 204 instead of a stale verdict.
func CheckUsername(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkUsernameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}

		result, err := d.Checker.Check(r.Context(), req.Username)
		if err != nil {
			if errors.Is(err, forms.ErrSuperseded) || r.Context().Err() != nil {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			d.Logger.Error("availability check failed", logger.Error(err))
			http.Error(w, "availability check failed", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(checkUsernameResponse{
			Available: result.Available,
			Message:   result.Message,
		})
	}
}
