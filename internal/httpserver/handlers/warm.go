package handlers

import (
	"net/http"

	"github.com/yantology/linkfy/internal/httpserver/deps"
	"github.com/yantology/linkfy/internal/logger"
)

// Warm triggers an immediate profile cache warmup.
func Warm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.WarmTrigger <- struct{}{}:
			d.Logger.Info("manual cache warmup triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			if _, err := w.Write([]byte("✅ Warmup triggered successfully\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		default:
			d.Logger.Warn("cache warmup already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := w.Write([]byte("⏳ Warmup already in progress, please wait\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		}
	}
}
