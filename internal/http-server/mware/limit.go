// Package mware содержит middleware для HTTP‑сервера.
package mware

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/rewards-aggregator/internal/http-server/response"
)

// RateLimit ограничивает общее число запросов к API token bucket'ом
// на rps запросов в секунду с всплеском burst.
func RateLimit(log *slog.Logger, rps float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "mware.RateLimit"

			if !limiter.Allow() {
				log.Warn("too many requests",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
