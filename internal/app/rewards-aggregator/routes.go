// Package rewardsaggregator собирает HTTP-приложение: источник транзакций,
// сервис представлений и маршруты.
package rewardsaggregator

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/rewards-aggregator/internal/config"
	"github.com/magabrotheeeer/rewards-aggregator/internal/http-server/handlers/health"
	"github.com/magabrotheeeer/rewards-aggregator/internal/http-server/handlers/monthly"
	"github.com/magabrotheeeer/rewards-aggregator/internal/http-server/handlers/refresh"
	"github.com/magabrotheeeer/rewards-aggregator/internal/http-server/handlers/total"
	"github.com/magabrotheeeer/rewards-aggregator/internal/http-server/handlers/transactions"
	"github.com/magabrotheeeer/rewards-aggregator/internal/http-server/mware"
	"github.com/magabrotheeeer/rewards-aggregator/internal/services/rewards"
)

// RegisterRoutes регистрирует все маршруты приложения. refresher может быть nil,
// тогда маршрут сброса кеша не регистрируется.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, rewardsService *rewards.Service, refresher refresh.Invalidator) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	rows, maxRows := cfg.Table.RowsPerPage, cfg.Table.MaxRowsPerPage

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mware.RateLimit(logger, cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		r.Get("/transactions", transactions.New(logger, rewardsService, rows, maxRows).ServeHTTP)
		r.Get("/rewards/monthly", monthly.New(logger, rewardsService, rows, maxRows).ServeHTTP)
		r.Get("/rewards/total", total.New(logger, rewardsService, rows, maxRows).ServeHTTP)
		if refresher != nil {
			r.Post("/source/refresh", refresh.New(logger, refresher).ServeHTTP)
		}
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
}
