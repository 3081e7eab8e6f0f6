package rewardsaggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/rewards-aggregator/internal/cache"
	"github.com/magabrotheeeer/rewards-aggregator/internal/config"
	"github.com/magabrotheeeer/rewards-aggregator/internal/http-server/handlers/refresh"
	"github.com/magabrotheeeer/rewards-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/rewards-aggregator/internal/services/rewards"
	"github.com/magabrotheeeer/rewards-aggregator/internal/source"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.rewardsaggregator.New"

	logger.Debug("config loaded", slog.String("config", cfg.String()))

	src, redisCache, err := NewSource(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rewardsService := rewards.NewService(src, logger)

	var refresher refresh.Invalidator
	if cached, ok := src.(*source.Cached); ok {
		refresher = cached
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, rewardsService, refresher)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		cache:  redisCache,
	}, nil
}

// NewSource выбирает источник транзакций по конфигу. Если задан адрес redis,
// источник оборачивается кешем; возвращённый *cache.Cache тогда не nil.
func NewSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (rewards.Source, *cache.Cache, error) {
	var base source.KeyedSource
	if cfg.Source.Path != "" {
		base = source.NewFile(cfg.Source.Path, logger)
	} else {
		base = source.NewHTTP(cfg.Source.URL, cfg.Source.FetchTimeout, logger)
	}

	if cfg.AddressRedis == "" {
		logger.Info("redis cache disabled")
		return base, nil, nil
	}

	redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("redis cache enabled", slog.String("address", cfg.AddressRedis), slog.Duration("ttl", cfg.CacheTTL))
	return source.NewCached(base, redisCache, cfg.CacheTTL, logger), redisCache, nil
}

// Handler отдаёт корневой http.Handler приложения.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.closeCache()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeCache()
		return err
	}
}

func (a *App) closeCache() {
	if a.cache == nil {
		return
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close redis", sl.Err(err))
	}
}
