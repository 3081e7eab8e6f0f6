package source

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/rewards-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/rewards-aggregator/internal/metrics"
	"github.com/magabrotheeeer/rewards-aggregator/internal/models"
)

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// KeyedSource — источник, который умеет назвать себя для ключа кеша.
type KeyedSource interface {
	Source
	Key() string
}

// Cached кеширует список транзакций исходного источника. Ошибки кеша только
// логируются: источник остаётся рабочим и без redis.
type Cached struct {
	next  KeyedSource
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewCached оборачивает источник кешем.
func NewCached(next KeyedSource, cache Cache, ttl time.Duration, log *slog.Logger) *Cached {
	return &Cached{next: next, cache: cache, ttl: ttl, log: log}
}

func (c *Cached) cacheKey() string {
	return "transactions:" + c.next.Key()
}

// Transactions отдаёт список из кеша или загружает и кладёт в кеш.
func (c *Cached) Transactions(ctx context.Context) ([]models.Transaction, error) {
	const op = "source.Cached.Transactions"

	key := c.cacheKey()
	var txs []models.Transaction
	found, err := c.cache.Get(ctx, key, &txs)
	if err != nil {
		c.log.Warn("failed to read from cache", slog.String("op", op), slog.String("key", key), sl.Err(err))
	}
	if found && err == nil {
		metrics.SourceLoads.WithLabelValues("cache", metrics.ResultCacheHit).Inc()
		return txs, nil
	}

	txs, err = c.next.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, txs, c.ttl); err != nil {
		c.log.Warn("failed to cache transactions", slog.String("op", op), slog.String("key", key), sl.Err(err))
	}
	return txs, nil
}

// Invalidate сбрасывает закешированный список.
func (c *Cached) Invalidate(ctx context.Context) error {
	return c.cache.Invalidate(ctx, c.cacheKey())
}

// Key делегирует ключ исходному источнику.
func (c *Cached) Key() string {
	return c.next.Key()
}
