package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/magabrotheeeer/rewards-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/rewards-aggregator/internal/metrics"
	"github.com/magabrotheeeer/rewards-aggregator/internal/models"
)

// HTTP загружает документ по URL.
type HTTP struct {
	url    string
	client *http.Client
	log    *slog.Logger
}

// NewHTTP создаёт источник с таймаутом на запрос.
func NewHTTP(url string, timeout time.Duration, log *slog.Logger) *HTTP {
	return &HTTP{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Transactions выполняет GET и разбирает ответ. Неуспешный статус — ErrFetchFailed.
func (h *HTTP) Transactions(ctx context.Context) ([]models.Transaction, error) {
	const op = "source.HTTP.Transactions"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		metrics.SourceLoads.WithLabelValues("http", metrics.ResultError).Inc()
		h.log.Error("failed to fetch transactions", slog.String("op", op), slog.String("url", h.url), sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.SourceLoads.WithLabelValues("http", metrics.ResultError).Inc()
		h.log.Error("failed to fetch transactions", slog.String("op", op), slog.String("url", h.url), slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%s: %w: status %d", op, ErrFetchFailed, resp.StatusCode)
	}

	txs, skipped, err := Decode(resp.Body)
	if err != nil {
		metrics.SourceLoads.WithLabelValues("http", metrics.ResultError).Inc()
		h.log.Error("failed to decode transactions", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if skipped > 0 {
		h.log.Warn("skipped malformed records", slog.String("op", op), slog.Int("skipped", skipped))
	}
	metrics.SourceLoads.WithLabelValues("http", metrics.ResultOK).Inc()
	return txs, nil
}

// Key идентифицирует источник в кеше.
func (h *HTTP) Key() string {
	return "http:" + h.url
}
