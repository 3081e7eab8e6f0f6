package rewardsaggregator_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rewardsaggregator "github.com/magabrotheeeer/rewards-aggregator/internal/app/rewards-aggregator"
	"github.com/magabrotheeeer/rewards-aggregator/internal/config"
)

const doc = `{"transactions": [
  {"id": 1, "customerId": 1, "customerName": "Joe", "purchaseDate": "2023-02-01", "price": 120},
  {"id": 2, "customerId": 1, "customerName": "Joe", "purchaseDate": "2023-02-10", "price": 200},
  {"id": 3, "customerId": 2, "customerName": "Chandler", "purchaseDate": "2023-02-14", "price": 65}
]}`

func newConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	return &config.Config{
		Env:        "local",
		HTTPServer: config.HTTPServer{AddressHTTP: ":0", TimeoutHTTP: time.Second, IdleTimeout: time.Second},
		Source:     config.Source{Path: path, FetchTimeout: time.Second},
		Table:      config.Table{RowsPerPage: 5, MaxRowsPerPage: 100},
		RateLimit:  config.RateLimit{RPS: 1000, Burst: 1000},
		RedisConnection: config.RedisConnection{
			MaxRetries:   1,
			DialTimeout:  time.Second,
			TimeoutRedis: time.Second,
			CacheTTL:     time.Minute,
		},
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type envelope struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	Data   struct {
		Count int              `json:"count"`
		Rows  []map[string]any `json:"rows"`
	} `json:"data"`
}

func get(t *testing.T, h http.Handler, url string) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	var env envelope
	if w.Header().Get("Content-Type") != "" && w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func TestApp_Routes(t *testing.T) {
	app, err := rewardsaggregator.New(context.Background(), newConfig(t), newLogger())
	require.NoError(t, err)
	h := app.Handler()

	code, env := get(t, h, "/api/v1/rewards/monthly")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 2, env.Data.Count)
	assert.Equal(t, float64(340), env.Data.Rows[0]["rewardPoints"])

	code, env = get(t, h, "/api/v1/rewards/total?customer_name=chan")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, env.Data.Count)
	assert.Equal(t, float64(15), env.Data.Rows[0]["rewardPoints"])

	code, env = get(t, h, "/api/v1/transactions?sort_column=price&sort_order=desc&rows_per_page=1")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, env.Data.Count)
	require.Len(t, env.Data.Rows, 1)
	assert.Equal(t, float64(2), env.Data.Rows[0]["id"])

	code, _ = get(t, h, "/api/v1/transactions?sort_order=up")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = get(t, h, "/health")
	assert.Equal(t, http.StatusOK, code)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rewards_view_requests_total")
}

func TestApp_SourceFailure(t *testing.T) {
	cfg := newConfig(t)
	cfg.Source.Path = filepath.Join(t.TempDir(), "missing.json")

	app, err := rewardsaggregator.New(context.Background(), cfg, newLogger())
	require.NoError(t, err)

	code, env := get(t, app.Handler(), "/api/v1/rewards/total")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "failed to load transactions", env.Error)
}

func TestApp_WithRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := newConfig(t)
	cfg.AddressRedis = mr.Addr()

	app, err := rewardsaggregator.New(context.Background(), cfg, newLogger())
	require.NoError(t, err)

	code, _ := get(t, app.Handler(), "/api/v1/rewards/total")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, mr.Keys(), 1)

	// Второй запрос обслуживается из кеша, даже если файл пропал.
	require.NoError(t, os.Remove(cfg.Source.Path))
	code, env := get(t, app.Handler(), "/api/v1/rewards/total")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, env.Data.Count)

	// Сброс кеша: следующий запрос снова идёт в источник, которого уже нет.
	w := httptest.NewRecorder()
	app.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/source/refresh", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, mr.Keys())

	code, env = get(t, app.Handler(), "/api/v1/rewards/total")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "failed to load transactions", env.Error)
}

func TestApp_RefreshRouteRequiresCache(t *testing.T) {
	app, err := rewardsaggregator.New(context.Background(), newConfig(t), newLogger())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	app.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/source/refresh", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApp_RedisUnavailable(t *testing.T) {
	cfg := newConfig(t)
	cfg.AddressRedis = "127.0.0.1:1"

	_, err := rewardsaggregator.New(context.Background(), cfg, newLogger())
	assert.Error(t, err)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	cfg := newConfig(t)
	cfg.AddressHTTP = "127.0.0.1:0"

	app, err := rewardsaggregator.New(context.Background(), cfg, newLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
