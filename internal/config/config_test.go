package config

import (
	"bytes"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput перехватывает вывод стандартного логгера
func captureOutput(f func()) (string, bool) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	oldFlags := log.Flags()
	log.SetFlags(0)
	defer func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(oldFlags)
	}()

	panicked := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicked = true
			}
		}()
		f()
	}()

	return buf.String(), panicked
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "config_*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

func TestMustLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
env: test
http_server:
  addresshttp: ":9090"
  timeouthttp: 30s
  idle_timeout: 90s
redis_connection:
  addressredis: "localhost:6379"
  password: "redis_pass"
  user: "redis_user"
  db: 1
  max_retries: 5
  dial_timeout: 2s
  timeoutredis: 4s
  cache_ttl: 1m
source:
  path: "./data/transactions.json"
table:
  rows_per_page: 10
  max_rows_per_page: 50
rate_limit:
  rps: 2
  burst: 4
`)
	t.Setenv("CONFIG_PATH", path)

	output, panicked := captureOutput(func() {
		cfg := MustLoad()

		assert.Equal(t, "test", cfg.Env)
		assert.Equal(t, ":9090", cfg.AddressHTTP)
		assert.Equal(t, 30*time.Second, cfg.TimeoutHTTP)
		assert.Equal(t, 90*time.Second, cfg.IdleTimeout)
		assert.Equal(t, "localhost:6379", cfg.AddressRedis)
		assert.Equal(t, "redis_pass", cfg.Password)
		assert.Equal(t, "redis_user", cfg.User)
		assert.Equal(t, 1, cfg.DB)
		assert.Equal(t, 5, cfg.MaxRetries)
		assert.Equal(t, 2*time.Second, cfg.DialTimeout)
		assert.Equal(t, 4*time.Second, cfg.TimeoutRedis)
		assert.Equal(t, time.Minute, cfg.CacheTTL)
		assert.Equal(t, "./data/transactions.json", cfg.Source.Path)
		assert.Equal(t, 10, cfg.Table.RowsPerPage)
		assert.Equal(t, 50, cfg.MaxRowsPerPage)
		assert.Equal(t, 2.0, cfg.RPS)
		assert.Equal(t, 4, cfg.Burst)
	})

	assert.Empty(t, output)
	assert.False(t, panicked)
}

func TestLoad_DefaultValues(t *testing.T) {
	path := writeConfig(t, `
env: test
source:
  url: "http://localhost:3000/transactionData.json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AddressHTTP)
	assert.Equal(t, 10*time.Second, cfg.TimeoutHTTP)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, "", cfg.AddressRedis)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 5, cfg.Table.RowsPerPage)
	assert.Equal(t, 100, cfg.MaxRowsPerPage)
	assert.Equal(t, 10.0, cfg.RPS)
	assert.Equal(t, 20, cfg.Burst)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{
			name:    "no source",
			content: "env: test\n",
			errText: "either source.path or source.url must be set",
		},
		{
			name:    "both sources",
			content: "source:\n  path: a.json\n  url: http://x/a.json\n",
			errText: "mutually exclusive",
		},
		{
			name:    "max rows less than default",
			content: "source:\n  path: a.json\ntable:\n  rows_per_page: 10\n  max_rows_per_page: 5\n",
			errText: "max_rows_per_page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/definitely/not/here.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestConfig_String(t *testing.T) {
	cfg := &Config{Env: "local"}
	cfg.AddressHTTP = ":8080"
	cfg.Source.Path = "tx.json"

	s := cfg.String()

	assert.Contains(t, s, "Env: local")
	assert.Contains(t, s, "Address: :8080")
	assert.Contains(t, s, "Path: tx.json")
}
