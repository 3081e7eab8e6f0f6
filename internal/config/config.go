// Package config предоставляет структуры и функции для парсинга и загрузки конфига.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer      `yaml:"http_server"`
	RedisConnection `yaml:"redis_connection"`
	Source          `yaml:"source"`
	Table           `yaml:"table"`
	RateLimit       `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кеширование источника.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
	CacheTTL     time.Duration `yaml:"cache_ttl" env-default:"5m"`
}

// Source структура с настройками источника транзакций: файл или URL.
type Source struct {
	Path         string        `yaml:"path" env:"SOURCE_PATH"`
	URL          string        `yaml:"url" env:"SOURCE_URL"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" env-default:"10s"`
}

// Table структура с настройками табличного вывода по умолчанию.
type Table struct {
	RowsPerPage    int `yaml:"rows_per_page" env-default:"5"`
	MaxRowsPerPage int `yaml:"max_rows_per_page" env-default:"100"`
}

// RateLimit структура для настройки ограничения частоты запросов.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"10"`
	Burst int     `yaml:"burst" env-default:"20"`
}

// MustLoad загружает конфиг из файла, путь к которому лежит в CONFIG_PATH.
// При любой ошибке завершает процесс.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает и проверяет конфиг по указанному пути.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	var errs []error
	if c.Source.Path == "" && c.Source.URL == "" {
		errs = append(errs, errors.New("either source.path or source.url must be set"))
	}
	if c.Source.Path != "" && c.Source.URL != "" {
		errs = append(errs, errors.New("source.path and source.url are mutually exclusive"))
	}
	if c.Table.RowsPerPage < 1 {
		errs = append(errs, fmt.Errorf("invalid table.rows_per_page %d: must be at least 1", c.Table.RowsPerPage))
	}
	if c.Table.MaxRowsPerPage < c.Table.RowsPerPage {
		errs = append(errs, fmt.Errorf("invalid table.max_rows_per_page %d: must not be less than rows_per_page", c.Table.MaxRowsPerPage))
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("rate_limit.rps and rate_limit.burst must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  CacheTTL: %s\n"+
			"Source:\n"+
			"  Path: %s\n"+
			"  URL: %s\n"+
			"Table:\n"+
			"  RowsPerPage: %d\n"+
			"  MaxRowsPerPage: %d\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.AddressRedis,
		c.DB,
		c.CacheTTL,
		c.Source.Path,
		c.Source.URL,
		c.Table.RowsPerPage,
		c.Table.MaxRowsPerPage,
	)
}
