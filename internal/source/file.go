package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/magabrotheeeer/rewards-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/rewards-aggregator/internal/metrics"
	"github.com/magabrotheeeer/rewards-aggregator/internal/models"
)

// File читает документ с диска при каждом вызове.
type File struct {
	path string
	log  *slog.Logger
}

// NewFile создаёт источник из файла.
func NewFile(path string, log *slog.Logger) *File {
	return &File{path: path, log: log}
}

// Transactions читает и разбирает файл.
func (f *File) Transactions(ctx context.Context) ([]models.Transaction, error) {
	const op = "source.File.Transactions"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	file, err := os.Open(f.path)
	if err != nil {
		metrics.SourceLoads.WithLabelValues("file", metrics.ResultError).Inc()
		f.log.Error("failed to open transactions file", slog.String("op", op), slog.String("path", f.path), sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrFetchFailed, err)
	}
	defer file.Close()

	txs, skipped, err := Decode(file)
	if err != nil {
		metrics.SourceLoads.WithLabelValues("file", metrics.ResultError).Inc()
		f.log.Error("failed to decode transactions file", slog.String("op", op), slog.String("path", f.path), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if skipped > 0 {
		f.log.Warn("skipped malformed records", slog.String("op", op), slog.Int("skipped", skipped))
	}
	metrics.SourceLoads.WithLabelValues("file", metrics.ResultOK).Inc()
	return txs, nil
}

// Key идентифицирует источник в кеше.
func (f *File) Key() string {
	return "file:" + f.path
}
