// Package source загружает список транзакций из JSON-документа вида
// {"transactions": [...]} — из файла, по HTTP или из кеша redis.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/magabrotheeeer/rewards-aggregator/internal/metrics"
	"github.com/magabrotheeeer/rewards-aggregator/internal/models"
)

var (
	// ErrFetchFailed возвращается, когда источник ответил неуспешно.
	ErrFetchFailed = errors.New("failed to fetch transactions")
	// ErrMalformedDocument возвращается, когда документ не содержит массива transactions.
	ErrMalformedDocument = errors.New("malformed transactions document")
)

// Source отдаёт уже загруженный в память список транзакций.
type Source interface {
	Transactions(ctx context.Context) ([]models.Transaction, error)
}

type document struct {
	Transactions *[]json.RawMessage `json:"transactions"`
}

// Decode разбирает документ. Записи, которые не являются JSON-объектами,
// пропускаются и учитываются в skipped; кривые поля внутри записи ошибкой не считаются.
func Decode(r io.Reader) (txs []models.Transaction, skipped int, err error) {
	const op = "source.Decode"

	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, 0, fmt.Errorf("%s: %w: %w", op, ErrMalformedDocument, err)
	}
	if doc.Transactions == nil {
		return nil, 0, fmt.Errorf("%s: %w: missing transactions array", op, ErrMalformedDocument)
	}

	txs = make([]models.Transaction, 0, len(*doc.Transactions))
	for _, raw := range *doc.Transactions {
		var tx models.Transaction
		if err := json.Unmarshal(raw, &tx); err != nil {
			skipped++
			continue
		}
		txs = append(txs, tx)
	}
	if skipped > 0 {
		metrics.MalformedRecords.Add(float64(skipped))
	}
	return txs, skipped, nil
}
