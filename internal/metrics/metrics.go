// Package metrics объявляет метрики Prometheus сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rewards"

var (
	// ViewRequests считает запросы к представлениям: transactions, monthly, total.
	ViewRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "view_requests_total",
		Help:      "Number of computed views by view name.",
	}, []string{"view"})

	// UndatedSkipped считает транзакции, пропущенные при помесячной агрегации.
	UndatedSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "undated_transactions_skipped_total",
		Help:      "Transactions dropped from monthly aggregation because of an unparsable purchase date.",
	})

	// SourceLoads считает загрузки транзакций по источнику и результату.
	SourceLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_loads_total",
		Help:      "Transaction source loads by origin and result.",
	}, []string{"origin", "result"})

	// MalformedRecords считает записи источника, которые не являются объектами.
	MalformedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "malformed_records_total",
		Help:      "Records in the transaction document that could not be decoded.",
	})
)

// Результаты загрузки источника.
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultCacheHit = "cache_hit"
)
