// Package aggregate строит представления с баллами: транзакции с баллами,
// суммы по клиенту за месяц и суммы по клиенту за всё время.
// Все функции чистые: каждый вызов пересчитывает результат с нуля.
package aggregate

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/magabrotheeeer/rewards-aggregator/internal/lib/filter"
	"github.com/magabrotheeeer/rewards-aggregator/internal/lib/rewards"
	"github.com/magabrotheeeer/rewards-aggregator/internal/models"
)

// Score прикрепляет баллы к каждой транзакции. Возвращает новые значения,
// исходные транзакции не меняются.
func Score(txs []models.Transaction) []models.ScoredTransaction {
	out := make([]models.ScoredTransaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, models.ScoredTransaction{
			Transaction:  tx,
			RewardPoints: rewards.PointsFor(tx.Price),
		})
	}
	return out
}

// ScoreTransactions фильтрует транзакции и прикрепляет к ним баллы.
func ScoreTransactions(txs []models.Transaction, criteria models.Filter) []models.ScoredTransaction {
	return Score(filter.Transactions(txs, criteria))
}

type monthKey struct {
	customerID models.ID
	year       int
	month      int
}

// MonthlyRewards суммирует баллы по (клиент, год, месяц). Транзакции с
// неразбираемой датой молча пропускаются, см. Undated.
// Порядок: customerId, год, месяц по календарю.
func MonthlyRewards(txs []models.Transaction, criteria models.Filter) []models.MonthlyRewardRecord {
	scored := ScoreTransactions(txs, criteria)

	index := make(map[monthKey]int, len(scored))
	out := make([]models.MonthlyRewardRecord, 0, len(scored))
	for _, tx := range scored {
		purchased, ok := tx.PurchasedAt()
		if !ok {
			continue
		}
		key := monthKey{customerID: tx.CustomerID, year: purchased.Year(), month: int(purchased.Month())}
		if i, ok := index[key]; ok {
			out[i].RewardPoints = addPoints(out[i].RewardPoints, tx.RewardPoints)
			continue
		}
		index[key] = len(out)
		out = append(out, models.MonthlyRewardRecord{
			CustomerID:   tx.CustomerID,
			CustomerName: tx.CustomerName,
			Year:         key.year,
			Month:        key.month,
			MonthName:    models.MonthName(key.month),
			RewardPoints: tx.RewardPoints,
		})
	}

	slices.SortStableFunc(out, func(a, b models.MonthlyRewardRecord) int {
		if c := a.CustomerID.Compare(b.CustomerID); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Year, b.Year); c != 0 {
			return c
		}
		return cmp.Compare(a.Month, b.Month)
	})
	return out
}

// TotalRewards суммирует баллы по customerId. Клиенты с одинаковым именем,
// но разными идентификаторами остаются разными строками.
// Порядок: имя клиента (с учётом регистра), затем customerId.
func TotalRewards(txs []models.Transaction, criteria models.Filter) []models.TotalRewardRecord {
	scored := ScoreTransactions(txs, criteria)

	index := make(map[models.ID]int, len(scored))
	out := make([]models.TotalRewardRecord, 0, len(scored))
	for _, tx := range scored {
		if i, ok := index[tx.CustomerID]; ok {
			out[i].RewardPoints = addPoints(out[i].RewardPoints, tx.RewardPoints)
			continue
		}
		index[tx.CustomerID] = len(out)
		out = append(out, models.TotalRewardRecord{
			CustomerID:   tx.CustomerID,
			CustomerName: tx.CustomerName,
			RewardPoints: tx.RewardPoints,
		})
	}

	slices.SortStableFunc(out, func(a, b models.TotalRewardRecord) int {
		if c := strings.Compare(a.CustomerName, b.CustomerName); c != 0 {
			return c
		}
		return a.CustomerID.Compare(b.CustomerID)
	})
	return out
}

// Undated возвращает отфильтрованные транзакции, которые MonthlyRewards
// пропустит из-за неразбираемой даты. Нужен вызывающему коду для логов.
func Undated(txs []models.Transaction, criteria models.Filter) []models.Transaction {
	var out []models.Transaction
	for _, tx := range filter.Transactions(txs, criteria) {
		if _, ok := tx.PurchasedAt(); !ok {
			out = append(out, tx)
		}
	}
	return out
}

func addPoints(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
