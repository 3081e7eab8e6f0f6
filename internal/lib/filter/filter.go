// Package filter отбирает транзакции по критериям пользователя и строки
// таблиц по колоночным фильтрам.
package filter

import (
	"slices"
	"strings"

	"github.com/magabrotheeeer/rewards-aggregator/internal/models"
)

// Transactions возвращает транзакции, подходящие под все заданные критерии,
// в исходном порядке. Входной срез не меняется.
//
// Транзакция с неразбираемой датой отбрасывается, только если задана хотя бы
// одна граница периода. Граница, которая сама не разбирается, игнорируется.
func Transactions(txs []models.Transaction, criteria models.Filter) []models.Transaction {
	if criteria.IsEmpty() {
		return slices.Clone(txs)
	}

	name := strings.ToLower(criteria.CustomerName)
	from, to := criteria.Bounds()

	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if name != "" && !strings.Contains(strings.ToLower(tx.CustomerName), name) {
			continue
		}
		if from != nil || to != nil {
			purchased, ok := tx.PurchasedAt()
			if !ok {
				continue
			}
			if from != nil && purchased.Before(*from) {
				continue
			}
			if to != nil && purchased.After(*to) {
				continue
			}
		}
		out = append(out, tx)
	}
	return out
}
