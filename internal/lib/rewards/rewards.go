// Package rewards считает баллы лояльности за покупку.
//
// Схема начисления:
//   - цена округляется вниз до целых долларов;
//   - до 50 включительно баллов нет;
//   - за каждый доллар от 50 до 100 — 1 балл;
//   - за каждый доллар свыше 100 — 2 балла.
package rewards

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/rewards-aggregator/internal/models"
)

var (
	lowerThreshold = decimal.NewFromInt(50)
	upperThreshold = decimal.NewFromInt(100)
	two            = decimal.NewFromInt(2)
	maxPoints      = decimal.NewFromInt(math.MaxInt64)
)

// CalculateRewardPoints возвращает баллы за цену. Результат никогда не бывает
// отрицательным; очень большие цены упираются в math.MaxInt64.
func CalculateRewardPoints(price decimal.Decimal) int64 {
	amount := price.Floor()
	if amount.LessThanOrEqual(lowerThreshold) {
		return 0
	}
	if amount.LessThanOrEqual(upperThreshold) {
		return amount.Sub(lowerThreshold).IntPart()
	}
	points := lowerThreshold.Add(amount.Sub(upperThreshold).Mul(two))
	if points.GreaterThan(maxPoints) {
		return math.MaxInt64
	}
	return points.IntPart()
}

// PointsFor считает баллы за цену транзакции. Нечисловая цена даёт 0.
func PointsFor(price models.Price) int64 {
	if !price.Valid {
		return 0
	}
	return CalculateRewardPoints(price.Amount)
}
