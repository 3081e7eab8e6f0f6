package filter

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/rewards-aggregator/internal/lib/table"
	"github.com/magabrotheeeer/rewards-aggregator/internal/models"
)

// Op — операция колоночного фильтра.
type Op string

const (
	OpIncludes    Op = "includes"    // подстрока без учёта регистра
	OpMonthEquals Op = "monthEquals" // месяц 1-12 из числа или даты
	OpYearEquals  Op = "yearEquals"  // год из числа или даты
)

// Rule описывает, к какому полю строки и как применять значение фильтра.
type Rule struct {
	Field string
	Op    Op
}

// Predicate проверяет одну строку.
type Predicate[T table.Row] func(row T) bool

// Build строит предикаты по значениям фильтров. Пустые значения пропускаются,
// неизвестные операции логируются и игнорируются.
func Build[T table.Row](log *slog.Logger, values map[string]string, config map[string]Rule) []Predicate[T] {
	const op = "filter.Build"

	var preds []Predicate[T]
	for key, rule := range config {
		value := strings.TrimSpace(values[key])
		if value == "" {
			continue
		}
		switch rule.Op {
		case OpIncludes:
			needle := strings.ToLower(value)
			preds = append(preds, func(row T) bool {
				v := row.Field(rule.Field)
				if v == nil {
					return false
				}
				return strings.Contains(strings.ToLower(fmt.Sprint(v)), needle)
			})
		case OpMonthEquals:
			preds = append(preds, datePartEquals[T](rule.Field, value, func(t time.Time) int { return int(t.Month()) }))
		case OpYearEquals:
			preds = append(preds, datePartEquals[T](rule.Field, value, func(t time.Time) int { return t.Year() }))
		default:
			if log != nil {
				log.Warn("unknown filter operation", slog.String("op", op), slog.String("filter_op", string(rule.Op)))
			}
		}
	}
	return preds
}

// Rows оставляет строки, прошедшие все предикаты.
func Rows[T table.Row](rows []T, preds []Predicate[T]) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		ok := true
		for _, p := range preds {
			if !p(row) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, row)
		}
	}
	return out
}

func datePartEquals[T table.Row](field, value string, part func(time.Time) int) Predicate[T] {
	want, err := strconv.Atoi(value)
	if err != nil {
		return func(T) bool { return false }
	}
	return func(row T) bool {
		switch v := row.Field(field).(type) {
		case int:
			return v == want
		case int64:
			return v == int64(want)
		case string:
			t, ok := models.ParseDate(v)
			return ok && part(t) == want
		case time.Time:
			return part(v) == want
		}
		return false
	}
}
