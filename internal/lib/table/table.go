// Package table сортирует и постранично нарезает строки любых представлений.
// Ничего не хранит: состояние таблицы передаётся в каждый вызов.
package table

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/rewards-aggregator/internal/models"
)

// Row — строка таблицы, отдающая значение колонки по имени.
type Row interface {
	Field(column string) any
}

// SortRows возвращает отсортированную копию строк. Сортировка стабильная,
// desc получается инверсией сравнения asc.
func SortRows[T Row](rows []T, spec models.SortSpec) []T {
	out := slices.Clone(rows)
	if out == nil {
		out = []T{}
	}
	if spec.Column == "" {
		return out
	}
	sign := 1
	if spec.Order == models.OrderDesc {
		sign = -1
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return sign * Compare(a.Field(spec.Column), b.Field(spec.Column))
	})
	return out
}

// PaginateRows возвращает строки страницы page. Страница вне диапазона,
// отрицательный номер или rowsPerPage <= 0 дают пустой срез.
func PaginateRows[T any](rows []T, page, rowsPerPage int) []T {
	if page < 0 || rowsPerPage <= 0 {
		return []T{}
	}
	start := page * rowsPerPage
	if start/rowsPerPage != page || start >= len(rows) {
		return []T{}
	}
	end := min(start+rowsPerPage, len(rows))
	return slices.Clone(rows[start:end])
}

// Paginate сортирует строки и возвращает запрошенную страницу с общим количеством.
func Paginate[T Row](rows []T, sort models.SortSpec, page models.PageSpec) models.Page[T] {
	sorted := SortRows(rows, sort)
	return models.Page[T]{
		Count:       len(sorted),
		Page:        page.Page,
		RowsPerPage: page.RowsPerPage,
		Rows:        PaginateRows(sorted, page.Page, page.RowsPerPage),
	}
}

// Toggle возвращает новое состояние сортировки после клика по колонке:
// повторный клик по той же колонке в asc переключает на desc, иначе asc.
func Toggle(prev models.SortSpec, column string) models.SortSpec {
	if prev.Column == column && prev.Order == models.OrderAsc {
		return models.SortSpec{Column: column, Order: models.OrderDesc}
	}
	return models.SortSpec{Column: column, Order: models.OrderAsc}
}

// Compare сравнивает два значения колонки. Порядок полный: сначала значения
// раскладываются по видам (числа, даты, строки, всё остальное включая nil),
// виды идут именно в этом порядке, внутри вида сравнение естественное:
//   - числа — численно;
//   - даты (time.Time или строка, разбираемая как дата) — по моменту времени;
//   - строки — после обрезки пробелов и без учёта регистра;
//   - nil и неизвестные типы равны между собой и стоят в конце при asc.
func Compare(a, b any) int {
	ka, kb := classify(a), classify(b)
	if ka.kind != kb.kind {
		return cmp.Compare(ka.kind, kb.kind)
	}
	switch ka.kind {
	case kindNumber:
		return ka.num.Cmp(kb.num)
	case kindTime:
		return ka.time.Compare(kb.time)
	case kindText:
		return strings.Compare(ka.text, kb.text)
	}
	return 0
}

const (
	kindNumber = iota
	kindTime
	kindText
	kindOther
)

type sortKey struct {
	kind int
	num  decimal.Decimal
	time time.Time
	text string
}

func classify(v any) sortKey {
	if n, ok := asNumber(v); ok {
		return sortKey{kind: kindNumber, num: n}
	}
	if t, ok := asTime(v); ok {
		return sortKey{kind: kindTime, time: t}
	}
	if s, ok := v.(string); ok {
		return sortKey{kind: kindText, text: strings.ToLower(strings.TrimSpace(s))}
	}
	return sortKey{kind: kindOther}
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		return models.ParseDate(t)
	}
	return time.Time{}, false
}

func asNumber(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(n), true
	}
	return decimal.Zero, false
}
